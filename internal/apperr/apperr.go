// Package apperr defines the request-level error taxonomy. Every failure
// that crosses the handler boundary is tagged with a stable kind code that
// the HTTP error handler translates to a status and a localized message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidCredentials Kind = "invalid_credentials"
	ExpiredToken       Kind = "expired_token"
	MalformedToken     Kind = "malformed_token"
	WrongTokenType     Kind = "wrong_token_type"
	UnknownSubject     Kind = "unknown_subject"
	InsufficientRole   Kind = "insufficient_role"
	FileTooLarge       Kind = "file_too_large"
	UnsupportedType    Kind = "unsupported_type"
	DuplicateUser      Kind = "duplicate_user"
	DuplicateCode      Kind = "duplicate_code"
	NotFound           Kind = "not_found"
	MethodNotAllowed   Kind = "method_not_allowed"
	Internal           Kind = "internal"
)

var statuses = map[Kind]int{
	InvalidCredentials: http.StatusUnauthorized,
	ExpiredToken:       http.StatusUnauthorized,
	MalformedToken:     http.StatusUnauthorized,
	WrongTokenType:     http.StatusUnauthorized,
	UnknownSubject:     http.StatusUnauthorized,
	InsufficientRole:   http.StatusForbidden,
	FileTooLarge:       http.StatusRequestEntityTooLarge,
	UnsupportedType:    http.StatusUnsupportedMediaType,
	DuplicateUser:      http.StatusConflict,
	DuplicateCode:      http.StatusConflict,
	NotFound:           http.StatusNotFound,
	MethodNotAllowed:   http.StatusMethodNotAllowed,
	Internal:           http.StatusInternalServerError,
}

type Error struct {
	Kind Kind
	err  error
}

func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// KindOf reports the kind attached to err, or Internal for untagged errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

func StatusOf(kind Kind) int {
	if s, ok := statuses[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
