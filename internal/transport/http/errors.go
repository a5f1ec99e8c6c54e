package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
)

type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorHandler translates the error taxonomy into {error:{kind,message}}
// with the message localized to the request locale. Untagged errors become
// internal, logged with context but never echoed to the client.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		lang := i18n.FromContext(c)

		// Router-level errors (unknown path, wrong method) and handler-side
		// bad requests arrive as echo.HTTPError.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			info := errorInfo{Kind: "bad_request", Message: fmt.Sprintf("%v", he.Message)}
			switch he.Code {
			case http.StatusNotFound:
				info = errorInfo{Kind: string(apperr.NotFound), Message: i18n.Message(apperr.NotFound, lang)}
			case http.StatusMethodNotAllowed:
				info = errorInfo{Kind: string(apperr.MethodNotAllowed), Message: i18n.Message(apperr.MethodNotAllowed, lang)}
			}
			_ = c.JSON(he.Code, errorBody{Error: info})
			return
		}

		kind := apperr.KindOf(err)
		if kind == apperr.Internal {
			log.Error("request failed",
				"path", c.Path(),
				"method", c.Request().Method,
				"error", err.Error(),
			)
		}

		_ = c.JSON(apperr.StatusOf(kind), errorBody{Error: errorInfo{
			Kind:    string(kind),
			Message: i18n.Message(kind, lang),
		}})
	}
}
