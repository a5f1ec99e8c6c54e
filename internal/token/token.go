// Package token issues and verifies the two bearer token kinds: short-lived
// access tokens carrying the role claim and long-lived refresh tokens used
// only to mint new access tokens. Both are HS256-signed with the single
// process-wide secret; rotating the secret invalidates everything outstanding.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/models"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Claims struct {
	UserID    uint
	Role      string
	TokenType string
	ExpiresAt time.Time
}

type Service struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *Service) IssueAccess(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"typ":  TypeAccess,
		"iat":  now.Unix(),
		"exp":  now.Add(s.AccessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}

func (s *Service) IssueRefresh(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"typ": TypeRefresh,
		"iat": now.Unix(),
		"exp": now.Add(s.RefreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}

// Verify checks signature, expiry and the typ discriminator. An access token
// is never accepted where a refresh token is expected, and vice versa.
func (s *Service) Verify(raw, expectedType string) (*Claims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.ExpiredToken, err)
		}
		return nil, apperr.Wrap(apperr.MalformedToken, err)
	}
	if !t.Valid {
		return nil, apperr.New(apperr.MalformedToken)
	}

	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.New(apperr.MalformedToken)
	}

	typ, _ := mc["typ"].(string)
	if typ != expectedType {
		return nil, apperr.New(apperr.WrongTokenType)
	}

	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, apperr.New(apperr.MalformedToken)
	}

	claims := &Claims{
		UserID:    uint(sub),
		TokenType: typ,
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = role
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
