// Package auth gates protected routes: bearer-token verification first
// (401 on failure), then the minimum-role check (403). The subject is
// re-read from the store on every request so a deactivated user or a role
// change takes effect before the token expires.
package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/token"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var roleRank = map[string]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// RoleAtLeast reports whether actual satisfies the min role in the
// user < moderator < admin order. Unknown roles never satisfy anything.
func RoleAtLeast(actual, min string) bool {
	a, ok := roleRank[actual]
	if !ok {
		return false
	}
	m, ok := roleRank[min]
	if !ok {
		return false
	}
	return a >= m
}

type Middleware struct {
	DB     *gorm.DB
	Tokens *token.Service
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return apperr.New(apperr.MalformedToken)
		}

		claims, err := m.Tokens.Verify(raw, token.TypeAccess)
		if err != nil {
			return err
		}

		var user models.User
		if err := m.DB.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.UnknownSubject)
			}
			return apperr.Wrap(apperr.Internal, err)
		}
		if !user.IsActive {
			return apperr.New(apperr.UnknownSubject)
		}

		setUserContext(c, &user)
		return next(c)
	}
}

// RequireRole assumes RequireAuth already ran on the route.
func (m *Middleware) RequireRole(min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperr.New(apperr.MalformedToken)
			}
			if !RoleAtLeast(user.Role, min) {
				return apperr.New(apperr.InsufficientRole)
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setUserContext(c echo.Context, user *models.User) {
	c.Set("user", user)
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
}

func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get("user").(*models.User); ok {
		return u
	}
	return nil
}
