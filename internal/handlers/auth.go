package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/hash"
	"github.com/tmsiti/tmsiti-backend/internal/middleware/auth"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/mykafka"
	"github.com/tmsiti/tmsiti-backend/internal/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *token.Service
	Producer *mykafka.Producer
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}

	var existing models.User
	err := h.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		return apperr.New(apperr.DuplicateUser)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.Internal, err)
	}

	digest, err := hash.HashPassword(req.Password)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		PasswordHash: digest,
		Role:         auth.RoleUser,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, user)
}

// Login accepts the username field as either a username or an email.
// Inactive users get the same answer as bad credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	err := h.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.InvalidCredentials)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return apperr.New(apperr.InvalidCredentials)
	}
	if !user.IsActive {
		return apperr.New(apperr.InvalidCredentials)
	}

	accessToken, err := h.Tokens.IssueAccess(&user)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	refreshToken, err := h.Tokens.IssueRefresh(&user)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	now := time.Now()
	if err := h.DB.Model(&user).Update("last_login", now).Error; err != nil {
		c.Logger().Errorf("last_login update error: %v", err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, tokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

// Refresh exchanges a refresh token for a new pair. The subject is re-read
// so a deactivated user cannot refresh even with time left on the token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	claims, err := h.Tokens.Verify(req.RefreshToken, token.TypeRefresh)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.UnknownSubject)
		}
		return apperr.Wrap(apperr.Internal, err)
	}
	if !user.IsActive {
		return apperr.New(apperr.UnknownSubject)
	}

	accessToken, err := h.Tokens.IssueAccess(&user)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	refreshToken, err := h.Tokens.IssueRefresh(&user)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	return c.JSON(http.StatusOK, tokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

// Logout is stateless: there is no server-side revocation list, the client
// just discards its tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperr.New(apperr.MalformedToken)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
