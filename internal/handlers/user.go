package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/hash"
	"github.com/tmsiti/tmsiti-backend/internal/middleware/auth"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/mykafka"
	"github.com/tmsiti/tmsiti-backend/internal/util"
)

type UserHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *UserHandler) Profile(c echo.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperr.New(apperr.MalformedToken)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperr.New(apperr.MalformedToken)
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if req.Username != nil && *req.Username != user.Username {
		if taken, err := h.identityTaken("username", *req.Username); err != nil {
			return err
		} else if taken {
			return apperr.New(apperr.DuplicateUser)
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if taken, err := h.identityTaken("email", *req.Email); err != nil {
			return err
		} else if taken {
			return apperr.New(apperr.DuplicateUser)
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Password != nil && *req.Password != "" {
		digest, err := hash.HashPassword(*req.Password)
		if err != nil {
			return apperr.Wrap(apperr.Internal, err)
		}
		user.PasswordHash = digest
	}

	if err := h.DB.Save(user).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var users []models.User
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": users,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateModerator is admin-only; it is the only way a moderator account
// comes into existence.
func (h *UserHandler) CreateModerator(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
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

	moderator := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: digest,
		Role:         auth.RoleModerator,
		IsActive:     true,
	}
	if err := h.DB.Create(&moderator).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "moderator_created",
		"userID":   moderator.ID,
		"username": moderator.Username,
	})

	return c.JSON(http.StatusCreated, moderator)
}

// SetRole changes an account's role. Only the three known roles are
// accepted; promoting to admin is allowed but there is no self-demotion
// guard, the caller is trusted to not lock themselves out.
func (h *UserHandler) SetRole(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Role != auth.RoleUser && req.Role != auth.RoleModerator && req.Role != auth.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	if err := h.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	user.Role = req.Role

	h.publish(c, map[string]interface{}{
		"type":   "user_role_changed",
		"userID": user.ID,
		"role":   user.Role,
	})

	return c.JSON(http.StatusOK, user)
}

// SetActive deactivates or reactivates an account. Users are never deleted
// physically; authored content keeps its references.
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	if err := h.DB.Model(&user).Update("is_active", req.IsActive).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	user.IsActive = req.IsActive

	h.publish(c, map[string]interface{}{
		"type":     "user_active_changed",
		"userID":   user.ID,
		"isActive": user.IsActive,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) identityTaken(column, value string) (bool, error) {
	var count int64
	if err := h.DB.Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return false, apperr.Wrap(apperr.Internal, err)
	}
	return count > 0, nil
}

func (h *UserHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
