package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/util"
)

type ContactHandler struct {
	DB *gorm.DB
}

// Submit is the public contact form endpoint.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Subject  string `json:"subject"`
		Message  string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.FullName == "" || req.Email == "" || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name, email and message are required")
	}

	msg := models.Contact{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ContactHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Contact{})
	if unread := c.QueryParam("unread"); unread == "true" {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.Contact
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.ListMeta(page, limit, total),
	})
}

// Get returns one message and marks it read.
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var msg models.Contact
	if err := h.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	if !msg.IsRead {
		if err := h.DB.Model(&msg).Update("is_read", true).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err)
		}
		msg.IsRead = true
	}
	return c.JSON(http.StatusOK, msg)
}

func (h *ContactHandler) Respond(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var req struct {
		Response string `json:"response"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Response == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "response is required")
	}

	var msg models.Contact
	if err := h.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"admin_response": req.Response,
		"is_read":        true,
		"is_replied":     true,
		"responded_at":   now,
	}
	if err := h.DB.Model(&msg).Updates(updates).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	msg.AdminResponse = req.Response
	msg.IsRead = true
	msg.IsReplied = true
	msg.RespondedAt = &now
	return c.JSON(http.StatusOK, msg)
}
