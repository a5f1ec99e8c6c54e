package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/util"
)

type announcementView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImagePath   string    `json:"image_path,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

func toAnnouncementView(a *models.Announcement, lang string) announcementView {
	return announcementView{
		ID:          a.ID,
		Title:       i18n.Pick(lang, a.TitleUz, a.TitleRu, a.TitleEn),
		Content:     i18n.Pick(lang, a.ContentUz, a.ContentRu, a.ContentEn),
		ImagePath:   a.ImagePath,
		PublishedAt: a.PublishedAt,
	}
}

func (h *NewsHandler) ListAnnouncements(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Announcement{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.Announcement
	if err := q.Order("published_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]announcementView, len(items))
	for i := range items {
		views[i] = toAnnouncementView(&items[i], lang)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *NewsHandler) GetAnnouncement(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.Announcement
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	return c.JSON(http.StatusOK, toAnnouncementView(&item, i18n.FromContext(c)))
}

func (h *NewsHandler) CreateAnnouncement(c echo.Context) error {
	var item models.Announcement
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = 0
	item.IsActive = true
	if item.PublishedAt.IsZero() {
		item.PublishedAt = time.Now()
	}

	if err := h.DB.Create(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *NewsHandler) UpdateAnnouncement(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.Announcement
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	// Partial update, same as UpdateNews: absent body fields keep their
	// stored values.
	imagePath := item.ImagePath
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = uint(id)
	item.ImagePath = imagePath

	if err := h.DB.Save(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *NewsHandler) DeleteAnnouncement(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	result := h.DB.Model(&models.Announcement{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return apperr.Wrap(apperr.Internal, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
