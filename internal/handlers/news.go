package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/es"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/mykafka"
	"github.com/tmsiti/tmsiti-backend/internal/upload"
	"github.com/tmsiti/tmsiti-backend/internal/util"
)

type NewsHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Uploads  *upload.Validator
	ES       *elasticsearch.Client
	Index    string
}

// newsView is the public, single-language shape. Moderator endpoints work
// with the full trilingual model instead.
type newsView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImagePath   string    `json:"image_path,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	PublishedAt time.Time `json:"published_at"`
}

func toNewsView(n *models.News, lang string) newsView {
	return newsView{
		ID:          n.ID,
		Title:       i18n.Pick(lang, n.TitleUz, n.TitleRu, n.TitleEn),
		Content:     i18n.Pick(lang, n.ContentUz, n.ContentRu, n.ContentEn),
		ImagePath:   n.ImagePath,
		IsFeatured:  n.IsFeatured,
		PublishedAt: n.PublishedAt,
	}
}

func (h *NewsHandler) ListNews(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.News{}).Where("is_active = ?", true)
	if featured := c.QueryParam("featured"); featured != "" {
		q = q.Where("is_featured = ?", featured == "true")
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			fmt.Sprintf("title_%s LIKE ? OR content_%s LIKE ?", lang, lang),
			pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.News
	if err := q.Order("published_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]newsView, len(items))
	for i := range items {
		views[i] = toNewsView(&items[i], lang)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *NewsHandler) GetNews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.News
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	view := toNewsView(&item, i18n.FromContext(c))
	return c.JSON(http.StatusOK, view)
}

func (h *NewsHandler) CreateNews(c echo.Context) error {
	var item models.News
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

	h.mirror(c, &item)
	h.publish(c, map[string]interface{}{
		"type":   "news_created",
		"newsID": item.ID,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *NewsHandler) UpdateNews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.News
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	// Partial update: binding over the loaded row only touches the fields
	// present in the body, so an omitted is_active or is_featured keeps its
	// stored value.
	imagePath := item.ImagePath
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = uint(id)
	item.ImagePath = imagePath

	if err := h.DB.Save(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	h.mirror(c, &item)
	h.publish(c, map[string]interface{}{
		"type":   "news_updated",
		"newsID": item.ID,
	})

	return c.JSON(http.StatusOK, item)
}

// DeleteNews deactivates the row and drops the search document. The row
// itself stays for referential integrity.
func (h *NewsHandler) DeleteNews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	result := h.DB.Model(&models.News{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return apperr.Wrap(apperr.Internal, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound)
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := es.DeleteNews(ctx, h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}

	h.publish(c, map[string]interface{}{
		"type":   "news_deleted",
		"newsID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (h *NewsHandler) UploadNewsImage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.News
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	path, err := h.Uploads.Save(fh, "news", upload.KindImage)
	if err != nil {
		return err
	}

	old := item.ImagePath
	if err := h.DB.Model(&item).Update("image_path", path).Error; err != nil {
		h.Uploads.Delete(path)
		return apperr.Wrap(apperr.Internal, err)
	}
	if old != "" {
		if err := h.Uploads.Delete(old); err != nil {
			c.Logger().Errorf("old image cleanup error: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "image uploaded",
		"file_path": path,
	})
}

func (h *NewsHandler) mirror(c echo.Context, item *models.News) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexNews(ctx, h.ES, h.Index, item); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *NewsHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "content_events", fmt.Sprint(event["newsID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
