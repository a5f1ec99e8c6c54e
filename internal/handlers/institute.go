package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/models"
)

// InstituteHandler serves the static institute pages (about, management,
// structure and so on), each keyed by slug.
type InstituteHandler struct {
	DB *gorm.DB
}

type pageView struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *InstituteHandler) ListPages(c echo.Context) error {
	lang := i18n.FromContext(c)

	var pages []models.InstitutePage
	if err := h.DB.Order("slug ASC").Find(&pages).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]pageView, len(pages))
	for i, p := range pages {
		views[i] = pageView{
			Slug:    p.Slug,
			Title:   i18n.Pick(lang, p.TitleUz, p.TitleRu, p.TitleEn),
			Content: i18n.Pick(lang, p.ContentUz, p.ContentRu, p.ContentEn),
		}
	}
	return c.JSON(http.StatusOK, views)
}

func (h *InstituteHandler) GetPage(c echo.Context) error {
	slug := c.Param("slug")

	var page models.InstitutePage
	if err := h.DB.Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	lang := i18n.FromContext(c)
	return c.JSON(http.StatusOK, pageView{
		Slug:    page.Slug,
		Title:   i18n.Pick(lang, page.TitleUz, page.TitleRu, page.TitleEn),
		Content: i18n.Pick(lang, page.ContentUz, page.ContentRu, page.ContentEn),
	})
}

// UpsertPage creates the page on first write and replaces the content
// triples afterwards.
func (h *InstituteHandler) UpsertPage(c echo.Context) error {
	slug := c.Param("slug")

	var req models.InstitutePage
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	req.Slug = slug

	var page models.InstitutePage
	err := h.DB.Where("slug = ?", slug).First(&page).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		req.ID = 0
		if err := h.DB.Create(&req).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err)
		}
		return c.JSON(http.StatusCreated, req)
	case err != nil:
		return apperr.Wrap(apperr.Internal, err)
	}

	req.ID = page.ID
	req.CreatedAt = page.CreatedAt
	if err := h.DB.Save(&req).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, req)
}
