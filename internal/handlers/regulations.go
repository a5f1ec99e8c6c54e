package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/upload"
	"github.com/tmsiti/tmsiti-backend/internal/util"
)

type RegulationsHandler struct {
	DB      *gorm.DB
	Uploads *upload.Validator
}

type lawView struct {
	ID            uint   `json:"id"`
	OrderNumber   string `json:"order_number"`
	Name          string `json:"name"`
	Authority     string `json:"authority"`
	AdoptionDate  string `json:"adoption_date"`
	EffectiveDate string `json:"effective_date"`
	LexUzLink     string `json:"lex_uz_link,omitempty"`
}

func toLawView(law *models.Law, lang string) lawView {
	return lawView{
		ID:            law.ID,
		OrderNumber:   law.OrderNumber,
		Name:          i18n.Pick(lang, law.NameUz, law.NameRu, law.NameEn),
		Authority:     i18n.Pick(lang, law.AuthorityUz, law.AuthorityRu, law.AuthorityEn),
		AdoptionDate:  law.AdoptionDate.Format("2006-01-02"),
		EffectiveDate: law.EffectiveDate.Format("2006-01-02"),
		LexUzLink:     law.LexUzLink,
	}
}

type normView struct {
	ID           uint   `json:"id"`
	DocumentCode string `json:"document_code"`
	Name         string `json:"name"`
	LexUzLink    string `json:"lex_uz_link,omitempty"`
}

func toNormView(n *models.UrbanNorm, lang string) normView {
	return normView{
		ID:           n.ID,
		DocumentCode: n.DocumentCode,
		Name:         i18n.Pick(lang, n.NameUz, n.NameRu, n.NameEn),
		LexUzLink:    n.LexUzLink,
	}
}

type standardView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`
}

func toStandardView(s *models.Standard, lang string) standardView {
	return standardView{
		ID:           s.ID,
		Name:         i18n.Pick(lang, s.NameUz, s.NameRu, s.NameEn),
		Description:  i18n.Pick(lang, s.DescriptionUz, s.DescriptionRu, s.DescriptionEn),
		DocumentPath: s.DocumentPath,
	}
}

func (h *RegulationsHandler) ListLaws(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Law{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.Law
	if err := q.Order("adoption_date DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]lawView, len(items))
	for i := range items {
		views[i] = toLawView(&items[i], lang)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *RegulationsHandler) GetLaw(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.Law
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, toLawView(&item, i18n.FromContext(c)))
}

func (h *RegulationsHandler) CreateLaw(c echo.Context) error {
	var item models.Law
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = 0
	item.IsActive = true

	if err := h.DB.Create(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *RegulationsHandler) UpdateLaw(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.Law
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}

	// Partial update: absent body fields keep their stored values.
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = uint(id)

	if err := h.DB.Save(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *RegulationsHandler) DeleteLaw(c echo.Context) error {
	return h.deactivate(c, &models.Law{})
}

func (h *RegulationsHandler) ListUrbanNorms(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.UrbanNorm{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.UrbanNorm
	if err := q.Order("document_code ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]normView, len(items))
	for i := range items {
		views[i] = toNormView(&items[i], lang)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *RegulationsHandler) GetUrbanNorm(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.UrbanNorm
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, toNormView(&item, i18n.FromContext(c)))
}

func (h *RegulationsHandler) CreateUrbanNorm(c echo.Context) error {
	var item models.UrbanNorm
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = 0
	item.IsActive = true

	var existing models.UrbanNorm
	err := h.DB.Where("document_code = ?", item.DocumentCode).First(&existing).Error
	if err == nil {
		return apperr.New(apperr.DuplicateCode)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.Internal, err)
	}

	if err := h.DB.Create(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *RegulationsHandler) DeleteUrbanNorm(c echo.Context) error {
	return h.deactivate(c, &models.UrbanNorm{})
}

func (h *RegulationsHandler) ListStandards(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Standard{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.Standard
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]standardView, len(items))
	for i := range items {
		views[i] = toStandardView(&items[i], lang)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *RegulationsHandler) GetStandard(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var item models.Standard
	if err := h.DB.Where("id = ? AND is_active = ?", id, true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound)
		}
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusOK, toStandardView(&item, i18n.FromContext(c)))
}

func (h *RegulationsHandler) CreateStandard(c echo.Context) error {
	var item models.Standard
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	item.ID = 0
	item.IsActive = true

	if err := h.DB.Create(&item).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UploadStandardDocument accepts PDF/Word attachments only.
func (h *RegulationsHandler) UploadStandardDocument(c echo.Context) error {
	var item models.Standard
	path, err := h.attachDocument(c, &item, "standards")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "document uploaded",
		"file_path": path,
	})
}

func (h *RegulationsHandler) DeleteStandard(c echo.Context) error {
	return h.deactivate(c, &models.Standard{})
}

func (h *RegulationsHandler) deactivate(c echo.Context, model interface{}) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	result := h.DB.Model(model).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return apperr.Wrap(apperr.Internal, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
