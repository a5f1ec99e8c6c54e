package handlers

import (
	"errors"
	"fmt"
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

type buildingRegulationView struct {
	ID             uint   `json:"id"`
	DocumentNumber string `json:"document_number"`
	Designation    string `json:"designation"`
	Name           string `json:"name"`
	DocumentPath   string `json:"document_path,omitempty"`
}

func toBuildingRegulationView(b *models.BuildingRegulation, lang string) buildingRegulationView {
	return buildingRegulationView{
		ID:             b.ID,
		DocumentNumber: b.DocumentNumber,
		Designation:    b.Designation,
		Name:           i18n.Pick(lang, b.NameUz, b.NameRu, b.NameEn),
		DocumentPath:   b.DocumentPath,
	}
}

func (h *RegulationsHandler) ListBuildingRegulations(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.BuildingRegulation{}).Where("is_active = ?", true)
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			fmt.Sprintf("name_%s LIKE ? OR document_number LIKE ?", lang),
			pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.BuildingRegulation
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]buildingRegulationView, len(items))
	for i := range items {
		views[i] = toBuildingRegulationView(&items[i], lang)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *RegulationsHandler) CreateBuildingRegulation(c echo.Context) error {
	var item models.BuildingRegulation
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

func (h *RegulationsHandler) UploadBuildingRegulationDocument(c echo.Context) error {
	var item models.BuildingRegulation
	path, err := h.attachDocument(c, &item, "building-regulations")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "document uploaded",
		"file_path": path,
	})
}

func (h *RegulationsHandler) DeleteBuildingRegulation(c echo.Context) error {
	return h.deactivate(c, &models.BuildingRegulation{})
}

type smetaNormView struct {
	ID             uint   `json:"id"`
	DocumentNumber string `json:"document_number"`
	ShnqNumber     string `json:"shnq_number"`
	ShnqName       string `json:"shnq_name"`
}

func (h *RegulationsHandler) ListSmetaResourceNorms(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.SmetaResourceNorm{}).Where("is_active = ?", true)
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			fmt.Sprintf("shnq_name_%s LIKE ? OR document_number LIKE ?", lang),
			pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.SmetaResourceNorm
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]smetaNormView, len(items))
	for i, n := range items {
		views[i] = smetaNormView{
			ID:             n.ID,
			DocumentNumber: n.DocumentNumber,
			ShnqNumber:     n.ShnqNumber,
			ShnqName:       i18n.Pick(lang, n.ShnqNameUz, n.ShnqNameRu, n.ShnqNameEn),
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *RegulationsHandler) CreateSmetaResourceNorm(c echo.Context) error {
	var item models.SmetaResourceNorm
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

func (h *RegulationsHandler) DeleteSmetaResourceNorm(c echo.Context) error {
	return h.deactivate(c, &models.SmetaResourceNorm{})
}

type referenceView struct {
	ID              uint   `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	Name            string `json:"name"`
	DocumentPath    string `json:"document_path,omitempty"`
}

func (h *RegulationsHandler) ListReferences(c echo.Context) error {
	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Reference{}).Where("is_active = ?", true)
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			fmt.Sprintf("name_%s LIKE ? OR reference_number LIKE ?", lang),
			pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	var items []models.Reference
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err)
	}

	views := make([]referenceView, len(items))
	for i, r := range items {
		views[i] = referenceView{
			ID:              r.ID,
			ReferenceNumber: r.ReferenceNumber,
			Name:            i18n.Pick(lang, r.NameUz, r.NameRu, r.NameEn),
			DocumentPath:    r.DocumentPath,
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": views,
		"meta": util.ListMeta(page, limit, total),
	})
}

func (h *RegulationsHandler) CreateReference(c echo.Context) error {
	var item models.Reference
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

func (h *RegulationsHandler) UploadReferenceDocument(c echo.Context) error {
	var item models.Reference
	path, err := h.attachDocument(c, &item, "references")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "document uploaded",
		"file_path": path,
	})
}

func (h *RegulationsHandler) DeleteReference(c echo.Context) error {
	return h.deactivate(c, &models.Reference{})
}

// attachDocument loads the row by :id into dest, validates and stores the
// uploaded document, then writes the new document_path while cleaning up the
// previous file. dest must be a model with a document_path column.
func (h *RegulationsHandler) attachDocument(c echo.Context, dest interface{}, section string) (string, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := h.DB.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.NotFound)
		}
		return "", apperr.Wrap(apperr.Internal, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	path, err := h.Uploads.Save(fh, section, upload.KindDocument)
	if err != nil {
		return "", err
	}

	var old string
	switch m := dest.(type) {
	case *models.BuildingRegulation:
		old = m.DocumentPath
	case *models.Reference:
		old = m.DocumentPath
	case *models.Standard:
		old = m.DocumentPath
	}

	if err := h.DB.Model(dest).Update("document_path", path).Error; err != nil {
		h.Uploads.Delete(path)
		return "", apperr.Wrap(apperr.Internal, err)
	}
	if old != "" {
		if err := h.Uploads.Delete(old); err != nil {
			c.Logger().Errorf("old document cleanup error: %v", err)
		}
	}
	return path, nil
}
