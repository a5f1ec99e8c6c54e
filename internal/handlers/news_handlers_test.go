package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/mykafka"
	"github.com/tmsiti/tmsiti-backend/internal/upload"
)

func newNewsEnv(t *testing.T) *NewsHandler {
	db := initTestDB(t)
	return &NewsHandler{
		DB:       db,
		Producer: &mykafka.Producer{},
		Uploads:  &upload.Validator{MaxSize: 10 << 20, Dir: t.TempDir()},
	}
}

func seedNews(t *testing.T, h *NewsHandler, titleUz, titleRu string, featured bool) *models.News {
	t.Helper()
	item := &models.News{
		TitleUz:     titleUz,
		TitleRu:     titleRu,
		TitleEn:     titleUz + " (en)",
		ContentUz:   "matn",
		ContentRu:   "текст",
		ContentEn:   "text",
		IsActive:    true,
		IsFeatured:  featured,
		PublishedAt: time.Now(),
	}
	require.NoError(t, h.DB.Create(item).Error)
	return item
}

func TestCreateNews(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/news", map[string]any{
		"title_uz":   "Yangilik",
		"title_ru":   "Новость",
		"title_en":   "News item",
		"content_uz": "matn",
		"content_ru": "текст",
		"content_en": "text",
	})
	require.NoError(t, h.CreateNews(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.News
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.PublishedAt.IsZero())
}

func TestListNews_Localized(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	seedNews(t, h, "Birinchi", "Первая", false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("lang", i18n.Ru)

	require.NoError(t, h.ListNews(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []newsView     `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Первая", resp.Data[0].Title)
	assert.Equal(t, "текст", resp.Data[0].Content)
	assert.EqualValues(t, 1, resp.Meta["total"])
}

func TestListNews_FallbackWhenTranslationMissing(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	seedNews(t, h, "Faqat o'zbekcha", "", false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("lang", i18n.Ru)

	require.NoError(t, h.ListNews(c))

	var resp struct {
		Data []newsView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Faqat o'zbekcha", resp.Data[0].Title)
}

func TestListNews_FeaturedFilter(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	seedNews(t, h, "Oddiy", "Обычная", false)
	featured := seedNews(t, h, "Asosiy", "Главная", true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news?featured=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListNews(c))

	var resp struct {
		Data []newsView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, featured.ID, resp.Data[0].ID)
}

func TestGetNews_NotFound(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.GetNews(c)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestUpdateNews_PreservesImagePath(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	item := seedNews(t, h, "Eski sarlavha", "Старый заголовок", false)
	require.NoError(t, h.DB.Model(item).Update("image_path", "static/news/pic.png").Error)

	_, c := doJSONRequest(t, e, http.MethodPut, "/", map[string]any{
		"title_uz":   "Yangi sarlavha",
		"title_ru":   "Новый заголовок",
		"title_en":   "New title",
		"content_uz": "matn",
		"content_ru": "текст",
		"content_en": "text",
	})
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))

	require.NoError(t, h.UpdateNews(c))

	var updated models.News
	require.NoError(t, h.DB.First(&updated, item.ID).Error)
	assert.Equal(t, "Yangi sarlavha", updated.TitleUz)
	assert.Equal(t, "static/news/pic.png", updated.ImagePath)
}

// A PUT that only touches some fields must not reset the ones it omits;
// in particular a title-only body must not unpublish the article.
func TestUpdateNews_PartialBodyKeepsFlags(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	item := seedNews(t, h, "Asosiy yangilik", "Главная новость", true)

	_, c := doJSONRequest(t, e, http.MethodPut, "/", map[string]any{
		"title_uz": "Yangilangan sarlavha",
	})
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))

	require.NoError(t, h.UpdateNews(c))

	var stored models.News
	require.NoError(t, h.DB.First(&stored, item.ID).Error)
	assert.Equal(t, "Yangilangan sarlavha", stored.TitleUz)
	assert.Equal(t, "Главная новость", stored.TitleRu)
	assert.Equal(t, "matn", stored.ContentUz)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.IsFeatured)
	assert.WithinDuration(t, item.PublishedAt, stored.PublishedAt, time.Second)

	// the article is still publicly visible after the partial update
	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	getCtx := e.NewContext(getReq, httptest.NewRecorder())
	getCtx.SetParamNames("id")
	getCtx.SetParamValues(strconv.Itoa(int(item.ID)))
	require.NoError(t, h.GetNews(getCtx))
}

func TestUpdateAnnouncement_PartialBodyStaysActive(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	item := &models.Announcement{
		TitleUz:     "E'lon",
		TitleRu:     "Объявление",
		TitleEn:     "Announcement",
		ContentUz:   "matn",
		ContentRu:   "текст",
		ContentEn:   "text",
		IsActive:    true,
		PublishedAt: time.Now(),
	}
	require.NoError(t, h.DB.Create(item).Error)

	_, c := doJSONRequest(t, e, http.MethodPut, "/", map[string]any{
		"content_en": "updated text",
	})
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))

	require.NoError(t, h.UpdateAnnouncement(c))

	var stored models.Announcement
	require.NoError(t, h.DB.First(&stored, item.ID).Error)
	assert.Equal(t, "updated text", stored.ContentEn)
	assert.Equal(t, "E'lon", stored.TitleUz)
	assert.True(t, stored.IsActive)
}

func TestDeleteNews_HidesFromPublicList(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	item := seedNews(t, h, "O'chiriladigan", "Удаляемая", false)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))

	require.NoError(t, h.DeleteNews(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// the row stays, only deactivated
	var stored models.News
	require.NoError(t, h.DB.First(&stored, item.ID).Error)
	assert.False(t, stored.IsActive)

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	listRec := httptest.NewRecorder()
	require.NoError(t, h.ListNews(e.NewContext(listReq, listRec)))

	var resp struct {
		Data []newsView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)

	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	getCtx := e.NewContext(getReq, httptest.NewRecorder())
	getCtx.SetParamNames("id")
	getCtx.SetParamValues(strconv.Itoa(int(item.ID)))
	err := h.GetNews(getCtx)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func multipartFileRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadNewsImage(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	item := seedNews(t, h, "Rasmli", "С картинкой", false)

	req := multipartFileRequest(t, "photo.png", pngMagic)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))

	require.NoError(t, h.UploadNewsImage(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.News
	require.NoError(t, h.DB.First(&stored, item.ID).Error)
	require.NotEmpty(t, stored.ImagePath)
	assert.Equal(t, ".png", filepath.Ext(stored.ImagePath))

	_, err := os.Stat(stored.ImagePath)
	assert.NoError(t, err)
}

func TestUploadNewsImage_RejectsDocument(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	item := seedNews(t, h, "Rasmli", "С картинкой", false)

	req := multipartFileRequest(t, "doc.pdf", []byte("%PDF-1.4 not an image"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))

	err := h.UploadNewsImage(c)
	require.Error(t, err)
	assert.Equal(t, apperr.UnsupportedType, apperr.KindOf(err))
}

func TestAnnouncements_CRUD(t *testing.T) {
	h := newNewsEnv(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/announcements", map[string]any{
		"title_uz":   "E'lon",
		"title_ru":   "Объявление",
		"title_en":   "Announcement",
		"content_uz": "matn",
		"content_ru": "текст",
		"content_en": "text",
	})
	require.NoError(t, h.CreateAnnouncement(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Announcement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/announcements", nil)
	listRec := httptest.NewRecorder()
	listCtx := e.NewContext(listReq, listRec)
	listCtx.Set("lang", i18n.En)
	require.NoError(t, h.ListAnnouncements(listCtx))
	assert.Contains(t, listRec.Body.String(), "Announcement")

	delReq := httptest.NewRequest(http.MethodDelete, "/", nil)
	delCtx := e.NewContext(delReq, httptest.NewRecorder())
	delCtx.SetParamNames("id")
	delCtx.SetParamValues(strconv.Itoa(int(created.ID)))
	require.NoError(t, h.DeleteAnnouncement(delCtx))

	again := httptest.NewRequest(http.MethodGet, "/api/v1/announcements", nil)
	againRec := httptest.NewRecorder()
	require.NoError(t, h.ListAnnouncements(e.NewContext(again, againRec)))
	assert.NotContains(t, againRec.Body.String(), "E'lon")
}
