package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/es"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	lang := i18n.FromContext(c)
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := es.SearchNews(c.Request().Context(), h.ES, h.Index, query, lang, offset, limit)
	if err != nil {
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
