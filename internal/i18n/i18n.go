// Package i18n resolves the request locale and selects localized content.
// Resolution order: explicit ?lang query parameter, then the Accept-Language
// header, then the configured default. Unsupported codes fall through to the
// next step instead of erroring.
package i18n

import (
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	Uz = "uz"
	Ru = "ru"
	En = "en"

	contextKey = "lang"
)

var Supported = []string{Uz, Ru, En}

func IsSupported(lang string) bool {
	for _, l := range Supported {
		if l == lang {
			return true
		}
	}
	return false
}

// Resolve picks the locale for a single request.
func Resolve(queryParam, acceptLanguage, fallback string) string {
	if IsSupported(queryParam) {
		return queryParam
	}
	if lang := matchAcceptLanguage(acceptLanguage); lang != "" {
		return lang
	}
	return fallback
}

type weighted struct {
	lang string
	q    float64
}

// matchAcceptLanguage returns the highest-q supported language from an
// Accept-Language header, stripping region subtags (en-US -> en).
func matchAcceptLanguage(header string) string {
	var langs []weighted
	for _, tag := range strings.Split(header, ",") {
		lang := tag
		q := 1.0
		if i := strings.Index(tag, ";"); i >= 0 {
			lang = tag[:i]
			if j := strings.Index(tag[i:], "="); j >= 0 {
				if v, err := strconv.ParseFloat(strings.TrimSpace(tag[i+j+1:]), 64); err == nil {
					q = v
				}
			}
		}
		lang = strings.ToLower(strings.TrimSpace(lang))
		if i := strings.Index(lang, "-"); i >= 0 {
			lang = lang[:i]
		}
		if IsSupported(lang) {
			langs = append(langs, weighted{lang, q})
		}
	}
	if len(langs) == 0 {
		return ""
	}
	sort.SliceStable(langs, func(i, j int) bool { return langs[i].q > langs[j].q })
	return langs[0].lang
}

// Middleware stores the resolved locale on the request context and echoes
// it back in the Content-Language header.
func Middleware(defaultLang string) echo.MiddlewareFunc {
	if !IsSupported(defaultLang) {
		defaultLang = Uz
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := Resolve(c.QueryParam("lang"), c.Request().Header.Get("Accept-Language"), defaultLang)
			c.Set(contextKey, lang)
			c.Response().Header().Set("Content-Language", lang)
			return next(c)
		}
	}
}

// FromContext returns the locale set by Middleware, defaulting to uz.
func FromContext(c echo.Context) string {
	if lang, ok := c.Get(contextKey).(string); ok && IsSupported(lang) {
		return lang
	}
	return Uz
}

// Pick selects the field value for lang, falling back to the other supported
// languages when the requested one is empty.
func Pick(lang, uz, ru, en string) string {
	byLang := map[string]string{Uz: uz, Ru: ru, En: en}
	if v := byLang[lang]; v != "" {
		return v
	}
	for _, l := range Supported {
		if v := byLang[l]; v != "" {
			return v
		}
	}
	return ""
}
