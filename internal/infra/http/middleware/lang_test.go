package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/plouf-crm/internal/infra/view"
)

func detectedLang(req *http.Request) (string, *httptest.ResponseRecorder) {
	var got string
	h := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = view.LangFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, rec
}

func TestLanguageSources(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	lang, _ := detectedLang(req)
	assert.Equal(t, "en", lang)

	req = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	req.Header.Set("Accept-Language", "en")
	lang, rec := detectedLang(req)
	assert.Equal(t, "fr", lang)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "lang=fr")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	lang, _ = detectedLang(req)
	assert.Equal(t, "en", lang)
}
