package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/plouf-crm/internal/infra/session"
)

func gateRequest(path string, withToken bool, accept string) *httptest.ResponseRecorder {
	h := AuthGate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withToken {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGateRedirectsAnonymousToSignin(t *testing.T) {
	for _, path := range []string{"/", "/contacts", "/contacts/12", "/prospects", "/profile"} {
		rec := gateRequest(path, false, "text/html")
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/signin", rec.Header().Get("Location"), path)
	}
}

func TestGateAnswersJSONClientsWith401(t *testing.T) {
	rec := gateRequest("/contacts", false, "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestGateLetsPublicPathsThrough(t *testing.T) {
	for _, path := range []string{"/signin", "/signup", "/favicon.ico", "/static/console.css", "/healthz", "/metrics"} {
		rec := gateRequest(path, false, "")
		assert.Equal(t, http.StatusTeapot, rec.Code, path)
	}
}

func TestGateBouncesSignedInUsersFromAuthPages(t *testing.T) {
	for _, path := range []string{"/signin", "/signup"} {
		rec := gateRequest(path, true, "")
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}
	assert.Equal(t, http.StatusTeapot, gateRequest("/contacts", true, "").Code)
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic("/signin"))
	assert.True(t, IsPublic("/signin/reset"))
	assert.False(t, IsPublic("/signinx"))
	assert.True(t, IsPublic("/robots.txt"))
	assert.False(t, IsPublic("/prospects/action"))
}
