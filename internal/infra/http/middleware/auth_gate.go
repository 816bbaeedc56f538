package middleware

import (
	"net/http"
	"strings"

	"github.com/xavierca1/plouf-crm/internal/infra/session"
)

// authPages are reachable without a token and bounce signed-in users home.
var authPages = []string{"/signin", "/signup"}

// internalPrefixes are served to everyone.
var internalPrefixes = []string{"/static/", "/healthz", "/metrics"}

func isAuthPage(path string) bool {
	for _, p := range authPages {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// IsPublic reports whether path skips the token check: sign-in and sign-up
// pages, anything that looks like a file, and internal endpoints.
func IsPublic(path string) bool {
	if isAuthPage(path) || strings.Contains(path, ".") {
		return true
	}
	for _, p := range internalPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthGate runs before any page is rendered. Protected paths without a token
// go to /signin (JSON clients get 401); auth pages with a token go to /.
func AuthGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasToken := session.TokenFromRequest(r)
		path := r.URL.Path

		if hasToken && isAuthPage(path) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !hasToken && !IsPublic(path) {
			if WantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WantsJSON is true for clients that accept JSON but not HTML.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
