package middleware

import (
	"net/http"

	"github.com/xavierca1/plouf-crm/internal/infra/i18n"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
)

const langCookie = "lang"

// Language picks the page language: ?lang= (remembered in a cookie), then
// the cookie, then Accept-Language.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     langCookie,
				Value:    q,
				Path:     "/",
				MaxAge:   365 * 24 * 3600,
				SameSite: http.SameSiteLaxMode,
			})
		} else if c, err := r.Cookie(langCookie); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		} else {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(view.WithLang(r.Context(), lang)))
	})
}
