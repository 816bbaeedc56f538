package handlers

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "flash"

// setFlash stores a one-shot message code for the next page.
func setFlash(w http.ResponseWriter, kind, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + ":" + code),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the flash cookie.
func takeFlash(w http.ResponseWriter, r *http.Request) (kind, code string, ok bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return "", "", false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", "", false
	}
	kind, code, ok = strings.Cut(raw, ":")
	return kind, code, ok && code != ""
}
