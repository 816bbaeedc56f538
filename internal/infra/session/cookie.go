package session

import (
	"net/http"
	"time"
)

const (
	CookieName = "auth_token"
	CookieTTL  = 7 * 24 * time.Hour
)

// CookieStore keeps the bearer token of one request/response pair in the
// auth_token cookie. Reads see a token saved earlier in the same request.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	written bool
	token   string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

func (s *CookieStore) Token() (string, bool) {
	if s.written {
		return s.token, s.token != ""
	}
	return TokenFromRequest(s.r)
}

func (s *CookieStore) Save(token string) {
	s.written, s.token = true, token
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CookieTTL.Seconds()),
		Expires:  time.Now().Add(CookieTTL),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) Clear() {
	s.written, s.token = true, ""
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest reads the token cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
