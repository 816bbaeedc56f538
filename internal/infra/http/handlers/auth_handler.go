package handlers

import (
	"net/http"
	"strings"

	"github.com/xavierca1/plouf-crm/internal/infra/http/middleware"
	"github.com/xavierca1/plouf-crm/internal/infra/i18n"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
	"github.com/xavierca1/plouf-crm/internal/infra/session"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
)

type AuthHandler struct {
	*Base
	limiter *RateLimiter
}

func NewAuthHandler(base *Base, limiter *RateLimiter) *AuthHandler {
	return &AuthHandler{Base: base, limiter: limiter}
}

type signinPage struct {
	Username string
	Error    string
}

func (h *AuthHandler) SigninForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signin", view.Page{Title: "signin_title", Data: signinPage{}})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	lang := view.LangFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "signin", view.Page{Title: "signin_title", Data: signinPage{Error: i18n.T(lang, "login_failed")}})
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	page := signinPage{Username: username}

	if h.limiter != nil && !h.limiter.Allow(getClientIP(r)) {
		middleware.RecordLogin("rate_limited")
		page.Error = i18n.T(lang, "login_rate_limit")
		h.render(w, r, http.StatusTooManyRequests, "signin", view.Page{Title: "signin_title", Data: page})
		return
	}

	sess := h.session(w, r)
	ok, err := sess.Login(r.Context(), username, password)
	switch {
	case err != nil:
		middleware.RecordLogin("error")
		page.Error = i18n.T(lang, "login_failed")
		h.render(w, r, http.StatusBadGateway, "signin", view.Page{Title: "signin_title", Data: page})
		return
	case !ok:
		middleware.RecordLogin("rejected")
		page.Error = i18n.T(lang, "signin_invalid")
		h.render(w, r, http.StatusUnauthorized, "signin", view.Page{Title: "signin_title", Data: page})
		return
	}

	middleware.RecordLogin("success")
	if token, has := sess.Token(); has {
		h.Workspaces.Get(token).SetUser(sess.User())
	}
	logger.Log.WithField("user", username).Info("signed in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup", view.Page{Title: "signup_title", Data: nil})
}

// Logout always ends on the sign-in page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := session.TokenFromRequest(r); ok {
		h.Workspaces.Drop(token)
	}
	h.session(w, r).Logout()
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}
