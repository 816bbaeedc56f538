package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/i18n"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

type ProfileHandler struct {
	*Base
}

func NewProfileHandler(base *Base) *ProfileHandler {
	return &ProfileHandler{Base: base}
}

type profilePage struct {
	User          *entity.User
	Error         string
	PasswordError string
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.renderProfile(w, r, rq.User, http.StatusOK, profilePage{User: rq.User})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if rq.User == nil {
		h.renderError(w, r, http.StatusBadGateway, nil, "profile_unavailable")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, rq.User, "error_generic")
		return
	}

	next := *rq.User
	next.FullName = strings.TrimSpace(r.PostForm.Get("full_name"))
	next.Email = strings.TrimSpace(r.PostForm.Get("email"))

	if err := rq.Session.UpdateUser(r.Context(), next); err != nil {
		if errors.Is(err, usecase.ErrNotAuthenticated) {
			h.expire(w, r, rq.Token)
			return
		}
		logger.LogErrorWithUser(rq.username(), err, "profile update failed")
		h.renderProfile(w, r, rq.User, statusFor(err), profilePage{User: &next, Error: errorMessage(r, err)})
		return
	}

	rq.Workspace.SetUser(rq.Session.User())
	setFlash(w, "success", "profile_saved")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, rq.User, "error_generic")
		return
	}

	res := rq.Session.ChangePassword(r.Context(), r.PostForm.Get("old_password"), r.PostForm.Get("new_password"))
	if res.Success {
		setFlash(w, "success", "password_changed")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	if res.Code == usecase.ErrNotAuthenticated.Code {
		h.expire(w, r, rq.Token)
		return
	}

	msg := res.Message
	if msg == "" {
		code := res.Code
		if code == "" {
			code = "password_change_failed"
		}
		msg = i18n.T(view.LangFromContext(r.Context()), code)
	}
	status := http.StatusUnprocessableEntity
	if res.Code == "network_error" {
		status = http.StatusBadGateway
	}
	h.renderProfile(w, r, rq.User, status, profilePage{User: rq.User, PasswordError: msg})
}

func (h *ProfileHandler) renderProfile(w http.ResponseWriter, r *http.Request, user *entity.User, status int, page profilePage) {
	h.render(w, r, status, "profile", view.Page{
		Title: "profile_title",
		Nav:   "profile",
		User:  user,
		Data:  page,
	})
}
