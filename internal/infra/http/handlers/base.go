package handlers

import (
	"errors"
	"net/http"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/i18n"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
	"github.com/xavierca1/plouf-crm/internal/infra/session"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

// Base carries what every page handler needs.
type Base struct {
	Views        *view.Renderer
	Auth         usecase.AuthGateway
	Workspaces   *usecase.WorkspaceRegistry
	CookieSecure bool
}

// request is the resolved session of one request.
type request struct {
	Token     string
	Workspace *usecase.Workspace
	Session   *usecase.Session
	User      *entity.User
}

func (b *Base) session(w http.ResponseWriter, r *http.Request) *usecase.Session {
	return usecase.NewSession(b.Auth, session.NewCookieStore(w, r, b.CookieSecure))
}

// resolve loads the workspace and profile behind the request token. It
// answers the request itself and returns false when the session is gone.
func (b *Base) resolve(w http.ResponseWriter, r *http.Request) (*request, bool) {
	sess := b.session(w, r)
	token, ok := sess.Token()
	if !ok {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return nil, false
	}

	ws := b.Workspaces.Get(token)
	sess.Restore(ws.User())
	u, err := sess.Init(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSessionExpired) {
			b.expire(w, r, token)
			return nil, false
		}
		logger.LogError(err, "profile refresh failed")
	}
	if u != nil {
		ws.SetUser(u)
	}

	return &request{Token: token, Workspace: ws, Session: sess, User: u}, true
}

// expire drops everything tied to token and sends the browser to sign in.
func (b *Base) expire(w http.ResponseWriter, r *http.Request, token string) {
	b.Workspaces.Drop(token)
	b.session(w, r).Logout()
	setFlash(w, "error", usecase.ErrSessionExpired.Code)
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) {
	if page.Flash == "" {
		if kind, code, ok := takeFlash(w, r); ok {
			page.FlashKind = kind
			page.Flash = i18n.T(view.LangFromContext(r.Context()), code)
		}
	}
	if err := b.Views.Render(w, r, status, name, page); err != nil {
		logger.LogError(err, "render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (b *Base) renderError(w http.ResponseWriter, r *http.Request, status int, user *entity.User, code string) {
	lang := view.LangFromContext(r.Context())
	b.render(w, r, status, "error", view.Page{
		Title: "error_title",
		User:  user,
		Data:  map[string]string{"Message": i18n.T(lang, code)},
	})
}

// errorMessage localizes a use case error. Backend rejections keep their
// text.
func errorMessage(r *http.Request, err error) string {
	lang := view.LangFromContext(r.Context())

	var de *usecase.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case "update_rejected":
			return i18n.Tf(lang, "update_rejected", de.Message)
		case "profile_rejected":
			if de.Message != "" {
				return de.Message
			}
		}
		return i18n.T(lang, de.Code)
	}

	if code := usecase.ErrorCode(err); code != "" {
		return i18n.T(lang, code)
	}
	return i18n.T(lang, "error_generic")
}

// statusFor maps a use case error to an HTTP status.
func statusFor(err error) int {
	switch {
	case usecase.IsDomainError(err):
		return http.StatusUnprocessableEntity
	case usecase.IsTechnicalError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sessionLost answers the request when err means the backend no longer
// accepts the token.
func (b *Base) sessionLost(w http.ResponseWriter, r *http.Request, rq *request, err error) bool {
	if errors.Is(err, usecase.ErrSessionExpired) || errors.Is(err, usecase.ErrNotAuthenticated) {
		b.expire(w, r, rq.Token)
		return true
	}
	return false
}

func (rq *request) username() string {
	if rq.User == nil {
		return ""
	}
	return rq.User.Username
}
