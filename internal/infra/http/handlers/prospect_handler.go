package handlers

import (
	"errors"
	"net/http"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/http/middleware"
	"github.com/xavierca1/plouf-crm/internal/infra/i18n"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

type ProspectHandler struct {
	*Base
}

func NewProspectHandler(base *Base) *ProspectHandler {
	return &ProspectHandler{Base: base}
}

type prospectPage struct {
	State   string
	Contact *entity.Contact
	Ticket  string
	Saving  bool
	Fields  []entity.Field
	Values  map[string]string
	Error   string
}

func (h *ProspectHandler) Show(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := rq.Workspace.Queue.Mount(r.Context(), rq.Token); err != nil {
		if h.sessionLost(w, r, rq, err) {
			return
		}
		logger.LogErrorWithUser(rq.username(), err, "prospect load failed")
	}
	h.renderQueue(w, r, rq, http.StatusOK)
}

// Action applies a review button and redirects back to the queue.
func (h *ProspectHandler) Action(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, rq.User, "error_generic")
		return
	}

	action := usecase.ReviewAction(r.PostForm.Get("action"))
	edits := make(map[string]string, len(entity.ReviewFields))
	for _, f := range entity.ReviewFields {
		if _, sent := r.PostForm[f.Key]; sent {
			edits[f.Key] = r.PostForm.Get(f.Key)
		}
	}

	err := rq.Workspace.Queue.Apply(r.Context(), rq.Token, r.PostForm.Get("ticket"), action, edits)
	switch {
	case err == nil:
		middleware.RecordReviewAction(string(action), "saved")
	case errors.Is(err, usecase.ErrStaleCard), errors.Is(err, usecase.ErrSaveInFlight), errors.Is(err, usecase.ErrUnknownAction):
		middleware.RecordReviewAction(string(action), "refused")
		setFlash(w, "warning", usecase.ErrorCode(err))
	case h.sessionLost(w, r, rq, err):
		middleware.RecordReviewAction(string(action), "expired")
		return
	default:
		middleware.RecordReviewAction(string(action), "failed")
		logger.LogErrorWithUser(rq.username(), err, "prospect action failed")
	}
	http.Redirect(w, r, "/prospects", http.StatusSeeOther)
}

func (h *ProspectHandler) Retry(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := rq.Workspace.Queue.Retry(r.Context(), rq.Token); err != nil {
		if h.sessionLost(w, r, rq, err) {
			return
		}
		if errors.Is(err, usecase.ErrSaveInFlight) {
			setFlash(w, "warning", usecase.ErrSaveInFlight.Code)
		}
	}
	http.Redirect(w, r, "/prospects", http.StatusSeeOther)
}

func (h *ProspectHandler) renderQueue(w http.ResponseWriter, r *http.Request, rq *request, status int) {
	v := rq.Workspace.Queue.View()
	page := prospectPage{
		State:   v.State.String(),
		Contact: v.Contact,
		Ticket:  v.Ticket,
		Saving:  v.Saving,
		Fields:  entity.ReviewFields,
		Values:  make(map[string]string, len(entity.ReviewFields)),
	}
	if v.Contact != nil {
		for _, f := range entity.ReviewFields {
			page.Values[f.Key] = v.Contact.Get(f.Key)
		}
	}
	if v.ErrCode != "" {
		page.Error = i18n.T(view.LangFromContext(r.Context()), v.ErrCode)
	}

	h.render(w, r, status, "prospects", view.Page{
		Title: "prospects_title",
		Nav:   "prospects",
		User:  rq.User,
		Data:  page,
	})
}
