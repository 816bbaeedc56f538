package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

type ContactHandler struct {
	*Base
}

func NewContactHandler(base *Base) *ContactHandler {
	return &ContactHandler{Base: base}
}

// column is one header of the contact table. An empty Key is not sortable.
type column struct {
	Key   string
	Label string
}

var contactColumns = []column{
	{entity.KeyLastName, "col_name"},
	{entity.KeyCompany, "col_company"},
	{entity.KeyEmail, "col_email"},
	{entity.KeyPhone, "col_phone"},
	{entity.KeyStatus, "col_status"},
	{entity.KeyCommercial, "col_commercial"},
	{entity.KeyFollowUpDate, "col_follow_up"},
	{entity.KeyLastContactDate, "col_last_contact"},
	{entity.KeyOrigin, "col_origin"},
}

type columnView struct {
	Label   string
	SortURL string
	Active  bool
	Order   string
}

type contactRow struct {
	Contact entity.Contact
	EditURL string
}

type contactsPage struct {
	State       usecase.ListState
	Rows        []contactRow
	Columns     []columnView
	Origins     []string
	Commercials []string
	Pager       usecase.Pager
	PrevURL     string
	NextURL     string
	Error       string
}

type editPage struct {
	Form    usecase.EditorForm
	Fields  []entity.Field
	Action  string
	BackURL string
	Error   string
}

func listURL(s usecase.ListState) string {
	if q := s.Encode(); q != "" {
		return "/contacts?" + q
	}
	return "/contacts"
}

func editURL(id int64, s usecase.ListState) string {
	u := fmt.Sprintf("/contacts/%d/edit", id)
	if q := s.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	list := rq.Workspace.List
	state := usecase.ListStateFromQuery(r.URL.Query())

	if err := list.LoadFilterOptions(ctx, rq.Token); err != nil {
		if h.sessionLost(w, r, rq, err) {
			return
		}
		logger.LogErrorWithUser(rq.username(), err, "filter options unavailable")
	}

	page := contactsPage{}
	v, err := list.Apply(ctx, rq.Token, state)
	if err != nil {
		if h.sessionLost(w, r, rq, err) {
			return
		}
		page.Error = errorMessage(r, err)
		cached := list.View()
		v = usecase.ListView{
			State:       state,
			Pager:       usecase.Pager{Page: state.Page},
			Origins:     cached.Origins,
			Commercials: cached.Commercials,
		}
	}

	if v.Pager.TotalPages > 0 && v.State.Page > v.Pager.TotalPages {
		http.Redirect(w, r, listURL(v.State.WithPage(v.Pager.Clamp(v.State.Page))), http.StatusSeeOther)
		return
	}

	page.State = v.State
	page.Pager = v.Pager
	page.Origins = v.Origins
	page.Commercials = v.Commercials
	if v.Pager.HasPrev() {
		page.PrevURL = listURL(v.State.WithPage(v.State.Page - 1))
	}
	if v.Pager.HasNext() {
		page.NextURL = listURL(v.State.WithPage(v.State.Page + 1))
	}
	for _, c := range v.Contacts {
		page.Rows = append(page.Rows, contactRow{Contact: c, EditURL: editURL(c.ID, v.State)})
	}
	for _, col := range contactColumns {
		cv := columnView{Label: col.Label}
		if col.Key != "" {
			cv.SortURL = listURL(v.State.WithSort(col.Key))
			cv.Active = v.State.SortBy == col.Key
			cv.Order = v.State.SortOrder
		}
		page.Columns = append(page.Columns, cv)
	}

	h.render(w, r, http.StatusOK, "contacts", view.Page{
		Title: "contacts_title",
		Nav:   "contacts",
		User:  rq.User,
		Data:  page,
	})
}

// load finds the contact in the workspace page, refetching the page named
// by the query when the workspace lost it.
func (h *ContactHandler) load(w http.ResponseWriter, r *http.Request, rq *request) (entity.Contact, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, rq.User, "not_found")
		return entity.Contact{}, false
	}

	list := rq.Workspace.List
	if c, ok := list.Select(id); ok {
		return c, true
	}
	v, err := list.Apply(r.Context(), rq.Token, usecase.ListStateFromQuery(r.URL.Query()))
	if err != nil {
		if h.sessionLost(w, r, rq, err) {
			return entity.Contact{}, false
		}
		logger.LogError(err, "contact page reload failed")
	}
	if c, ok := v.Find(id); ok {
		return c, true
	}
	h.renderError(w, r, http.StatusNotFound, rq.User, usecase.ErrContactNotLoaded.Code)
	return entity.Contact{}, false
}

func (h *ContactHandler) Edit(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	c, ok := h.load(w, r, rq)
	if !ok {
		return
	}
	h.renderEdit(w, r, rq, http.StatusOK, rq.Workspace.Editor.Open(c), "")
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}
	c, ok := h.load(w, r, rq)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, rq.User, "error_generic")
		return
	}

	values := make(map[string]string, len(entity.EditableFields))
	for _, f := range entity.EditableFields {
		if _, sent := r.PostForm[f.Key]; sent {
			values[f.Key] = r.PostForm.Get(f.Key)
		}
	}

	err := rq.Workspace.Editor.Submit(r.Context(), rq.Token, c, values)
	if err != nil {
		if errors.Is(err, usecase.ErrNotAuthenticated) {
			h.expire(w, r, rq.Token)
			return
		}
		typed := rq.Workspace.Editor.Open(c)
		for k, v := range values {
			typed.Values[k] = v
		}
		h.renderEdit(w, r, rq, statusFor(err), typed, errorMessage(r, err))
		return
	}

	setFlash(w, "success", "edit_saved")
	http.Redirect(w, r, listURL(usecase.ListStateFromQuery(r.URL.Query())), http.StatusSeeOther)
}

func (h *ContactHandler) renderEdit(w http.ResponseWriter, r *http.Request, rq *request, status int, form usecase.EditorForm, msg string) {
	state := usecase.ListStateFromQuery(r.URL.Query())
	h.render(w, r, status, "contact_edit", view.Page{
		Title: "edit_title",
		Nav:   "contacts",
		User:  rq.User,
		Data: editPage{
			Form:    form,
			Fields:  entity.EditableFields,
			Action:  editURL(form.ID, state),
			BackURL: listURL(state),
			Error:   msg,
		},
	})
}
