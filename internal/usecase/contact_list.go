package usecase

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/go-querystring/query"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
)

const (
	PageSize      = 50
	DefaultSortBy = "id"
	SortAsc       = "ASC"
	SortDesc      = "DESC"
	FilterAll     = "all"
)

// ListState is the filter, sort and page selection of the contact list.
type ListState struct {
	Page       int
	Search     string
	Origin     string
	Commercial string
	SortBy     string
	SortOrder  string
}

func DefaultListState() ListState {
	return ListState{
		Page:       1,
		Origin:     FilterAll,
		Commercial: FilterAll,
		SortBy:     DefaultSortBy,
		SortOrder:  SortDesc,
	}
}

func (s ListState) WithSearch(q string) ListState {
	s.Search = q
	s.Page = 1
	return s
}

func (s ListState) WithOrigin(origin string) ListState {
	s.Origin = orAll(origin)
	s.Page = 1
	return s
}

func (s ListState) WithCommercial(commercial string) ListState {
	s.Commercial = orAll(commercial)
	s.Page = 1
	return s
}

// WithPage changes the page and keeps every filter.
func (s ListState) WithPage(page int) ListState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// WithSort toggles the direction on the active column and starts a new
// column ascending. The page is kept.
func (s ListState) WithSort(column string) ListState {
	if column == "" {
		return s
	}
	if column == s.SortBy {
		if s.SortOrder == SortAsc {
			s.SortOrder = SortDesc
		} else {
			s.SortOrder = SortAsc
		}
		return s
	}
	s.SortBy = column
	s.SortOrder = SortAsc
	return s
}

// Query is the backend request for this state. Empty search and "all"
// filters are left out.
func (s ListState) Query() crm.ContactsQuery {
	q := crm.ContactsQuery{
		Page:      s.Page,
		Limit:     PageSize,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
		Search:    strings.TrimSpace(s.Search),
	}
	if s.Origin != FilterAll {
		q.Origin = s.Origin
	}
	if s.Commercial != FilterAll {
		q.Commercial = s.Commercial
	}
	return q
}

type listLink struct {
	Page       int    `url:"page,omitempty"`
	Search     string `url:"search,omitempty"`
	Origin     string `url:"origin,omitempty"`
	Commercial string `url:"commercial,omitempty"`
	SortBy     string `url:"sort_by,omitempty"`
	SortOrder  string `url:"sort_order,omitempty"`
}

// Encode renders the state as a console query string. Defaults are omitted.
func (s ListState) Encode() string {
	d := DefaultListState()
	link := listLink{Search: s.Search}
	if s.Page != d.Page {
		link.Page = s.Page
	}
	if s.Origin != FilterAll {
		link.Origin = s.Origin
	}
	if s.Commercial != FilterAll {
		link.Commercial = s.Commercial
	}
	if s.SortBy != d.SortBy || s.SortOrder != d.SortOrder {
		link.SortBy = s.SortBy
		link.SortOrder = s.SortOrder
	}
	v, err := query.Values(link)
	if err != nil {
		return ""
	}
	return v.Encode()
}

// ListStateFromQuery reads a state from console query parameters. A "sort"
// parameter applies WithSort on top of the decoded state.
func ListStateFromQuery(v url.Values) ListState {
	s := DefaultListState()
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		s.Page = p
	}
	s.Search = v.Get("search")
	s.Origin = orAll(v.Get("origin"))
	s.Commercial = orAll(v.Get("commercial"))
	if by := v.Get("sort_by"); by != "" {
		s.SortBy = by
	}
	switch strings.ToUpper(v.Get("sort_order")) {
	case SortAsc:
		s.SortOrder = SortAsc
	case SortDesc:
		s.SortOrder = SortDesc
	}
	if col := v.Get("sort"); col != "" {
		s = s.WithSort(col)
	}
	return s
}

func orAll(v string) string {
	if strings.TrimSpace(v) == "" {
		return FilterAll
	}
	return v
}

// Pager exposes the navigation rules of the list.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
}

func (p Pager) HasPrev() bool { return p.Page > 1 }

func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// Clamp maps any requested page into [1, TotalPages].
func (p Pager) Clamp(page int) int {
	if page > p.TotalPages {
		page = p.TotalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// ListView is a consistent snapshot for rendering.
type ListView struct {
	State       ListState
	Contacts    []entity.Contact
	Pager       Pager
	Origins     []string
	Commercials []string
}

// Find returns the editable copy of a row of this page.
func (v ListView) Find(id int64) (entity.Contact, bool) {
	for _, c := range v.Contacts {
		if c.ID == id {
			return c.NormalizedForEdit(), true
		}
	}
	return entity.Contact{}, false
}

// ContactList caches the last page a workspace fetched. Each fetch is
// numbered; state, rows and totals are committed together, only on success,
// and only when no newer fetch has already resolved.
type ContactList struct {
	contacts ContactGateway
	stats    StatsGateway

	mu          sync.Mutex
	state       ListState
	rows        []entity.Contact
	total       int
	totalPages  int
	issued      uint64
	resolved    uint64
	origins     []string
	commercials []string
	optionsOK   bool
}

func NewContactList(contacts ContactGateway, stats StatsGateway) *ContactList {
	return &ContactList{
		contacts: contacts,
		stats:    stats,
		state:    DefaultListState(),
	}
}

func (l *ContactList) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// View is the cached snapshot.
func (l *ContactList) View() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]entity.Contact, len(l.rows))
	copy(rows, l.rows)
	return l.viewLocked(l.state, rows, l.total, l.totalPages)
}

func (l *ContactList) viewLocked(s ListState, rows []entity.Contact, total, totalPages int) ListView {
	return ListView{
		State:       s,
		Contacts:    rows,
		Pager:       Pager{Page: s.Page, TotalPages: totalPages, Total: total},
		Origins:     append([]string(nil), l.origins...),
		Commercials: append([]string(nil), l.commercials...),
	}
}

// Apply fetches the page for s and returns exactly that page, whatever
// other fetches of the same workspace do meanwhile.
func (l *ContactList) Apply(ctx context.Context, token string, s ListState) (ListView, error) {
	return l.fetch(ctx, token, s)
}

// Refresh refetches the cached state, used after an edit was saved.
func (l *ContactList) Refresh(ctx context.Context, token string) error {
	_, err := l.fetch(ctx, token, l.State())
	return err
}

func (l *ContactList) fetch(ctx context.Context, token string, s ListState) (ListView, error) {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	l.mu.Unlock()

	page, err := l.contacts.ListContacts(ctx, token, s.Query())

	l.mu.Lock()
	defer l.mu.Unlock()
	newest := seq > l.resolved
	if newest {
		l.resolved = seq
	}
	if err != nil {
		if errors.Is(err, crm.ErrUnauthorized) {
			return ListView{}, ErrSessionExpired
		}
		return ListView{}, &TechnicalError{Code: "contacts_unavailable", Message: "contacts unavailable", Err: err}
	}

	if newest {
		l.state = s
		l.rows = page.Contacts
		l.total = page.Total
		l.totalPages = page.TotalPages
	}
	rows := make([]entity.Contact, len(page.Contacts))
	copy(rows, page.Contacts)
	return l.viewLocked(s, rows, page.Total, page.TotalPages), nil
}

// LoadFilterOptions fills origin and commercial choices from the stats
// endpoint once. The "Non défini" group is not a choice.
func (l *ContactList) LoadFilterOptions(ctx context.Context, token string) error {
	l.mu.Lock()
	loaded := l.optionsOK
	l.mu.Unlock()
	if loaded {
		return nil
	}

	s, err := l.stats.Stats(ctx, token)
	if err != nil {
		return &TechnicalError{Code: "stats_unavailable", Message: "filter options unavailable", Err: err}
	}

	l.mu.Lock()
	l.origins = s.ByOrigin.Keys(entity.StatusUndefined)
	l.commercials = s.ByCommercial.Keys(entity.StatusUndefined)
	l.optionsOK = true
	l.mu.Unlock()
	return nil
}

// Select returns the editable copy of a row of the current page.
func (l *ContactList) Select(id int64) (entity.Contact, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListView{Contacts: l.rows}.Find(id)
}
