package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

type QueueState int

const (
	QueueIdle QueueState = iota
	QueueLoading
	QueueShowing
	QueueError
	QueueExhausted
)

func (s QueueState) String() string {
	return [...]string{"idle", "loading", "showing", "error", "exhausted"}[s]
}

type ReviewAction string

const (
	ActionContacted     ReviewAction = "contacted"
	ActionNotInterested ReviewAction = "not_interested"
	ActionSkip          ReviewAction = "skip"
)

// FollowUpDays is how far ahead a contacted prospect is scheduled.
const FollowUpDays = 7

// QueueView is a consistent snapshot for rendering.
type QueueView struct {
	State   QueueState
	Contact *entity.Contact
	Ticket  string
	Saving  bool
	ErrCode string
}

// ProspectQueue walks the backend's review queue one card at a time. Each
// card carries a ticket; actions quote it so a resubmitted form can not act
// on the card that replaced it.
type ProspectQueue struct {
	contacts  ContactGateway
	now       func() time.Time
	newTicket func() string

	mu      sync.Mutex
	state   QueueState
	current *entity.Contact
	ticket  string
	saving  bool
	errCode string
}

type QueueOption func(*ProspectQueue)

// WithClock replaces time.Now for date side effects.
func WithClock(now func() time.Time) QueueOption {
	return func(q *ProspectQueue) { q.now = now }
}

func NewProspectQueue(contacts ContactGateway, opts ...QueueOption) *ProspectQueue {
	q := &ProspectQueue{
		contacts:  contacts,
		now:       time.Now,
		newTicket: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *ProspectQueue) View() QueueView {
	q.mu.Lock()
	defer q.mu.Unlock()
	v := QueueView{State: q.state, Ticket: q.ticket, Saving: q.saving, ErrCode: q.errCode}
	if q.current != nil {
		c := q.current.Clone()
		v.Contact = &c
	}
	return v
}

// Mount loads the first card when the queue was never loaded.
func (q *ProspectQueue) Mount(ctx context.Context, token string) error {
	q.mu.Lock()
	idle := q.state == QueueIdle
	q.mu.Unlock()
	if !idle {
		return nil
	}
	return q.Next(ctx, token)
}

// Next asks the backend for the next card.
func (q *ProspectQueue) Next(ctx context.Context, token string) error {
	q.mu.Lock()
	if q.saving {
		q.mu.Unlock()
		return ErrSaveInFlight
	}
	if q.state == QueueLoading {
		q.mu.Unlock()
		return nil
	}
	q.startLoadingLocked()
	q.mu.Unlock()

	return q.load(ctx, token)
}

// startLoadingLocked retires the current ticket so no action can reach the
// card being replaced.
func (q *ProspectQueue) startLoadingLocked() {
	q.state = QueueLoading
	q.ticket = ""
	q.errCode = ""
}

func (q *ProspectQueue) load(ctx context.Context, token string) error {
	c, err := q.contacts.NextProspect(ctx, token)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.current = nil
		q.ticket = ""
		if errors.Is(err, crm.ErrNoProspect) {
			q.state = QueueExhausted
			return nil
		}
		q.state = QueueError
		if errors.Is(err, crm.ErrUnauthorized) {
			q.errCode = ErrSessionExpired.Code
			return ErrSessionExpired
		}
		q.errCode = "prospect_load_failed"
		return &TechnicalError{Code: q.errCode, Message: "prospect load failed", Err: err}
	}

	q.current = c
	q.ticket = q.newTicket()
	q.state = QueueShowing
	return nil
}

// Retry reloads from the exhausted or error state.
func (q *ProspectQueue) Retry(ctx context.Context, token string) error {
	return q.Next(ctx, token)
}

// Apply merges edits into the current card, applies the action, saves the
// record and advances. A failed save keeps the card with the edits
// but without the action's side effects.
func (q *ProspectQueue) Apply(ctx context.Context, token, ticket string, action ReviewAction, edits map[string]string) error {
	q.mu.Lock()
	if q.saving {
		q.mu.Unlock()
		return ErrSaveInFlight
	}
	if q.state != QueueShowing || q.current == nil || ticket != q.ticket {
		q.mu.Unlock()
		return ErrStaleCard
	}

	edited := Merge(*q.current, edits)
	updated := edited.Clone()
	switch action {
	case ActionContacted:
		now := q.now()
		updated.Status = entity.StatusContacted
		updated.LastContactDate = now.Format("2006-01-02")
		updated.FollowUpDate = now.AddDate(0, 0, FollowUpDays).Format("2006-01-02")
	case ActionNotInterested:
		updated.Status = entity.StatusNotInterested
	case ActionSkip:
	default:
		q.mu.Unlock()
		return ErrUnknownAction
	}
	q.saving = true
	q.errCode = ""
	q.mu.Unlock()

	err := q.contacts.UpdateContact(ctx, token, updated)

	q.mu.Lock()
	q.saving = false
	if err != nil {
		q.current = &edited
		q.errCode = "prospect_save_failed"
		q.mu.Unlock()
		logger.LogError(err, "prospect save failed")
		if errors.Is(err, crm.ErrUnauthorized) {
			return ErrSessionExpired
		}
		return &TechnicalError{Code: "prospect_save_failed", Message: "prospect save failed", Err: err}
	}
	q.startLoadingLocked()
	q.mu.Unlock()

	return q.load(ctx, token)
}
