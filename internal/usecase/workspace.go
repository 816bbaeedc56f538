package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/xavierca1/plouf-crm/internal/entity"
)

// Workspace is the per-session state kept between requests.
type Workspace struct {
	List   *ContactList
	Queue  *ProspectQueue
	Editor *ContactEditor

	mu       sync.Mutex
	user     *entity.User
	lastSeen time.Time
}

func (w *Workspace) User() *entity.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.user
}

func (w *Workspace) SetUser(u *entity.User) {
	w.mu.Lock()
	w.user = u
	w.mu.Unlock()
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// WorkspaceRegistry maps session tokens to workspaces. Tokens are kept
// only as SHA-256 digests.
type WorkspaceRegistry struct {
	contacts ContactGateway
	stats    StatsGateway
	opts     []QueueOption
	now      func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaceRegistry(contacts ContactGateway, stats StatsGateway, opts ...QueueOption) *WorkspaceRegistry {
	return &WorkspaceRegistry{
		contacts: contacts,
		stats:    stats,
		opts:     opts,
		now:      time.Now,
		items:    make(map[string]*Workspace),
	}
}

func workspaceKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Get returns the workspace of a token, creating it on first use.
func (r *WorkspaceRegistry) Get(token string) *Workspace {
	key := workspaceKey(token)
	now := r.now()

	r.mu.Lock()
	ws, ok := r.items[key]
	if !ok {
		ws = r.newWorkspace()
		r.items[key] = ws
	}
	r.mu.Unlock()

	ws.touch(now)
	return ws
}

func (r *WorkspaceRegistry) newWorkspace() *Workspace {
	list := NewContactList(r.contacts, r.stats)
	return &Workspace{
		List:   list,
		Queue:  NewProspectQueue(r.contacts, r.opts...),
		Editor: NewContactEditor(r.contacts, list.Refresh),
	}
}

// Drop forgets the workspace of a token, on logout.
func (r *WorkspaceRegistry) Drop(token string) {
	key := workspaceKey(token)
	r.mu.Lock()
	delete(r.items, key)
	r.mu.Unlock()
}

// ExpireIdle drops workspaces unused for longer than ttl and returns how
// many were dropped.
func (r *WorkspaceRegistry) ExpireIdle(ttl time.Duration) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	expired := 0
	for key, ws := range r.items {
		if ws.idleSince(now) > ttl {
			delete(r.items, key)
			expired++
		}
	}
	return expired
}

func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
