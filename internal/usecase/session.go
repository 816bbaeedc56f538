package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionLoading
	SessionAuthenticated
	SessionAnonymous
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Session tracks who is signed in for one browser. The token lives in the
// TokenStore; without a token the session is anonymous whatever profile was
// cached before.
type Session struct {
	auth   AuthGateway
	tokens TokenStore

	mu    sync.Mutex
	state SessionState
	user  *entity.User
}

func NewSession(auth AuthGateway, tokens TokenStore) *Session {
	return &Session{auth: auth, tokens: tokens}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User is the cached profile, nil when signed out or not loaded.
func (s *Session) User() *entity.User {
	if _, ok := s.tokens.Token(); !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Token() (string, bool) {
	return s.tokens.Token()
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.tokens.Token()
	return ok
}

// Restore adopts a profile cached by a previous request.
func (s *Session) Restore(u *entity.User) {
	if _, ok := s.tokens.Token(); !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u != nil {
		s.user = u
		s.state = SessionAuthenticated
	}
}

// Init resolves the session on first use: with a token the profile is
// fetched, otherwise the session becomes anonymous.
func (s *Session) Init(ctx context.Context) (*entity.User, error) {
	s.mu.Lock()
	if s.state == SessionAuthenticated && s.user != nil {
		u := s.user
		s.mu.Unlock()
		return u, nil
	}
	s.mu.Unlock()
	return s.RefreshUser(ctx)
}

// Login exchanges credentials for a token. Wrong credentials give false and
// leave the session untouched; an unreachable backend gives an error.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	token, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		var apiErr *crm.APIError
		if errors.As(err, &apiErr) {
			return false, nil
		}
		logger.LogError(err, "login request failed")
		return false, &TechnicalError{Code: "login_failed", Message: "login request failed", Err: err}
	}

	s.tokens.Save(token)
	s.mu.Lock()
	s.state = SessionAuthenticated
	s.user = nil
	s.mu.Unlock()

	if _, err := s.RefreshUser(ctx); err != nil {
		logger.LogErrorWithUser(username, err, "profile fetch after login failed")
	}
	return true, nil
}

// Logout forgets the token and the cached profile.
func (s *Session) Logout() {
	s.tokens.Clear()
	s.mu.Lock()
	s.state = SessionAnonymous
	s.user = nil
	s.mu.Unlock()
}

// RefreshUser fetches the profile. A rejected token signs the session out.
func (s *Session) RefreshUser(ctx context.Context) (*entity.User, error) {
	token, ok := s.tokens.Token()
	if !ok {
		s.mu.Lock()
		s.state = SessionAnonymous
		s.user = nil
		s.mu.Unlock()
		return nil, nil
	}

	s.mu.Lock()
	prev := s.state
	s.state = SessionLoading
	s.mu.Unlock()

	u, err := s.auth.Me(ctx, token)
	if err != nil {
		if errors.Is(err, crm.ErrUnauthorized) {
			s.Logout()
			return nil, ErrSessionExpired
		}
		s.mu.Lock()
		if prev == SessionUninitialized {
			prev = SessionAuthenticated
		}
		s.state = prev
		s.mu.Unlock()
		return nil, &TechnicalError{Code: "profile_unavailable", Message: "profile unavailable", Err: err}
	}

	s.mu.Lock()
	s.state = SessionAuthenticated
	s.user = u
	s.mu.Unlock()
	return u, nil
}

// UpdateUser saves the profile and adopts it locally once the backend agreed.
func (s *Session) UpdateUser(ctx context.Context, u entity.User) error {
	token, ok := s.tokens.Token()
	if !ok {
		return ErrNotAuthenticated
	}

	if err := s.auth.UpdateMe(ctx, token, u); err != nil {
		var apiErr *crm.APIError
		switch {
		case errors.As(err, &apiErr):
			return &DomainError{Code: "profile_rejected", Message: apiErr.Detail}
		case errors.Is(err, crm.ErrUnauthorized):
			return ErrNotAuthenticated
		default:
			return &TechnicalError{Code: "network_error", Message: "profile update failed", Err: err}
		}
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// ChangePassword never reaches the network without a token.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) entity.PasswordChangeResult {
	token, ok := s.tokens.Token()
	if !ok {
		return entity.PasswordChangeResult{Success: false, Code: ErrNotAuthenticated.Code}
	}

	res, err := s.auth.ChangePassword(ctx, token, oldPassword, newPassword)
	if err != nil {
		if errors.Is(err, crm.ErrUnauthorized) {
			return entity.PasswordChangeResult{Success: false, Code: ErrNotAuthenticated.Code}
		}
		logger.LogError(err, "password change failed")
		return entity.PasswordChangeResult{Success: false, Code: "network_error"}
	}
	return res
}
