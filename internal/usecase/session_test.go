package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
)

func TestLoginSuccessStoresTokenAndLoadsProfile(t *testing.T) {
	backend := new(MockBackend)
	tokens := &memTokens{}
	user := &entity.User{Username: "gconstant", FullName: "Gaspard Constant"}

	backend.On("Authenticate", mock.Anything, "gconstant", "secret").Return("tok-1", nil)
	backend.On("Me", mock.Anything, "tok-1").Return(user, nil)

	s := NewSession(backend, tokens)
	ok, err := s.Login(context.Background(), "gconstant", "secret")

	require.NoError(t, err)
	assert.True(t, ok)
	token, has := tokens.Token()
	assert.True(t, has)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, SessionAuthenticated, s.State())
	assert.Equal(t, user, s.User())
	backend.AssertExpectations(t)
}

func TestLoginRejectedLeavesSessionUntouched(t *testing.T) {
	backend := new(MockBackend)
	tokens := &memTokens{}

	backend.On("Authenticate", mock.Anything, "gconstant", "wrong").
		Return("", &crm.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"})

	s := NewSession(backend, tokens)
	ok, err := s.Login(context.Background(), "gconstant", "wrong")

	require.NoError(t, err)
	assert.False(t, ok)
	_, has := tokens.Token()
	assert.False(t, has)
	assert.Equal(t, SessionUninitialized, s.State())
	backend.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestLoginTransportFailureIsTechnical(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("dial tcp: refused"))

	s := NewSession(backend, &memTokens{})
	ok, err := s.Login(context.Background(), "a", "b")

	assert.False(t, ok)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, "login_failed", ErrorCode(err))
}

func TestRefreshUserUnauthorizedLogsOut(t *testing.T) {
	backend := new(MockBackend)
	tokens := &memTokens{token: "expired"}
	backend.On("Me", mock.Anything, "expired").Return(nil, crm.ErrUnauthorized)

	s := NewSession(backend, tokens)
	s.Restore(&entity.User{Username: "old"})

	u, err := s.RefreshUser(context.Background())

	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, has := tokens.Token()
	assert.False(t, has)
	assert.Equal(t, SessionAnonymous, s.State())
	assert.Nil(t, s.User())
}

func TestNoTokenMeansAnonymousWhateverIsCached(t *testing.T) {
	backend := new(MockBackend)
	tokens := &memTokens{token: "tok"}
	s := NewSession(backend, tokens)
	s.Restore(&entity.User{Username: "cached"})
	require.NotNil(t, s.User())

	tokens.Clear()
	assert.Nil(t, s.User())
	assert.False(t, s.IsAuthenticated())

	u, err := s.Init(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
	backend.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestLogoutClearsEverything(t *testing.T) {
	tokens := &memTokens{token: "tok"}
	s := NewSession(new(MockBackend), tokens)
	s.Restore(&entity.User{Username: "gconstant"})

	s.Logout()

	_, has := tokens.Token()
	assert.False(t, has)
	assert.Nil(t, s.User())
	assert.Equal(t, SessionAnonymous, s.State())
}

func TestUpdateUserAdoptsOnlyOnSuccess(t *testing.T) {
	backend := new(MockBackend)
	tokens := &memTokens{token: "tok"}
	before := &entity.User{Username: "gconstant", Email: "old@plouf.fr"}
	accepted := entity.User{Username: "gconstant", Email: "new@plouf.fr"}
	refused := entity.User{Username: "gconstant", Email: "bad"}

	backend.On("UpdateMe", mock.Anything, "tok", accepted).Return(nil)
	backend.On("UpdateMe", mock.Anything, "tok", refused).
		Return(&crm.APIError{StatusCode: http.StatusBadRequest, Detail: "Email invalide"})

	s := NewSession(backend, tokens)
	s.Restore(before)

	err := s.UpdateUser(context.Background(), refused)
	require.Error(t, err)
	assert.Equal(t, "Email invalide", err.Error())
	assert.Equal(t, "old@plouf.fr", s.User().Email)

	require.NoError(t, s.UpdateUser(context.Background(), accepted))
	assert.Equal(t, "new@plouf.fr", s.User().Email)
}

func TestChangePasswordWithoutTokenStaysLocal(t *testing.T) {
	backend := new(MockBackend)
	s := NewSession(backend, &memTokens{})

	res := s.ChangePassword(context.Background(), "old", "new")

	assert.False(t, res.Success)
	assert.Equal(t, "not_authenticated", res.Code)
	backend.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePasswordPassesBackendResult(t *testing.T) {
	backend := new(MockBackend)
	want := entity.PasswordChangeResult{Success: true, Code: "password_changed", Message: "Mot de passe modifié"}
	backend.On("ChangePassword", mock.Anything, "tok", "old", "new").Return(want, nil)

	s := NewSession(backend, &memTokens{token: "tok"})
	assert.Equal(t, want, s.ChangePassword(context.Background(), "old", "new"))
}
