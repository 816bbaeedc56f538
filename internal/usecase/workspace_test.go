package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/plouf-crm/internal/entity"
)

func TestRegistryReusesWorkspacePerToken(t *testing.T) {
	r := NewWorkspaceRegistry(new(MockBackend), new(MockBackend))

	a := r.Get("tok-a")
	a.SetUser(&entity.User{Username: "a"})

	assert.Same(t, a, r.Get("tok-a"))
	assert.NotSame(t, a, r.Get("tok-b"))
	assert.Equal(t, "a", r.Get("tok-a").User().Username)
	assert.Equal(t, 2, r.Len())

	r.Drop("tok-a")
	assert.Equal(t, 1, r.Len())
	assert.Nil(t, r.Get("tok-a").User())
}

func TestRegistryExpiresIdleWorkspaces(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	r := NewWorkspaceRegistry(new(MockBackend), new(MockBackend))
	r.now = func() time.Time { return now }

	r.Get("old")
	now = now.Add(20 * time.Minute)
	r.Get("recent")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, r.ExpireIdle(30*time.Minute))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.ExpireIdle(30*time.Minute))
}

func TestWorkspaceKeyDoesNotKeepToken(t *testing.T) {
	key := workspaceKey("secret-token")
	assert.Len(t, key, 64)
	assert.NotContains(t, key, "secret-token")
}
