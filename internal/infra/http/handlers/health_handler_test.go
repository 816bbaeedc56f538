package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, p Pinger) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHealthHandler(p, "1.2.0").Handle(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthHealthy(t *testing.T) {
	code, body := serveHealth(t, pingFunc(func(context.Context) error { return nil }))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.0", body.Version)
	assert.Equal(t, "healthy", body.Dependencies["crm_backend"])
}

func TestHealthDegradedWhenBackendDown(t *testing.T) {
	code, body := serveHealth(t, pingFunc(func(context.Context) error { return errors.New("connection refused") }))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Contains(t, body.Dependencies["crm_backend"], "connection refused")
}

func TestHealthWithoutBackend(t *testing.T) {
	code, body := serveHealth(t, nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "not configured", body.Dependencies["crm_backend"])
}
