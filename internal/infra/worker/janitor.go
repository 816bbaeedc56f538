package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

// IdleExpirer drops session workspaces unused for longer than ttl.
type IdleExpirer interface {
	ExpireIdle(ttl time.Duration) int
}

// Sweeper forgets stale entries, such as old rate limiter windows.
type Sweeper interface {
	Sweep() int
}

// Janitor periodically releases per-session state of abandoned sessions.
type Janitor struct {
	workspaces   IdleExpirer
	sweepers     []Sweeper
	idleTTL      time.Duration
	tickInterval time.Duration
	onExpired    func(n int)
}

func NewJanitor(workspaces IdleExpirer, idleTTL, tickInterval time.Duration, sweepers ...Sweeper) *Janitor {
	return &Janitor{
		workspaces:   workspaces,
		sweepers:     sweepers,
		idleTTL:      idleTTL,
		tickInterval: tickInterval,
	}
}

// OnExpired registers a callback receiving each non-zero expiry count.
func (j *Janitor) OnExpired(fn func(n int)) *Janitor {
	j.onExpired = fn
	return j
}

// Start blocks until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	logger.Log.WithFields(logrus.Fields{
		"idle_ttl": j.idleTTL.String(),
		"interval": j.tickInterval.String(),
	}).Info("workspace janitor started")

	ticker := time.NewTicker(j.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.LogInfo("workspace janitor stopped")
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce performs a single sweep.
func (j *Janitor) RunOnce() {
	expired := j.workspaces.ExpireIdle(j.idleTTL)
	swept := 0
	for _, s := range j.sweepers {
		swept += s.Sweep()
	}

	if expired > 0 && j.onExpired != nil {
		j.onExpired(expired)
	}
	if expired > 0 || swept > 0 {
		logger.Log.WithFields(logrus.Fields{
			"workspaces_expired": expired,
			"entries_swept":      swept,
		}).Info("janitor sweep")
	}
}
