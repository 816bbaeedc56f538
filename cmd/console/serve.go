package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xavierca1/plouf-crm/internal/infra/http/handlers"
	"github.com/xavierca1/plouf-crm/internal/infra/http/middleware"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/infra/worker"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Backend client
	client := crm.NewClient(cfg.Backend.URL, cfg.Backend.Timeout).WithObserver(middleware.RecordBackendCall)

	// 2. Use cases
	workspaces := usecase.NewWorkspaceRegistry(client, client)
	dashboard := usecase.NewDashboard(client)

	// 3. Views
	views, err := view.New()
	if err != nil {
		return err
	}

	// 4. Background janitor
	limiter := handlers.NewRateLimiter(cfg.Server.LoginRateLimit, time.Minute)
	janitor := worker.NewJanitor(workspaces, cfg.Session.IdleTTL, cfg.Session.SweepEvery, limiter).
		OnExpired(middleware.RecordWorkspacesExpired)
	go janitor.Start(ctx)

	// 5. Router
	router := handlers.NewRouter(handlers.RouterConfig{
		Base: &handlers.Base{
			Views:        views,
			Auth:         client,
			Workspaces:   workspaces,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Dashboard:      dashboard,
		Health:         handlers.NewHealthHandler(client, version),
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"backend": client.BaseURL(),
			"version": version,
		}).Info("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.LogError(err, "server failed")
			return err
		}
	case <-ctx.Done():
	}

	logger.LogInfo("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
