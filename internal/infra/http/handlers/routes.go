package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/plouf-crm/internal/infra/http/middleware"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

// RouterConfig wires the console pages.
type RouterConfig struct {
	Base           *Base
	Dashboard      *usecase.Dashboard
	Health         *HealthHandler
	LoginLimiter   *RateLimiter
	AllowedOrigins []string
	// TrustProxy rewrites RemoteAddr from forwarding headers.
	TrustProxy bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	auth := NewAuthHandler(cfg.Base, cfg.LoginLimiter)
	dashboard := NewDashboardHandler(cfg.Base, cfg.Dashboard)
	contacts := NewContactHandler(cfg.Base)
	prospects := NewProspectHandler(cfg.Base)
	profile := NewProfileHandler(cfg.Base)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Language)
	r.Use(middleware.AuthGate)

	r.Handle("/static/*", view.Static())
	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/signin", auth.SigninForm)
	r.Post("/signin", auth.Signin)
	r.Get("/signup", auth.Signup)
	r.Get("/logout", auth.Logout)
	r.Post("/logout", auth.Logout)

	r.Get("/", dashboard.Show)

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", contacts.List)
		r.Get("/{id}/edit", contacts.Edit)
		r.Post("/{id}/edit", contacts.Update)
	})

	r.Route("/prospects", func(r chi.Router) {
		r.Get("/", prospects.Show)
		r.Post("/action", prospects.Action)
		r.Post("/retry", prospects.Retry)
	})

	r.Get("/profile", profile.Show)
	r.Post("/profile", profile.Update)
	r.Post("/profile/password", profile.ChangePassword)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		cfg.Base.renderError(w, req, http.StatusNotFound, nil, "not_found")
	})

	return r
}
