package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/working-days-api/internal/http/middleware"
	"github.com/wolfman30/working-days-api/internal/workdays"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	WorkdaysHandler    *workdays.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter is optional; nil disables per-IP limiting.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()
	h := cfg.WorkdaysHandler

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	// Public endpoints (health, info, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/", h.Info)
		public.Get("/health", h.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}
		api.Get("/working-days", h.Calculate)
		api.Get("/holidays", h.ListHolidays)
	})

	return r
}
