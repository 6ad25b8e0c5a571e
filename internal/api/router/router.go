package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/vitornegrao/minha-landing-page/internal/http/middleware"
	"github.com/vitornegrao/minha-landing-page/internal/leads"
	"github.com/vitornegrao/minha-landing-page/internal/web"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	WebHandler         *web.Handler
	Sessions           httpmiddleware.SessionValidator
	MetricsHandler     http.Handler
	HealthChecks       map[string]HealthCheck
	CORSAllowedOrigins []string

	// FormRateLimit and FormRateBurst bound public lead posts per client IP.
	// A zero rate disables limiting.
	FormRateLimit float64
	FormRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	formLimit := func(next http.Handler) http.Handler { return next }
	if cfg.FormRateLimit > 0 {
		formLimit = httpmiddleware.RateLimit(httpmiddleware.NewRateLimiter(cfg.FormRateLimit, cfg.FormRateBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.HealthChecks))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.WebHandler != nil {
			public.Get("/", cfg.WebHandler.Landing)
			public.With(formLimit).Post("/leads", cfg.WebHandler.SubmitLead)
		}
		if cfg.LeadsHandler != nil {
			public.With(formLimit).Post("/api/leads", cfg.LeadsHandler.CreateLead)
		}
	})

	// Admin routes, protected by the session cookie or a bearer token
	if cfg.Sessions != nil {
		if cfg.WebHandler != nil {
			r.Route("/admin", func(admin chi.Router) {
				admin.Get("/login", cfg.WebHandler.LoginPage)
				admin.With(formLimit).Post("/login", cfg.WebHandler.Login)
				admin.Post("/logout", cfg.WebHandler.Logout)
				admin.Group(func(protected chi.Router) {
					protected.Use(httpmiddleware.AdminSession(cfg.Sessions, web.LoginPath, cfg.Logger))
					protected.Get("/", func(w http.ResponseWriter, r *http.Request) {
						http.Redirect(w, r, web.AdminLeadsPath, http.StatusSeeOther)
					})
					protected.Get("/leads", cfg.WebHandler.AdminLeads)
				})
			})
		}
		if cfg.LeadsHandler != nil {
			r.Route("/api/admin", func(api chi.Router) {
				api.Use(httpmiddleware.AdminSession(cfg.Sessions, "", cfg.Logger))
				api.Get("/leads", cfg.LeadsHandler.ListLeads)
			})
		}
	}

	return r
}
