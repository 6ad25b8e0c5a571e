package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/vitornegrao/minha-landing-page/cmd/mainconfig"
	"github.com/vitornegrao/minha-landing-page/internal/api/router"
	"github.com/vitornegrao/minha-landing-page/internal/auth"
	"github.com/vitornegrao/minha-landing-page/internal/compliance"
	appconfig "github.com/vitornegrao/minha-landing-page/internal/config"
	"github.com/vitornegrao/minha-landing-page/internal/leads"
	"github.com/vitornegrao/minha-landing-page/internal/observability/metrics"
	"github.com/vitornegrao/minha-landing-page/internal/web"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting landing page server",
		"env", cfg.Env,
		"port", cfg.Port,
		"notify_provider", cfg.NotifyProvider,
	)

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise
	pool, err := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	var (
		leadsRepo leads.Repository = leads.NewInMemoryRepository()
		users     auth.UserStore   = auth.NewInMemoryUserStore()
		audit     *compliance.AuditService
		auditDB   *sql.DB
	)
	if pool != nil {
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		users = auth.NewPostgresUserStore(pool)
		auditDB = stdlib.OpenDBFromPool(pool)
		defer func() { _ = auditDB.Close() }()
		audit = compliance.NewAuditService(auditDB)
	} else {
		logger.Warn("DATABASE_URL not set; leads and admin users are kept in memory")
	}

	redisClient := mainconfig.NewRedisClient(cfg)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	sessions := setupSessionStore(ctx, redisClient, logger)

	notifier, err := mainconfig.BuildLeadNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure lead notifier", "error", err)
		os.Exit(1)
	}

	metricsHandler, leadMetrics := setupMetrics()

	// Initialize services and handlers
	submitter := leads.NewSubmitter(leadsRepo, notifier, leadMetrics, logger)
	authService := auth.NewService(users, sessions, auth.Config{
		Secret: cfg.AdminJWTSecret,
		TTL:    cfg.AdminSessionTTL,
	}, logger)

	leadsHandler := leads.NewHandler(submitter, leadsRepo, logger)
	webHandler := web.NewHandler(web.Config{
		Submitter:    submitter,
		Leads:        leadsRepo,
		Auth:         authService,
		Audit:        audit,
		CookieSecure: cfg.CookieSecure,
		Logger:       logger,
	})

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		WebHandler:         webHandler,
		MetricsHandler:     metricsHandler,
		HealthChecks:       healthChecks(pool, redisClient),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		FormRateLimit:      cfg.FormRateLimit,
		FormRateBurst:      cfg.FormRateBurst,
	}
	if cfg.AdminJWTSecret != "" {
		routerCfg.Sessions = authService
	} else {
		logger.Warn("ADMIN_JWT_SECRET not set; admin panel disabled")
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.NotifyTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

// connectPostgresPool returns a nil pool only when url is empty. An
// unreachable database keeps the pool so inserts fail and the operator
// notice carries the storage warning.
func connectPostgresPool(ctx context.Context, url string, logger *logging.Logger) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Warn("postgres unreachable at startup; inserts will fail until it recovers", "error", err)
		return pool, nil
	}
	logger.Info("connected to postgres")
	return pool, nil
}

func setupSessionStore(ctx context.Context, client *redis.Client, logger *logging.Logger) auth.SessionStore {
	if client == nil {
		logger.Warn("REDIS_ADDR not set; admin sessions are kept in memory")
		return auth.NewInMemorySessionStore()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable at startup; sessions will fail until it recovers", "error", err)
	}
	return auth.NewRedisSessionStore(client)
}

func setupMetrics() (http.Handler, *metrics.LeadMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	leadMetrics := metrics.NewLeadMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), leadMetrics
}

func healthChecks(pool *pgxpool.Pool, redisClient *redis.Client) map[string]router.HealthCheck {
	checks := map[string]router.HealthCheck{}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
