package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SscSPs/ledger_bridge/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_bridge/internal/adapters/gateway/frappe"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_bridge/internal/core/services"
	"github.com/SscSPs/ledger_bridge/internal/handlers"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
	promcollector "github.com/SscSPs/ledger_bridge/internal/platform/metrics/prometheus"
	"github.com/SscSPs/ledger_bridge/pkg/database"
)

// @title Ledger Bridge API
// @version 1.0
// @description Validates, creates and submits journal entries and searches bank transactions on a Frappe/ERPNext ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Batch run audit store (optional) ---
	var repos *portsrepo.RepositoryProvider
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := promcollector.NewPrometheusCollector(cfg.MetricsNamespace)
	if err := collector.Register(registry); err != nil {
		logger.Error("Failed to register metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	// --- Remote ledger ---
	gateway, err := frappe.NewClient(frappe.Config{
		BaseURL:            cfg.LedgerBaseURL,
		APIKey:             cfg.LedgerAPIKey,
		APISecret:          cfg.LedgerAPISecret,
		BearerToken:        cfg.LedgerBearerToken,
		Timeout:            cfg.LedgerTimeout,
		BreakerMaxFailures: cfg.LedgerBreakerMaxFailures,
		BreakerOpenTimeout: cfg.LedgerBreakerOpenTimeout,
	}, collector)
	if err != nil {
		logger.Error("Failed to create ledger client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewContainer(gateway, repos, collector, services.ContainerConfig{
		SearchLimit:      cfg.SearchDefaultLimit,
		JournalListLimit: cfg.JournalListLimit,
		BankImportMethod: cfg.BankImportMethod,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	limiterInstance, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Global middleware (logging, recovery, cors, rate limiting)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg)),
		middleware.RateLimit(limiterInstance),
	)

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, metricsHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("ledger", cfg.LedgerBaseURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.APIKeyHeader, "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
