package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/working-days-api/internal/api/router"
	"github.com/wolfman30/working-days-api/internal/app/bootstrap"
	appconfig "github.com/wolfman30/working-days-api/internal/config"
	httpmiddleware "github.com/wolfman30/working-days-api/internal/http/middleware"
	"github.com/wolfman30/working-days-api/internal/observability/metrics"
	"github.com/wolfman30/working-days-api/internal/workdays"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting working-days API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	metricsHandler, workdaysMetrics := setupMetrics()

	rt, err := bootstrap.BuildRuntime(ctx, cfg, logger, workdaysMetrics)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer func() { _ = rt.Close() }()

	limiter := setupRateLimiter(ctx, cfg, logger)
	srv := newServer(cfg, logger, rt, metricsHandler, workdaysMetrics, limiter)

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
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a dedicated registry with process and Go collectors.
func setupMetrics() (http.Handler, *metrics.WorkdaysMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewWorkdaysMetrics(reg)
}

// setupRateLimiter returns nil when rate limiting is disabled.
func setupRateLimiter(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *httpmiddleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx, 5*time.Minute)
	logger.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	return limiter
}

func newServer(
	cfg *appconfig.Config,
	logger *logging.Logger,
	rt *bootstrap.Runtime,
	metricsHandler http.Handler,
	workdaysMetrics *metrics.WorkdaysMetrics,
	limiter *httpmiddleware.RateLimiter,
) *http.Server {
	handler := workdays.NewHandler(workdays.HandlerConfig{
		Engine:    rt.Engine,
		Holidays:  rt.Holidays,
		Converter: rt.Converter,
		Limits:    rt.Limits,
		Metrics:   workdaysMetrics,
		Logger:    logger.Component("api"),
	})

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		WorkdaysHandler:    handler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	// Create HTTP server
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
