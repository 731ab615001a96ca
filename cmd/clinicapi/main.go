package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wolfman30/clinic-dashboard/internal/clinicapi"
	appconfig "github.com/wolfman30/clinic-dashboard/internal/config"
	httpmiddleware "github.com/wolfman30/clinic-dashboard/internal/http/middleware"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	handler, err := setupRouter(cfg, logger, time.Now())
	if err != nil {
		logger.Error("failed to seed demo data", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupRouter seeds an in-memory clinic around today and returns the API
// handler with metrics and login throttling enabled.
func setupRouter(cfg *appconfig.Config, logger *logging.Logger, today time.Time) (http.Handler, error) {
	store := clinicapi.NewStore()
	if err := clinicapi.Seed(store, today); err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return clinicapi.New(&clinicapi.Config{
		Logger:             logger,
		Store:              store,
		Issuer:             clinicapi.NewIssuer(cfg.ClinicAPISecret, cfg.ClinicAPITokenTTL),
		Registry:           registry,
		CORSAllowedOrigins: corsOrigins(cfg.CORSAllowedOrigins),
		LoginThrottle:      httpmiddleware.NewLoginThrottle(1, 5),
	}), nil
}

func corsOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
