package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/food-search-proxy/internal/config"
	"github.com/Lixing-Zhang/food-search-proxy/internal/fatsecret"
	"github.com/Lixing-Zhang/food-search-proxy/internal/handlers"
	"github.com/Lixing-Zhang/food-search-proxy/internal/server"
	"github.com/Lixing-Zhang/food-search-proxy/internal/service"
	"github.com/Lixing-Zhang/food-search-proxy/pkg/logger"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// overridden during build with ldflags
var version = "dev"

func main() {
	// Local development reads credentials from .env
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting food search proxy",
		"version", version,
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"upstream_timeout", cfg.FatSecret.RequestTimeout(),
	)

	if !cfg.FatSecret.HasCredentials() {
		log.Warn("FATSECRET_CLIENT_ID or FATSECRET_CLIENT_SECRET is empty; searches will fail at token exchange")
	}

	// Initialize upstream client, service and handlers
	client := fatsecret.NewClient(cfg.FatSecret, log)
	foodService := service.NewFoodService(client)

	searchHandler := handlers.NewSearchHandler(foodService, log)
	healthHandler := handlers.NewHealthHandler(log, version)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(cfg, log, searchHandler, healthHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
