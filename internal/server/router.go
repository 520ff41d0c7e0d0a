// Package server assembles the HTTP router.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/food-search-proxy/internal/config"
	"github.com/Lixing-Zhang/food-search-proxy/internal/handlers"
	"github.com/Lixing-Zhang/food-search-proxy/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// margin added on top of the two sequential upstream calls
const requestTimeoutMargin = 5 * time.Second

// requestTimeout bounds a whole inbound request. It covers the token and
// search calls (each limited to cfg.FatSecret.Timeout) and stays below the
// server's WriteTimeout so the handler can still write its 504.
func requestTimeout(cfg *config.Config) time.Duration {
	timeout := 2*cfg.FatSecret.RequestTimeout() + requestTimeoutMargin

	write := time.Duration(cfg.Server.WriteTimeout) * time.Second
	if write > time.Second && timeout >= write {
		timeout = write - time.Second
	}
	return timeout
}

// NewRouter wires middleware and routes
func NewRouter(cfg *config.Config, log *slog.Logger, search *handlers.SearchHandler, health *handlers.HealthHandler) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout(cfg)))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// System endpoints
	r.Get("/health", health.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// Search endpoint
	r.Get("/search_foods", search.SearchFoods)

	return r
}
