package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mialing7/pricing-dashboard/internal/config"
	"github.com/mialing7/pricing-dashboard/internal/middleware"
)

// NewRouter assembles the chi router with the standard middleware chain and
// all API routes.
func NewRouter(cfg *config.Config, analysis *AnalysisHandler, logger *slog.Logger) chi.Router {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))
	r.Use(metrics.Handler)

	r.Get("/healthz", HealthCheck)
	r.Method("GET", "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Mount("/api/analysis", analysis.Routes())
	return r
}
