package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randytsao24/nextshuttle/internal/api/handlers"
	"github.com/randytsao24/nextshuttle/internal/config"
	"github.com/randytsao24/nextshuttle/internal/logger"
	"github.com/randytsao24/nextshuttle/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
// gatherer backs /metrics; nil serves the default registry.
func NewRouter(
	cfg *config.Config,
	predictor handlers.Predictor,
	skillRouter handlers.SkillRouter,
	log logger.Logger,
	rec metrics.Recorder,
	gatherer prometheus.Gatherer,
) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	skillHandler := handlers.NewSkillHandler(skillRouter, log)
	predictionHandler := handlers.NewPredictionHandler(predictor, log)

	// Core routes
	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Voice skill endpoint
	mux.HandleFunc("POST /alexa", skillHandler.Handle)

	// Prediction routes
	mux.HandleFunc("GET /predictions/closest", predictionHandler.GetClosest)
	mux.HandleFunc("GET /predictions/{provider}", predictionHandler.GetProvider)

	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler(gatherer))
	}

	mux.HandleFunc("/", rootHandler.NotFound)

	// Sequential provider calls stack their timeouts
	timeout := 3*cfg.HTTPTimeout + 5*time.Second

	// Apply middleware stack
	return Chain(mux,
		Recovery(log),
		Logging(log, rec),
		Timeout(timeout),
	)
}
