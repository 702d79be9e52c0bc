// Package app wires configuration into the prediction service, skill router
// and HTTP handler.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randytsao24/nextshuttle/internal/api"
	"github.com/randytsao24/nextshuttle/internal/config"
	"github.com/randytsao24/nextshuttle/internal/logger"
	"github.com/randytsao24/nextshuttle/internal/metrics"
	"github.com/randytsao24/nextshuttle/internal/skill"
	"github.com/randytsao24/nextshuttle/internal/transit"
)

// App holds the assembled service.
type App struct {
	Config    *config.Config
	Predictor *transit.Service
	Skill     *skill.Router
	Handler   http.Handler
	log       logger.Logger
}

// New builds the providers selected by cfg. reg receives the Prometheus
// collectors when metrics are enabled; nil means the default registerer.
func New(cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	logger.SetLevel(cfg.LogLevel)
	log := logger.New("nextshuttle")

	var rec metrics.Recorder = metrics.Nop{}
	if cfg.MetricsEnabled {
		prom, err := metrics.NewProm(reg)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		rec = prom
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []transit.Option{
		transit.WithTimeout(cfg.HTTPTimeout),
		transit.WithLocation(loc),
		transit.WithRecorder(rec),
		transit.WithLogger(logger.New("transit")),
	}
	harvard := transit.NewHarvardService(cfg.HarvardBaseURL, cfg.HarvardAPIKey, cfg.HarvardAgency, opts...)
	if !harvard.HasAPIKey() {
		log.Warnf("harvard api key not configured, TransLoc requests will be rejected")
	}
	providers := []transit.Provider{
		transit.NewMITService(cfg.MITBaseURL, opts...),
		oneBusProvider(cfg, opts),
		harvard,
	}

	svc := transit.NewService(logger.New("closest"), providers...)
	router := skill.NewRouter(svc, logger.New("skill"), rec)

	return &App{
		Config:    cfg,
		Predictor: svc,
		Skill:     router,
		Handler:   api.NewRouter(cfg, svc, router, logger.New("http"), rec, metrics.GathererFor(reg)),
		log:       log,
	}, nil
}

func oneBusProvider(cfg *config.Config, opts []transit.Option) transit.Provider {
	if cfg.OneBusFeed == config.FeedGTFSRT {
		return transit.NewOneBusFeedService(cfg.OneBusGTFSRTURL, cfg.OneBusRoute, opts...)
	}
	return transit.NewOneBusService(cfg.OneBusBaseURL, cfg.OneBusAPIKey, opts...)
}

// Run serves HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         ":" + a.Config.Port,
		Handler:      a.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3*a.Config.HTTPTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("server shutdown: %v", err)
		}
	}()

	a.log.Infow("server starting", map[string]any{
		"port":        a.Config.Port,
		"env":         a.Config.Env,
		"development": a.Config.IsDevelopment(),
		"onebus_feed": a.Config.OneBusFeed,
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Ask answers a single intent as the skill would speak it.
func (a *App) Ask(ctx context.Context, intentName string) (string, error) {
	resp, err := a.Skill.Handle(ctx, skill.Request{
		Request: skill.RequestBody{Type: skill.IntentRequest, RequestID: "cli", Intent: skill.Intent{Name: intentName}},
	})
	if err != nil {
		return "", err
	}
	if resp.Response.OutputSpeech == nil {
		return "", nil
	}
	return resp.Response.OutputSpeech.Text, nil
}
