// Package metrics records provider, skill and HTTP activity in Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider fetch outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder is implemented by metric sinks.
type Recorder interface {
	ProviderFetch(provider, outcome string, elapsed time.Duration)
	SkillRequest(requestType, intent string)
	HTTPRequest(method string, status int)
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) ProviderFetch(string, string, time.Duration) {}
func (Nop) SkillRequest(string, string)                 {}
func (Nop) HTTPRequest(string, int)                     {}

// Prom records measurements in Prometheus collectors.
type Prom struct {
	fetches *prometheus.CounterVec
	latency *prometheus.HistogramVec
	skill   *prometheus.CounterVec
	http    *prometheus.CounterVec
}

// NewProm registers collectors on reg. If reg is nil, the default registerer
// is used. Collectors that are already registered are reused.
func NewProm(reg prometheus.Registerer) (*Prom, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_fetches_total",
		Help: "Total number of prediction provider fetches",
	}, []string{"provider", "outcome"}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_fetch_duration_seconds",
		Help:    "Latency of prediction provider fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"}))
	if err != nil {
		return nil, err
	}
	skill, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_requests_total",
		Help: "Total number of voice skill requests",
	}, []string{"request_type", "intent"}))
	if err != nil {
		return nil, err
	}
	httpReqs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "status"}))
	if err != nil {
		return nil, err
	}
	return &Prom{fetches: fetches, latency: latency, skill: skill, http: httpReqs}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *Prom) ProviderFetch(provider, outcome string, elapsed time.Duration) {
	p.fetches.WithLabelValues(provider, outcome).Inc()
	p.latency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (p *Prom) SkillRequest(requestType, intent string) {
	p.skill.WithLabelValues(requestType, intent).Inc()
}

func (p *Prom) HTTPRequest(method string, status int) {
	p.http.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler exposes g in the Prometheus text format. A nil g is the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// GathererFor returns reg as a gatherer when it can be scraped, and the
// default gatherer otherwise.
func GathererFor(reg prometheus.Registerer) prometheus.Gatherer {
	if g, ok := reg.(prometheus.Gatherer); ok {
		return g
	}
	return prometheus.DefaultGatherer
}
