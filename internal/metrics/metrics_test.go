package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromProviderFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewProm(reg)
	require.NoError(t, err)

	p.ProviderFetch("mit", OutcomeOK, 120*time.Millisecond)
	p.ProviderFetch("mit", OutcomeOK, 80*time.Millisecond)
	p.ProviderFetch("harvard", OutcomeError, time.Second)

	expected := `
# HELP provider_fetches_total Total number of prediction provider fetches
# TYPE provider_fetches_total counter
provider_fetches_total{outcome="error",provider="harvard"} 1
provider_fetches_total{outcome="ok",provider="mit"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(p.fetches, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(p.latency))
}

func TestPromSkillAndHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewProm(reg)
	require.NoError(t, err)

	p.SkillRequest("IntentRequest", "Closest")
	p.HTTPRequest("POST", 200)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.skill.WithLabelValues("IntentRequest", "Closest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.http.WithLabelValues("POST", "200")))
}

func TestNewPromReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewProm(reg)
	require.NoError(t, err)
	second, err := NewProm(reg)
	require.NoError(t, err)

	first.SkillRequest("LaunchRequest", "")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.skill.WithLabelValues("LaunchRequest", "")))
}

func TestHandlerServesGivenGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewProm(reg)
	require.NoError(t, err)
	p.ProviderFetch("onebus", OutcomeOK, time.Millisecond)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `provider_fetches_total{outcome="ok",provider="onebus"} 1`)
}

func TestGathererFor(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.Same(t, reg, GathererFor(reg))
	assert.Equal(t, prometheus.DefaultGatherer, GathererFor(nil))
}
