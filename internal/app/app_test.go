package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randytsao24/nextshuttle/internal/config"
	"github.com/randytsao24/nextshuttle/internal/skill"
	"github.com/randytsao24/nextshuttle/internal/transit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestOneBusProviderSelection(t *testing.T) {
	cfg := testConfig(t)

	_, ok := oneBusProvider(cfg, nil).(*transit.OneBusService)
	assert.True(t, ok)

	cfg.OneBusFeed = config.FeedGTFSRT
	_, ok = oneBusProvider(cfg, nil).(*transit.OneBusFeedService)
	assert.True(t, ok)
}

func TestAskAgainstUpstreams(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/apis/shuttles/predictions/" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer empty.Close()

	cfg := testConfig(t)
	cfg.MITBaseURL = empty.URL
	cfg.OneBusBaseURL = empty.URL
	cfg.HarvardBaseURL = empty.URL
	cfg.MetricsEnabled = true

	reg := prometheus.NewRegistry()
	a, err := New(cfg, reg)
	require.NoError(t, err)

	text, err := a.Ask(context.Background(), skill.IntentClosest)
	require.NoError(t, err)
	assert.Equal(t, transit.NoPredictions, text)

	text, err = a.Ask(context.Background(), skill.IntentHarvard)
	require.NoError(t, err)
	assert.Equal(t, "There are no Harvard Shuttle predictions at this time", text)

	count, err := testutil.GatherAndCount(reg, "provider_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rr := httptest.NewRecorder()
	a.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `provider_fetches_total{outcome="ok",provider="harvard"} 2`)
}
