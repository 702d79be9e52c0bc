package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://m.mit.edu", cfg.MITBaseURL)
	assert.Equal(t, "https://api-v3.mbta.com", cfg.OneBusBaseURL)
	assert.Equal(t, FeedJSON, cfg.OneBusFeed)
	assert.Equal(t, "64", cfg.HarvardAgency)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.IsDevelopment())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEXTSHUTTLE_PORT", "8080")
	t.Setenv("NEXTSHUTTLE_HARVARD_API_KEY", "secret")
	t.Setenv("NEXTSHUTTLE_HTTP_TIMEOUT", "3s")
	t.Setenv("NEXTSHUTTLE_METRICS_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "secret", cfg.HarvardAPIKey)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("port: \"9000\"\nonebus_feed: gtfsrt\nharvard_agency: \"12\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("NEXTSHUTTLE_HARVARD_AGENCY", "99")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, FeedGTFSRT, cfg.OneBusFeed)
	assert.Equal(t, "99", cfg.HarvardAgency)
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mit_base_url":"http://localhost:1234"}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234", cfg.MITBaseURL)
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	_, err := Load("config.toml")
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad feed", func(c *Config) { c.OneBusFeed = "xml" }},
		{"bad url", func(c *Config) { c.MITBaseURL = "not a url" }},
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			require.NoError(t, cfg.Validate())

			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
