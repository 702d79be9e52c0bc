// Package config handles application configuration from a config file and
// environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys, e.g. NEXTSHUTTLE_HARVARD_API_KEY -> harvard_api_key.
const EnvPrefix = "NEXTSHUTTLE_"

// OneBus feed sources.
const (
	FeedJSON   = "json"
	FeedGTFSRT = "gtfsrt"
)

// Config holds all application configuration.
type Config struct {
	Port        string        `koanf:"port" validate:"required,numeric"`
	Env         string        `koanf:"env"`
	LogLevel    string        `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	HTTPTimeout time.Duration `koanf:"http_timeout" validate:"gt=0"`
	Timezone    string        `koanf:"timezone" validate:"required"`

	MITBaseURL string `koanf:"mit_base_url" validate:"required,url"`

	OneBusBaseURL   string `koanf:"onebus_base_url" validate:"required,url"`
	OneBusAPIKey    string `koanf:"onebus_api_key"`
	OneBusFeed      string `koanf:"onebus_feed" validate:"oneof=json gtfsrt"`
	OneBusGTFSRTURL string `koanf:"onebus_gtfsrt_url" validate:"omitempty,url"`
	OneBusRoute     string `koanf:"onebus_route"`

	HarvardBaseURL string `koanf:"harvard_base_url" validate:"required,url"`
	HarvardAPIKey  string `koanf:"harvard_api_key"`
	HarvardAgency  string `koanf:"harvard_agency" validate:"required,numeric"`

	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// Load reads configuration with the following precedence (lowest first):
// defaults, the optional file at path (.yaml/.yml/.json), then environment
// variables. A .env file in the working directory is loaded into the
// environment first if present.
func Load(path string) (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// SetDefaults fills every unset field with its production value.
func (c *Config) SetDefaults() {
	setDefault(&c.Port, "3000")
	setDefault(&c.Env, "development")
	setDefault(&c.LogLevel, "info")
	setDefault(&c.Timezone, "America/New_York")
	setDefault(&c.MITBaseURL, "http://m.mit.edu")
	setDefault(&c.OneBusBaseURL, "https://api-v3.mbta.com")
	setDefault(&c.OneBusFeed, FeedJSON)
	setDefault(&c.OneBusGTFSRTURL, "https://cdn.mbta.com/realtime/TripUpdates.pb")
	setDefault(&c.OneBusRoute, "1")
	setDefault(&c.HarvardBaseURL, "https://transloc-api-1-2.p.mashape.com")
	setDefault(&c.HarvardAgency, "64")
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 10 * time.Second
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks field constraints and that the timezone resolves.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
