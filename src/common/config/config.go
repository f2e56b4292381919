package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "https://api.at.govt.nz/gtfs/v3"
	DefaultRealtimeURL = "https://api.at.govt.nz/realtime/legacy/tripupdates"

	DefaultPollIntervalSeconds = 60
	DefaultMaxDepartures       = 4
	DefaultQuietStart          = "01:00"
	DefaultQuietEnd            = "05:00"
)

type APIConfig struct {
	Key         string `yaml:"key" validate:"required"`
	BaseURL     string `yaml:"baseURL" validate:"omitempty,url"`
	RealtimeURL string `yaml:"realtimeURL" validate:"omitempty,url"`
}

// StopConfig configures one stop monitor. QuietStart/QuietEnd are
// time-of-day strings; the window may wrap midnight.
type StopConfig struct {
	ID                  string `yaml:"id" validate:"required"`
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds" validate:"gte=30,lte=3600"`
	QuietStart          string `yaml:"quietStart"`
	QuietEnd            string `yaml:"quietEnd"`
	MaxDepartures       int    `yaml:"maxDepartures" validate:"gte=1,lte=10"`
}

type AppConfig struct {
	API   APIConfig    `yaml:"api"`
	Stops []StopConfig `yaml:"stops" validate:"min=1,unique=ID,dive"`
}

// Load reads and validates the configuration. The path comes from
// CONFIG_PATH, or config.yml in the working directory when unset. An
// unreadable CONFIG_PATH is an error, not a reason to fall back.
// Defaults are filled in before validation.
func Load() (*AppConfig, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	v := validator.New()
	if err := v.Struct(cfg.API); err != nil {
		return nil, fmt.Errorf("invalid api config: %w", err)
	}
	if err := v.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.RealtimeURL == "" {
		c.API.RealtimeURL = DefaultRealtimeURL
	}

	for i := range c.Stops {
		stop := &c.Stops[i]
		if stop.PollIntervalSeconds == 0 {
			stop.PollIntervalSeconds = DefaultPollIntervalSeconds
		}
		if stop.MaxDepartures == 0 {
			stop.MaxDepartures = DefaultMaxDepartures
		}
		if stop.QuietStart == "" {
			stop.QuietStart = DefaultQuietStart
		}
		if stop.QuietEnd == "" {
			stop.QuietEnd = DefaultQuietEnd
		}
	}
}
