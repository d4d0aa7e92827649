// Package config loads the basket YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/basket/internal/feed"
	"github.com/dukerupert/basket/internal/logging"
)

// FeedConfig points at the suggestion feed used by import.
type FeedConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Config holds the complete configuration.
type Config struct {
	DBPath string     `yaml:"db_path"`
	Feed   FeedConfig `yaml:"feed"`
	Log    LogConfig  `yaml:"log"`
}

// DefaultPath returns ~/.config/basket/config.yaml, or BASKET_CONFIG if set.
func DefaultPath() string {
	if p := os.Getenv("BASKET_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "basket.yaml"
	}
	return filepath.Join(home, ".config", "basket", "config.yaml")
}

func Default() *Config {
	return &Config{
		DBPath: "basket.db",
		Feed: FeedConfig{
			URL:     feed.DefaultURL,
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			dec := yaml.NewDecoder(f)
			dec.KnownFields(true)
			if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parsing config file %q: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("opening config file %q: %w", path, err)
		}
	}

	if v := os.Getenv("BASKET_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BASKET_FEED_URL"); v != "" {
		cfg.Feed.URL = v
	}
	if v := os.Getenv("BASKET_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = 10 * time.Second
	}

	return cfg, nil
}

// Validate returns an error if the configuration contains invalid values.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	u, err := url.ParseRequestURI(c.Feed.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("feed.url %q must be a valid http or https URL", c.Feed.URL)
	}
	if c.Feed.Timeout < time.Second || c.Feed.Timeout > 2*time.Minute {
		return fmt.Errorf("feed.timeout %v must be between 1s and 2m", c.Feed.Timeout)
	}

	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}
