package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/basket/internal/feed"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "basket.db", cfg.DBPath)
	assert.Equal(t, feed.DefaultURL, cfg.Feed.URL)
	assert.Equal(t, 10*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/groceries.db
feed:
  url: https://example.com/todos
  timeout: 3s
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/groceries.db", cfg.DBPath)
	assert.Equal(t, "https://example.com/todos", cfg.Feed.URL)
	assert.Equal(t, 3*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "basket.db", cfg.DBPath)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "db_pth: typo.db\n"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BASKET_DB_PATH", "/data/env.db")
	t.Setenv("BASKET_FEED_URL", "http://localhost:9000/feed")
	t.Setenv("BASKET_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "db_path: file.db\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/env.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:9000/feed", cfg.Feed.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"bad feed scheme", func(c *Config) { c.Feed.URL = "ftp://example.com" }},
		{"feed not a url", func(c *Config) { c.Feed.URL = "not a url" }},
		{"timeout too short", func(c *Config) { c.Feed.Timeout = 10 * time.Millisecond }},
		{"timeout too long", func(c *Config) { c.Feed.Timeout = time.Hour }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
