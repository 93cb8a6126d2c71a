package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("File Values Override Defaults", func(t *testing.T) {
		viper.Reset()
		path := writeConfig(t, `
tmdb:
  api_key: abc123
  region: GB
storage:
  driver: sqlite
  path: /tmp/marquee
ui:
  debounce_ms: 150
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "abc123", cfg.TMDB.APIKey)
		assert.Equal(t, "GB", cfg.TMDB.Region)
		assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
		assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
		assert.Equal(t, 150, cfg.UI.DebounceMS)
		assert.Equal(t, 4, cfg.UI.GridColumns)
		assert.True(t, cfg.IsConfigured())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		viper.Reset()
		t.Setenv("MARQUEE_TMDB_ACCESS_TOKEN", "eyJtoken")
		t.Setenv("MARQUEE_UI_DEFAULT_SECTION", "watchlist")
		path := writeConfig(t, "ui:\n  default_section: movies\n")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "eyJtoken", cfg.TMDB.AccessToken)
		assert.Equal(t, "watchlist", cfg.UI.DefaultSection)
	})

	t.Run("Missing Explicit File Uses Defaults", func(t *testing.T) {
		viper.Reset()
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().UI, cfg.UI)
		assert.False(t, cfg.IsConfigured())
	})

	t.Run("Malformed File", func(t *testing.T) {
		viper.Reset()
		_, err := LoadConfig(writeConfig(t, "tmdb: [unclosed"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Unknown Driver", func(c *Config) { c.Storage.Driver = "redis" }},
		{"Missing Path", func(c *Config) { c.Storage.Path = "" }},
		{"Negative Debounce", func(c *Config) { c.UI.DebounceMS = -1 }},
		{"Negative Rate Limit", func(c *Config) { c.TMDB.RateLimit = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Storage.Driver = StorageMemory
	cfg.Storage.Path = ""
	assert.NoError(t, cfg.Validate(), "memory needs no path")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/lists")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "lists"), got)

	got, err = ExpandPath("/var/lib/marquee")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/marquee", got)
}
