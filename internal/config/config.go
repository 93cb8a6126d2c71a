package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StorageDriver identifies the persistence medium backing the lists
type StorageDriver string

const (
	StorageBolt   StorageDriver = "bolt"
	StorageSQLite StorageDriver = "sqlite"
	StorageFile   StorageDriver = "file"
	StorageMemory StorageDriver = "memory"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds catalog API configuration
type TMDBConfig struct {
	APIKey       string  `mapstructure:"api_key"`      // v3 API key (query parameter)
	AccessToken  string  `mapstructure:"access_token"` // v4 read access token (bearer)
	BaseURL      string  `mapstructure:"base_url"`
	ImageBaseURL string  `mapstructure:"image_base_url"`
	Language     string  `mapstructure:"language"`
	Region       string  `mapstructure:"region"`
	RateLimit    float64 `mapstructure:"rate_limit"` // Requests per second
}

// StorageConfig holds list persistence configuration
type StorageConfig struct {
	Driver     StorageDriver `mapstructure:"driver"`
	Path       string        `mapstructure:"path"`
	Profile    string        `mapstructure:"profile"`     // Separate list sets per profile
	QuotaBytes int64         `mapstructure:"quota_bytes"` // 0 = unlimited
}

// UIConfig holds UI configuration
type UIConfig struct {
	DebounceMS     int    `mapstructure:"debounce_ms"`
	GridColumns    int    `mapstructure:"grid_columns"`
	DefaultSection string `mapstructure:"default_section"`

	// Browser opens TMDB pages; empty uses the system default handler
	Browser     string   `mapstructure:"browser"`
	BrowserArgs []string `mapstructure:"browser_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w342",
			Language:     "en-US",
			RateLimit:    20,
		},
		Storage: StorageConfig{
			Driver: StorageBolt,
			Path:   defaultDataPath(),
		},
		UI: UIConfig{
			DebounceMS:     300,
			GridColumns:    4,
			DefaultSection: "trending",
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultDataPath returns the default list storage directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee", "lists")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "lists")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// LoadConfig loads configuration from file, .env and environment.
// An explicit path overrides the default search locations.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is fine; it only seeds MARQUEE_* variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	cfg := DefaultConfig()
	setDefaults(cfg)

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(defaultConfigPath())
		viper.AddConfigPath(".")
	}

	// Environment variable overrides (MARQUEE_TMDB_API_KEY, ...)
	viper.SetEnvPrefix("MARQUEE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key with viper so AutomaticEnv can
// override keys that are absent from the config file.
func setDefaults(cfg *Config) {
	viper.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	viper.SetDefault("tmdb.access_token", cfg.TMDB.AccessToken)
	viper.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	viper.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	viper.SetDefault("tmdb.language", cfg.TMDB.Language)
	viper.SetDefault("tmdb.region", cfg.TMDB.Region)
	viper.SetDefault("tmdb.rate_limit", cfg.TMDB.RateLimit)

	viper.SetDefault("storage.driver", cfg.Storage.Driver)
	viper.SetDefault("storage.path", cfg.Storage.Path)
	viper.SetDefault("storage.profile", cfg.Storage.Profile)
	viper.SetDefault("storage.quota_bytes", cfg.Storage.QuotaBytes)

	viper.SetDefault("ui.debounce_ms", cfg.UI.DebounceMS)
	viper.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	viper.SetDefault("ui.default_section", cfg.UI.DefaultSection)
	viper.SetDefault("ui.browser", cfg.UI.Browser)
	viper.SetDefault("ui.browser_args", cfg.UI.BrowserArgs)

	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("tmdb.api_key", cfg.TMDB.APIKey)
	viper.Set("tmdb.access_token", cfg.TMDB.AccessToken)
	viper.Set("tmdb.base_url", cfg.TMDB.BaseURL)
	viper.Set("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	viper.Set("tmdb.language", cfg.TMDB.Language)
	viper.Set("tmdb.region", cfg.TMDB.Region)
	viper.Set("tmdb.rate_limit", cfg.TMDB.RateLimit)

	viper.Set("storage.driver", cfg.Storage.Driver)
	viper.Set("storage.path", cfg.Storage.Path)
	viper.Set("storage.profile", cfg.Storage.Profile)
	viper.Set("storage.quota_bytes", cfg.Storage.QuotaBytes)

	viper.Set("ui.debounce_ms", cfg.UI.DebounceMS)
	viper.Set("ui.grid_columns", cfg.UI.GridColumns)
	viper.Set("ui.default_section", cfg.UI.DefaultSection)
	viper.Set("ui.browser", cfg.UI.Browser)
	viper.Set("ui.browser_args", cfg.UI.BrowserArgs)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)
	viper.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	viper.Set("logging.max_backups", cfg.Logging.MaxBackups)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(configPath, "config.yaml")
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Watch logs config file changes. Settings already in use are not
// re-applied; they take effect on the next start.
func Watch(logger *slog.Logger) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", "file", e.Name, "op", e.Op.String())
	})
	viper.WatchConfig()
}

// IsConfigured returns true if a catalog credential is set
func (c *Config) IsConfigured() bool {
	return c.TMDB.APIKey != "" || c.TMDB.AccessToken != ""
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageBolt, StorageSQLite, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver != StorageMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
	}
	if c.UI.DebounceMS < 0 {
		return fmt.Errorf("ui.debounce_ms must not be negative")
	}
	if c.TMDB.RateLimit < 0 {
		return fmt.Errorf("tmdb.rate_limit must not be negative")
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}
