package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("Error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marquee.log")
	logger, closer, err := SetupLogger(&config.LoggingConfig{File: path, Level: "INFO", MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("list updated", "list", "watchlist")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"list updated"`)
	assert.Contains(t, string(data), `"list":"watchlist"`)
	assert.NotContains(t, string(data), "hidden")

	_, _, err = SetupLogger(&config.LoggingConfig{})
	assert.Error(t, err)
}

func TestWithConsole(t *testing.T) {
	var file, console bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger := WithConsole(base, &console, slog.LevelDebug).With("section", "search")
	logger.Debug("search settled")
	logger.Warn("list update failed")

	assert.Contains(t, console.String(), "search settled")
	assert.Contains(t, console.String(), "list update failed")
	assert.NotContains(t, file.String(), "search settled")
	assert.Contains(t, file.String(), `"section":"search"`)
}
