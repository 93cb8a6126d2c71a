package store

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/spf13/afero"
)

// Open creates the Medium selected by cfg.Driver, wrapped with the
// configured quota. This factory hides the concrete backend from callers.
func Open(cfg *config.StorageConfig, logger *slog.Logger) (Medium, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := config.ExpandPath(cfg.Path)
	if err != nil {
		return nil, err
	}

	var m Medium
	switch cfg.Driver {
	case config.StorageBolt, "":
		m, err = NewBoltMedium(dir, cfg.Profile)
	case config.StorageSQLite:
		if cfg.Profile != "" {
			dir = filepath.Join(dir, hashProfile(cfg.Profile))
		}
		m, err = NewSQLiteMedium(dir)
	case config.StorageFile:
		if cfg.Profile != "" {
			dir = filepath.Join(dir, hashProfile(cfg.Profile))
		}
		m, err = NewFileMedium(afero.NewOsFs(), dir)
	case config.StorageMemory:
		m = NewMemoryMedium()
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("opened list storage", "driver", cfg.Driver, "path", dir, "quota", cfg.QuotaBytes)
	return WithQuota(m, cfg.QuotaBytes, logger), nil
}
