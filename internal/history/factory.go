package history

import (
	"fmt"
	"log/slog"
)

const (
	FileBackend   = "file"
	SQLiteBackend = "sqlite"
	MemoryBackend = "memory"
)

// BackendConfig selects and parameterizes a history backend.
type BackendConfig struct {
	Backend      string
	Path         string // file backend: lineage-scoped directory
	SQLiteDBPath string
	Lineage      string
}

// Open builds the configured history store. The returned cleanup is
// nil when the backend holds no resources.
func Open(cfg BackendConfig, logger *slog.Logger) (Store, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case FileBackend:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("file history backend requires a path")
		}
		logger.Info("Initialized file history store", "path", cfg.Path)
		return NewFileStore(cfg.Path), nil, nil

	case SQLiteBackend:
		store, err := NewSQLiteStore(cfg.SQLiteDBPath, cfg.Lineage)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite history store: %w", err)
		}
		logger.Info("Initialized sqlite history store",
			"db_path", cfg.SQLiteDBPath,
			"lineage", cfg.Lineage)
		return store, store.Close, nil

	case MemoryBackend:
		logger.Info("Initialized memory history store")
		return NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported history backend: %s", cfg.Backend)
	}
}
