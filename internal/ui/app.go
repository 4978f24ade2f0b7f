package ui

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"trackmatch/internal/match"
	"trackmatch/internal/persistence"
)

// App wires the configured storage backend to the matching engine.
type App struct {
	Cfg     Config
	Index   persistence.Index
	Matcher *match.Matcher

	logger *zap.Logger
}

func NewApp(cfg Config, logger *zap.Logger) (*App, error) {
	var (
		idx persistence.Index
		err error
	)
	switch cfg.Backend {
	case "duckdb":
		idx, err = persistence.NewDuckDB(filepath.Join(cfg.StoragePath, "trackmatch.duckdb"), cfg.DuckdbMaxMemMb, logger)
	case "sqlite":
		idx, err = persistence.NewSQLite(filepath.Join(cfg.StoragePath, "trackmatch.db"), logger)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s index: %w", cfg.Backend, err)
	}

	return &App{
		Cfg:     cfg,
		Index:   idx,
		Matcher: match.NewMatcher(idx, cfg.Tuning(), cfg.BatchSize, cfg.Concurrency, logger),
		logger:  logger,
	}, nil
}

func (a *App) Close() error { return a.Index.Close() }
