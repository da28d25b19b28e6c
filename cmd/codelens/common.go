package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/index"
	"github.com/codelens-dev/codelens/internal/indexer"
)

// commonFlags are shared by every command that touches the store.
type commonFlags struct {
	ProjectRoot string
	DBPath      string
	Verbose     bool
}

// newLogger builds the process logger on stderr, so command output on
// stdout stays machine-readable.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openService loads the project config, opens the fact store, and wires an
// initialized indexing service. The caller must Close the returned store.
func openService(ctx context.Context, flags commonFlags) (*indexer.Service, index.Store, *config.ProjectConfig, error) {
	cfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.Verbose {
		cfg.Verbose = true
	}
	dbPath := flags.DBPath
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	store, err := openStore(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log := newLogger(cfg.Verbose)
	svc := indexer.NewService(store, index.NewTreeSitterParser(), log)
	if err := svc.Initialize(ctx); err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	return svc, store, cfg, nil
}

// walkOptions translates a project config into walk options.
func walkOptions(cfg *config.ProjectConfig) indexer.WalkOptions {
	langs := make([]index.Language, 0, len(cfg.Languages))
	for _, l := range cfg.Languages {
		langs = append(langs, index.Language(l))
	}
	return indexer.WalkOptions{
		Languages:       langs,
		ExcludeDirs:     cfg.ExcludeDirs,
		ExcludePatterns: cfg.ExcludePatterns,
		Workers:         cfg.Workers,
	}
}
