// Package indexer drives the indexing engine: it feeds files through the
// parser into the fact store and answers query and network requests from
// the current store contents.
package indexer

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/codelens-dev/codelens/internal/index"
)

// extToLanguage maps file extensions to languages.
var extToLanguage = map[string]index.Language{
	".py":  index.LangPython,
	".ts":  index.LangTypeScript,
	".tsx": index.LangTypeScript,
	".js":  index.LangJavaScript,
	".jsx": index.LangJavaScript,
	".mjs": index.LangJavaScript,
	".go":  index.LangGo,
	".rs":  index.LangRust,
}

// LanguageForPath returns the language a file indexes as, by extension.
func LanguageForPath(path string) (index.Language, bool) {
	lang, ok := extToLanguage[filepath.Ext(path)]
	return lang, ok
}

// Service is the engine's collaborator surface. Indexing holds no state
// across files beyond what lands in the store; the store is the only shared
// mutable resource.
type Service struct {
	store  index.Store
	parser index.Parser
	log    *slog.Logger

	mu    sync.Mutex
	ready bool
}

// NewService wires a Service. A nil logger falls back to slog.Default().
func NewService(store index.Store, parser index.Parser, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, parser: parser, log: log}
}

// Initialize prepares the fact store. Idempotent: a second call is a no-op.
// On failure the service stays uninitialized and indexing calls no-op.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := s.store.Init(ctx); err != nil {
		return err
	}
	s.ready = true
	return nil
}

func (s *Service) initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// ProcessFile indexes one file, replacing its facts in full. It returns
// nothing: a batch of many files must tolerate individual failures, so
// parse and upsert errors are logged and swallowed per file. Calls against
// an uninitialized service or an unsupported language silently no-op.
func (s *Service) ProcessFile(ctx context.Context, path, content string, lastModified time.Time) {
	if !s.initialized() {
		s.log.Debug("skipping file, store not initialized", "path", path)
		return
	}
	lang, ok := LanguageForPath(path)
	if !ok {
		s.log.Debug("skipping file, unsupported language", "path", path)
		return
	}
	if lastModified.IsZero() {
		lastModified = time.Now()
	}

	facts, err := s.parser.Parse(ctx, path, []byte(content), lang)
	if err != nil {
		s.log.Warn("parse failed", "path", path, "error", err)
		return
	}
	facts.File.LastIndexedAt = lastModified

	s.upsertFacts(ctx, facts)
}

// upsertFacts persists one file's fact set. Each upsert is atomic; a schema
// violation fails that file the same way a parse failure would. The error
// is logged here; callers use the return only to account for the failure.
func (s *Service) upsertFacts(ctx context.Context, facts *index.FactSet) error {
	if err := s.store.UpsertFile(ctx, facts.File); err != nil {
		s.log.Warn("upsert file failed", "path", facts.File.Path, "error", err)
		return err
	}
	if err := s.store.UpsertSymbols(ctx, facts.Symbols); err != nil {
		s.log.Warn("upsert symbols failed", "path", facts.File.Path, "error", err)
		return err
	}
	if err := s.store.UpsertRelations(ctx, facts.Relations); err != nil {
		s.log.Warn("upsert relations failed", "path", facts.File.Path, "error", err)
		return err
	}
	return nil
}

// Query passes a declarative expression through to the store. Uninitialized
// services answer OK=false, matching the store's own contract.
func (s *Service) Query(ctx context.Context, expression string) index.Result {
	if !s.initialized() {
		return index.Result{OK: false}
	}
	return s.store.Query(ctx, expression)
}

// GetNetwork resolves the current store contents into the node/edge graph.
// An uninitialized or empty store yields an empty graph, never an error.
func (s *Service) GetNetwork(ctx context.Context) (*index.Network, error) {
	if !s.initialized() {
		return emptyNetwork(), nil
	}

	files, err := s.store.ListFiles(ctx)
	if errors.Is(err, index.ErrNotReady) {
		return emptyNetwork(), nil
	}
	if err != nil {
		return nil, err
	}
	symbols, err := s.store.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}
	relations, err := s.store.ListRelations(ctx)
	if err != nil {
		return nil, err
	}

	resolver := index.NewResolver(symbols, files)
	edges := resolver.Resolve(relations)
	return index.BuildNetwork(files, symbols, edges), nil
}

// emptyNetwork is what consumers get instead of a StoreNotReady error.
func emptyNetwork() *index.Network {
	return &index.Network{Nodes: []index.Node{}, Edges: []index.ResolvedEdge{}}
}

// FindSymbols searches symbols by name substring.
func (s *Service) FindSymbols(ctx context.Context, query string, limit int) ([]index.SymbolFact, error) {
	if !s.initialized() {
		return nil, index.ErrNotReady
	}
	return s.store.FindSymbols(ctx, query, limit)
}

// Stats reports current store row counts.
func (s *Service) Stats(ctx context.Context) (*index.GraphStats, error) {
	if !s.initialized() {
		return nil, index.ErrNotReady
	}
	return s.store.Stats(ctx)
}
