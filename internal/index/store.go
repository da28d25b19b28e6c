package index

import (
	"context"
	"errors"
	"io"
)

// ErrNotReady is returned by every store operation attempted before Init
// succeeded, or after it failed partway. The store never surfaces
// engine-internal errors for the uninitialized case.
var ErrNotReady = errors.New("store not initialized")

// Result is the uniform answer to a declarative read query. OK is false for
// malformed expressions and for a store that is not ready; Rows is then
// empty. A query never panics and never returns an engine error directly.
type Result struct {
	OK   bool    `json:"ok"`
	Rows [][]any `json:"rows"`
}

// Store is the fact persistence boundary: three relations (File, Symbol,
// Relation) with upsert-by-key writes and declarative reads.
// Implementations: KuzuStore (production), MemStore (testing).
type Store interface {
	io.Closer

	// Init declares the schema. Idempotent: a second call is a no-op. A
	// partial failure leaves the store in a well-defined not-ready state in
	// which every other operation fails fast with ErrNotReady.
	Init(ctx context.Context) error

	// Upserts replace or create rows by key, atomically per call: either
	// every row applies or none does.
	UpsertFile(ctx context.Context, file FileFact) error
	UpsertSymbols(ctx context.Context, symbols []SymbolFact) error
	UpsertRelations(ctx context.Context, relations []RelationFact) error

	// Query runs a declarative read expression against the store.
	Query(ctx context.Context, expression string) Result

	// Full reads used by the resolver and network builder. Rows come back
	// in stable key order so downstream resolution is deterministic.
	ListFiles(ctx context.Context) ([]FileFact, error)
	ListSymbols(ctx context.Context) ([]SymbolFact, error)
	ListRelations(ctx context.Context) ([]RelationFact, error)

	// FindSymbols returns symbols whose name contains the query substring.
	FindSymbols(ctx context.Context, query string, limit int) ([]SymbolFact, error)

	// Stats reports row counts per relation.
	Stats(ctx context.Context) (*GraphStats, error)
}

// relationKey builds the composite upsert key for a Relation row.
func relationKey(fromID, toID string, kind RelationKind) string {
	return fromID + "|" + toID + "|" + string(kind)
}
