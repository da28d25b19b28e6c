package index

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store with Go maps. It is the test double for the
// KuzuDB store. Thread-safe via sync.RWMutex; writes hold the exclusive
// lock, so upserts to the same key never interleave.
type MemStore struct {
	mu        sync.RWMutex
	ready     bool
	files     map[string]FileFact
	symbols   map[string]SymbolFact
	relations map[string]RelationFact
}

// NewMemStore returns a MemStore. Init must still be called before use, to
// mirror the production store's lifecycle.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Init allocates the relation maps. Idempotent.
func (m *MemStore) Init(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready {
		return nil
	}
	m.files = make(map[string]FileFact)
	m.symbols = make(map[string]SymbolFact)
	m.relations = make(map[string]RelationFact)
	m.ready = true
	return nil
}

func (m *MemStore) UpsertFile(_ context.Context, file FileFact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}
	m.files[file.Path] = file
	return nil
}

func (m *MemStore) UpsertSymbols(_ context.Context, symbols []SymbolFact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}
	for _, s := range symbols {
		m.symbols[s.ID] = s
	}
	return nil
}

func (m *MemStore) UpsertRelations(_ context.Context, relations []RelationFact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}
	for _, r := range relations {
		m.relations[relationKey(r.FromID, r.ToID, r.Kind)] = r
	}
	return nil
}

// Query has no declarative engine behind it in the in-memory store. It
// honors the readiness contract and answers every well-formed call with an
// empty row set.
func (m *MemStore) Query(_ context.Context, _ string) Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return Result{OK: false}
	}
	return Result{OK: true}
}

func (m *MemStore) ListFiles(_ context.Context) ([]FileFact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, ErrNotReady
	}
	out := make([]FileFact, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *MemStore) ListSymbols(_ context.Context) ([]SymbolFact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, ErrNotReady
	}
	out := make([]SymbolFact, 0, len(m.symbols))
	for _, s := range m.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ListRelations(_ context.Context) ([]RelationFact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, ErrNotReady
	}
	out := make([]RelationFact, 0, len(m.relations))
	for _, r := range m.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return relationKey(out[i].FromID, out[i].ToID, out[i].Kind) <
			relationKey(out[j].FromID, out[j].ToID, out[j].Kind)
	})
	return out, nil
}

// FindSymbols returns symbols whose name contains query, case-insensitive.
// A limit <= 0 returns all matches.
func (m *MemStore) FindSymbols(_ context.Context, query string, limit int) ([]SymbolFact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, ErrNotReady
	}
	lower := strings.ToLower(query)
	var out []SymbolFact
	for _, s := range m.symbols {
		if strings.Contains(strings.ToLower(s.Name), lower) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, ErrNotReady
	}
	return &GraphStats{
		FileCount:     len(m.files),
		SymbolCount:   len(m.symbols),
		RelationCount: len(m.relations),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
