package index

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKuzuStore_NotReadyFailsFast(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)

	assert.ErrorIs(t, s.UpsertFile(ctx, FileFact{Path: "a.py"}), ErrNotReady)
	assert.ErrorIs(t, s.UpsertSymbols(ctx, nil), ErrNotReady)
	assert.ErrorIs(t, s.UpsertRelations(ctx, nil), ErrNotReady)

	_, err := s.ListFiles(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.Stats(ctx)
	assert.ErrorIs(t, err, ErrNotReady)

	res := s.Query(ctx, "MATCH (f:File) RETURN f.path")
	assert.False(t, res.OK)
}

func TestKuzuStore_InitIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)

	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.UpsertFile(ctx, FileFact{
		Path: "a.py", Language: LangPython, LastIndexedAt: time.Now().UTC(),
	}))
	require.NoError(t, s.Init(ctx))

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestKuzuStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)
	require.NoError(t, s.Init(ctx))

	at := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, s.UpsertFile(ctx, FileFact{Path: "app.py", Language: LangPython, LastIndexedAt: at}))

	symbols := []SymbolFact{
		{ID: "app.py:User", FilePath: "app.py", Name: "User", Kind: SymbolKindClass, StartLine: 4, EndLine: 9},
		{ID: "app.py:main", FilePath: "app.py", Name: "main", Kind: SymbolKindFunction, StartLine: 11, EndLine: 14},
	}
	require.NoError(t, s.UpsertSymbols(ctx, symbols))

	relations := []RelationFact{
		{FromID: "app.py", ToID: "app.py:User", Kind: RelationContains, Count: 1},
		{FromID: "app.py", ToID: "app.py:main", Kind: RelationContains, Count: 1},
		{FromID: "app.py:main", ToID: "os.getcwd", Kind: RelationCall, Count: 1},
	}
	require.NoError(t, s.UpsertRelations(ctx, relations))

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app.py", files[0].Path)
	assert.Equal(t, LangPython, files[0].Language)
	assert.True(t, at.Equal(files[0].LastIndexedAt))

	// List reads come back ordered by key.
	gotSyms, err := s.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, symbols, gotSyms)

	gotRels, err := s.ListRelations(ctx)
	require.NoError(t, err)
	assert.Len(t, gotRels, 3)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &GraphStats{FileCount: 1, SymbolCount: 2, RelationCount: 3}, stats)
}

func TestKuzuStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)
	require.NoError(t, s.Init(ctx))

	rel := RelationFact{FromID: "a.py:f", ToID: "g", Kind: RelationCall, Count: 1}
	require.NoError(t, s.UpsertRelations(ctx, []RelationFact{rel}))
	require.NoError(t, s.UpsertRelations(ctx, []RelationFact{rel}))

	rels, err := s.ListRelations(ctx)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, 1, rels[0].Count, "re-upsert replaces the row, count does not sum")

	sym := SymbolFact{ID: "a.py:f", FilePath: "a.py", Name: "f", Kind: SymbolKindFunction, StartLine: 1, EndLine: 3}
	require.NoError(t, s.UpsertSymbols(ctx, []SymbolFact{sym}))
	sym.EndLine = 10
	require.NoError(t, s.UpsertSymbols(ctx, []SymbolFact{sym}))

	syms, err := s.ListSymbols(ctx)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, 10, syms[0].EndLine)
}

func TestKuzuStore_ListOrderStable(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)
	require.NoError(t, s.Init(ctx))

	at := time.Now().UTC()
	require.NoError(t, s.UpsertFile(ctx, FileFact{Path: "c.py", Language: LangPython, LastIndexedAt: at}))
	require.NoError(t, s.UpsertFile(ctx, FileFact{Path: "a.py", Language: LangPython, LastIndexedAt: at}))
	require.NoError(t, s.UpsertFile(ctx, FileFact{Path: "b.py", Language: LangPython, LastIndexedAt: at}))

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.py", files[0].Path)
	assert.Equal(t, "b.py", files[1].Path)
	assert.Equal(t, "c.py", files[2].Path)
}

func TestKuzuStore_Query(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)
	require.NoError(t, s.Init(ctx))

	require.NoError(t, s.UpsertSymbols(ctx, []SymbolFact{
		{ID: "a.py:f", FilePath: "a.py", Name: "f", Kind: SymbolKindFunction, StartLine: 1, EndLine: 2},
	}))

	res := s.Query(ctx, "MATCH (s:Symbol) RETURN s.name")
	require.True(t, res.OK)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "f", res.Rows[0][0])

	// Malformed expressions never raise; they report failure uniformly.
	bad := s.Query(ctx, "MATCH (((")
	assert.False(t, bad.OK)
	assert.Empty(t, bad.Rows)

	// The store stays usable after a failed query.
	again := s.Query(ctx, "MATCH (s:Symbol) RETURN count(s)")
	assert.True(t, again.OK)
}

func TestKuzuStore_FindSymbols(t *testing.T) {
	ctx := context.Background()
	s := newTestKuzuStore(t)
	require.NoError(t, s.Init(ctx))

	require.NoError(t, s.UpsertSymbols(ctx, []SymbolFact{
		{ID: "a.py:getUser", FilePath: "a.py", Name: "getUser", Kind: SymbolKindFunction, StartLine: 1, EndLine: 2},
		{ID: "a.py:saveUser", FilePath: "a.py", Name: "saveUser", Kind: SymbolKindFunction, StartLine: 3, EndLine: 4},
		{ID: "a.py:render", FilePath: "a.py", Name: "render", Kind: SymbolKindFunction, StartLine: 5, EndLine: 6},
	}))

	matches, err := s.FindSymbols(ctx, "User", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	limited, err := s.FindSymbols(ctx, "User", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestKuzuStore_FilePersistence(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir() + "/facts.kuzu"

	s, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.UpsertFile(ctx, FileFact{
		Path: "app.py", Language: LangPython, LastIndexedAt: time.Now().UTC(),
	}))
	require.NoError(t, s.Close())

	reopened, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Init(ctx))

	files, err := reopened.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app.py", files[0].Path)
}
