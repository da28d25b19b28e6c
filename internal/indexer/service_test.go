package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens/internal/index"
)

// stubParser records calls and serves canned fact sets, keyed by path.
type stubParser struct {
	facts map[string]*index.FactSet
	err   error
	calls []string
}

func (p *stubParser) Parse(_ context.Context, path string, _ []byte, lang index.Language) (*index.FactSet, error) {
	p.calls = append(p.calls, path)
	if p.err != nil {
		return nil, p.err
	}
	if f, ok := p.facts[path]; ok {
		return f, nil
	}
	return &index.FactSet{File: index.FileFact{Path: path, Language: lang}}, nil
}

func (p *stubParser) SupportedLanguages() []index.Language { return index.SupportedLanguages }
func (p *stubParser) Close() error                         { return nil }

func newTestService(t *testing.T, parser index.Parser) (*Service, *index.MemStore) {
	t.Helper()
	store := index.NewMemStore()
	if parser == nil {
		parser = &stubParser{}
	}
	return NewService(store, parser, nil), store
}

func TestLanguageForPath(t *testing.T) {
	cases := map[string]index.Language{
		"a/b/app.py":  index.LangPython,
		"src/main.ts": index.LangTypeScript,
		"src/App.tsx": index.LangTypeScript,
		"lib/util.js": index.LangJavaScript,
		"lib/mod.mjs": index.LangJavaScript,
		"cmd/main.go": index.LangGo,
		"src/lib.rs":  index.LangRust,
	}
	for path, want := range cases {
		got, ok := LanguageForPath(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := LanguageForPath("README.md")
	assert.False(t, ok)
	_, ok = LanguageForPath("Makefile")
	assert.False(t, ok)
}

func TestService_ProcessFile_UninitializedNoOp(t *testing.T) {
	parser := &stubParser{}
	svc, store := newTestService(t, parser)

	svc.ProcessFile(context.Background(), "app.py", "x = 1", time.Time{})

	assert.Empty(t, parser.calls, "nothing parses before Initialize")
	_, err := store.ListFiles(context.Background())
	assert.ErrorIs(t, err, index.ErrNotReady)
}

func TestService_ProcessFile_UnsupportedExtension(t *testing.T) {
	ctx := context.Background()
	parser := &stubParser{}
	svc, store := newTestService(t, parser)
	require.NoError(t, svc.Initialize(ctx))

	svc.ProcessFile(ctx, "notes.txt", "hello", time.Time{})

	assert.Empty(t, parser.calls)
	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestService_ProcessFile_ParseErrorSwallowed(t *testing.T) {
	ctx := context.Background()
	parser := &stubParser{err: errors.New("boom")}
	svc, store := newTestService(t, parser)
	require.NoError(t, svc.Initialize(ctx))

	svc.ProcessFile(ctx, "app.py", "x = 1", time.Time{})

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files, "a failed file leaves no partial facts")
}

func TestService_ProcessFile_StampsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, nil)
	require.NoError(t, svc.Initialize(ctx))

	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	svc.ProcessFile(ctx, "app.py", "x = 1", at)

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, at, files[0].LastIndexedAt)

	// A zero timestamp defaults to the wall clock.
	before := time.Now()
	svc.ProcessFile(ctx, "app.py", "x = 1", time.Time{})
	files, err = store.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.False(t, files[0].LastIndexedAt.Before(before))
}

func TestService_InitializeIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	require.NoError(t, svc.Initialize(ctx))
	require.NoError(t, svc.Initialize(ctx))
}

func TestService_Query_Uninitialized(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res := svc.Query(context.Background(), "MATCH (f:File) RETURN f.path")
	assert.False(t, res.OK)
}

func TestService_GetNetwork_Uninitialized(t *testing.T) {
	svc, _ := newTestService(t, nil)

	net, err := svc.GetNetwork(context.Background())
	require.NoError(t, err, "missing initialization degrades to an empty graph")
	require.NotNil(t, net)
	assert.Empty(t, net.Nodes)
	assert.Empty(t, net.Edges)
}

func TestService_FindSymbols_Uninitialized(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.FindSymbols(context.Background(), "x", 5)
	assert.ErrorIs(t, err, index.ErrNotReady)

	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, index.ErrNotReady)
}

func TestService_GetNetwork_AmbiguousResolutionStable(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemStore()
	require.NoError(t, store.Init(ctx))

	// Many same-named candidates in different files, none in the caller's.
	files := []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py", "g.py", "h.py"}
	for _, f := range files {
		require.NoError(t, store.UpsertFile(ctx, index.FileFact{Path: f, Language: index.LangPython}))
		require.NoError(t, store.UpsertSymbols(ctx, []index.SymbolFact{
			{ID: f + ":helper", FilePath: f, Name: "helper", Kind: index.SymbolKindFunction},
		}))
	}
	require.NoError(t, store.UpsertFile(ctx, index.FileFact{Path: "main.py", Language: index.LangPython}))
	require.NoError(t, store.UpsertSymbols(ctx, []index.SymbolFact{
		{ID: "main.py:run", FilePath: "main.py", Name: "run", Kind: index.SymbolKindFunction},
	}))
	require.NoError(t, store.UpsertRelations(ctx, []index.RelationFact{
		{FromID: "main.py:run", ToID: "helper", Kind: index.RelationCall, Count: 1},
	}))

	svc := NewService(store, &stubParser{}, nil)
	require.NoError(t, svc.Initialize(ctx))

	// The ambiguous call must resolve to the same candidate on every read.
	targets := make(map[string]bool)
	for i := 0; i < 50; i++ {
		net, err := svc.GetNetwork(ctx)
		require.NoError(t, err)
		for _, e := range net.Edges {
			if e.Kind == index.RelationCall {
				targets[e.Target] = true
			}
		}
	}
	require.Len(t, targets, 1)
	assert.True(t, targets["a.py:helper"], "first candidate in store key order wins")
}

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemStore()
	parser := index.NewTreeSitterParser()
	defer parser.Close()
	svc := NewService(store, parser, nil)
	require.NoError(t, svc.Initialize(ctx))

	svc.ProcessFile(ctx, "models.py", `class User:
    def __init__(self, name):
        self.name = name

    def greet(self):
        return "hello " + self.name
`, time.Time{})
	svc.ProcessFile(ctx, "app.py", `import os

from models import User

def main():
    user = User("sam")
    user.greet()
    os.getcwd()
`, time.Time{})

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 4, stats.SymbolCount) // User, __init__, greet, main

	net, err := svc.GetNetwork(ctx)
	require.NoError(t, err)
	require.NotNil(t, net)
	assert.Len(t, net.Nodes, 6)

	var callsGreet, callsUser, importsModels bool
	for _, e := range net.Edges {
		if e.Kind == index.RelationCall && e.Source == "app.py:main" && e.Target == "models.py:greet" {
			callsGreet = true
		}
		if e.Kind == index.RelationCall && e.Source == "app.py:main" && e.Target == "models.py:User" {
			callsUser = true
		}
		if e.Kind == index.RelationImport && e.Source == "app.py" && e.Target == "models.py" {
			importsModels = true
		}
	}
	assert.True(t, callsGreet, "user.greet() resolves across files by name")
	assert.True(t, callsUser, "User(...) resolves to the class")
	assert.True(t, importsModels, "from models import resolves to the file node")

	// Re-indexing the same content leaves the counts unchanged.
	svc.ProcessFile(ctx, "app.py", `import os

from models import User

def main():
    user = User("sam")
    user.greet()
    os.getcwd()
`, time.Time{})
	again, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.FileCount, again.FileCount)
	assert.Equal(t, stats.SymbolCount, again.SymbolCount)

	matches, err := svc.FindSymbols(ctx, "gree", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "models.py:greet", matches[0].ID)
}
