package mcptools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codelens-dev/codelens/internal/index"
	"github.com/codelens-dev/codelens/internal/indexer"
)

// CodeLensService adapts the indexing engine to MCP tool handlers.
type CodeLensService struct {
	svc *indexer.Service
}

// NewCodeLensService wraps an indexer service for MCP exposure.
func NewCodeLensService(svc *indexer.Service) *CodeLensService {
	return &CodeLensService{svc: svc}
}

// IndexRepo walks a repository and indexes every supported source file.
func (s *CodeLensService) IndexRepo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexRepoInput,
) (*mcp.CallToolResult, IndexRepoOutput, error) {
	if input.RepoPath == "" {
		return nil, IndexRepoOutput{}, fmt.Errorf("repoPath is required")
	}

	info, err := os.Stat(input.RepoPath)
	if err != nil {
		return nil, IndexRepoOutput{}, fmt.Errorf("cannot access repoPath: %w", err)
	}
	if !info.IsDir() {
		return nil, IndexRepoOutput{}, fmt.Errorf("repoPath is not a directory: %s", input.RepoPath)
	}

	langs := make([]index.Language, 0, len(input.Languages))
	for _, l := range input.Languages {
		langs = append(langs, index.Language(strings.ToLower(l)))
	}

	if err := s.svc.Initialize(ctx); err != nil {
		return nil, IndexRepoOutput{}, fmt.Errorf("initialize: %w", err)
	}

	report, err := s.svc.IndexDir(ctx, input.RepoPath, indexer.WalkOptions{
		Languages:   langs,
		ExcludeDirs: input.ExcludeDirs,
	})
	if err != nil {
		return nil, IndexRepoOutput{}, fmt.Errorf("index: %w", err)
	}

	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, IndexRepoOutput{}, fmt.Errorf("stats: %w", err)
	}

	return nil, IndexRepoOutput{Report: *report, Stats: *stats}, nil
}

// ProcessFile indexes a single file's content, replacing its prior facts.
func (s *CodeLensService) ProcessFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessFileInput,
) (*mcp.CallToolResult, ProcessFileOutput, error) {
	if input.Path == "" {
		return nil, ProcessFileOutput{}, fmt.Errorf("path is required")
	}
	if err := s.svc.Initialize(ctx); err != nil {
		return nil, ProcessFileOutput{}, fmt.Errorf("initialize: %w", err)
	}

	// Per-file errors are swallowed by design; unsupported languages no-op.
	_, supported := indexer.LanguageForPath(input.Path)
	s.svc.ProcessFile(ctx, input.Path, input.Content, time.Time{})

	return nil, ProcessFileOutput{Indexed: supported}, nil
}

// Query passes a declarative expression through to the fact store.
func (s *CodeLensService) Query(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Expression == "" {
		return nil, QueryOutput{}, fmt.Errorf("expression is required")
	}

	res := s.svc.Query(ctx, input.Expression)
	rows := res.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return nil, QueryOutput{OK: res.OK, Rows: rows}, nil
}

// GetNetwork resolves the store contents into the node/edge graph.
func (s *CodeLensService) GetNetwork(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetNetworkInput,
) (*mcp.CallToolResult, GetNetworkOutput, error) {
	network, err := s.svc.GetNetwork(ctx)
	if err != nil {
		return nil, GetNetworkOutput{}, fmt.Errorf("get network: %w", err)
	}
	return nil, GetNetworkOutput{Network: *network}, nil
}

// QuerySymbols searches for symbols by name substring match.
func (s *CodeLensService) QuerySymbols(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuerySymbolsInput,
) (*mcp.CallToolResult, QuerySymbolsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	symbols, err := s.svc.FindSymbols(ctx, input.Query, limit)
	if err != nil {
		return nil, QuerySymbolsOutput{}, fmt.Errorf("query symbols: %w", err)
	}

	if input.Kind != "" {
		kind := index.SymbolKind(strings.ToLower(input.Kind))
		filtered := symbols[:0]
		for _, sym := range symbols {
			if sym.Kind == kind {
				filtered = append(filtered, sym)
			}
		}
		symbols = filtered
	}

	return nil, QuerySymbolsOutput{
		Symbols: symbols,
		Total:   len(symbols),
	}, nil
}

// Stats reports fact counts for the current store.
func (s *CodeLensService) Stats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, StatsOutput{Stats: *stats}, nil
}
