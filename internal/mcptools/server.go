// Package mcptools exposes the indexing engine as MCP tools for agent
// clients.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewCodeLensMCPServer creates an MCP server with all code indexing tools
// registered.
func NewCodeLensMCPServer(svc *CodeLensService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codelens",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_repo",
		Description: "Index a repository. Walks the file tree, parses source files with tree-sitter, extracts symbol definitions plus contains/import/call relations, and upserts them into the fact store.",
	}, svc.IndexRepo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_file",
		Description: "Index one file from its content, replacing the file's previously stored facts in full.",
	}, svc.ProcessFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query",
		Description: "Run a declarative read query against the fact store. Returns ok=false with no rows for malformed expressions or an uninitialized store.",
	}, svc.Query)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_network",
		Description: "Resolve raw import/call references against the current facts and return the node/edge graph for visualization.",
	}, svc.GetNetwork)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_symbols",
		Description: "Search for symbols (classes, functions) by name substring match. Optionally filter by kind and limit results.",
	}, svc.QuerySymbols)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Return file, symbol, and relation counts for the current fact store.",
	}, svc.Stats)

	return server
}

// RunMCPServer starts an HTTP server exposing the code indexing MCP tools.
func RunMCPServer(ctx context.Context, svc *CodeLensService, addr string) error {
	server := NewCodeLensMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
