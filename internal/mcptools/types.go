package mcptools

import (
	"github.com/codelens-dev/codelens/internal/index"
	"github.com/codelens-dev/codelens/internal/indexer"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// IndexRepoInput is the input for the index_repo MCP tool.
type IndexRepoInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to index"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to index (default: all). Values: python, typescript, javascript, go, rust"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from indexing (e.g. vendor, node_modules)"`
}

// IndexRepoOutput is the result of the index_repo MCP tool.
type IndexRepoOutput struct {
	Report indexer.IndexReport `json:"report"`
	Stats  index.GraphStats    `json:"stats"`
}

// ProcessFileInput is the input for the process_file MCP tool.
type ProcessFileInput struct {
	Path    string `json:"path" jsonschema:"repo-relative path of the file"`
	Content string `json:"content" jsonschema:"full file content to index"`
}

// ProcessFileOutput is the result of the process_file MCP tool.
type ProcessFileOutput struct {
	Indexed bool `json:"indexed"`
}

// QueryInput is the input for the query MCP tool.
type QueryInput struct {
	Expression string `json:"expression" jsonschema:"declarative read query against the fact store (Cypher)"`
}

// QueryOutput is the result of the query MCP tool.
type QueryOutput struct {
	OK   bool    `json:"ok"`
	Rows [][]any `json:"rows"`
}

// GetNetworkInput is the input for the get_network MCP tool.
type GetNetworkInput struct{}

// GetNetworkOutput is the result of the get_network MCP tool.
type GetNetworkOutput struct {
	Network index.Network `json:"network"`
}

// QuerySymbolsInput is the input for the query_symbols MCP tool.
type QuerySymbolsInput struct {
	Query string `json:"query" jsonschema:"search query for symbol names (substring match)"`
	Kind  string `json:"kind,omitempty" jsonschema:"filter by symbol kind: class or function"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QuerySymbolsOutput is the result of the query_symbols MCP tool.
type QuerySymbolsOutput struct {
	Symbols []index.SymbolFact `json:"symbols"`
	Total   int                `json:"total"`
}

// StatsInput is the input for the stats MCP tool.
type StatsInput struct{}

// StatsOutput is the result of the stats MCP tool.
type StatsOutput struct {
	Stats index.GraphStats `json:"stats"`
}
