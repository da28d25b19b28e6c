package index

import "time"

// --- Enums ---

// Language identifies a programming language for parsing.
type Language string

const (
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangGo         Language = "go"
	LangRust       Language = "rust"
)

// SupportedLanguages are the languages with extraction rule tables.
var SupportedLanguages = []Language{LangPython, LangTypeScript, LangJavaScript, LangGo, LangRust}

// SymbolKind classifies symbol definitions.
type SymbolKind string

const (
	SymbolKindClass    SymbolKind = "class"
	SymbolKindFunction SymbolKind = "function"
)

// RelationKind classifies relationships between facts.
type RelationKind string

const (
	// RelationContains links a scope (file or symbol) to a definition nested
	// directly inside it. Both endpoints are always concrete ids.
	RelationContains RelationKind = "contains"

	// RelationImport links a file to a raw module reference as written in
	// source. The target is not guaranteed to name any known fact.
	RelationImport RelationKind = "import"

	// RelationCall links the enclosing scope of a call site to the raw
	// callee text. The target is not guaranteed to name any known fact.
	RelationCall RelationKind = "call"
)

// --- Facts ---

// FileFact is one persisted File row. A file is re-created in full each time
// it is indexed; stale facts for deleted files persist until the store is
// cleared.
type FileFact struct {
	Path          string    `json:"path"`
	Language      Language  `json:"language"`
	LastIndexedAt time.Time `json:"lastIndexedAt"`
}

// SymbolFact is one persisted Symbol row. ID is derived as "filePath:name";
// two same-named definitions in one file collide and the later upsert wins.
type SymbolFact struct {
	ID        string     `json:"id"`
	FilePath  string     `json:"filePath"`
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	StartLine int        `json:"startLine"`
	EndLine   int        `json:"endLine"`
}

// RelationFact is one persisted Relation row, keyed by (FromID, ToID, Kind).
// Count is a multiplicity accumulator written as a literal per upsert, not a
// running total.
type RelationFact struct {
	FromID string       `json:"fromId"`
	ToID   string       `json:"toId"`
	Kind   RelationKind `json:"type"`
	Count  int          `json:"count"`
}

// SymbolID produces the deterministic identifier for a symbol.
func SymbolID(filePath, name string) string {
	return filePath + ":" + name
}

// --- Network ---

// NodeKind classifies network nodes. Symbol nodes reuse their SymbolKind.
const NodeKindFile = "file"

// Node is one vertex in the visualization network.
type Node struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// ResolvedEdge is a Relation whose target has been mapped to a concrete id.
type ResolvedEdge struct {
	ID     string       `json:"id"`
	Source string       `json:"source"`
	Target string       `json:"target"`
	Kind   RelationKind `json:"type"`
}

// Network is the node/edge graph handed to visualization consumers.
type Network struct {
	Nodes []Node         `json:"nodes"`
	Edges []ResolvedEdge `json:"edges"`
}

// GraphStats summarizes the current store contents.
type GraphStats struct {
	FileCount     int `json:"fileCount"`
	SymbolCount   int `json:"symbolCount"`
	RelationCount int `json:"relationCount"`
}
