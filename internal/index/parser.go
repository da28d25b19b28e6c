package index

import (
	"context"
	"errors"
)

// ErrUnsupportedLanguage is returned by Parse for a language with no
// registered grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// FactSet holds everything extracted from a single file in one pass.
type FactSet struct {
	File      FileFact       `json:"file"`
	Symbols   []SymbolFact   `json:"symbols"`
	Relations []RelationFact `json:"relations"`
}

// Parser turns source text into structural facts.
// Implementations: TreeSitterParser (production), stub parsers in tests.
type Parser interface {
	// Parse extracts one file's facts. source is the file content; lang
	// selects the grammar and extraction rules.
	Parse(ctx context.Context, path string, source []byte, lang Language) (*FactSet, error)

	// SupportedLanguages returns the languages this parser can handle.
	SupportedLanguages() []Language

	// Close releases parser resources (tree-sitter C memory).
	Close() error
}
