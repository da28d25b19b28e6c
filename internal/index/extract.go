package index

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// languageRules maps one grammar's node kinds onto the extraction model.
// Each supported language declares a table in its rules_*.go file.
type languageRules struct {
	// Definition node kinds. A matched node with a discoverable name child
	// emits a Symbol plus a contains Relation and opens a new scope; a
	// matched node without one is anonymous and opens nothing.
	classKinds    map[string]bool
	functionKinds map[string]bool

	// Plain import node kinds: one import Relation per module-reference child.
	importKinds map[string]bool

	// Selective import node kinds (e.g. Python "from x import y"): only the
	// module itself is recorded, via the first module reference found.
	importFromKinds map[string]bool

	// Call-expression node kinds, including grammar aliases for ordinary
	// calls (e.g. new_expression alongside call_expression).
	callKinds map[string]bool

	// nameField is the field holding a definition's name node.
	nameField string

	// calleeFields are tried in order to locate a call's target node.
	// Grammars use different field names per call alias.
	calleeFields []string

	// moduleField, when set, names the field holding an import's module
	// reference. When empty, children matching moduleRefKinds are used.
	moduleField string

	// fromModuleField names the module field on selective imports.
	fromModuleField string

	// moduleRefKinds are child node kinds that count as module references.
	moduleRefKinds map[string]bool
}

// extractor walks one file's syntax tree and emits symbol and relation facts.
type extractor struct {
	rules languageRules
}

// Extract performs a single pre-order traversal of the tree rooted at root.
// The scope stack starts as [filePath]: the file itself is the root scope,
// so top-level facts attribute to the file and nested facts to their
// enclosing definition. It never fails on a well-formed tree.
func (e *extractor) Extract(root *tree_sitter.Node, source []byte, filePath string) ([]SymbolFact, []RelationFact) {
	w := &walker{
		rules:    e.rules,
		source:   source,
		filePath: filePath,
		scopes:   scopeStack{filePath},
	}
	w.visit(root)
	return w.symbols, w.relations
}

// walker carries the traversal state for one extraction pass. All state is
// per-file and discarded afterwards.
type walker struct {
	rules    languageRules
	source   []byte
	filePath string
	scopes   scopeStack

	symbols   []SymbolFact
	relations []RelationFact
}

func (w *walker) visit(node *tree_sitter.Node) {
	kind := node.Kind()

	// pushed guarantees exactly one pop per matched definition, on every
	// exit path. An unbalanced stack silently misattributes every
	// subsequent sibling to the wrong scope.
	pushed := false

	switch {
	case w.rules.classKinds[kind] || w.rules.functionKinds[kind]:
		if id, ok := w.emitDefinition(node, kind); ok {
			w.scopes.push(id)
			pushed = true
		}

	case w.rules.importKinds[kind]:
		for _, mod := range w.moduleRefs(node) {
			w.emitRelation(w.filePath, mod, RelationImport)
		}

	case w.rules.importFromKinds[kind]:
		if mod, ok := w.fromModuleRef(node); ok {
			w.emitRelation(w.filePath, mod, RelationImport)
		}

	case w.rules.callKinds[kind]:
		if callee, ok := w.calleeText(node); ok {
			w.emitRelation(w.scopes.top(), callee, RelationCall)
		}
	}

	// Rules never short-circuit recursion: a class body is still walked for
	// nested definitions and calls.
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			w.visit(child)
		}
	}

	if pushed {
		w.scopes.pop()
	}
}

// emitDefinition records a Symbol plus its contains edge and returns the new
// scope id. Definitions without a name child are anonymous: nothing is
// emitted and the parent scope stays in effect for their children.
func (w *walker) emitDefinition(node *tree_sitter.Node, nodeKind string) (string, bool) {
	nameNode := node.ChildByFieldName(w.rules.nameField)
	if nameNode == nil {
		return "", false
	}
	name := nameNode.Utf8Text(w.source)
	if name == "" {
		return "", false
	}

	symKind := SymbolKindFunction
	if w.rules.classKinds[nodeKind] {
		symKind = SymbolKindClass
	}

	id := SymbolID(w.filePath, name)
	w.symbols = append(w.symbols, SymbolFact{
		ID:        id,
		FilePath:  w.filePath,
		Name:      name,
		Kind:      symKind,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	})
	w.emitRelation(w.scopes.top(), id, RelationContains)
	return id, true
}

func (w *walker) emitRelation(from, to string, kind RelationKind) {
	if to == "" {
		return
	}
	w.relations = append(w.relations, RelationFact{
		FromID: from,
		ToID:   to,
		Kind:   kind,
		Count:  1,
	})
}

// moduleRefs collects raw module names from a plain import node.
func (w *walker) moduleRefs(node *tree_sitter.Node) []string {
	if w.rules.moduleField != "" {
		if c := node.ChildByFieldName(w.rules.moduleField); c != nil {
			if mod := w.moduleText(c); mod != "" {
				return []string{mod}
			}
		}
		return nil
	}

	var out []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !w.rules.moduleRefKinds[child.Kind()] {
			continue
		}
		if mod := w.moduleText(child); mod != "" {
			out = append(out, mod)
		}
	}
	return out
}

// fromModuleRef finds the module of a selective import. Only the module is
// recorded; individually imported members are not tracked.
func (w *walker) fromModuleRef(node *tree_sitter.Node) (string, bool) {
	if w.rules.fromModuleField != "" {
		if c := node.ChildByFieldName(w.rules.fromModuleField); c != nil {
			if mod := w.moduleText(c); mod != "" {
				return mod, true
			}
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !w.rules.moduleRefKinds[child.Kind()] {
			continue
		}
		if mod := w.moduleText(child); mod != "" {
			return mod, true
		}
	}
	return "", false
}

// moduleText reads a module reference's raw text, unwrapping aliased imports
// and stripping string-literal quotes.
func (w *walker) moduleText(node *tree_sitter.Node) string {
	if node.Kind() == "aliased_import" {
		if name := node.ChildByFieldName("name"); name != nil {
			node = name
		}
	}
	return strings.Trim(node.Utf8Text(w.source), "\"'`")
}

// calleeText reads the raw function/callee text of a call node: an
// identifier or a dotted/member-access path exactly as written in source.
func (w *walker) calleeText(node *tree_sitter.Node) (string, bool) {
	for _, field := range w.rules.calleeFields {
		if c := node.ChildByFieldName(field); c != nil {
			if text := c.Utf8Text(w.source); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// scopeStack is the ordered sequence of enclosing scope ids during a
// traversal. Index 0 is always the file path.
type scopeStack []string

func (s *scopeStack) push(id string) { *s = append(*s, id) }

func (s *scopeStack) pop() {
	if len(*s) > 1 {
		*s = (*s)[:len(*s)-1]
	}
}

func (s scopeStack) top() string { return s[len(s)-1] }
