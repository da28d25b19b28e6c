package index

import (
	"path/filepath"
	"strings"
)

// Resolver maps raw textual reference targets (import/call edges) to
// concrete symbol or file ids using a best-effort name index. It is
// syntactic and heuristic on purpose: no type information, no lexical
// scoping. It degrades by dropping what it cannot resolve, never by failing.
type Resolver struct {
	// candidates preserves insertion order per name so ties break
	// deterministically.
	candidates map[string][]candidate
}

// candidate is one possible resolution target for a name.
type candidate struct {
	id       string
	filePath string
}

// NewResolver builds the name index from the current facts: every symbol
// under its name, every file under its base filename with the extension
// stripped (so imports of file-like names can match).
func NewResolver(symbols []SymbolFact, files []FileFact) *Resolver {
	r := &Resolver{
		candidates: make(map[string][]candidate, len(symbols)+len(files)),
	}
	for _, s := range symbols {
		r.add(s.Name, candidate{id: s.ID, filePath: s.FilePath})
	}
	for _, f := range files {
		base := filepath.Base(f.Path)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		r.add(base, candidate{id: f.Path, filePath: f.Path})
	}
	return r
}

func (r *Resolver) add(name string, c candidate) {
	r.candidates[name] = append(r.candidates[name], c)
}

// Resolve maps each relation to zero or one concrete edge. Contains edges
// pass through unchanged (their endpoints are structurally guaranteed);
// import/call edges resolve by target name or are silently dropped.
// Duplicate (from, type, target) triples collapse to one edge.
func (r *Resolver) Resolve(relations []RelationFact) []ResolvedEdge {
	out := make([]ResolvedEdge, 0, len(relations))
	seen := make(map[string]bool, len(relations))

	emit := func(from, to string, kind RelationKind) {
		id := edgeID(from, to, kind)
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, ResolvedEdge{
			ID:     id,
			Source: from,
			Target: to,
			Kind:   kind,
		})
	}

	for _, rel := range relations {
		if rel.Kind == RelationContains {
			emit(rel.FromID, rel.ToID, rel.Kind)
			continue
		}

		target, ok := r.lookup(rel.FromID, rel.ToID)
		if !ok {
			continue // unresolved references are invisible, not errors
		}
		emit(rel.FromID, target, rel.Kind)
	}
	return out
}

// lookup resolves a raw reference to a concrete id. The last dotted segment
// is the target name (so "obj.method" matches "method"). When several
// candidates share the name, one in the caller's own file wins; this cuts
// false links from common short names across unrelated files. Otherwise the
// first candidate in index-insertion order is taken.
func (r *Resolver) lookup(fromID, rawTarget string) (string, bool) {
	targetName := rawTarget
	if idx := strings.LastIndex(rawTarget, "."); idx != -1 {
		targetName = rawTarget[idx+1:]
	}

	cands := r.candidates[targetName]
	if len(cands) == 0 {
		return "", false
	}

	callerFile := callerFilePath(fromID)
	for _, c := range cands {
		if c.filePath == callerFile {
			return c.id, true
		}
	}
	return cands[0].id, true
}

// callerFilePath derives the originating file from an edge source: the part
// before the first ":" of a symbol id, or the id itself when it has no
// separator (the source is then a file path).
func callerFilePath(fromID string) string {
	if idx := strings.Index(fromID, ":"); idx != -1 {
		return fromID[:idx]
	}
	return fromID
}

// edgeID builds the composite identity used for dedup and for network
// consumers.
func edgeID(from, to string, kind RelationKind) string {
	return from + "->" + to + ":" + string(kind)
}
