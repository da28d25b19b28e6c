package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store on KuzuDB. Cypher is the declarative query
// surface; every write goes through prepared, parameterized statements so
// the engine's binding layer handles escaping. CGO is required because the
// go-kuzu driver wraps KuzuDB's C library.
//
// Relation rows live in a node table rather than a REL table: an
// import/call target is raw text that may never match a File or Symbol, so
// it cannot be an endpoint of a graph relationship until resolution.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection

	// writeMu enforces the single-writer discipline: one open write
	// transaction at a time.
	writeMu sync.Mutex

	initMu sync.Mutex
	ready  bool
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given path, so the index survives across sessions. KuzuDB creates the
// leaf directory itself.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by Init.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		language STRING,
		last_indexed_at TIMESTAMP,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Symbol(
		id STRING,
		file_path STRING,
		name STRING,
		kind STRING,
		start_line INT64,
		end_line INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Relation(
		key STRING,
		from_id STRING,
		to_id STRING,
		kind STRING,
		count INT64,
		PRIMARY KEY(key)
	)`,
}

// Init creates the three fact tables if they do not exist. Idempotent: a
// second call is a no-op. On partial failure the store stays not-ready and
// every subsequent operation fails fast with ErrNotReady.
func (s *KuzuStore) Init(_ context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.ready {
		return nil
	}
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	s.ready = true
	return nil
}

func (s *KuzuStore) isReady() bool {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	return s.ready
}

// ---------- Write operations ----------

// UpsertFile creates or replaces one File row by path.
func (s *KuzuStore) UpsertFile(_ context.Context, file FileFact) error {
	if !s.isReady() {
		return ErrNotReady
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.exec(
		`MERGE (f:File {path: $path})
		 ON CREATE SET f.language = $lang, f.last_indexed_at = $at
		 ON MATCH SET f.language = $lang, f.last_indexed_at = $at`,
		map[string]any{
			"path": file.Path,
			"lang": string(file.Language),
			"at":   file.LastIndexedAt,
		},
	)
}

// UpsertSymbols creates or replaces Symbol rows by id, atomically: the batch
// runs in one transaction and rolls back as a unit on any row failure.
func (s *KuzuStore) UpsertSymbols(_ context.Context, symbols []SymbolFact) error {
	if !s.isReady() {
		return ErrNotReady
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.inTransaction(func() error {
		for _, sym := range symbols {
			err := s.exec(
				`MERGE (s:Symbol {id: $id})
				 ON CREATE SET s.file_path = $fp, s.name = $name, s.kind = $kind,
					s.start_line = $sl, s.end_line = $el
				 ON MATCH SET s.file_path = $fp, s.name = $name, s.kind = $kind,
					s.start_line = $sl, s.end_line = $el`,
				map[string]any{
					"id":   sym.ID,
					"fp":   sym.FilePath,
					"name": sym.Name,
					"kind": string(sym.Kind),
					"sl":   int64(sym.StartLine),
					"el":   int64(sym.EndLine),
				},
			)
			if err != nil {
				return fmt.Errorf("upsert symbol %s: %w", sym.ID, err)
			}
		}
		return nil
	})
}

// UpsertRelations creates or replaces Relation rows by (from, to, kind),
// atomically per call. Count is written as given: repeated emissions for the
// same key replace, they do not sum.
func (s *KuzuStore) UpsertRelations(_ context.Context, relations []RelationFact) error {
	if !s.isReady() {
		return ErrNotReady
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.inTransaction(func() error {
		for _, rel := range relations {
			err := s.exec(
				`MERGE (r:Relation {key: $key})
				 ON CREATE SET r.from_id = $from, r.to_id = $to, r.kind = $kind, r.count = $count
				 ON MATCH SET r.from_id = $from, r.to_id = $to, r.kind = $kind, r.count = $count`,
				map[string]any{
					"key":   relationKey(rel.FromID, rel.ToID, rel.Kind),
					"from":  rel.FromID,
					"to":    rel.ToID,
					"kind":  string(rel.Kind),
					"count": int64(rel.Count),
				},
			)
			if err != nil {
				return fmt.Errorf("upsert relation %s->%s: %w", rel.FromID, rel.ToID, err)
			}
		}
		return nil
	})
}

// inTransaction wraps fn in BEGIN/COMMIT, rolling back on failure so a bad
// row never leaves a partially applied batch visible to readers.
func (s *KuzuStore) inTransaction(fn func() error) error {
	if err := s.execRaw("BEGIN TRANSACTION"); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rbErr := s.execRaw("ROLLBACK"); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return s.execRaw("COMMIT")
}

// ---------- Read operations ----------

// Query runs a raw declarative expression. Failures of any kind, including
// an uninitialized store and malformed Cypher, come back as OK=false with
// no rows; the caller treats every query uniformly.
func (s *KuzuStore) Query(_ context.Context, expression string) Result {
	if !s.isReady() {
		return Result{OK: false}
	}
	rows, err := s.query(expression, nil)
	if err != nil {
		return Result{OK: false}
	}
	return Result{OK: true, Rows: rows}
}

// ListFiles returns all File rows.
func (s *KuzuStore) ListFiles(_ context.Context) ([]FileFact, error) {
	if !s.isReady() {
		return nil, ErrNotReady
	}
	rows, err := s.query("MATCH (f:File) RETURN f.path, f.language, f.last_indexed_at ORDER BY f.path", nil)
	if err != nil {
		return nil, err
	}
	out := make([]FileFact, 0, len(rows))
	for _, r := range rows {
		out = append(out, FileFact{
			Path:          toString(r[0]),
			Language:      Language(toString(r[1])),
			LastIndexedAt: toTime(r[2]),
		})
	}
	return out, nil
}

// ListSymbols returns all Symbol rows.
func (s *KuzuStore) ListSymbols(_ context.Context) ([]SymbolFact, error) {
	if !s.isReady() {
		return nil, ErrNotReady
	}
	rows, err := s.query(
		"MATCH (s:Symbol) RETURN s.id, s.file_path, s.name, s.kind, s.start_line, s.end_line ORDER BY s.id",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]SymbolFact, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToSymbol(r))
	}
	return out, nil
}

// ListRelations returns all Relation rows.
func (s *KuzuStore) ListRelations(_ context.Context) ([]RelationFact, error) {
	if !s.isReady() {
		return nil, ErrNotReady
	}
	rows, err := s.query(
		"MATCH (r:Relation) RETURN r.from_id, r.to_id, r.kind, r.count ORDER BY r.key",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]RelationFact, 0, len(rows))
	for _, r := range rows {
		out = append(out, RelationFact{
			FromID: toString(r[0]),
			ToID:   toString(r[1]),
			Kind:   RelationKind(toString(r[2])),
			Count:  toInt(r[3]),
		})
	}
	return out, nil
}

// FindSymbols returns symbols whose name contains the query substring.
func (s *KuzuStore) FindSymbols(_ context.Context, queryStr string, limit int) ([]SymbolFact, error) {
	if !s.isReady() {
		return nil, ErrNotReady
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.query(
		`MATCH (s:Symbol) WHERE s.name CONTAINS $q
		 RETURN s.id, s.file_path, s.name, s.kind, s.start_line, s.end_line
		 ORDER BY s.id
		 LIMIT $lim`,
		map[string]any{
			"q":   queryStr,
			"lim": int64(limit),
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]SymbolFact, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToSymbol(r))
	}
	return out, nil
}

// Stats returns row counts per fact table.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	if !s.isReady() {
		return nil, ErrNotReady
	}
	files, err := s.countTable("File")
	if err != nil {
		return nil, err
	}
	symbols, err := s.countTable("Symbol")
	if err != nil {
		return nil, err
	}
	relations, err := s.countTable("Relation")
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		FileCount:     files,
		SymbolCount:   symbols,
		RelationCount: relations,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// execRaw runs an unparameterized control statement (transactions).
func (s *KuzuStore) execRaw(cypher string) error {
	res, err := s.conn.Query(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: %s: %w", cypher, err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToSymbol converts a 6-column result row into a SymbolFact.
// Column order: id, file_path, name, kind, start_line, end_line.
func rowToSymbol(r []any) *SymbolFact {
	return &SymbolFact{
		ID:        toString(r[0]),
		FilePath:  toString(r[1]),
		Name:      toString(r[2]),
		Kind:      SymbolKind(toString(r[3])),
		StartLine: toInt(r[4]),
		EndLine:   toInt(r[5]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, string, time.Time). These helpers
// safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toTime(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
