package indexer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/codelens-dev/codelens/internal/index"
)

// defaultSkipDirs are directory names never worth indexing.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"target":       true,
	"dist":         true,
}

// WalkOptions configures a corpus indexing pass.
type WalkOptions struct {
	// Languages restricts indexing; empty means all supported languages.
	Languages []index.Language

	// ExcludeDirs are directory names skipped in addition to the defaults.
	ExcludeDirs []string

	// ExcludePatterns are glob patterns matched against repo-relative paths.
	ExcludePatterns []string

	// Workers bounds parallel extraction. Zero means GOMAXPROCS.
	Workers int
}

// IndexReport summarizes one IndexDir pass.
type IndexReport struct {
	FilesIndexed int           `json:"filesIndexed"`
	FilesFailed  int           `json:"filesFailed"`
	Duration     time.Duration `json:"duration"`
}

// IndexDir walks root and indexes every supported source file. Extraction is
// pure and CPU-bound, so files parse in parallel under a bounded errgroup;
// the store is the only shared resource, so the upsert phase runs
// sequentially afterwards. Per-file failures are logged and skipped: one bad
// file never aborts the batch.
func (s *Service) IndexDir(ctx context.Context, root string, opts WalkOptions) (*IndexReport, error) {
	if !s.initialized() {
		return nil, index.ErrNotReady
	}
	start := time.Now()

	candidates, err := collectFiles(root, opts)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Parallel extraction phase. Each slot is written by exactly one
	// goroutine; failed slots stay nil.
	facts := make([]*index.FactSet, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range candidates {
		g.Go(func() error {
			source, err := os.ReadFile(filepath.Join(root, path))
			if err != nil {
				s.log.Warn("read failed", "path", path, "error", err)
				return nil
			}
			lang, _ := LanguageForPath(path)
			fset, err := s.parser.Parse(gctx, path, source, lang)
			if err != nil {
				s.log.Warn("parse failed", "path", path, "error", err)
				return nil
			}
			facts[i] = fset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sequential upsert phase. A failed upsert counts the file as failed,
	// same as a parse failure.
	report := &IndexReport{}
	now := time.Now()
	for _, fset := range facts {
		if fset == nil {
			report.FilesFailed++
			continue
		}
		fset.File.LastIndexedAt = now
		if err := s.upsertFacts(ctx, fset); err != nil {
			report.FilesFailed++
			continue
		}
		report.FilesIndexed++
	}
	report.Duration = time.Since(start)

	s.log.Info("indexing complete",
		"root", root,
		"indexed", report.FilesIndexed,
		"failed", report.FilesFailed,
		"duration", report.Duration,
	)
	return report, nil
}

// collectFiles gathers repo-relative paths of indexable files under root,
// honoring .gitignore, directory excludes, and glob patterns.
func collectFiles(root string, opts WalkOptions) ([]string, error) {
	allowed := make(map[index.Language]bool)
	if len(opts.Languages) == 0 {
		for _, l := range index.SupportedLanguages {
			allowed[l] = true
		}
	} else {
		for _, l := range opts.Languages {
			allowed[l] = true
		}
	}

	skipDirs := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		skipDirs[d] = true
	}

	excludes := make([]glob.Glob, 0, len(opts.ExcludePatterns))
	for _, p := range opts.ExcludePatterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, g)
	}

	// A missing .gitignore leaves gi nil; every path then passes.
	gi, _ := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			name := d.Name()
			if defaultSkipDirs[name] || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		lang, ok := LanguageForPath(rel)
		if !ok || !allowed[lang] {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		for _, g := range excludes {
			if g.Match(rel) {
				return nil
			}
		}

		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
