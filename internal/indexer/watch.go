package indexer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces editor save bursts for the same path.
const defaultDebounce = 200 * time.Millisecond

// Watch re-indexes files under root as they change. Every event triggers a
// full per-file re-index through ProcessFile: the engine has no incremental
// mode, a changed file simply has its facts re-derived and replaced. Watch
// blocks until ctx is cancelled.
func (s *Service) Watch(ctx context.Context, root string, opts WalkOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	skipDirs := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		skipDirs[d] = true
	}

	addDirs := func(base string) {
		filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			name := d.Name()
			if defaultSkipDirs[name] || skipDirs[name] {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				s.log.Warn("watch add failed", "path", path, "error", err)
			}
			return nil
		})
	}
	addDirs(root)

	s.log.Info("watching for changes", "root", root)

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	reindex := func(path string) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		info, err := os.Stat(path)
		if err != nil {
			return // deleted between event and handling; stale facts persist
		}
		content, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("read failed", "path", rel, "error", err)
			return
		}
		s.ProcessFile(ctx, rel, string(content), info.ModTime())
		s.log.Debug("re-indexed", "path", rel)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			// New directories need watches of their own.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					addDirs(event.Name)
				}
				continue
			}

			if _, ok := LanguageForPath(event.Name); !ok {
				continue
			}

			// Debounce per path.
			mu.Lock()
			if t, ok := pending[event.Name]; ok {
				t.Stop()
			}
			path := event.Name
			pending[path] = time.AfterFunc(defaultDebounce, func() {
				mu.Lock()
				delete(pending, path)
				mu.Unlock()
				reindex(path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", "error", err)
		}
	}
}
