package main

import "github.com/codelens-dev/codelens/internal/index"

// openStore returns the KuzuDB-backed store: file-based when dbPath is set,
// otherwise in-memory for one-shot commands.
func openStore(dbPath string) (index.Store, error) {
	if dbPath == "" {
		return index.NewKuzuStore()
	}
	return index.NewKuzuFileStore(dbPath)
}
