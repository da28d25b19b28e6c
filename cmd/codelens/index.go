package main

import (
	"context"
	"flag"
	"fmt"
	"time"
)

// runIndex walks a repository and indexes every supported source file.
func runIndex(args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the repository to index")
	fs.StringVar(&flags.DBPath, "db", "", "path to the persistent fact store (default: in-memory)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	svc, store, cfg, err := openService(ctx, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := svc.IndexDir(ctx, flags.ProjectRoot, walkOptions(cfg))
	if err != nil {
		return err
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("indexed %d files (%d failed) in %s\n",
		report.FilesIndexed, report.FilesFailed, report.Duration.Round(time.Millisecond))
	fmt.Printf("store: %d files, %d symbols, %d relations\n",
		stats.FileCount, stats.SymbolCount, stats.RelationCount)
	return nil
}
