package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/codelens-dev/codelens/internal/export"
)

// runNetwork indexes (or reopens) a repository and prints the resolved
// node/edge graph.
func runNetwork(args []string) error {
	var flags commonFlags
	var format string
	var noIndex bool
	fs := flag.NewFlagSet("network", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the repository")
	fs.StringVar(&flags.DBPath, "db", "", "path to the persistent fact store (default: in-memory)")
	fs.StringVar(&format, "format", "json", "output format: json or mermaid")
	fs.BoolVar(&noIndex, "no-index", false, "skip indexing and use the store as-is")
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

	if !noIndex {
		if _, err := svc.IndexDir(ctx, flags.ProjectRoot, walkOptions(cfg)); err != nil {
			return err
		}
	}

	network, err := svc.GetNetwork(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return export.WriteNetworkJSON(os.Stdout, network)
	case "mermaid":
		fmt.Print(export.GenerateMermaid(network))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
