package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/codelens-dev/codelens/internal/mcptools"
)

// runServeMCP exposes the engine as MCP tools over HTTP.
func runServeMCP(args []string) error {
	var flags commonFlags
	var addr string
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the repository")
	fs.StringVar(&flags.DBPath, "db", "", "path to the persistent fact store (default: in-memory)")
	fs.StringVar(&addr, "addr", "localhost:8137", "listen address")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, store, _, err := openService(ctx, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	return mcptools.RunMCPServer(ctx, mcptools.NewCodeLensService(svc), addr)
}
