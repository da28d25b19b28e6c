package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
)

// runWatch indexes the repository once and then re-indexes files as they
// change, until interrupted.
func runWatch(args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the repository to watch")
	fs.StringVar(&flags.DBPath, "db", "", "path to the persistent fact store (default: in-memory)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, store, cfg, err := openService(ctx, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := walkOptions(cfg)
	if _, err := svc.IndexDir(ctx, flags.ProjectRoot, opts); err != nil {
		return err
	}

	err = svc.Watch(ctx, flags.ProjectRoot, opts)
	if err == context.Canceled {
		return nil
	}
	return err
}
