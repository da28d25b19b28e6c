package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

// runQuery executes a declarative read expression against a persistent
// fact store and prints the rows as JSON.
func runQuery(args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the repository")
	fs.StringVar(&flags.DBPath, "db", "", "path to the persistent fact store")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: codelens query [flags] <expression>")
	}

	ctx := context.Background()
	svc, store, _, err := openService(ctx, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	res := svc.Query(ctx, fs.Arg(0))
	if !res.OK {
		return fmt.Errorf("query failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Rows)
}

// runSymbols searches indexed symbols by name substring.
func runSymbols(args []string) error {
	var flags commonFlags
	var limit int
	fs := flag.NewFlagSet("symbols", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the repository")
	fs.StringVar(&flags.DBPath, "db", "", "path to the persistent fact store")
	fs.IntVar(&limit, "limit", 20, "maximum number of results")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: codelens symbols [flags] <query>")
	}

	ctx := context.Background()
	svc, store, _, err := openService(ctx, flags)
	if err != nil {
		return err
	}
	defer store.Close()

	symbols, err := svc.FindSymbols(ctx, fs.Arg(0), limit)
	if err != nil {
		return err
	}

	for _, sym := range symbols {
		fmt.Printf("%s %s %s:%d-%d\n", sym.Kind, sym.Name, sym.FilePath, sym.StartLine, sym.EndLine)
	}
	return nil
}
