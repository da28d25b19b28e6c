package main

import (
	"fmt"
	"os"
)

// version is set by the linker at build time.
var version = "dev"

const usage = `codelens - source-code indexing engine

Usage:
  codelens <command> [flags]

Commands:
  index      index a repository into the fact store
  network    print the resolved node/edge graph (json or mermaid)
  query      run a declarative read query against the fact store
  symbols    search indexed symbols by name substring
  watch      index a repository and re-index files as they change
  serve-mcp  expose the engine as MCP tools over HTTP
  version    print version and exit
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "index":
		return runIndex(args[1:])
	case "network":
		return runNetwork(args[1:])
	case "query":
		return runQuery(args[1:])
	case "symbols":
		return runSymbols(args[1:])
	case "watch":
		return runWatch(args[1:])
	case "serve-mcp":
		return runServeMCP(args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}
