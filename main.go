package main

import (
	"fmt"
	"os"

	"github.com/hayatfoundation/site/internal/cli"
	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "create-admin":
		cmd = cli.NewCreateAdminCommand()
	case "run-sql":
		cmd = cli.NewRunSQLCommand()
	case "import-html":
		cmd = cli.NewImportHTMLCommand()
	case "version":
		fmt.Printf("%s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  create-admin   Create a CMS user\n")
	fmt.Fprintf(os.Stderr, "  run-sql        Execute a SQL file against the database in one transaction\n")
	fmt.Fprintf(os.Stderr, "  import-html    Import an HTML article as an unpublished news draft\n")
	fmt.Fprintf(os.Stderr, "  version        Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
