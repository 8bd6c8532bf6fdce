package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entrypoint"
	"github.com/mrlokans/library/internal/logger"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is the shape shared by every CLI subcommand.
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
	case "overdue-report":
		cmd = cli.NewOverdueReportCommand()

	case "create-librarian":
		cmd = cli.NewCreateLibrarianCommand(config.NewConfig().Auth)

	case "version", "-v", "--version":
		fmt.Printf("library %s (commit: %s)\n", Version, Commit)
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	cfg := config.NewConfig()
	logger.Init(cfg.Logging.Env, cfg.Logging.Level)

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
	fmt.Fprintf(os.Stderr, "  serve              Start the HTTP server (default)\n")
	fmt.Fprintf(os.Stderr, "  overdue-report     Print books held past the overdue threshold\n")
	fmt.Fprintf(os.Stderr, "  create-librarian   Create a librarian account\n")
	fmt.Fprintf(os.Stderr, "  version            Show version information\n")
	fmt.Fprintf(os.Stderr, "\nRun '%s <command> -h' for command-specific help.\n", os.Args[0])
}
