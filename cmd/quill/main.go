// Package main is the entry point for the quill CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillsql/quill/cmd/quill/commands"
	"github.com/quillsql/quill/internal/debug"
)

var (
	// Version information (set by build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	debug.InitFromEnv()

	rootCmd := &cobra.Command{
		Use:     "quill",
		Short:   "Runtime SQL statement builder",
		Long:    "quill builds parameterized SQL and DDL from a declarative table schema",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
	}

	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewDDLCommand())
	rootCmd.AddCommand(commands.NewPingCommand())

	return rootCmd.Execute()
}
