// Package cli provides the command-line interface for lexibase.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibase-labs/lexibase/internal/cli/commands"
	"github.com/lexibase-labs/lexibase/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "lexibase",
		Short: "lexibase - transactional editor for WordNet lexical resources",
		Long: `lexibase edits WordNet-style lexical resources stored in SQLite.

It manages lexicons, entries, synsets, senses and typed relations,
keeping inverse relations consistent and every mutation atomic.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = config.Load(".", cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			switch cfg.LogLevel {
			case "debug":
				level = slog.LevelDebug
			case "warn":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("database", "", "Path to the SQLite database file")
	flags.String("log_level", "", "Log level (debug, info, warn, error)")

	getConfig := func() *config.Config { return cfg }

	rootCmd.AddCommand(
		commands.NewInitCommand(getConfig),
		commands.NewLoadCommand(getConfig),
		commands.NewExportCommand(getConfig),
		commands.NewValidateCommand(getConfig),
		commands.NewLexiconsCommand(getConfig),
		commands.NewHistoryCommand(getConfig),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
