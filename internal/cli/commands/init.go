package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibase-labs/lexibase/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand(getConfig ConfigFunc) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a lexibase workspace",
		Long: `Initialize a lexibase workspace in the current directory.

This creates a lexibase.yaml configuration file and an empty,
fully migrated SQLite database.`,
		Example: `  # Initialize in the current directory
  lexibase init

  # Overwrite an existing configuration
  lexibase init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			if _, err := os.Stat(config.ConfigFileName); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
			}
			content := fmt.Sprintf("database: %s\nlog_level: %s\n", cfg.Database, cfg.LogLevel)
			if err := os.WriteFile(config.ConfigFileName, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
			}

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			version, err := s.MigrationVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s (schema version %d)\n", cfg.Database, version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}
