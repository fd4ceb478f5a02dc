package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibase-labs/lexibase/internal/editor"
	"github.com/lexibase-labs/lexibase/internal/load"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(getConfig ConfigFunc) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load a lexicon from a YAML document",
		Long: `Load a complete lexicon from a YAML document into the database.

The whole load is one transaction: a document that fails validation
partway through leaves the database untouched.`,
		Example: `  lexibase load oewn.yaml

  # Skip audit records for the bulk import
  lexibase load --no-history oewn.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			var opts []editor.Option
			if noHistory || !cfg.History {
				opts = append(opts, editor.WithoutHistory())
			}
			if !cfg.LanguageCheck {
				opts = append(opts, editor.WithoutLanguageCheck())
			}
			ed := editor.New(s, opts...)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			lex, err := load.Load(cmd.Context(), ed, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded lexicon %s (id %d)\n", lex.Specifier(), lex.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip audit records for this load")
	return cmd
}
