package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibase-labs/lexibase/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand(getConfig ConfigFunc) *cobra.Command {
	var lexiconID int64
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a lexicon as a YAML document",
		Long: `Export one lexicon as a YAML document in the format the load
command reads.`,
		Example: `  lexibase export --lexicon 1

  lexibase export --lexicon 1 -o oewn.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return export.Export(cmd.Context(), s, lexiconID, w)
		},
	}

	cmd.Flags().Int64Var(&lexiconID, "lexicon", 0, "Lexicon id to export")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	_ = cmd.MarkFlagRequired("lexicon")
	return cmd
}
