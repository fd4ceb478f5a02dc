package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lexibase-labs/lexibase/internal/validate"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(getConfig ConfigFunc) *cobra.Command {
	var lexiconID int64

	cmd := &cobra.Command{
		Use:   "validate [rule...]",
		Short: "Run consistency checks over a lexicon",
		Long: `Run read-only consistency checks over a lexicon and print the
findings. With rule ids as arguments only those rules run; otherwise
every registered rule runs.`,
		Example: `  lexibase validate --lexicon 1

  lexibase validate --lexicon 1 relation/missing-inverse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			diags, err := validate.Run(cmd.Context(), s, lexiconID, args...)
			if err != nil {
				return err
			}
			if len(diags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No problems found")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Severity", "Rule", "Entity", "Message"})
			errors := 0
			for _, d := range diags {
				if d.Severity == validate.SeverityError {
					errors++
				}
				t.AppendRow(table.Row{d.Severity, d.RuleID, fmt.Sprintf("%s %d", d.Kind, d.EntityID), d.Message})
			}
			t.Render()
			if errors > 0 {
				return fmt.Errorf("%d error-level findings", errors)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&lexiconID, "lexicon", 0, "Lexicon id to validate")
	_ = cmd.MarkFlagRequired("lexicon")
	return cmd
}
