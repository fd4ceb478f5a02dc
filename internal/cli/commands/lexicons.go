package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewLexiconsCommand creates the lexicons command.
func NewLexiconsCommand(getConfig ConfigFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "lexicons",
		Short: "List lexicons in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			lexicons, err := s.ListLexicons(cmd.Context())
			if err != nil {
				return err
			}
			if len(lexicons) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No lexicons")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Lexicon", "Version", "Language", "Label"})
			for _, lex := range lexicons {
				t.AppendRow(table.Row{lex.ID, lex.BareID, lex.Version, lex.Language, lex.Label})
			}
			t.Render()
			return nil
		},
	}
}
