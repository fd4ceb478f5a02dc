package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(getConfig ConfigFunc) *cobra.Command {
	var kind string
	var entityID int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the audit trail",
		Long: `Show the append-only audit trail, newest first. With --kind and
--id the listing is narrowed to one entity.`,
		Example: `  lexibase history

  lexibase history --kind synset --id 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			var records []*wordnet.HistoryRecord
			if kind != "" {
				records, err = s.History(cmd.Context(), wordnet.EntityKind(kind), entityID)
			} else {
				records, err = s.HistoryAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"When", "Op", "Entity", "Field", "Old", "New"})
			for _, r := range records {
				t.AppendRow(table.Row{
					r.CreatedAt.Format(time.RFC3339),
					r.Op,
					fmt.Sprintf("%s %d", r.EntityKind, r.EntityID),
					r.Field,
					r.OldValue,
					r.NewValue,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Entity kind (lexicon, entry, synset, sense)")
	cmd.Flags().Int64Var(&entityID, "id", 0, "Entity id")
	return cmd
}
