// internal/cli/tables.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command
func NewTablesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "tables",
		Short:        "List tables with their row counts",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMigration(cmd, func(m *postgres.Migration) error {
				tables, err := m.GetTableInfo()
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TABLE\tRECORDS")
				for _, t := range tables {
					fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Records)
				}
				return w.Flush()
			})
		},
	}
}
