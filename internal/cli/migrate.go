// internal/cli/migrate.go
package cli

import (
	"fmt"

	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	var drop bool

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the schema and indexes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMigration(cmd, func(m *postgres.Migration) error {
				if drop {
					if err := m.DropAllTables(); err != nil {
						return err
					}
				}

				if err := m.RunAutoMigrations(); err != nil {
					return err
				}

				created, failed := m.CreateIndexes()
				fmt.Fprintf(cmd.OutOrStdout(), "migrated: %d indexes created, %d failed\n", created, failed)
				if failed > 0 {
					return fmt.Errorf("%d indexes could not be created", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&drop, "drop", false, "drop all tables first (destroys data)")

	return cmd
}
