// internal/cli/seed.go
package cli

import (
	"context"
	"fmt"

	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var gamesOnly bool

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Insert sample users and games",
		Long:         "Insert the development admin and test users plus the sample catalog. Games are only inserted into an empty table.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return opts.withMigration(cmd, func(m *postgres.Migration) error {
				if gamesOnly {
					created, err := m.SeedGames(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %d games\n", created)
					return nil
				}

				if err := m.SeedInitialData(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seeded users and games")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&gamesOnly, "games-only", false, "only seed the sample catalog")

	return cmd
}
