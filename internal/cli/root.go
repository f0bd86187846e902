// internal/cli/root.go
package cli

import (
	"fmt"

	"github.com/estim-games/estim-api/internal/config"
	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/estim-games/estim-api/internal/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener connects to the database described by cfg. It returns the handle
// and a function closing it.
type Opener func(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, func() error, error)

// RootOptions holds state shared by all commands
type RootOptions struct {
	Verbose bool

	loadConfig func() (*config.Config, error)
	open       Opener
}

// NewRootCommand creates the estimctl root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		loadConfig: config.Load,
		open:       openPostgres,
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimctl",
		Short: "ESTIM store maintenance",
		Long:  "Schema migrations, sample data and credential helpers for the ESTIM game store.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))

	return cmd
}

func openPostgres(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, func() error, error) {
	conn, err := postgres.NewConnection(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return conn.GetDB(), conn.Close, nil
}

// withMigration loads config, connects and hands a Migration to fn
func (o *RootOptions) withMigration(cmd *cobra.Command, fn func(m *postgres.Migration) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg)
	log.SetOutput(cmd.ErrOrStderr())
	if o.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	db, closeDB, err := o.open(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	return fn(postgres.NewMigration(db, auth.NewPasswordManager(cfg.Security.BcryptCost), log))
}
