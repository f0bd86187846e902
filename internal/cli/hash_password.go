// internal/cli/hash_password.go
package cli

import (
	"fmt"

	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// NewHashPasswordCommand creates the hash-password command
func NewHashPasswordCommand(opts *RootOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:          "hash-password <password>",
		Short:        "Print the bcrypt hash of a password",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			passwords := auth.NewPasswordManager(cost)

			hash, err := passwords.HashPassword(args[0])
			if err != nil {
				return err
			}

			if err := passwords.VerifyPassword(args[0], hash); err != nil {
				return fmt.Errorf("hash verification failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			if opts.Verbose {
				fmt.Fprintln(cmd.ErrOrStderr(), "✅ Hash verified successfully!")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 12, fmt.Sprintf("bcrypt cost (%d-%d)", bcrypt.MinCost, bcrypt.MaxCost))

	return cmd
}
