package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authstarter/go-auth-starter/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin and user accounts",
	Long: `Create the admin and user accounts named in the [Seed] section.
Accounts whose email already exists are left untouched.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err
		}

		n, err := daemon.Seed(cmd.Context(), &cfg, db)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d account(s) created\n", n)

		return err
	},
}
