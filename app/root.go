// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/logger"
)

var (
	configPath string // directory of main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "auth-starter",
		Short: "auth-starter is an authentication and role based access control service",
		Long: `auth-starter is an authentication and role based access control service.
It issues bearer tokens, manages users and their roles and serves the
single page application that talks to its API.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Directory holding main.toml")
}

// loadConfig reads the configuration and initialises the global logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
