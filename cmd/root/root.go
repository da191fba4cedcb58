// Package root contains the root command for the application
package root

import (
	"rehub/dealsub/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, populated before any
	// subcommand runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "dealsub",
		Short: "A CLI tool to standardize deal submission spreadsheets.",
		Long: `dealsub extracts the data table, deal header and ad zone selection from a
deal submission spreadsheet and remaps it onto the configured output template.
It can export the standardized data, email the summary, and answer questions
about the data.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to dealsub!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)
		},
	}
)
