package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var rootFlag string
	var logLevelFlag string
	var logFormatFlag string

	ctx := newCommandContext(&rootFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:           "chatvault",
		Short:         "ChatVault maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Application root directory (defaults to the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "console", "Log format (console, json)")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))

	return rootCmd
}
