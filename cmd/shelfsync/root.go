package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	ctx := newCommandContext(&configFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "shelfsync",
		Short:         "Bridge a Goodreads account and a Libby library card",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Settings file path (default shelfsync.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCookiesCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newLoginCommand(ctx))
	rootCmd.AddCommand(newTagCommand(ctx))
	rootCmd.AddCommand(newBrowseCommand(ctx))

	return rootCmd
}
