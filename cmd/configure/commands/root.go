package commands

import "github.com/spf13/cobra"

// NewRootCmd assembles the operator CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "autoartisan-configure",
		Short:         "Configuration tool for the AutoArtisan API",
		Long:          "CLI tool for managing site settings, CORS, rate limits and the database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewMigrateCmd())
	rootCmd.AddCommand(NewStoreCmd())
	rootCmd.AddCommand(NewFooterCmd())
	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewCorsCmd())
	rootCmd.AddCommand(NewRatelimitCmd())
	rootCmd.AddCommand(NewKeysCmd())
	return rootCmd
}
