// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Path to the configuration directory")
}

var (
	configPath string // Path to the configuration directory

	rootCmd = &cobra.Command{
		Use:   "go-rbac-admin",
		Short: "GoRBAC-Admin is an administration service for role based access control",
		Long: `GoRBAC-Admin manages permissions, roles and users and answers
whether a user holds a permission.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
