// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authvault",
	Short: "AuthVault is an identity and access-control core",
	Long: `AuthVault manages user accounts with salted one-way credential hashing,
group-based permissions and a role-partitioned audit trail of every
security-relevant action.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
