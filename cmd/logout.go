package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the current session",
	Long: `Drop the current session.

The backend session is invalidated and the cached credentials are removed
from the profile store. The local session is dropped even when the backend
cannot be reached.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.Logout(cmd.Context()); err != nil {
		colors.Warning("Backend logout failed, local session dropped anyway")
	}
	colors.Success("Logged out")
	return nil
}
