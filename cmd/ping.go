package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
)

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check backend reachability",
	Long: `Check backend reachability.

Pings the configured backend endpoint, retrying transient failures with
exponential backoff before giving up.`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.Ping(cmd.Context()); err != nil {
		return err
	}
	colors.Success("Backend reachable: " + endpointURL())
	return nil
}
