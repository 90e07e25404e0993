package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop <charger> <connector>",
	Short: "Stop the charging session on a connector",
	Long: `Stop the charging session on a connector.

USAGE:
    chargefront stop <charger> <connector>

The connector is given as its letter (A, B, ...) or its number. The
session running on the connector is looked up and stopped.`,
	Args: cobra.ExactArgs(2),
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	chargerID := args[0]
	connectorID, err := domain.ConnectorIDFromLetter(args[1])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	charger, err := a.client.GetCharger(cmd.Context(), chargerID)
	if err != nil {
		return fmt.Errorf("failed to load charger %s: %w", chargerID, err)
	}
	connector := charger.Connector(connectorID)
	if connector == nil {
		return fmt.Errorf("charger %s has no connector %s", chargerID, args[1])
	}
	if connector.ActiveTransactionID == 0 {
		return fmt.Errorf("no session running on %s connector %s",
			chargerID, domain.ConnectorLetterFromID(connectorID))
	}

	if err := a.client.RemoteStopTransaction(cmd.Context(), chargerID, connector.ActiveTransactionID); err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	colors.Success(fmt.Sprintf("Session %d stopping", connector.ActiveTransactionID))
	return nil
}
