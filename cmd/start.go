package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <charger> <connector>",
	Short: "Start a remote charging session",
	Long: `Start a remote charging session.

USAGE:
    chargefront start <charger> <connector> [OPTIONS]

OPTIONS:
    --tag <id>  RFID tag to charge with (default: first tag of the account)

The connector is given as its letter (A, B, ...) or its number. The
connector must be free; the backend rejects the command otherwise.`,
	Args: cobra.ExactArgs(2),
	RunE: runStart,
}

var startTag string

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startTag, "tag", "", "RFID tag to charge with")
}

func runStart(cmd *cobra.Command, args []string) error {
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

	tag := startTag
	if tag == "" {
		tag, err = a.client.DefaultTagID(cmd.Context(), a.session.User().ID)
		if err != nil {
			return fmt.Errorf("failed to resolve charging tag, pass --tag: %w", err)
		}
	}

	if err := a.client.RemoteStartTransaction(cmd.Context(), chargerID, tag, connectorID); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	colors.Success(fmt.Sprintf("Session starting on %s connector %s",
		chargerID, domain.ConnectorLetterFromID(connectorID)))
	return nil
}
