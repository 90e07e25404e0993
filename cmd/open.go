package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/routing"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open <payload>",
	Short: "Open a push-notification payload",
	Long: `Open a push-notification payload.

USAGE:
    chargefront open <payload>
    chargefront open -          (read the payload from stdin)

Routes the JSON payload of a push notification the way the client does
when a notification is tapped: to the transaction, connector, or charger
list it points at. Without a valid session the notification is stored and
replayed after the next login. A payload of another tenant is rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	payload := []byte(args[0])
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		payload = data
	}

	notification, err := domain.ParseNotification(payload)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.router.AttachNavigator(&cliNavigator{a: a, cmd: cmd})
	switch a.router.HandleOpened(notification) {
	case routing.OutcomeDeferred:
		colors.Info("Not logged in; the notification will open after the next login")
	case routing.OutcomeIgnored:
		colors.Info("Notification " + notification.Type.String() + " carries no destination")
	case routing.OutcomeRejected:
		return fmt.Errorf("notification was not routed")
	}
	return nil
}

// cliNavigator renders navigation targets as CLI output, standing in for
// the screen switching the TUI performs.
type cliNavigator struct {
	a   *app
	cmd *cobra.Command
}

func (n *cliNavigator) Navigate(target routing.Target) error {
	ctx := n.cmd.Context()
	out := n.cmd.OutOrStdout()
	switch t := target.(type) {
	case routing.TransactionDetailTarget:
		tx, err := n.a.client.GetTransaction(ctx, t.TransactionID)
		if err != nil {
			return err
		}
		format.WriteTransactions(out, []domain.Transaction{tx}, time.Now())
		return nil
	case routing.ChargerConnectorTarget:
		detail, err := n.a.client.GetConnectorDetail(ctx, t.ChargerID, t.ConnectorID)
		if err != nil {
			return err
		}
		printConnectorDetail(out, detail)
		return nil
	case routing.ChargerListTarget:
		result, err := n.a.client.ListChargers(ctx, nil, pagingDefault())
		if err != nil {
			return err
		}
		format.WriteChargers(out, result.Result)
		return nil
	default:
		return fmt.Errorf("unhandled navigation target %T", target)
	}
}
