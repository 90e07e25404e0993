package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
)

// chargerCmd represents the charger command
var chargerCmd = &cobra.Command{
	Use:   "charger <id> [connector]",
	Short: "Show a charging station or one of its connectors",
	Long: `Show a charging station or one of its connectors.

USAGE:
    chargefront charger <id> [connector]

Without a connector the station and all its connectors are shown. With a
connector (letter or number) the view includes the running or last
charging session of that connector.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCharger,
}

func init() {
	rootCmd.AddCommand(chargerCmd)
}

func runCharger(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	if len(args) == 1 {
		charger, err := a.client.GetCharger(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load charger %s: %w", args[0], err)
		}
		if flagJSON {
			return format.WriteJSON(cmd.OutOrStdout(), charger)
		}
		printCharger(cmd.OutOrStdout(), charger)
		return nil
	}

	connectorID, err := domain.ConnectorIDFromLetter(args[1])
	if err != nil {
		return err
	}
	detail, err := a.client.GetConnectorDetail(cmd.Context(), args[0], connectorID)
	if err != nil {
		return err
	}
	if flagJSON {
		return format.WriteJSON(cmd.OutOrStdout(), detail)
	}
	printConnectorDetail(cmd.OutOrStdout(), detail)
	return nil
}

func printCharger(w io.Writer, charger domain.ChargingStation) {
	fmt.Fprintf(w, "%s%s%s  %s %s\n", colors.Blue, charger.ID, colors.Reset,
		charger.ChargePointVendor, charger.ChargePointModel)
	if charger.SiteArea != nil {
		fmt.Fprintf(w, "Site area: %s\n", charger.SiteArea.Name)
	}
	if !charger.LastHeartBeat.IsZero() {
		fmt.Fprintf(w, "Last heartbeat: %s\n", charger.LastHeartBeat.Local().Format(time.RFC822))
	}
	fmt.Fprintln(w)
	format.WriteChargers(w, []domain.ChargingStation{charger})
}

func printConnectorDetail(w io.Writer, detail provider.ConnectorDetail) {
	connector := detail.Connector
	fmt.Fprintf(w, "%s%s connector %s%s  %s%s%s\n",
		colors.Blue, detail.Charger.ID, domain.ConnectorLetterFromID(connector.ID), colors.Reset,
		format.StatusColor(connector.Status), connector.Status, colors.Reset)
	fmt.Fprintf(w, "Type: %s  Power: %s\n", connector.Type, format.FormatPower(connector.Power))

	tx := detail.Transaction
	if tx == nil {
		fmt.Fprintln(w, "No charging session recorded")
		return
	}
	if tx.IsActive() {
		fmt.Fprintf(w, "\nSession %d in progress since %s\n", tx.ID,
			tx.Timestamp.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "Consumption: %s (now %s)\n",
			format.FormatEnergy(tx.TotalConsumption),
			format.FormatPower(int(tx.CurrentConsumption)))
	} else {
		fmt.Fprintf(w, "\nLast session %d, %s\n", tx.ID,
			tx.Timestamp.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "Duration: %s  Energy: %s\n",
			format.FormatDuration(tx.Duration(time.Now())),
			format.FormatEnergy(tx.Stop.TotalConsumption))
		if tx.Stop.Price > 0 {
			fmt.Fprintf(w, "Price: %.2f %s\n", tx.Stop.Price, tx.Stop.PriceUnit)
		}
	}
	if tx.User != nil {
		fmt.Fprintf(w, "User: %s\n", tx.User.FullName())
	}
}
