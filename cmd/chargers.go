package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
)

// chargersCmd represents the chargers command
var chargersCmd = &cobra.Command{
	Use:   "chargers",
	Short: "List charging stations",
	Long: `List charging stations.

USAGE:
    chargefront chargers [OPTIONS]

OPTIONS:
    --search <text>      Free-text search
    --status <status>    Filter by connector status (Available, Charging, ...)
    --type <type>        Filter by connector type (T2, CCS, C)
    --site-area <id>     Filter by site area
    --limit <n>          Page size (default: configured paging_size)
    --all                Page through the whole list
    --clear-filters      Drop the persisted status and type defaults

The status and type filters are remembered as defaults for the next
invocation. Search and site area apply to this invocation only.`,
	RunE: runChargers,
}

var (
	chargersSearch   string
	chargersStatus   string
	chargersType     string
	chargersSiteArea string
	chargersLimit    int
	chargersAll      bool
	chargersClear    bool
)

func init() {
	rootCmd.AddCommand(chargersCmd)

	chargersCmd.Flags().StringVar(&chargersSearch, "search", "", "Free-text search")
	chargersCmd.Flags().StringVar(&chargersStatus, "status", "", "Filter by connector status")
	chargersCmd.Flags().StringVar(&chargersType, "type", "", "Filter by connector type")
	chargersCmd.Flags().StringVar(&chargersSiteArea, "site-area", "", "Filter by site area ID")
	chargersCmd.Flags().IntVar(&chargersLimit, "limit", 0, "Page size")
	chargersCmd.Flags().BoolVar(&chargersAll, "all", false, "Page through the whole list")
	chargersCmd.Flags().BoolVar(&chargersClear, "clear-filters", false, "Drop persisted filter defaults")
}

func runChargers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	filters := state.NewFilterState(screenChargers,
		state.WithPersistence(a.store, domain.FilterConnectorStatus, domain.FilterConnectorType))
	defer filters.Close()

	if chargersClear {
		filters.ClearFilter(domain.FilterConnectorStatus)
		filters.ClearFilter(domain.FilterConnectorType)
	}
	if chargersStatus != "" {
		status, err := domain.ParseConnectorStatus(chargersStatus)
		if err != nil {
			return err
		}
		filters.SetFilter(domain.FilterConnectorStatus, status.String())
	}
	if chargersType != "" {
		connType := domain.ConnectorType(chargersType)
		if !connType.IsValid() {
			return fmt.Errorf("invalid connector type: %s", chargersType)
		}
		filters.SetFilter(domain.FilterConnectorType, connType.String())
	}
	if chargersSiteArea != "" {
		filters.SetFilter(domain.FilterSiteAreaID, chargersSiteArea)
	}

	var loadErr error
	list := state.NewPagedList(pageSize(chargersLimit),
		loadChargers(a, filters),
		func(err error) { loadErr = err })
	list.SetSearch(chargersSearch)

	chargers, err := listRun(cmd.Context(), list, &loadErr, chargersAll)
	if err != nil {
		return err
	}

	if flagJSON {
		return format.WriteJSON(cmd.OutOrStdout(), chargers)
	}
	format.WriteChargers(cmd.OutOrStdout(), chargers)
	if count := list.Count(); count != provider.CountUnknown {
		colors.Info(fmt.Sprintf("%d of %d charging stations", len(chargers), count))
	}
	return nil
}
