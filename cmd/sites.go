package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
)

// sitesCmd represents the sites command
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List sites",
	Long: `List sites.

USAGE:
    chargefront sites [OPTIONS]

OPTIONS:
    --search <text>  Free-text search
    --limit <n>      Page size (default: configured paging_size)
    --all            Page through the whole list`,
	RunE: runSites,
}

var (
	sitesSearch string
	sitesLimit  int
	sitesAll    bool
)

func init() {
	rootCmd.AddCommand(sitesCmd)

	sitesCmd.Flags().StringVar(&sitesSearch, "search", "", "Free-text search")
	sitesCmd.Flags().IntVar(&sitesLimit, "limit", 0, "Page size")
	sitesCmd.Flags().BoolVar(&sitesAll, "all", false, "Page through the whole list")
}

func runSites(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	var loadErr error
	list := state.NewPagedList(pageSize(sitesLimit), loadSites(a), func(err error) { loadErr = err })
	list.SetSearch(sitesSearch)

	sites, err := listRun(cmd.Context(), list, &loadErr, sitesAll)
	if err != nil {
		return err
	}

	if flagJSON {
		return format.WriteJSON(cmd.OutOrStdout(), sites)
	}
	format.WriteSites(cmd.OutOrStdout(), sites)
	if count := list.Count(); count != provider.CountUnknown {
		colors.Info(fmt.Sprintf("%d of %d sites", len(sites), count))
	}
	return nil
}
