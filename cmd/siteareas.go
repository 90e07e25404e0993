package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
)

// siteAreasCmd represents the site-areas command
var siteAreasCmd = &cobra.Command{
	Use:   "site-areas",
	Short: "List site areas",
	Long: `List site areas.

USAGE:
    chargefront site-areas [OPTIONS]

OPTIONS:
    --search <text>  Free-text search
    --limit <n>      Page size (default: configured paging_size)
    --all            Page through the whole list`,
	RunE: runSiteAreas,
}

var (
	siteAreasSearch string
	siteAreasLimit  int
	siteAreasAll    bool
)

func init() {
	rootCmd.AddCommand(siteAreasCmd)

	siteAreasCmd.Flags().StringVar(&siteAreasSearch, "search", "", "Free-text search")
	siteAreasCmd.Flags().IntVar(&siteAreasLimit, "limit", 0, "Page size")
	siteAreasCmd.Flags().BoolVar(&siteAreasAll, "all", false, "Page through the whole list")
}

func runSiteAreas(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	var loadErr error
	list := state.NewPagedList(pageSize(siteAreasLimit), loadSiteAreas(a), func(err error) { loadErr = err })
	list.SetSearch(siteAreasSearch)

	areas, err := listRun(cmd.Context(), list, &loadErr, siteAreasAll)
	if err != nil {
		return err
	}

	if flagJSON {
		return format.WriteJSON(cmd.OutOrStdout(), areas)
	}
	format.WriteSiteAreas(cmd.OutOrStdout(), areas)
	if count := list.Count(); count != provider.CountUnknown {
		colors.Info(fmt.Sprintf("%d of %d site areas", len(areas), count))
	}
	return nil
}
