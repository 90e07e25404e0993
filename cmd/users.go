package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Long: `List users.

USAGE:
    chargefront users [OPTIONS]

OPTIONS:
    --search <text>  Free-text search
    --limit <n>      Page size (default: configured paging_size)
    --all            Page through the whole list

Listing users requires an admin role; the backend rejects the call for
basic accounts.`,
	RunE: runUsers,
}

var (
	usersSearch string
	usersLimit  int
	usersAll    bool
)

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().StringVar(&usersSearch, "search", "", "Free-text search")
	usersCmd.Flags().IntVar(&usersLimit, "limit", 0, "Page size")
	usersCmd.Flags().BoolVar(&usersAll, "all", false, "Page through the whole list")
}

func runUsers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	var loadErr error
	list := state.NewPagedList(pageSize(usersLimit), loadUsers(a), func(err error) { loadErr = err })
	list.SetSearch(usersSearch)

	users, err := listRun(cmd.Context(), list, &loadErr, usersAll)
	if err != nil {
		return err
	}

	if flagJSON {
		return format.WriteJSON(cmd.OutOrStdout(), users)
	}
	format.WriteUsers(cmd.OutOrStdout(), users)
	if count := list.Count(); count != provider.CountUnknown {
		colors.Info(fmt.Sprintf("%d of %d users", len(users), count))
	}
	return nil
}
