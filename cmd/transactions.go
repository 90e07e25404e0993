package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
)

// transactionsCmd represents the transactions command
var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List charging sessions",
	Long: `List charging sessions.

USAGE:
    chargefront transactions [OPTIONS]

OPTIONS:
    --active         List in-progress sessions instead of completed ones
    --search <text>  Free-text search
    --user <id>      Filter by user ID
    --from <date>    Sessions started at or after this date (RFC 3339)
    --to <date>      Sessions started before this date (RFC 3339)
    --limit <n>      Page size (default: configured paging_size)
    --all            Page through the whole list

The date range is remembered as a default for the next invocation.`,
	RunE: runTransactions,
}

var (
	transactionsActive bool
	transactionsSearch string
	transactionsUser   string
	transactionsFrom   string
	transactionsTo     string
	transactionsLimit  int
	transactionsAll    bool
)

func init() {
	rootCmd.AddCommand(transactionsCmd)

	transactionsCmd.Flags().BoolVar(&transactionsActive, "active", false, "List in-progress sessions")
	transactionsCmd.Flags().StringVar(&transactionsSearch, "search", "", "Free-text search")
	transactionsCmd.Flags().StringVar(&transactionsUser, "user", "", "Filter by user ID")
	transactionsCmd.Flags().StringVar(&transactionsFrom, "from", "", "Sessions started at or after this date")
	transactionsCmd.Flags().StringVar(&transactionsTo, "to", "", "Sessions started before this date")
	transactionsCmd.Flags().IntVar(&transactionsLimit, "limit", 0, "Page size")
	transactionsCmd.Flags().BoolVar(&transactionsAll, "all", false, "Page through the whole list")
}

func runTransactions(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	filters := state.NewFilterState(screenTransactions,
		state.WithPersistence(a.store, domain.FilterStartDate, domain.FilterEndDate))
	defer filters.Close()

	if transactionsUser != "" {
		filters.SetFilter(domain.FilterUserID, transactionsUser)
	}
	if transactionsFrom != "" {
		if _, err := time.Parse(time.RFC3339, transactionsFrom); err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		filters.SetFilter(domain.FilterStartDate, transactionsFrom)
	}
	if transactionsTo != "" {
		if _, err := time.Parse(time.RFC3339, transactionsTo); err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
		filters.SetFilter(domain.FilterEndDate, transactionsTo)
	}

	var loadErr error
	list := state.NewPagedList(pageSize(transactionsLimit),
		loadTransactions(a, filters, transactionsActive),
		func(err error) { loadErr = err })
	list.SetSearch(transactionsSearch)

	transactions, err := listRun(cmd.Context(), list, &loadErr, transactionsAll)
	if err != nil {
		return err
	}

	if flagJSON {
		return format.WriteJSON(cmd.OutOrStdout(), transactions)
	}
	format.WriteTransactions(cmd.OutOrStdout(), transactions, time.Now())
	if count := list.Count(); count != provider.CountUnknown {
		colors.Info(fmt.Sprintf("%d of %d sessions", len(transactions), count))
	}
	return nil
}
