package cmd

import (
	"context"

	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
)

// Screen identifiers under which filter defaults are persisted.
const (
	screenChargers     = "chargers"
	screenTransactions = "transactions"
)

// pagingDefault selects the first page with the configured page size.
func pagingDefault() provider.Paging {
	return provider.Paging{Skip: 0, Limit: pageSize(0)}
}

// mergedFilters combines the filter state snapshot with the search term.
func mergedFilters(filters *state.FilterState, search string) map[string]string {
	merged := filters.Filters()
	if search != "" {
		merged[domain.FilterSearch] = search
	}
	return merged
}

func loadChargers(a *app, filters *state.FilterState) state.LoadFunc[domain.ChargingStation] {
	return func(ctx context.Context, search string, skip, limit int) (state.Page[domain.ChargingStation], error) {
		res, err := a.client.ListChargers(ctx, mergedFilters(filters, search), provider.Paging{Skip: skip, Limit: limit})
		if err != nil {
			return state.Page[domain.ChargingStation]{}, err
		}
		return state.Page[domain.ChargingStation]{Result: res.Result, Count: res.Count}, nil
	}
}

func loadSites(a *app) state.LoadFunc[domain.Site] {
	return func(ctx context.Context, search string, skip, limit int) (state.Page[domain.Site], error) {
		filters := map[string]string{}
		if search != "" {
			filters[domain.FilterSearch] = search
		}
		res, err := a.client.ListSites(ctx, filters, provider.Paging{Skip: skip, Limit: limit})
		if err != nil {
			return state.Page[domain.Site]{}, err
		}
		return state.Page[domain.Site]{Result: res.Result, Count: res.Count}, nil
	}
}

func loadSiteAreas(a *app) state.LoadFunc[domain.SiteArea] {
	return func(ctx context.Context, search string, skip, limit int) (state.Page[domain.SiteArea], error) {
		filters := map[string]string{}
		if search != "" {
			filters[domain.FilterSearch] = search
		}
		res, err := a.client.ListSiteAreas(ctx, filters, provider.Paging{Skip: skip, Limit: limit})
		if err != nil {
			return state.Page[domain.SiteArea]{}, err
		}
		return state.Page[domain.SiteArea]{Result: res.Result, Count: res.Count}, nil
	}
}

func loadUsers(a *app) state.LoadFunc[domain.User] {
	return func(ctx context.Context, search string, skip, limit int) (state.Page[domain.User], error) {
		filters := map[string]string{}
		if search != "" {
			filters[domain.FilterSearch] = search
		}
		res, err := a.client.ListUsers(ctx, filters, provider.Paging{Skip: skip, Limit: limit})
		if err != nil {
			return state.Page[domain.User]{}, err
		}
		return state.Page[domain.User]{Result: res.Result, Count: res.Count}, nil
	}
}

func loadTransactions(a *app, filters *state.FilterState, active bool) state.LoadFunc[domain.Transaction] {
	return func(ctx context.Context, search string, skip, limit int) (state.Page[domain.Transaction], error) {
		paging := provider.Paging{Skip: skip, Limit: limit}
		var res provider.ListResult[domain.Transaction]
		var err error
		if active {
			res, err = a.client.ListTransactionsActive(ctx, mergedFilters(filters, search), paging)
		} else {
			res, err = a.client.ListTransactionsCompleted(ctx, mergedFilters(filters, search), paging)
		}
		if err != nil {
			return state.Page[domain.Transaction]{}, err
		}
		return state.Page[domain.Transaction]{Result: res.Result, Count: res.Count}, nil
	}
}
