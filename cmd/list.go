package cmd

import (
	"context"

	"github.com/chargefront/chargefront/internal/config"
	"github.com/chargefront/chargefront/internal/state"
)

// listRun drives a paged list for one CLI invocation: an initial refresh,
// then page-by-page loading when all is set. The first load failure stops
// paging and is returned.
func listRun[T any](ctx context.Context, list *state.PagedList[T], loadErr *error, all bool) ([]T, error) {
	list.Refresh(ctx)
	if *loadErr != nil {
		return nil, *loadErr
	}
	for all && list.LoadMore(ctx) {
		if *loadErr != nil {
			return nil, *loadErr
		}
	}
	return list.Items(), nil
}

// pageSize returns the configured page width, honoring a per-command
// --limit override.
func pageSize(override int) int {
	if override > 0 {
		return override
	}
	return config.GetInt("paging_size", 10)
}
