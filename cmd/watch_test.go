package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/state"
)

func stations(statuses map[string]domain.ConnectorStatus) []domain.ChargingStation {
	station := domain.ChargingStation{ID: "CS-0001"}
	for _, letter := range []string{"A", "B"} {
		if status, ok := statuses[letter]; ok {
			id, _ := domain.ConnectorIDFromLetter(letter)
			station.Connectors = append(station.Connectors, domain.Connector{ID: id, Status: status})
		}
	}
	return []domain.ChargingStation{station}
}

func TestPrintTransitions(t *testing.T) {
	known := make(map[string]domain.ConnectorStatus)
	var buf bytes.Buffer

	// First poll announces every connector.
	printTransitions(&buf, stations(map[string]domain.ConnectorStatus{
		"A": domain.StatusAvailable,
		"B": domain.StatusCharging,
	}), known)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CS-0001/A")
	assert.Contains(t, lines[0], "Available")
	assert.Contains(t, lines[1], "CS-0001/B")

	// An unchanged poll prints nothing.
	buf.Reset()
	printTransitions(&buf, stations(map[string]domain.ConnectorStatus{
		"A": domain.StatusAvailable,
		"B": domain.StatusCharging,
	}), known)
	assert.Empty(t, buf.String())

	// A status change prints the old and new status.
	buf.Reset()
	printTransitions(&buf, stations(map[string]domain.ConnectorStatus{
		"A": domain.StatusCharging,
		"B": domain.StatusCharging,
	}), known)
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "CS-0001/A")
	assert.Contains(t, lines[0], "Available ->")
	assert.Contains(t, lines[0], "Charging")
	assert.Equal(t, domain.StatusCharging, known["CS-0001/A"])
}

func TestListRunLoadsAllPages(t *testing.T) {
	records := make([]int, 23)
	for i := range records {
		records[i] = i
	}
	var loadErr error
	list := state.NewPagedList(10, func(ctx context.Context, search string, skip, limit int) (state.Page[int], error) {
		end := skip + limit
		if end > len(records) {
			end = len(records)
		}
		return state.Page[int]{Result: records[skip:end], Count: len(records)}, nil
	}, func(err error) { loadErr = err })

	items, err := listRun(context.Background(), list, &loadErr, true)
	require.NoError(t, err)
	assert.Len(t, items, 23)

	// Without all, a single page is enough.
	list2 := state.NewPagedList(10, func(ctx context.Context, search string, skip, limit int) (state.Page[int], error) {
		return state.Page[int]{Result: records[:10], Count: len(records)}, nil
	}, func(err error) { loadErr = err })
	loadErr = nil
	items, err = listRun(context.Background(), list2, &loadErr, false)
	require.NoError(t, err)
	assert.Len(t, items, 10)
}

func TestListRunStopsOnLoadError(t *testing.T) {
	var loadErr error
	calls := 0
	list := state.NewPagedList(10, func(ctx context.Context, search string, skip, limit int) (state.Page[int], error) {
		calls++
		if calls > 1 {
			return state.Page[int]{}, errors.New("backend down")
		}
		return state.Page[int]{Result: make([]int, 10), Count: 30}, nil
	}, func(err error) { loadErr = err })

	_, err := listRun(context.Background(), list, &loadErr, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, 2, calls, "paging stops at the first failure")
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, 25, pageSize(25))
	assert.Equal(t, 10, pageSize(0))
}
