package tui

import (
	"time"

	"github.com/chargefront/chargefront/internal/provider"
)

// chargersTickMsg is the auto-refresh tick of the chargers screen.
type chargersTickMsg time.Time

// chargersRefreshedMsg reports a settled chargers refresh. Skipped is true
// when the tick found a refresh already in flight and did nothing.
type chargersRefreshedMsg struct {
	Skipped bool
}

// chargersPagedMsg reports a settled load-more fetch.
type chargersPagedMsg struct{}

// transactionsTickMsg is the auto-refresh tick of the transactions screen.
type transactionsTickMsg time.Time

// transactionsRefreshedMsg reports a settled transactions refresh.
type transactionsRefreshedMsg struct {
	Skipped bool
}

// transactionsPagedMsg reports a settled load-more fetch.
type transactionsPagedMsg struct{}

// detailTickMsg is the auto-refresh tick of the connector detail screen.
type detailTickMsg time.Time

// detailLoadedMsg carries a fetched connector detail.
type detailLoadedMsg struct {
	Detail  provider.ConnectorDetail
	Skipped bool
	Err     error
}

// commandSettledMsg reports the outcome of a remote start or stop.
type commandSettledMsg struct {
	Info string
	Err  error
}

// loadFailedMsg surfaces an absorbed list load failure on the status line.
type loadFailedMsg struct {
	Err error
}
