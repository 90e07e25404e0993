// Package routing maps push-notification payloads to typed navigation
// targets and defers notifications that arrive before a session exists.
package routing

// Target is a navigation destination. The set of targets is closed:
// screens switch on the concrete type, so free-form route strings never
// cross the router boundary.
type Target interface {
	targetName() string
}

// TransactionDetailTarget opens the detail view of a completed transaction.
type TransactionDetailTarget struct {
	TransactionID int
}

func (TransactionDetailTarget) targetName() string { return "transaction-detail" }

// ChargerConnectorTarget opens a connector of a charging station, either on
// the in-progress session tab or the charger tab.
type ChargerConnectorTarget struct {
	ChargerID   string
	ConnectorID int
	// InProgress selects the live session tab instead of the charger tab.
	InProgress bool
}

func (ChargerConnectorTarget) targetName() string { return "charger-connector" }

// ChargerListTarget opens the charging station list.
type ChargerListTarget struct{}

func (ChargerListTarget) targetName() string { return "charger-list" }

// Navigator dispatches a navigation to the UI layer.
type Navigator interface {
	Navigate(target Target) error
}
