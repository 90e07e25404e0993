package domain

import "time"

// Transaction represents a charging session, in progress or completed.
type Transaction struct {
	ID                  int              `json:"id"`
	ChargeBoxID         string           `json:"chargeBoxID"`
	ConnectorID         int              `json:"connectorId"`
	Timestamp           time.Time        `json:"timestamp"`
	TagID               string           `json:"tagID"`
	User                *User            `json:"user,omitempty"`
	MeterStart          int              `json:"meterStart"`
	CurrentConsumption  float64          `json:"currentConsumption"`
	TotalConsumption    float64          `json:"totalConsumption"`
	TotalInactivitySecs int              `json:"totalInactivitySecs"`
	Stop                *TransactionStop `json:"stop,omitempty"`
}

// TransactionStop holds the completion data of a finished transaction.
type TransactionStop struct {
	Timestamp         time.Time `json:"timestamp"`
	MeterStop         int       `json:"meterStop"`
	TotalConsumption  float64   `json:"totalConsumption"`
	TotalDurationSecs int       `json:"totalDurationSecs"`
	Price             float64   `json:"price"`
	PriceUnit         string    `json:"priceUnit"`
}

// IsActive reports whether the transaction is still in progress.
func (t *Transaction) IsActive() bool {
	return t.Stop == nil
}

// Duration returns the elapsed time of the transaction. For an active
// transaction the duration is measured against now.
func (t *Transaction) Duration(now time.Time) time.Duration {
	if t.Stop != nil {
		return t.Stop.Timestamp.Sub(t.Timestamp)
	}
	return now.Sub(t.Timestamp)
}

// User represents a user of the charging network.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	Status    string   `json:"status"`
	TagIDs    []string `json:"tagIDs,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.Name
	}
	return u.FirstName + " " + u.Name
}

// User roles.
const (
	RoleSuperAdmin = "S"
	RoleAdmin      = "A"
	RoleBasic      = "B"
	RoleDemo       = "D"
)

// Tenant represents an operator tenant of the backend.
type Tenant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}
