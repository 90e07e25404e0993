// Package domain provides the domain layer for the charging network client.
// It contains the data model, value objects, and pure business logic.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConnectorStatus represents the OCPP status of a connector.
type ConnectorStatus string

const (
	StatusAvailable     ConnectorStatus = "Available"
	StatusOccupied      ConnectorStatus = "Occupied"
	StatusCharging      ConnectorStatus = "Charging"
	StatusFaulted       ConnectorStatus = "Faulted"
	StatusReserved      ConnectorStatus = "Reserved"
	StatusFinishing     ConnectorStatus = "Finishing"
	StatusPreparing     ConnectorStatus = "Preparing"
	StatusSuspendedEVSE ConnectorStatus = "SuspendedEVSE"
	StatusSuspendedEV   ConnectorStatus = "SuspendedEV"
	StatusUnavailable   ConnectorStatus = "Unavailable"
)

// IsValid checks if the connector status is a known value.
func (s ConnectorStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusCharging, StatusFaulted,
		StatusReserved, StatusFinishing, StatusPreparing,
		StatusSuspendedEVSE, StatusSuspendedEV, StatusUnavailable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ConnectorStatus) String() string {
	return string(s)
}

// ParseConnectorStatus parses a string into a ConnectorStatus.
func ParseConnectorStatus(status string) (ConnectorStatus, error) {
	cs := ConnectorStatus(status)
	if !cs.IsValid() {
		return "", fmt.Errorf("invalid connector status: %s", status)
	}
	return cs, nil
}

// ConnectorType represents the physical plug type of a connector.
type ConnectorType string

const (
	ConnectorTypeT2      ConnectorType = "T2"
	ConnectorTypeComboCCS ConnectorType = "CCS"
	ConnectorTypeChademo ConnectorType = "C"
)

// IsValid checks if the connector type is a known value.
func (t ConnectorType) IsValid() bool {
	switch t {
	case ConnectorTypeT2, ConnectorTypeComboCCS, ConnectorTypeChademo:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t ConnectorType) String() string {
	return string(t)
}

// Connector represents a single connector on a charging station.
type Connector struct {
	ID                  int             `json:"connectorId"`
	Status              ConnectorStatus `json:"status"`
	ErrorCode           string          `json:"errorCode"`
	Type                ConnectorType   `json:"type"`
	Power               int             `json:"power"`
	CurrentConsumption  float64         `json:"currentConsumption"`
	TotalConsumption    float64         `json:"totalConsumption"`
	ActiveTransactionID int             `json:"activeTransactionID"`
}

// IsFree reports whether the connector can accept a new charging session.
func (c Connector) IsFree() bool {
	return c.Status == StatusAvailable || c.Status == StatusPreparing
}

// ChargingStation represents a charging station (charge box) with its connectors.
type ChargingStation struct {
	ID                string      `json:"id"`
	ChargePointModel  string      `json:"chargePointModel"`
	ChargePointVendor string      `json:"chargePointVendor"`
	Inactive          bool        `json:"inactive"`
	LastHeartBeat     time.Time   `json:"lastHeartBeat"`
	Connectors        []Connector `json:"connectors"`
	SiteArea          *SiteArea   `json:"siteArea,omitempty"`
}

// Connector returns the connector with the given 1-based ID, or nil.
func (cs *ChargingStation) Connector(connectorID int) *Connector {
	if connectorID < 1 || connectorID > len(cs.Connectors) {
		return nil
	}
	return &cs.Connectors[connectorID-1]
}

// Site represents a site grouping one or more site areas.
type Site struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address Address `json:"address"`
}

// SiteArea represents a geographic area of a site holding charging stations.
type SiteArea struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	SiteID string `json:"siteID"`
	Site   *Site  `json:"site,omitempty"`
}

// Address holds a postal address with coordinates.
type Address struct {
	Address1    string    `json:"address1"`
	PostalCode  string    `json:"postalCode"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// ConnectorIDFromLetter converts a connector letter ("A", "B", ...) to its
// 1-based connector ID. Numeric strings are accepted as-is. Returns an error
// for anything else.
func ConnectorIDFromLetter(letter string) (int, error) {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return 0, fmt.Errorf("empty connector identifier")
	}
	if n, err := strconv.Atoi(letter); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("invalid connector ID: %d", n)
		}
		return n, nil
	}
	if len(letter) == 1 {
		upper := strings.ToUpper(letter)[0]
		if upper >= 'A' && upper <= 'Z' {
			return int(upper-'A') + 1, nil
		}
	}
	return 0, fmt.Errorf("invalid connector identifier: %s", letter)
}

// ConnectorLetterFromID converts a 1-based connector ID to its letter ("A", "B", ...).
func ConnectorLetterFromID(connectorID int) string {
	if connectorID < 1 || connectorID > 26 {
		return ""
	}
	return string(rune('A' + connectorID - 1))
}
