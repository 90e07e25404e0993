package domain

import (
	"encoding/json"
	"fmt"
)

// NotificationType discriminates push-notification payloads sent by the backend.
type NotificationType string

const (
	NotifyEndOfSession               NotificationType = "EndOfSession"
	NotifySessionStarted             NotificationType = "SessionStarted"
	NotifyEndOfCharge                NotificationType = "EndOfCharge"
	NotifyOptimalChargeReached       NotificationType = "OptimalChargeReached"
	NotifyChargingStationStatusError NotificationType = "ChargingStationStatusError"
	NotifyPreparingSessionNotStarted NotificationType = "PreparingSessionNotStarted"
	NotifyChargingStationRegistered  NotificationType = "ChargingStationRegistered"
	NotifyOfflineChargingStation     NotificationType = "OfflineChargingStation"
	NotifyUnknownUserBadged          NotificationType = "UnknownUserBadged"
	NotifyOcpiPatchStatusError       NotificationType = "OcpiPatchStatusError"
	NotifySmtpAuthError              NotificationType = "SmtpAuthError"
	NotifyUserAccountStatusChanged   NotificationType = "UserAccountStatusChanged"
	NotifyUserAccountInactivity      NotificationType = "UserAccountInactivity"
)

// IsValid checks if the notification type is a known value.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotifyEndOfSession, NotifySessionStarted, NotifyEndOfCharge,
		NotifyOptimalChargeReached, NotifyChargingStationStatusError,
		NotifyPreparingSessionNotStarted, NotifyChargingStationRegistered,
		NotifyOfflineChargingStation, NotifyUnknownUserBadged,
		NotifyOcpiPatchStatusError, NotifySmtpAuthError,
		NotifyUserAccountStatusChanged, NotifyUserAccountInactivity:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t NotificationType) String() string {
	return string(t)
}

// ParseNotificationType parses a string into a NotificationType.
func ParseNotificationType(t string) (NotificationType, error) {
	nt := NotificationType(t)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", t)
	}
	return nt, nil
}

// Notification is the data payload of a push notification. Identifier fields
// are carried as strings on the wire; connector identifiers may arrive as
// letters ("A") or numbers ("1").
type Notification struct {
	Type          NotificationType `json:"notificationType"`
	TenantID      string           `json:"tenantID"`
	ChargeBoxID   string           `json:"chargeBoxID"`
	ConnectorID   string           `json:"connectorId"`
	TransactionID string           `json:"transactionID"`
}

// Validate returns an error if the payload misses required fields for its type.
func (n Notification) Validate() error {
	if !n.Type.IsValid() {
		return fmt.Errorf("invalid notification type: %s", n.Type)
	}
	if n.TenantID == "" {
		return fmt.Errorf("notification tenant ID cannot be empty")
	}
	return nil
}

// ParseNotification decodes a JSON payload into a Notification and validates it.
func ParseNotification(payload []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Notification{}, fmt.Errorf("failed to parse notification payload: %w", err)
	}
	if err := n.Validate(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// Encode serializes the notification back to its JSON payload form.
func (n Notification) Encode() ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification payload: %w", err)
	}
	return data, nil
}
