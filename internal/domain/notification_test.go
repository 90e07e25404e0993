package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotification(t *testing.T) {
	payload := []byte(`{
		"notificationType": "EndOfSession",
		"tenantID": "tenant-1",
		"chargeBoxID": "CS-0042",
		"connectorId": "A",
		"transactionID": "1234"
	}`)

	n, err := ParseNotification(payload)
	require.NoError(t, err)
	assert.Equal(t, NotifyEndOfSession, n.Type)
	assert.Equal(t, "tenant-1", n.TenantID)
	assert.Equal(t, "CS-0042", n.ChargeBoxID)
	assert.Equal(t, "A", n.ConnectorID)
	assert.Equal(t, "1234", n.TransactionID)
}

func TestParseNotificationRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{{`},
		{name: "unknown type", payload: `{"notificationType":"SomethingElse","tenantID":"t"}`},
		{name: "missing tenant", payload: `{"notificationType":"EndOfSession"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotification([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestNotificationEncodeRoundTrip(t *testing.T) {
	n := Notification{
		Type:        NotifySessionStarted,
		TenantID:    "tenant-1",
		ChargeBoxID: "CS-0042",
		ConnectorID: "2",
	}
	payload, err := n.Encode()
	require.NoError(t, err)

	decoded, err := ParseNotification(payload)
	require.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func TestNotificationTypeValidity(t *testing.T) {
	assert.True(t, NotifyOfflineChargingStation.IsValid())
	assert.False(t, NotificationType("Bogus").IsValid())

	parsed, err := ParseNotificationType("EndOfCharge")
	require.NoError(t, err)
	assert.Equal(t, NotifyEndOfCharge, parsed)

	_, err = ParseNotificationType("endofcharge")
	assert.Error(t, err)
}
