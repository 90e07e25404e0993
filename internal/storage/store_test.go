package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestFilterDefaultsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveFilter("chargers", "connectorStatus", "Available"))
	require.NoError(t, store.SaveFilter("chargers", "connectorType", "T2"))
	require.NoError(t, store.SaveFilter("transactions", "startDateTime", "2026-08-01T00:00:00Z"))

	filters, err := store.LoadFilters("chargers")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"connectorStatus": "Available",
		"connectorType":   "T2",
	}, filters)

	// Saving again replaces, not duplicates.
	require.NoError(t, store.SaveFilter("chargers", "connectorStatus", "Charging"))
	filters, err = store.LoadFilters("chargers")
	require.NoError(t, err)
	assert.Equal(t, "Charging", filters["connectorStatus"])

	require.NoError(t, store.DeleteFilter("chargers", "connectorStatus"))
	filters, err = store.LoadFilters("chargers")
	require.NoError(t, err)
	_, ok := filters["connectorStatus"]
	assert.False(t, ok)
}

func TestCredentialsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadCredentials("tenant-1")
	assert.ErrorIs(t, err, ErrNoCredentials)

	creds := Credentials{
		Tenant:   "tenant-1",
		Email:    "ada@example.com",
		Token:    "a.b.c",
		UserJSON: `{"id":"user-1"}`,
	}
	require.NoError(t, store.SaveCredentials(creds))

	loaded, err := store.LoadCredentials("tenant-1")
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)

	// One cached session per tenant; a new login replaces the old one.
	creds.Token = "d.e.f"
	require.NoError(t, store.SaveCredentials(creds))
	loaded, err = store.LoadCredentials("tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "d.e.f", loaded.Token)

	require.NoError(t, store.ClearCredentials("tenant-1"))
	_, err = store.LoadCredentials("tenant-1")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestPendingNotificationSlot(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadPending()
	assert.ErrorIs(t, err, ErrNoPendingNotification)

	require.NoError(t, store.SavePending([]byte(`{"notificationType":"EndOfSession"}`)))
	payload, err := store.LoadPending()
	require.NoError(t, err)
	assert.JSONEq(t, `{"notificationType":"EndOfSession"}`, string(payload))

	// The slot holds exactly one payload; a second save overwrites it.
	require.NoError(t, store.SavePending([]byte(`{"notificationType":"SessionStarted"}`)))
	payload, err = store.LoadPending()
	require.NoError(t, err)
	assert.JSONEq(t, `{"notificationType":"SessionStarted"}`, string(payload))

	require.NoError(t, store.ClearPending())
	_, err = store.LoadPending()
	assert.ErrorIs(t, err, ErrNoPendingNotification)
}

func TestInstallIDStable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profile.db")
	store, err := Open(dbPath)
	require.NoError(t, err)

	first, err := store.InstallID()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := store.InstallID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.NoError(t, store.Close())

	// The identifier survives reopening the store.
	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	third, err := reopened.InstallID()
	require.NoError(t, err)
	assert.Equal(t, first, third)
}
