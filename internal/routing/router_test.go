package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/storage"
)

type fakeSession struct {
	valid  bool
	tenant string
}

func (s *fakeSession) IsValid() bool    { return s.valid }
func (s *fakeSession) TenantID() string { return s.tenant }

type fakeNavigator struct {
	targets []Target
	fail    error
}

func (n *fakeNavigator) Navigate(target Target) error {
	if n.fail != nil {
		return n.fail
	}
	n.targets = append(n.targets, target)
	return nil
}

type fakePendingStore struct {
	payload []byte
}

func (s *fakePendingStore) SavePending(payload []byte) error {
	s.payload = payload
	return nil
}

func (s *fakePendingStore) LoadPending() ([]byte, error) {
	if s.payload == nil {
		return nil, storage.ErrNoPendingNotification
	}
	return s.payload, nil
}

func (s *fakePendingStore) ClearPending() error {
	s.payload = nil
	return nil
}

func notification(nt domain.NotificationType) domain.Notification {
	return domain.Notification{
		Type:          nt,
		TenantID:      "tenant-1",
		ChargeBoxID:   "CS-0042",
		ConnectorID:   "A",
		TransactionID: "1234",
	}
}

func TestRouterTargetMapping(t *testing.T) {
	tests := []struct {
		name     string
		typ      domain.NotificationType
		expected Target
	}{
		{
			name:     "end of session opens the transaction",
			typ:      domain.NotifyEndOfSession,
			expected: TransactionDetailTarget{TransactionID: 1234},
		},
		{
			name:     "session started opens the live session tab",
			typ:      domain.NotifySessionStarted,
			expected: ChargerConnectorTarget{ChargerID: "CS-0042", ConnectorID: 1, InProgress: true},
		},
		{
			name:     "end of charge opens the live session tab",
			typ:      domain.NotifyEndOfCharge,
			expected: ChargerConnectorTarget{ChargerID: "CS-0042", ConnectorID: 1, InProgress: true},
		},
		{
			name:     "optimal charge opens the live session tab",
			typ:      domain.NotifyOptimalChargeReached,
			expected: ChargerConnectorTarget{ChargerID: "CS-0042", ConnectorID: 1, InProgress: true},
		},
		{
			name:     "status error opens the charger tab",
			typ:      domain.NotifyChargingStationStatusError,
			expected: ChargerConnectorTarget{ChargerID: "CS-0042", ConnectorID: 1},
		},
		{
			name:     "preparing without session opens the charger tab",
			typ:      domain.NotifyPreparingSessionNotStarted,
			expected: ChargerConnectorTarget{ChargerID: "CS-0042", ConnectorID: 1},
		},
		{
			name:     "registered station opens at connector one",
			typ:      domain.NotifyChargingStationRegistered,
			expected: ChargerConnectorTarget{ChargerID: "CS-0042", ConnectorID: 1},
		},
		{
			name:     "offline station opens the charger list",
			typ:      domain.NotifyOfflineChargingStation,
			expected: ChargerListTarget{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNavigator{}
			router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"}, WithNavigator(nav))

			outcome := router.HandleOpened(notification(tt.typ))
			assert.Equal(t, OutcomeRouted, outcome)
			require.Len(t, nav.targets, 1)
			assert.Equal(t, tt.expected, nav.targets[0])
		})
	}
}

func TestRouterInformationalTypesIgnored(t *testing.T) {
	informational := []domain.NotificationType{
		domain.NotifyUnknownUserBadged,
		domain.NotifyOcpiPatchStatusError,
		domain.NotifySmtpAuthError,
		domain.NotifyUserAccountStatusChanged,
		domain.NotifyUserAccountInactivity,
	}
	nav := &fakeNavigator{}
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"}, WithNavigator(nav))

	for _, typ := range informational {
		assert.Equal(t, OutcomeIgnored, router.HandleOpened(notification(typ)), string(typ))
	}
	assert.Empty(t, nav.targets)
}

func TestRouterConnectorIdentifierForms(t *testing.T) {
	nav := &fakeNavigator{}
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"}, WithNavigator(nav))

	n := notification(domain.NotifySessionStarted)
	n.ConnectorID = "C"
	require.Equal(t, OutcomeRouted, router.HandleOpened(n))

	n.ConnectorID = "2"
	require.Equal(t, OutcomeRouted, router.HandleOpened(n))

	require.Len(t, nav.targets, 2)
	assert.Equal(t, 3, nav.targets[0].(ChargerConnectorTarget).ConnectorID)
	assert.Equal(t, 2, nav.targets[1].(ChargerConnectorTarget).ConnectorID)
}

func TestRouterDefersWithoutSessionAndReplaysAfterLogin(t *testing.T) {
	sess := &fakeSession{valid: false, tenant: ""}
	nav := &fakeNavigator{}
	store := &fakePendingStore{}
	router := NewRouter(sess, WithNavigator(nav), WithPendingStore(store))

	outcome := router.HandleOpened(notification(domain.NotifyEndOfSession))
	assert.Equal(t, OutcomeDeferred, outcome)
	assert.Empty(t, nav.targets)
	assert.NotNil(t, store.payload, "the pending slot survives a restart")

	// Login succeeds; the replay lands on the stored destination.
	sess.valid = true
	sess.tenant = "tenant-1"
	outcome, had := router.CheckPending()
	require.True(t, had)
	assert.Equal(t, OutcomeRouted, outcome)
	require.Len(t, nav.targets, 1)
	assert.Equal(t, TransactionDetailTarget{TransactionID: 1234}, nav.targets[0])
	assert.Nil(t, store.payload)

	// The slot holds at most one notification and is now empty.
	_, had = router.CheckPending()
	assert.False(t, had)
}

func TestRouterSecondDeferralOverwritesFirst(t *testing.T) {
	sess := &fakeSession{}
	nav := &fakeNavigator{}
	router := NewRouter(sess, WithNavigator(nav))

	router.HandleOpened(notification(domain.NotifyEndOfSession))
	second := notification(domain.NotifySessionStarted)
	router.HandleOpened(second)

	sess.valid = true
	sess.tenant = "tenant-1"
	outcome, had := router.CheckPending()
	require.True(t, had)
	assert.Equal(t, OutcomeRouted, outcome)
	require.Len(t, nav.targets, 1)
	assert.IsType(t, ChargerConnectorTarget{}, nav.targets[0])
}

func TestRouterTenantMismatchRejectedAndConsumed(t *testing.T) {
	nav := &fakeNavigator{}
	var userError string
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-2"},
		WithNavigator(nav),
		WithErrorNotifier(func(msg string) { userError = msg }))

	outcome := router.HandleOpened(notification(domain.NotifyEndOfSession))
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Empty(t, nav.targets)
	assert.NotEmpty(t, userError)

	// Rejected means consumed: nothing is waiting for a retry.
	_, had := router.CheckPending()
	assert.False(t, had)
}

func TestRouterDefersWithoutNavigator(t *testing.T) {
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"})

	outcome := router.HandleOpened(notification(domain.NotifyEndOfSession))
	assert.Equal(t, OutcomeDeferred, outcome)

	// Attaching the navigator makes the replay consumable.
	nav := &fakeNavigator{}
	router.AttachNavigator(nav)
	outcome, had := router.CheckPending()
	require.True(t, had)
	assert.Equal(t, OutcomeRouted, outcome)
}

func TestRouterInvalidPayloadRejected(t *testing.T) {
	var userError string
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"},
		WithNavigator(&fakeNavigator{}),
		WithErrorNotifier(func(msg string) { userError = msg }))

	n := notification(domain.NotifyEndOfSession)
	n.TransactionID = "not-a-number"
	assert.Equal(t, OutcomeRejected, router.HandleOpened(n))
	assert.NotEmpty(t, userError)
}

func TestRouterLoadsPersistedPendingOnConstruction(t *testing.T) {
	payload, err := notification(domain.NotifyOfflineChargingStation).Encode()
	require.NoError(t, err)
	store := &fakePendingStore{payload: payload}

	nav := &fakeNavigator{}
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"},
		WithNavigator(nav), WithPendingStore(store))

	outcome, had := router.CheckPending()
	require.True(t, had)
	assert.Equal(t, OutcomeRouted, outcome)
	require.Len(t, nav.targets, 1)
	assert.Equal(t, ChargerListTarget{}, nav.targets[0])
}

func TestRouterNavigatorFailureRejected(t *testing.T) {
	var userError string
	router := NewRouter(&fakeSession{valid: true, tenant: "tenant-1"},
		WithNavigator(&fakeNavigator{fail: assert.AnError}),
		WithErrorNotifier(func(msg string) { userError = msg }))

	assert.Equal(t, OutcomeRejected, router.HandleOpened(notification(domain.NotifyOfflineChargingStation)))
	assert.NotEmpty(t, userError)
}
