package routing

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/logging"
	"github.com/chargefront/chargefront/internal/storage"
)

// Outcome reports how the router disposed of a notification.
type Outcome int

const (
	// OutcomeRouted means a navigation was dispatched.
	OutcomeRouted Outcome = iota
	// OutcomeDeferred means the notification was stored for replay after login.
	OutcomeDeferred
	// OutcomeRejected means the notification was consumed with a user-visible
	// error and will not be retried.
	OutcomeRejected
	// OutcomeIgnored means the notification is informational only.
	OutcomeIgnored
)

// SessionReader exposes the session state the router consumes.
type SessionReader interface {
	IsValid() bool
	TenantID() string
}

// PendingStore persists the single pending-notification slot.
type PendingStore interface {
	SavePending(payload []byte) error
	LoadPending() ([]byte, error)
	ClearPending() error
}

// Router routes opened notifications to navigation targets. It is
// constructed explicitly and handed to the components that need it; there
// is no process-wide instance.
type Router struct {
	mu        sync.Mutex
	session   SessionReader
	navigator Navigator
	store     PendingStore
	pending   *domain.Notification
	notify    func(msg string)
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithNavigator attaches the navigator at construction time.
func WithNavigator(nav Navigator) RouterOption {
	return func(r *Router) { r.navigator = nav }
}

// WithPendingStore wires the persistent pending slot.
func WithPendingStore(store PendingStore) RouterOption {
	return func(r *Router) { r.store = store }
}

// WithErrorNotifier overrides how user-visible routing errors are shown.
func WithErrorNotifier(notify func(msg string)) RouterOption {
	return func(r *Router) { r.notify = notify }
}

// NewRouter creates a notification router. A pending notification persisted
// by a previous run is loaded back into the slot.
func NewRouter(session SessionReader, opts ...RouterOption) *Router {
	r := &Router{
		session: session,
		notify:  func(msg string) { colors.Error(msg) },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store != nil {
		payload, err := r.store.LoadPending()
		if err != nil && !errors.Is(err, storage.ErrNoPendingNotification) {
			logging.Warn("failed to load pending notification", "error", err)
		} else if err == nil {
			if n, perr := domain.ParseNotification(payload); perr == nil {
				r.pending = &n
			} else {
				logging.Warn("dropping unparsable pending notification", "error", perr)
				_ = r.store.ClearPending()
			}
		}
	}
	return r
}

// AttachNavigator installs the navigator once the UI layer is up.
func (r *Router) AttachNavigator(nav Navigator) {
	r.mu.Lock()
	r.navigator = nav
	r.mu.Unlock()
}

// HandleOpened routes a notification the user opened. Without a valid
// session or an attached navigator the notification is stored as pending
// and OutcomeDeferred is returned. A tenant mismatch is rejected with a
// user-visible error and consumed, never retried.
func (r *Router) HandleOpened(n domain.Notification) Outcome {
	r.mu.Lock()
	nav := r.navigator
	r.mu.Unlock()

	if !r.session.IsValid() || nav == nil {
		r.defer_(n)
		return OutcomeDeferred
	}

	if r.session.TenantID() != n.TenantID {
		r.notify("This notification belongs to another organization")
		logging.Warn("notification tenant mismatch",
			"notificationTenant", n.TenantID, "sessionTenant", r.session.TenantID())
		return OutcomeRejected
	}

	target, err := targetFor(n)
	if err != nil {
		r.notify(fmt.Sprintf("Cannot open notification: %v", err))
		return OutcomeRejected
	}
	if target == nil {
		// Informational only.
		return OutcomeIgnored
	}

	if err := nav.Navigate(target); err != nil {
		r.notify(fmt.Sprintf("Cannot open notification: %v", err))
		return OutcomeRejected
	}
	logging.Info("notification routed", "type", n.Type.String())
	return OutcomeRouted
}

// CheckPending replays the pending notification after a successful login.
// The slot is cleared on any outcome except a further deferral.
func (r *Router) CheckPending() (Outcome, bool) {
	r.mu.Lock()
	pending := r.pending
	r.mu.Unlock()
	if pending == nil {
		return OutcomeIgnored, false
	}

	outcome := r.HandleOpened(*pending)
	if outcome != OutcomeDeferred {
		r.mu.Lock()
		r.pending = nil
		r.mu.Unlock()
		if r.store != nil {
			if err := r.store.ClearPending(); err != nil {
				logging.Warn("failed to clear pending notification", "error", err)
			}
		}
	}
	return outcome, true
}

// defer_ stores a notification in the single pending slot, overwriting any
// previous occupant that was never consumable.
func (r *Router) defer_(n domain.Notification) {
	r.mu.Lock()
	r.pending = &n
	r.mu.Unlock()
	if r.store != nil {
		payload, err := n.Encode()
		if err != nil {
			logging.Warn("failed to encode pending notification", "error", err)
			return
		}
		if err := r.store.SavePending(payload); err != nil {
			logging.Warn("failed to persist pending notification", "error", err)
		}
	}
}

// targetFor classifies a notification against the fixed mapping table.
// A nil target with nil error means the notification is informational.
func targetFor(n domain.Notification) (Target, error) {
	switch n.Type {
	case domain.NotifyEndOfSession:
		transactionID, err := strconv.Atoi(n.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction ID %q", n.TransactionID)
		}
		return TransactionDetailTarget{TransactionID: transactionID}, nil

	case domain.NotifySessionStarted, domain.NotifyEndOfCharge, domain.NotifyOptimalChargeReached:
		connectorID, err := domain.ConnectorIDFromLetter(n.ConnectorID)
		if err != nil {
			return nil, err
		}
		return ChargerConnectorTarget{
			ChargerID:   n.ChargeBoxID,
			ConnectorID: connectorID,
			InProgress:  true,
		}, nil

	case domain.NotifyChargingStationStatusError, domain.NotifyPreparingSessionNotStarted:
		connectorID, err := domain.ConnectorIDFromLetter(n.ConnectorID)
		if err != nil {
			return nil, err
		}
		return ChargerConnectorTarget{
			ChargerID:   n.ChargeBoxID,
			ConnectorID: connectorID,
		}, nil

	case domain.NotifyChargingStationRegistered:
		// A freshly registered station is opened at its first connector.
		return ChargerConnectorTarget{ChargerID: n.ChargeBoxID, ConnectorID: 1}, nil

	case domain.NotifyOfflineChargingStation:
		return ChargerListTarget{}, nil

	case domain.NotifyUnknownUserBadged, domain.NotifyOcpiPatchStatusError,
		domain.NotifySmtpAuthError, domain.NotifyUserAccountStatusChanged,
		domain.NotifyUserAccountInactivity:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown notification type %q", n.Type)
	}
}
