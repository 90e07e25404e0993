// Package session holds the authenticated user session consumed by the
// provider and the notification router.
package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chargefront/chargefront/internal/logging"
	"github.com/chargefront/chargefront/internal/storage"
)

// ErrNotLoggedIn indicates that no valid session is available.
var ErrNotLoggedIn = errors.New("not logged in")

// UserInfo is the identity decoded from the backend's JWT token.
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenantID"`
	// ExpiresAt is the token expiry (unix seconds, "exp" claim).
	ExpiresAt int64 `json:"exp"`
}

// Manager holds the current session state. It is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	token string
	user  UserInfo
	store *storage.Store
	now   func() time.Time
}

// NewManager creates a session manager. The store may be nil, in which case
// credentials are not cached across runs.
func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// SetToken installs a freshly obtained token, decoding the user identity
// from its claims.
func (m *Manager) SetToken(token string) error {
	user, err := DecodeToken(token)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	return nil
}

// Token returns the current bearer token, or an empty string when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns the identity of the logged-in user.
func (m *Manager) User() UserInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// TenantID returns the tenant of the logged-in user, or an empty string.
func (m *Manager) TenantID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.TenantID
}

// IsValid reports whether a token is present and not expired.
func (m *Manager) IsValid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return false
	}
	if m.user.ExpiresAt == 0 {
		return false
	}
	return m.now().Unix() < m.user.ExpiresAt
}

// Clear drops the in-memory session.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.user = UserInfo{}
	m.mu.Unlock()
}

// Persist caches the session in the profile store. Failures are logged and
// swallowed; the in-memory session stays authoritative.
func (m *Manager) Persist(email string) {
	if m.store == nil {
		return
	}
	m.mu.RLock()
	token, user := m.token, m.user
	m.mu.RUnlock()
	userJSON, err := json.Marshal(user)
	if err != nil {
		logging.Warn("failed to encode session user", "error", err)
		return
	}
	err = m.store.SaveCredentials(storage.Credentials{
		Tenant:   user.TenantID,
		Email:    email,
		Token:    token,
		UserJSON: string(userJSON),
	})
	if err != nil {
		logging.Warn("failed to cache credentials", "error", err)
	}
}

// Restore loads a cached session for the tenant from the profile store.
// Returns ErrNotLoggedIn when nothing usable is cached.
func (m *Manager) Restore(tenant string) error {
	if m.store == nil {
		return ErrNotLoggedIn
	}
	creds, err := m.store.LoadCredentials(tenant)
	if errors.Is(err, storage.ErrNoCredentials) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return err
	}
	if err := m.SetToken(creds.Token); err != nil {
		return fmt.Errorf("cached token unusable: %w", err)
	}
	if !m.IsValid() {
		m.Clear()
		return ErrNotLoggedIn
	}
	return nil
}

// Forget drops both the in-memory session and the cached credentials.
func (m *Manager) Forget() {
	tenant := m.TenantID()
	m.Clear()
	if m.store != nil && tenant != "" {
		if err := m.store.ClearCredentials(tenant); err != nil {
			logging.Warn("failed to clear cached credentials", "error", err)
		}
	}
}

// DecodeToken extracts the user identity from a JWT without verifying its
// signature; verification is the backend's concern, the client only needs
// the claims.
func DecodeToken(token string) (UserInfo, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return UserInfo{}, fmt.Errorf("malformed token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode token payload: %w", err)
	}
	var user UserInfo
	if err := json.Unmarshal(payload, &user); err != nil {
		return UserInfo{}, fmt.Errorf("failed to parse token claims: %w", err)
	}
	if user.ID == "" {
		return UserInfo{}, fmt.Errorf("token carries no user ID")
	}
	return user, nil
}
