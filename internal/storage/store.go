// Package storage provides the SQLite-backed profile store. It persists
// filter defaults, cached credentials, the pending-notification slot, and
// the install identifier across sessions.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNoCredentials indicates that no cached credentials exist for a tenant.
	ErrNoCredentials = errors.New("no cached credentials")
	// ErrNoPendingNotification indicates that the pending slot is empty.
	ErrNoPendingNotification = errors.New("no pending notification")
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS filter_defaults (
	screen     TEXT NOT NULL,
	filter_id  TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (screen, filter_id)
);
CREATE TABLE IF NOT EXISTS credentials (
	tenant     TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	token      TEXT NOT NULL,
	user_json  TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS pending_notification (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	payload_json TEXT NOT NULL,
	received_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store is the SQLite-backed profile store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the profile store at the provided path.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("profile store: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("profile store: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("profile store: open db: %w", err)
	}
	store := &Store{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("profile store: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("profile store: create schema: %w", err)
	}
	return nil
}

// SaveFilter persists a filter default for a screen.
func (s *Store) SaveFilter(screen, filterID, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO filter_defaults (screen, filter_id, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (screen, filter_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		screen, filterID, value, utcNow())
	if err != nil {
		return fmt.Errorf("profile store: save filter %s/%s: %w", screen, filterID, err)
	}
	return nil
}

// DeleteFilter removes a persisted filter default.
func (s *Store) DeleteFilter(screen, filterID string) error {
	_, err := s.db.Exec(`DELETE FROM filter_defaults WHERE screen = ? AND filter_id = ?`, screen, filterID)
	if err != nil {
		return fmt.Errorf("profile store: delete filter %s/%s: %w", screen, filterID, err)
	}
	return nil
}

// LoadFilters returns the persisted filter defaults of a screen.
func (s *Store) LoadFilters(screen string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT filter_id, value FROM filter_defaults WHERE screen = ?`, screen)
	if err != nil {
		return nil, fmt.Errorf("profile store: load filters for %s: %w", screen, err)
	}
	defer rows.Close()

	filters := make(map[string]string)
	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("profile store: scan filter row: %w", err)
		}
		filters[id] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile store: iterate filter rows: %w", err)
	}
	return filters, nil
}

// Credentials holds cached login data for a tenant.
type Credentials struct {
	Tenant   string
	Email    string
	Token    string
	UserJSON string
}

// SaveCredentials caches the credentials of a tenant, replacing any prior entry.
func (s *Store) SaveCredentials(creds Credentials) error {
	_, err := s.db.Exec(
		`INSERT INTO credentials (tenant, email, token, user_json, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (tenant) DO UPDATE SET email = excluded.email, token = excluded.token,
		 user_json = excluded.user_json, updated_at = excluded.updated_at`,
		creds.Tenant, creds.Email, creds.Token, creds.UserJSON, utcNow())
	if err != nil {
		return fmt.Errorf("profile store: save credentials: %w", err)
	}
	return nil
}

// LoadCredentials returns the cached credentials of a tenant.
// Returns ErrNoCredentials if none exist.
func (s *Store) LoadCredentials(tenant string) (Credentials, error) {
	row := s.db.QueryRow(`SELECT tenant, email, token, user_json FROM credentials WHERE tenant = ?`, tenant)
	var creds Credentials
	err := row.Scan(&creds.Tenant, &creds.Email, &creds.Token, &creds.UserJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("profile store: load credentials: %w", err)
	}
	return creds, nil
}

// ClearCredentials removes the cached credentials of a tenant.
func (s *Store) ClearCredentials(tenant string) error {
	_, err := s.db.Exec(`DELETE FROM credentials WHERE tenant = ?`, tenant)
	if err != nil {
		return fmt.Errorf("profile store: clear credentials: %w", err)
	}
	return nil
}

// SavePending stores a notification payload in the single pending slot,
// overwriting any previous occupant.
func (s *Store) SavePending(payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO pending_notification (id, payload_json, received_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET payload_json = excluded.payload_json, received_at = excluded.received_at`,
		string(payload), utcNow())
	if err != nil {
		return fmt.Errorf("profile store: save pending notification: %w", err)
	}
	return nil
}

// LoadPending returns the payload held in the pending slot.
// Returns ErrNoPendingNotification if the slot is empty.
func (s *Store) LoadPending() ([]byte, error) {
	row := s.db.QueryRow(`SELECT payload_json FROM pending_notification WHERE id = 1`)
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPendingNotification
	}
	if err != nil {
		return nil, fmt.Errorf("profile store: load pending notification: %w", err)
	}
	return []byte(payload), nil
}

// ClearPending empties the pending slot.
func (s *Store) ClearPending() error {
	_, err := s.db.Exec(`DELETE FROM pending_notification WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("profile store: clear pending notification: %w", err)
	}
	return nil
}

// InstallID returns the stable install identifier, generating and persisting
// one on first use.
func (s *Store) InstallID() (string, error) {
	row := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'install_id'`)
	var id string
	err := row.Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("profile store: load install ID: %w", err)
	}
	id = uuid.NewString()
	if _, err := s.db.Exec(`INSERT INTO meta (key, value) VALUES ('install_id', ?)`, id); err != nil {
		return "", fmt.Errorf("profile store: save install ID: %w", err)
	}
	return id, nil
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
