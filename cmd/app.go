package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/chargefront/chargefront/internal/config"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/routing"
	"github.com/chargefront/chargefront/internal/session"
	"github.com/chargefront/chargefront/internal/storage"
)

// app bundles the wired components a command works with. Each command
// constructs its own instance; no component is process-global.
type app struct {
	store   *storage.Store
	session *session.Manager
	client  *provider.Client
	router  *routing.Router
}

// newApp wires the profile store, session, provider client, and
// notification router together. A cached session for the active tenant is
// restored when one exists.
func newApp() (*app, error) {
	dbPath := filepath.Join(config.Get("state_dir", ""), "profile.db")
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	sess := session.NewManager(store)
	if t := tenant(); t != "" {
		if err := sess.Restore(t); err != nil && !errors.Is(err, session.ErrNotLoggedIn) {
			_ = store.Close()
			return nil, err
		}
	}

	client := provider.New(endpointURL(), sess)
	router := routing.NewRouter(sess, routing.WithPendingStore(store))

	return &app{
		store:   store,
		session: sess,
		client:  client,
		router:  router,
	}, nil
}

// Close releases the profile store.
func (a *app) Close() {
	_ = a.store.Close()
}

// requireSession fails early when no valid session is available, before a
// command issues backend calls that would be rejected anyway.
func (a *app) requireSession() error {
	if !a.session.IsValid() {
		return fmt.Errorf("%w, run 'chargefront login' first", session.ErrNotLoggedIn)
	}
	return nil
}
