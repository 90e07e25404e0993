// Package state implements the client-side screen state: filter criteria,
// paged list loading, and auto-refresh scheduling. Each screen owns its own
// instances; nothing here is shared across screens.
package state

import (
	"sync"

	"github.com/chargefront/chargefront/internal/logging"
)

// FilterStore persists filter defaults across sessions.
type FilterStore interface {
	SaveFilter(screen, filterID, value string) error
	DeleteFilter(screen, filterID string) error
	LoadFilters(screen string) (map[string]string, error)
}

// ChangeFunc is invoked after every filter mutation with a snapshot of the
// active filters. applyImmediately tells the owning controller to refetch
// right away.
type ChangeFunc func(filters map[string]string, applyImmediately bool)

// FilterState holds the active filter criteria of one screen. A filter
// absent from the map is unset, which is distinct from an explicit empty
// value set by the user.
type FilterState struct {
	screen      string
	mu          sync.Mutex
	values      map[string]string
	persistable map[string]bool
	store       FilterStore
	onChange    ChangeFunc
	writes      sync.WaitGroup
}

// FilterOption configures a FilterState.
type FilterOption func(*FilterState)

// WithPersistence marks the given filter identifiers as persistable and
// wires the store they are written through to.
func WithPersistence(store FilterStore, filterIDs ...string) FilterOption {
	return func(f *FilterState) {
		f.store = store
		for _, id := range filterIDs {
			f.persistable[id] = true
		}
	}
}

// WithOnChange registers the change callback of the owning controller.
func WithOnChange(fn ChangeFunc) FilterOption {
	return func(f *FilterState) {
		f.onChange = fn
	}
}

// NewFilterState creates the filter state of a screen, seeding persistable
// entries from their persisted defaults. A failed load is logged and the
// state starts empty.
func NewFilterState(screen string, opts ...FilterOption) *FilterState {
	f := &FilterState{
		screen:      screen,
		values:      make(map[string]string),
		persistable: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.store != nil && len(f.persistable) > 0 {
		persisted, err := f.store.LoadFilters(screen)
		if err != nil {
			logging.Warn("failed to load persisted filters", "screen", screen, "error", err)
		} else {
			for id, value := range persisted {
				if f.persistable[id] {
					f.values[id] = value
				}
			}
		}
	}
	return f
}

// SetFilter sets a filter value and notifies the owning controller.
// Persistable filters are written through to storage asynchronously;
// a failed write is logged and the in-memory value stands.
func (f *FilterState) SetFilter(id, value string) {
	f.mu.Lock()
	f.values[id] = value
	persist := f.persistable[id] && f.store != nil
	f.mu.Unlock()

	if persist {
		f.writes.Add(1)
		go func() {
			defer f.writes.Done()
			if err := f.store.SaveFilter(f.screen, id, value); err != nil {
				logging.Warn("failed to persist filter", "screen", f.screen, "filter", id, "error", err)
			}
		}()
	}
	f.notify()
}

// ClearFilter unsets a filter and notifies the owning controller.
func (f *FilterState) ClearFilter(id string) {
	f.mu.Lock()
	delete(f.values, id)
	persist := f.persistable[id] && f.store != nil
	f.mu.Unlock()

	if persist {
		f.writes.Add(1)
		go func() {
			defer f.writes.Done()
			if err := f.store.DeleteFilter(f.screen, id); err != nil {
				logging.Warn("failed to delete persisted filter", "screen", f.screen, "filter", id, "error", err)
			}
		}()
	}
	f.notify()
}

// Filters returns a snapshot of all currently set filters.
func (f *FilterState) Filters() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make(map[string]string, len(f.values))
	for id, value := range f.values {
		snapshot[id] = value
	}
	return snapshot
}

// CountActive returns the number of filters with a non-empty value, for
// badge counts on filter buttons.
func (f *FilterState) CountActive() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, value := range f.values {
		if value != "" {
			count++
		}
	}
	return count
}

// Close waits for outstanding persistence writes to settle. Transient
// entries are simply discarded with the instance.
func (f *FilterState) Close() {
	f.writes.Wait()
}

func (f *FilterState) notify() {
	if f.onChange != nil {
		f.onChange(f.Filters(), true)
	}
}
