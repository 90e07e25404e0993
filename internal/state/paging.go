package state

import (
	"context"
	"sync"

	"github.com/chargefront/chargefront/internal/logging"
	"github.com/chargefront/chargefront/internal/provider"
)

// Page is one fetched window of a resource list plus the backend-reported
// total. Count may be provider.CountUnknown when the backend does not
// compute totals.
type Page[T any] struct {
	Result []T
	Count  int
}

// LoadFunc fetches one window of the list. Implementations merge the
// screen's filter state into the backend query.
type LoadFunc[T any] func(ctx context.Context, search string, skip, limit int) (Page[T], error)

// ErrorFunc reports a load failure to the owning screen. The screen may
// retry by calling Refresh again.
type ErrorFunc func(err error)

// PagedList drives one paged list screen: it tracks the paging cursor,
// appends pages on scroll, and refetches the whole visible window on
// refresh. All failures are absorbed at this boundary: the callback is
// notified and the visible list stays consistent.
type PagedList[T any] struct {
	mu      sync.Mutex
	load    LoadFunc[T]
	onError ErrorFunc
	limit   int
	skip    int
	count   int
	items   []T
	search  string

	// loadingMore serializes LoadMore: the scroll trigger stays disarmed
	// until the in-flight page settles.
	loadingMore bool
	// endReached marks the true end of a list whose count is unknown.
	endReached bool
}

// NewPagedList creates a paged list controller with the given page size.
func NewPagedList[T any](limit int, load LoadFunc[T], onError ErrorFunc) *PagedList[T] {
	return &PagedList[T]{
		load:    load,
		onError: onError,
		limit:   limit,
	}
}

// SetSearch updates the free-text search term. The next Refresh or
// OnFilterChanged picks it up.
func (p *PagedList[T]) SetSearch(search string) {
	p.mu.Lock()
	p.search = search
	p.mu.Unlock()
}

// Items returns a snapshot of the currently held list.
func (p *PagedList[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot := make([]T, len(p.items))
	copy(snapshot, p.items)
	return snapshot
}

// Count returns the backend-reported total, or provider.CountUnknown.
func (p *PagedList[T]) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Skip returns the current paging offset.
func (p *PagedList[T]) Skip() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skip
}

// Limit returns the page size.
func (p *PagedList[T]) Limit() int {
	return p.limit
}

// HasMore reports whether another page can be fetched.
func (p *PagedList[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMoreLocked()
}

func (p *PagedList[T]) hasMoreLocked() bool {
	if p.count == provider.CountUnknown {
		return !p.endReached
	}
	return p.skip+p.limit < p.count
}

// fetch invokes the loader and absorbs failures: on error the callback is
// notified and ok is false, so callers leave the held list and the paging
// cursor untouched.
func (p *PagedList[T]) fetch(ctx context.Context, skip, limit int) (Page[T], bool) {
	p.mu.Lock()
	search := p.search
	p.mu.Unlock()

	page, err := p.load(ctx, search, skip, limit)
	if err != nil {
		if provider.IsTransport(err) {
			logging.Warn("list fetch failed", "skip", skip, "limit", limit, "error", err)
		} else {
			logging.Error("list fetch rejected", "skip", skip, "limit", limit, "error", err)
		}
		if p.onError != nil {
			p.onError(err)
		}
		return Page[T]{}, false
	}
	return page, true
}

// Refresh refetches the whole visible window [0, skip+limit) in one call,
// replacing the held list and updating the count. It is idempotent: two
// consecutive calls against a stable backend yield the same visible list.
func (p *PagedList[T]) Refresh(ctx context.Context) {
	p.mu.Lock()
	window := p.skip + p.limit
	p.mu.Unlock()

	page, ok := p.fetch(ctx, 0, window)
	if !ok {
		return
	}

	p.mu.Lock()
	p.items = page.Result
	p.count = page.Count
	if p.count != provider.CountUnknown {
		p.endReached = false
	}
	p.mu.Unlock()
}

// LoadMore fetches the next page and appends it, advancing the cursor by
// one page width. It no-ops past the end of the list and while a prior
// LoadMore is still in flight. Returns true when a fetch was issued.
func (p *PagedList[T]) LoadMore(ctx context.Context) bool {
	p.mu.Lock()
	if p.loadingMore || !p.hasMoreLocked() {
		p.mu.Unlock()
		return false
	}
	p.loadingMore = true
	skip := p.skip + p.limit
	limit := p.limit
	p.mu.Unlock()

	page, ok := p.fetch(ctx, skip, limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingMore = false
	if !ok {
		// The cursor stays put; the next scroll trigger retries this page.
		return true
	}
	if p.count == provider.CountUnknown && len(page.Result) == 0 {
		// The backend reports no total; an empty page is the true end.
		p.endReached = true
		return true
	}
	p.items = append(p.items, page.Result...)
	p.skip = skip
	p.count = page.Count
	return true
}

// OnFilterChanged resets the paging cursor and refetches from the top.
// The previously held list is discarded before the next visible state.
func (p *PagedList[T]) OnFilterChanged(ctx context.Context) {
	p.mu.Lock()
	p.skip = 0
	p.count = 0
	p.items = nil
	p.endReached = false
	p.mu.Unlock()
	p.Refresh(ctx)
}
