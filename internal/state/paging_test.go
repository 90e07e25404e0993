package state

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargefront/chargefront/internal/provider"
)

// fakeBackend serves a fixed record set the way the REST API pages it.
type fakeBackend struct {
	mu      sync.Mutex
	records []string
	// reportCount controls whether the backend computes the total.
	reportCount bool
	calls       []pagingCall
	failNext    error
}

type pagingCall struct {
	Skip, Limit int
}

func newFakeBackend(n int, reportCount bool) *fakeBackend {
	b := &fakeBackend{reportCount: reportCount}
	for i := 0; i < n; i++ {
		b.records = append(b.records, fmt.Sprintf("record-%02d", i))
	}
	return b
}

func (b *fakeBackend) load(ctx context.Context, search string, skip, limit int) (Page[string], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, pagingCall{Skip: skip, Limit: limit})
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return Page[string]{}, err
	}
	count := provider.CountUnknown
	if b.reportCount {
		count = len(b.records)
	}
	if skip >= len(b.records) {
		return Page[string]{Count: count}, nil
	}
	end := skip + limit
	if end > len(b.records) {
		end = len(b.records)
	}
	return Page[string]{Result: b.records[skip:end], Count: count}, nil
}

func TestPagedListScrollThrough(t *testing.T) {
	// 35 records, page width 10: three full pages plus a tail of 5.
	backend := newFakeBackend(35, true)
	list := NewPagedList(10, backend.load, nil)
	ctx := context.Background()

	list.Refresh(ctx)
	require.Len(t, list.Items(), 10)
	assert.Equal(t, 35, list.Count())
	assert.Equal(t, 0, list.Skip())
	assert.True(t, list.HasMore())

	require.True(t, list.LoadMore(ctx))
	assert.Len(t, list.Items(), 20)
	assert.Equal(t, 10, list.Skip())

	require.True(t, list.LoadMore(ctx))
	assert.Len(t, list.Items(), 30)

	require.True(t, list.LoadMore(ctx))
	assert.Len(t, list.Items(), 35)
	assert.Equal(t, 30, list.Skip())

	// skip+limit has reached past the total; no further fetch is issued.
	calls := len(backend.calls)
	assert.False(t, list.LoadMore(ctx))
	assert.False(t, list.HasMore())
	assert.Equal(t, calls, len(backend.calls))

	// No record was skipped or duplicated along the way.
	items := list.Items()
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("record-%02d", i), item)
	}
}

func TestPagedListUnknownCount(t *testing.T) {
	backend := newFakeBackend(15, false)
	list := NewPagedList(10, backend.load, nil)
	ctx := context.Background()

	list.Refresh(ctx)
	assert.Equal(t, provider.CountUnknown, list.Count())
	// Without a total the only end signal is an empty page.
	assert.True(t, list.HasMore())

	require.True(t, list.LoadMore(ctx))
	assert.Len(t, list.Items(), 15)
	assert.True(t, list.HasMore())

	// The next page comes back empty, which marks the true end.
	require.True(t, list.LoadMore(ctx))
	assert.False(t, list.HasMore())

	calls := len(backend.calls)
	assert.False(t, list.LoadMore(ctx))
	assert.Equal(t, calls, len(backend.calls))
}

func TestPagedListRefreshWholeWindow(t *testing.T) {
	backend := newFakeBackend(35, true)
	list := NewPagedList(10, backend.load, nil)
	ctx := context.Background()

	list.Refresh(ctx)
	require.True(t, list.LoadMore(ctx))
	require.True(t, list.LoadMore(ctx))
	require.Len(t, list.Items(), 30)

	// A refresh refetches everything on screen in one call, not page one.
	list.Refresh(ctx)
	last := backend.calls[len(backend.calls)-1]
	assert.Equal(t, 0, last.Skip)
	assert.Equal(t, 30, last.Limit)
	assert.Len(t, list.Items(), 30)
	assert.Equal(t, 20, list.Skip(), "refresh keeps the paging cursor")

	// Refresh is idempotent against a stable backend.
	before := list.Items()
	list.Refresh(ctx)
	assert.Equal(t, before, list.Items())
}

func TestPagedListRefreshSeesShrunkenList(t *testing.T) {
	backend := newFakeBackend(25, true)
	list := NewPagedList(10, backend.load, nil)
	ctx := context.Background()

	list.Refresh(ctx)
	require.True(t, list.LoadMore(ctx))
	require.Len(t, list.Items(), 20)

	// Sessions completed on the backend; the list shrank below the window.
	backend.mu.Lock()
	backend.records = backend.records[:12]
	backend.mu.Unlock()

	list.Refresh(ctx)
	assert.Len(t, list.Items(), 12)
	assert.Equal(t, 12, list.Count())
	assert.False(t, list.HasMore())
}

func TestPagedListLoadErrorPreservesState(t *testing.T) {
	backend := newFakeBackend(35, true)
	var reported error
	list := NewPagedList(10, backend.load, func(err error) { reported = err })
	ctx := context.Background()

	list.Refresh(ctx)
	require.Len(t, list.Items(), 10)

	backend.mu.Lock()
	backend.failNext = fmt.Errorf("backend exploded")
	backend.mu.Unlock()

	// The failed page is absorbed: callback fires, cursor and items stand.
	require.True(t, list.LoadMore(ctx))
	assert.EqualError(t, reported, "backend exploded")
	assert.Len(t, list.Items(), 10)
	assert.Equal(t, 0, list.Skip())

	// The retry picks up where the failure left off.
	require.True(t, list.LoadMore(ctx))
	assert.Len(t, list.Items(), 20)
	assert.Equal(t, 10, list.Skip())
}

func TestPagedListRefreshErrorKeepsItems(t *testing.T) {
	backend := newFakeBackend(20, true)
	var reported error
	list := NewPagedList(10, backend.load, func(err error) { reported = err })
	ctx := context.Background()

	list.Refresh(ctx)
	require.Len(t, list.Items(), 10)

	backend.mu.Lock()
	backend.failNext = fmt.Errorf("temporarily down")
	backend.mu.Unlock()

	list.Refresh(ctx)
	assert.EqualError(t, reported, "temporarily down")
	assert.Len(t, list.Items(), 10, "a failed refresh keeps the visible list")
}

func TestPagedListFilterChangeResetsCursor(t *testing.T) {
	backend := newFakeBackend(35, true)
	list := NewPagedList(10, backend.load, nil)
	ctx := context.Background()

	list.Refresh(ctx)
	require.True(t, list.LoadMore(ctx))
	require.Equal(t, 10, list.Skip())

	list.OnFilterChanged(ctx)
	assert.Equal(t, 0, list.Skip())
	assert.Len(t, list.Items(), 10)

	// The refetch went back to the first page, not the old window.
	last := backend.calls[len(backend.calls)-1]
	assert.Equal(t, 0, last.Skip)
	assert.Equal(t, 10, last.Limit)
}

func TestPagedListLoadMoreSerialized(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	list := NewPagedList(10,
		func(ctx context.Context, search string, skip, limit int) (Page[string], error) {
			if skip > 0 {
				close(started)
				<-release
			}
			return Page[string]{Result: make([]string, limit), Count: 100}, nil
		}, nil)
	ctx := context.Background()

	list.Refresh(ctx)

	done := make(chan bool)
	go func() { done <- list.LoadMore(ctx) }()
	<-started

	// While a page is in flight the trigger stays disarmed.
	assert.False(t, list.LoadMore(ctx))

	close(release)
	assert.True(t, <-done)
	assert.Len(t, list.Items(), 20)
}

func TestPagedListSearchPassedToLoader(t *testing.T) {
	var got string
	list := NewPagedList(10,
		func(ctx context.Context, search string, skip, limit int) (Page[string], error) {
			got = search
			return Page[string]{Count: 0}, nil
		}, nil)

	list.SetSearch("SAP Mougins")
	list.Refresh(context.Background())
	assert.Equal(t, "SAP Mougins", got)
}
