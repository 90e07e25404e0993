package state

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chargefront/chargefront/internal/logging"
)

// SchedulerState is the lifecycle state of an auto-refresh scheduler.
type SchedulerState int32

const (
	// SchedulerStopped means no timer is armed.
	SchedulerStopped SchedulerState = iota
	// SchedulerArmed means the timer is running and waiting for the next tick.
	SchedulerArmed
	// SchedulerRefreshing means a refresh is currently in flight.
	SchedulerRefreshing
)

// RefreshFunc performs one refresh round trip. It must check Mounted before
// applying fetched state; cancellation is cooperative, not preemptive.
type RefreshFunc func(ctx context.Context)

// Scheduler re-invokes a screen's refresh routine at a fixed interval while
// the screen is focused. At most one refresh is in flight at any time: a
// tick arriving while a refresh is pending is skipped, not queued, so the
// next scheduled tick retries. Manual refreshes share the same guard via
// TryRefresh.
type Scheduler struct {
	mu       sync.Mutex
	fn       RefreshFunc
	ticks    <-chan time.Time
	ticker   *time.Ticker
	stopCh   chan struct{}
	running  bool
	inFlight atomic.Bool
	mounted  atomic.Bool
	state    atomic.Int32
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickChan injects an external tick source, for tests.
func WithTickChan(ticks <-chan time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.ticks = ticks
	}
}

// NewScheduler creates a scheduler for the given refresh routine.
func NewScheduler(fn RefreshFunc, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{fn: fn}
	s.mounted.Store(true)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the timer with the given interval. Starting an armed scheduler
// re-arms it, which is how a screen resumes refreshing on focus.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.stopLocked()
	}
	ticks := s.ticks
	if ticks == nil {
		s.ticker = time.NewTicker(interval)
		ticks = s.ticker.C
	}
	s.stopCh = make(chan struct{})
	s.running = true
	s.state.Store(int32(SchedulerArmed))
	go s.loop(ticks, s.stopCh)
}

// Stop cancels the timer, as on screen blur. An in-flight refresh is
// allowed to complete; its result is discarded by the mounted-flag check
// if the screen has since unmounted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	close(s.stopCh)
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.running = false
	s.state.Store(int32(SchedulerStopped))
}

// Unmount marks the owning screen as gone and stops the timer. RefreshFuncs
// observing Mounted() == false must not apply fetched state.
func (s *Scheduler) Unmount() {
	s.mounted.Store(false)
	s.Stop()
}

// Mounted reports whether the owning screen is still alive.
func (s *Scheduler) Mounted() bool {
	return s.mounted.Load()
}

// InFlight reports whether a refresh is currently pending.
func (s *Scheduler) InFlight() bool {
	return s.inFlight.Load()
}

// State returns the current scheduler state.
func (s *Scheduler) State() SchedulerState {
	return SchedulerState(s.state.Load())
}

// TryRefresh runs the refresh routine unless one is already in flight, in
// which case it reports false and does nothing. Scheduled ticks and manual
// pull-to-refresh both go through this guard.
func (s *Scheduler) TryRefresh(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		return false
	}
	s.state.CompareAndSwap(int32(SchedulerArmed), int32(SchedulerRefreshing))
	defer func() {
		s.inFlight.Store(false)
		s.state.CompareAndSwap(int32(SchedulerRefreshing), int32(SchedulerArmed))
	}()
	s.fn(ctx)
	return true
}

func (s *Scheduler) loop(ticks <-chan time.Time, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticks:
			select {
			case <-stopCh:
				// Stop raced with this tick.
				return
			default:
			}
			if s.inFlight.Load() {
				// Skip this tick; the next scheduled tick retries.
				logging.Debug("auto-refresh tick skipped, refresh in flight")
				continue
			}
			go s.TryRefresh(context.Background())
		}
	}
}
