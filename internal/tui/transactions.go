package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chargefront/chargefront/internal/config"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/state"
	"github.com/chargefront/chargefront/internal/storage"
)

type transactionsScreen struct {
	filters *state.FilterState
	list    *state.PagedList[domain.Transaction]
	sched   *state.Scheduler

	// active selects in-progress sessions; completed ones otherwise.
	active        bool
	shortInterval time.Duration
	longInterval  time.Duration
	cursor        int
	focusID       int

	mu      sync.Mutex
	loadErr error
}

func newTransactionsScreen(client *provider.Client, store *storage.Store) *transactionsScreen {
	s := &transactionsScreen{
		active:        true,
		shortInterval: time.Duration(config.GetInt("refresh_short_millis", 5000)) * time.Millisecond,
		longInterval:  time.Duration(config.GetInt("refresh_long_millis", 20000)) * time.Millisecond,
	}

	s.filters = state.NewFilterState("transactions",
		state.WithPersistence(store, domain.FilterStartDate, domain.FilterEndDate))

	s.list = state.NewPagedList(config.GetInt("paging_size", 10),
		func(ctx context.Context, search string, skip, limit int) (state.Page[domain.Transaction], error) {
			merged := s.filters.Filters()
			if search != "" {
				merged[domain.FilterSearch] = search
			}
			paging := provider.Paging{Skip: skip, Limit: limit}
			var res provider.ListResult[domain.Transaction]
			var err error
			if s.active {
				res, err = client.ListTransactionsActive(ctx, merged, paging)
			} else {
				res, err = client.ListTransactionsCompleted(ctx, merged, paging)
			}
			if err != nil {
				return state.Page[domain.Transaction]{}, err
			}
			return state.Page[domain.Transaction]{Result: res.Result, Count: res.Count}, nil
		},
		func(err error) {
			s.mu.Lock()
			s.loadErr = err
			s.mu.Unlock()
		})

	s.sched = state.NewScheduler(func(ctx context.Context) {
		if !s.sched.Mounted() {
			return
		}
		s.list.Refresh(ctx)
	})
	return s
}

// focus highlights a transaction, switching to the completed tab where
// finished sessions live.
func (s *transactionsScreen) focus(transactionID int) {
	s.active = false
	s.focusID = transactionID
}

func (s *transactionsScreen) interval() time.Duration {
	if s.active {
		return s.shortInterval
	}
	return s.longInterval
}

func (s *transactionsScreen) init() tea.Cmd {
	return tea.Batch(s.refreshCmd(), s.tickCmd())
}

func (s *transactionsScreen) stop() {
	s.sched.Stop()
	s.filters.Close()
}

func (s *transactionsScreen) tickCmd() tea.Cmd {
	return tea.Tick(s.interval(), func(t time.Time) tea.Msg { return transactionsTickMsg(t) })
}

func (s *transactionsScreen) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		skipped := !s.sched.TryRefresh(context.Background())
		return transactionsRefreshedMsg{Skipped: skipped}
	}
}

func (s *transactionsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case transactionsTickMsg:
		return tea.Batch(s.refreshCmd(), s.tickCmd())

	case transactionsRefreshedMsg, transactionsPagedMsg:
		s.clampCursor()
		s.mu.Lock()
		err := s.loadErr
		s.loadErr = nil
		s.mu.Unlock()
		if err != nil {
			return func() tea.Msg { return loadFailedMsg{Err: err} }
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			s.active = !s.active
			s.cursor = 0
			s.focusID = 0
			return func() tea.Msg {
				s.list.OnFilterChanged(context.Background())
				return transactionsRefreshedMsg{}
			}
		case "r":
			return s.refreshCmd()
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.list.Items())-1 {
				s.cursor++
			} else if s.list.HasMore() {
				return func() tea.Msg {
					s.list.LoadMore(context.Background())
					return transactionsPagedMsg{}
				}
			}
		}
	}
	return nil
}

func (s *transactionsScreen) clampCursor() {
	n := len(s.list.Items())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *transactionsScreen) view() string {
	var b strings.Builder

	tab := "completed sessions"
	if s.active {
		tab = "sessions in progress"
	}
	b.WriteString(headerStyle.Render(tab))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%8s  %-20s %-4s %-16s %8s %10s  %s",
		"ID", "CHARGER", "CONN", "STARTED", "DURATION", "ENERGY", "USER")))
	b.WriteString("\n")

	now := time.Now()
	for i, tx := range s.list.Items() {
		userName := ""
		if tx.User != nil {
			userName = tx.User.FullName()
		}
		energy := tx.TotalConsumption
		if tx.Stop != nil {
			energy = tx.Stop.TotalConsumption
		}
		line := fmt.Sprintf("%8d  %-20s %-4s %-16s %8s %10s  %s",
			tx.ID,
			tx.ChargeBoxID,
			domain.ConnectorLetterFromID(tx.ConnectorID),
			tx.Timestamp.Local().Format("2006-01-02 15:04"),
			format.FormatDuration(tx.Duration(now)),
			format.FormatEnergy(energy),
			userName)
		switch {
		case i == s.cursor:
			b.WriteString(selectedStyle.Render(line))
		case s.focusID != 0 && tx.ID == s.focusID:
			b.WriteString(infoStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d sessions", len(s.list.Items()))
	if count := s.list.Count(); count != provider.CountUnknown {
		footer = fmt.Sprintf("%d of %d sessions", len(s.list.Items()), count)
	}
	if s.list.HasMore() {
		footer += " · more below"
	}
	b.WriteString(dimStyle.Render(footer))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("a toggle active/completed"))
	return b.String()
}
