package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chargefront/chargefront/internal/config"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/routing"
	"github.com/chargefront/chargefront/internal/state"
	"github.com/chargefront/chargefront/internal/storage"
)

// statusCycle is the order the f key walks the status filter through.
var statusCycle = []domain.ConnectorStatus{
	"", domain.StatusAvailable, domain.StatusCharging, domain.StatusFaulted,
}

// chargerRow is one rendered row: a single connector of a station.
type chargerRow struct {
	chargerID string
	siteArea  string
	connector domain.Connector
}

type chargersScreen struct {
	filters  *state.FilterState
	list     *state.PagedList[domain.ChargingStation]
	sched    *state.Scheduler
	interval time.Duration

	search    textinput.Model
	searching bool
	cursor    int
	rows      []chargerRow

	mu      sync.Mutex
	loadErr error
}

func newChargersScreen(client *provider.Client, store *storage.Store) *chargersScreen {
	s := &chargersScreen{
		interval: time.Duration(config.GetInt("refresh_medium_millis", 10000)) * time.Millisecond,
	}

	s.filters = state.NewFilterState("chargers",
		state.WithPersistence(store, domain.FilterConnectorStatus, domain.FilterConnectorType))

	s.list = state.NewPagedList(config.GetInt("paging_size", 10),
		func(ctx context.Context, search string, skip, limit int) (state.Page[domain.ChargingStation], error) {
			merged := s.filters.Filters()
			if search != "" {
				merged[domain.FilterSearch] = search
			}
			res, err := client.ListChargers(ctx, merged, provider.Paging{Skip: skip, Limit: limit})
			if err != nil {
				return state.Page[domain.ChargingStation]{}, err
			}
			return state.Page[domain.ChargingStation]{Result: res.Result, Count: res.Count}, nil
		},
		s.setLoadErr)

	s.sched = state.NewScheduler(func(ctx context.Context) {
		if !s.sched.Mounted() {
			return
		}
		s.list.Refresh(ctx)
	})

	input := textinput.New()
	input.Placeholder = "search"
	input.CharLimit = 64
	s.search = input
	return s
}

func (s *chargersScreen) setLoadErr(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

func (s *chargersScreen) takeLoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.loadErr
	s.loadErr = nil
	return err
}

func (s *chargersScreen) init() tea.Cmd {
	return tea.Batch(s.refreshCmd(), s.tickCmd())
}

func (s *chargersScreen) stop() {
	s.sched.Stop()
	s.filters.Close()
}

func (s *chargersScreen) tickCmd() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return chargersTickMsg(t) })
}

// refreshCmd refetches the visible window through the in-flight guard.
// A tick or keypress landing while a refresh is pending is skipped.
func (s *chargersScreen) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		skipped := !s.sched.TryRefresh(context.Background())
		return chargersRefreshedMsg{Skipped: skipped}
	}
}

func (s *chargersScreen) loadMoreCmd() tea.Cmd {
	return func() tea.Msg {
		s.list.LoadMore(context.Background())
		return chargersPagedMsg{}
	}
}

func (s *chargersScreen) applyFiltersCmd() tea.Cmd {
	return func() tea.Msg {
		s.list.OnFilterChanged(context.Background())
		return chargersRefreshedMsg{}
	}
}

func (s *chargersScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case chargersTickMsg:
		return tea.Batch(s.refreshCmd(), s.tickCmd())

	case chargersRefreshedMsg, chargersPagedMsg:
		s.rebuildRows()
		if err := s.takeLoadErr(); err != nil {
			return func() tea.Msg { return loadFailedMsg{Err: err} }
		}
		return nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil
}

func (s *chargersScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.searching {
		switch msg.String() {
		case "enter":
			s.searching = false
			s.search.Blur()
			s.list.SetSearch(s.search.Value())
			return s.applyFiltersCmd()
		case "esc":
			s.searching = false
			s.search.Blur()
			return nil
		default:
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			return cmd
		}
	}

	switch msg.String() {
	case "/":
		s.searching = true
		return s.search.Focus()

	case "r":
		return s.refreshCmd()

	case "f":
		s.cycleStatusFilter()
		return s.applyFiltersCmd()

	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return nil

	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
			return nil
		}
		// Past the last row: pull the next page when there is one.
		if s.list.HasMore() {
			return s.loadMoreCmd()
		}
		return nil

	case "enter":
		if s.cursor < len(s.rows) {
			row := s.rows[s.cursor]
			target := routing.ChargerConnectorTarget{
				ChargerID:   row.chargerID,
				ConnectorID: row.connector.ID,
			}
			return func() tea.Msg { return navigateMsg{Target: target} }
		}
		return nil
	}
	return nil
}

// cycleStatusFilter advances the persisted status filter to the next entry
// of the cycle.
func (s *chargersScreen) cycleStatusFilter() {
	current := domain.ConnectorStatus(s.filters.Filters()[domain.FilterConnectorStatus])
	next := statusCycle[0]
	for i, status := range statusCycle {
		if status == current {
			next = statusCycle[(i+1)%len(statusCycle)]
			break
		}
	}
	if next == "" {
		s.filters.ClearFilter(domain.FilterConnectorStatus)
		return
	}
	s.filters.SetFilter(domain.FilterConnectorStatus, next.String())
}

func (s *chargersScreen) rebuildRows() {
	items := s.list.Items()
	rows := make([]chargerRow, 0, len(items))
	for _, charger := range items {
		siteArea := ""
		if charger.SiteArea != nil {
			siteArea = charger.SiteArea.Name
		}
		for _, connector := range charger.Connectors {
			rows = append(rows, chargerRow{
				chargerID: charger.ID,
				siteArea:  siteArea,
				connector: connector,
			})
		}
	}
	s.rows = rows
	if s.cursor >= len(rows) {
		s.cursor = len(rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *chargersScreen) view() string {
	var b strings.Builder

	if s.searching || s.search.Value() != "" {
		b.WriteString(s.search.View())
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s %-4s %-13s %-4s %7s  %s",
		"CHARGER", "CONN", "STATUS", "TYPE", "POWER", "SITE AREA")))
	b.WriteString("\n")

	for i, row := range s.rows {
		line := fmt.Sprintf("%-20s %-4s %-13s %-4s %7s  %s",
			row.chargerID,
			domain.ConnectorLetterFromID(row.connector.ID),
			row.connector.Status,
			row.connector.Type,
			format.FormatPower(row.connector.Power),
			row.siteArea)
		if i == s.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			// Re-render only the status cell with its color.
			b.WriteString(strings.Replace(line,
				string(row.connector.Status), renderStatus(row.connector.Status), 1))
		}
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d connectors", len(s.rows))
	if count := s.list.Count(); count != provider.CountUnknown {
		footer = fmt.Sprintf("%d connectors of %d stations", len(s.rows), count)
	}
	if s.list.HasMore() {
		footer += " · more below"
	}
	if active := s.filters.CountActive(); active > 0 {
		footer += fmt.Sprintf(" · %d filter(s)", active)
	}
	b.WriteString(dimStyle.Render(footer))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/ search · f status filter · enter connector"))
	return b.String()
}
