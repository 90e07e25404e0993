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
	"github.com/chargefront/chargefront/internal/session"
	"github.com/chargefront/chargefront/internal/state"
)

type detailScreen struct {
	client  *provider.Client
	session *session.Manager
	sched   *state.Scheduler

	interval time.Duration

	mu          sync.Mutex
	chargerID   string
	connectorID int
	detail      provider.ConnectorDetail
	loaded      bool
	loadErr     error

	// busy blocks a second remote command while one is pending.
	busy bool
}

func newDetailScreen(client *provider.Client, sess *session.Manager) *detailScreen {
	s := &detailScreen{
		client:   client,
		session:  sess,
		interval: time.Duration(config.GetInt("refresh_short_millis", 5000)) * time.Millisecond,
	}
	s.sched = state.NewScheduler(func(ctx context.Context) {
		s.mu.Lock()
		chargerID, connectorID := s.chargerID, s.connectorID
		s.mu.Unlock()
		if !s.sched.Mounted() || chargerID == "" {
			return
		}
		detail, err := s.client.GetConnectorDetail(ctx, chargerID, connectorID)
		if !s.sched.Mounted() {
			// The screen went away while the fetch was in flight.
			return
		}
		s.mu.Lock()
		if err != nil {
			s.loadErr = err
		} else {
			s.detail = detail
			s.loaded = true
			s.loadErr = nil
		}
		s.mu.Unlock()
	})
	return s
}

// open points the screen at a connector and drops stale state.
func (s *detailScreen) open(chargerID string, connectorID int) {
	s.mu.Lock()
	s.chargerID = chargerID
	s.connectorID = connectorID
	s.detail = provider.ConnectorDetail{}
	s.loaded = false
	s.loadErr = nil
	s.mu.Unlock()
}

func (s *detailScreen) init() tea.Cmd {
	return tea.Batch(s.refreshCmd(), s.tickCmd())
}

func (s *detailScreen) stop() {
	s.sched.Stop()
}

func (s *detailScreen) tickCmd() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return detailTickMsg(t) })
}

func (s *detailScreen) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if !s.sched.TryRefresh(context.Background()) {
			return detailLoadedMsg{Skipped: true}
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return detailLoadedMsg{Detail: s.detail, Err: s.loadErr}
	}
}

func (s *detailScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailTickMsg:
		return tea.Batch(s.refreshCmd(), s.tickCmd())

	case detailLoadedMsg:
		if msg.Err != nil {
			return func() tea.Msg { return loadFailedMsg{Err: msg.Err} }
		}
		return nil

	case commandSettledMsg:
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		if msg.Err == nil {
			// Pull the new connector state right away.
			return s.refreshCmd()
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s.refreshCmd()
		case "s":
			return s.startCmd()
		case "x":
			return s.stopSessionCmd()
		}
	}
	return nil
}

// startCmd issues a remote start with the account's default tag.
func (s *detailScreen) startCmd() tea.Cmd {
	s.mu.Lock()
	if s.busy || !s.loaded {
		s.mu.Unlock()
		return nil
	}
	if !s.detail.Connector.IsFree() {
		s.mu.Unlock()
		return func() tea.Msg {
			return commandSettledMsg{Err: fmt.Errorf("connector is not free")}
		}
	}
	s.busy = true
	chargerID, connectorID := s.chargerID, s.connectorID
	s.mu.Unlock()

	userID := s.session.User().ID
	return func() tea.Msg {
		ctx := context.Background()
		tag, err := s.client.DefaultTagID(ctx, userID)
		if err != nil {
			return commandSettledMsg{Err: err}
		}
		if err := s.client.RemoteStartTransaction(ctx, chargerID, tag, connectorID); err != nil {
			return commandSettledMsg{Err: err}
		}
		return commandSettledMsg{Info: "Session starting"}
	}
}

// stopSessionCmd stops the session running on the connector.
func (s *detailScreen) stopSessionCmd() tea.Cmd {
	s.mu.Lock()
	if s.busy || !s.loaded {
		s.mu.Unlock()
		return nil
	}
	transactionID := s.detail.Connector.ActiveTransactionID
	if transactionID == 0 && s.detail.Transaction != nil && s.detail.Transaction.IsActive() {
		transactionID = s.detail.Transaction.ID
	}
	if transactionID == 0 {
		s.mu.Unlock()
		return func() tea.Msg {
			return commandSettledMsg{Err: fmt.Errorf("no session running on this connector")}
		}
	}
	s.busy = true
	chargerID := s.chargerID
	s.mu.Unlock()

	return func() tea.Msg {
		if err := s.client.RemoteStopTransaction(context.Background(), chargerID, transactionID); err != nil {
			return commandSettledMsg{Err: err}
		}
		return commandSettledMsg{Info: "Session stopping"}
	}
}

func (s *detailScreen) view() string {
	s.mu.Lock()
	chargerID, connectorID := s.chargerID, s.connectorID
	detail, loaded := s.detail, s.loaded
	busy := s.busy
	s.mu.Unlock()

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s connector %s",
		chargerID, domain.ConnectorLetterFromID(connectorID))))
	b.WriteString("\n")

	if !loaded {
		b.WriteString(dimStyle.Render("loading..."))
		return b.String()
	}

	connector := detail.Connector
	b.WriteString(fmt.Sprintf("Status: %s   Type: %s   Power: %s\n",
		renderStatus(connector.Status), connector.Type, format.FormatPower(connector.Power)))
	if detail.Charger.SiteArea != nil {
		b.WriteString(fmt.Sprintf("Site area: %s\n", detail.Charger.SiteArea.Name))
	}

	tx := detail.Transaction
	switch {
	case tx == nil:
		b.WriteString(dimStyle.Render("No charging session recorded\n"))
	case tx.IsActive():
		b.WriteString(fmt.Sprintf("\nSession %d in progress since %s\n", tx.ID,
			tx.Timestamp.Local().Format("15:04")))
		b.WriteString(fmt.Sprintf("Consumption: %s (now %s)\n",
			format.FormatEnergy(tx.TotalConsumption),
			format.FormatPower(int(tx.CurrentConsumption))))
	default:
		b.WriteString(fmt.Sprintf("\nLast session %d: %s, %s\n", tx.ID,
			format.FormatDuration(tx.Duration(time.Now())),
			format.FormatEnergy(tx.Stop.TotalConsumption)))
	}
	if tx != nil && tx.User != nil {
		b.WriteString(fmt.Sprintf("User: %s\n", tx.User.FullName()))
	}

	if busy {
		b.WriteString(infoStyle.Render("command pending...\n"))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s start · x stop · esc back"))
	return b.String()
}
