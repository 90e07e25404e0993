// Package tui implements the interactive terminal UI: paged resource lists
// with auto-refresh, connector detail with remote start and stop, and
// screen switching driven by typed navigation targets.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chargefront/chargefront/internal/provider"
	"github.com/chargefront/chargefront/internal/routing"
	"github.com/chargefront/chargefront/internal/session"
	"github.com/chargefront/chargefront/internal/storage"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenChargers Screen = iota
	ScreenTransactions
	ScreenDetail
)

// navigateMsg asks the app to switch to a navigation target. Screens emit
// it instead of mutating the app directly.
type navigateMsg struct {
	Target routing.Target
}

// App is the bubbletea root model. It owns one sub-model per screen and
// dispatches messages to the screen they belong to.
type App struct {
	session *session.Manager
	router  *routing.Router

	screen       Screen
	chargers     *chargersScreen
	transactions *transactionsScreen
	detail       *detailScreen

	status    string
	statusErr bool
	width     int
	height    int
}

// New wires the TUI against the provider client and profile store. The app
// registers itself as the router's navigator, so a pending notification
// replay lands on the right screen.
func New(client *provider.Client, store *storage.Store, sess *session.Manager, router *routing.Router) *App {
	a := &App{
		session:      sess,
		router:       router,
		chargers:     newChargersScreen(client, store),
		transactions: newTransactionsScreen(client, store),
		detail:       newDetailScreen(client, sess),
	}
	if router != nil {
		router.AttachNavigator(a)
		router.CheckPending()
	}
	return a
}

// Navigate implements routing.Navigator by switching to the screen the
// target points at.
func (a *App) Navigate(target routing.Target) error {
	switch t := target.(type) {
	case routing.TransactionDetailTarget:
		a.transactions.focus(t.TransactionID)
		a.screen = ScreenTransactions
	case routing.ChargerConnectorTarget:
		a.detail.open(t.ChargerID, t.ConnectorID)
		a.screen = ScreenDetail
	case routing.ChargerListTarget:
		a.screen = ScreenChargers
	}
	return nil
}

// Init starts the active screen.
func (a *App) Init() tea.Cmd {
	return a.initScreen()
}

func (a *App) initScreen() tea.Cmd {
	switch a.screen {
	case ScreenTransactions:
		return a.transactions.init()
	case ScreenDetail:
		return a.detail.init()
	default:
		return a.chargers.init()
	}
}

// Update handles global keys and dispatches everything else to the screen
// owning the message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case navigateMsg:
		a.leaveScreen()
		_ = a.Navigate(msg.Target)
		return a, a.initScreen()

	case loadFailedMsg:
		a.setStatus(msg.Err.Error(), true)
		return a, nil

	case commandSettledMsg:
		if msg.Err != nil {
			a.setStatus(msg.Err.Error(), true)
		} else {
			a.setStatus(msg.Info, false)
		}
		return a, a.detail.update(msg)

	case chargersTickMsg, chargersRefreshedMsg, chargersPagedMsg:
		// Ticks of a blurred screen are dropped so it stops re-arming.
		if _, tick := msg.(chargersTickMsg); tick && a.screen != ScreenChargers {
			return a, nil
		}
		return a, a.chargers.update(msg)

	case transactionsTickMsg, transactionsRefreshedMsg, transactionsPagedMsg:
		if _, tick := msg.(transactionsTickMsg); tick && a.screen != ScreenTransactions {
			return a, nil
		}
		return a, a.transactions.update(msg)

	case detailTickMsg, detailLoadedMsg:
		if _, tick := msg.(detailTickMsg); tick && a.screen != ScreenDetail {
			return a, nil
		}
		return a, a.detail.update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search input swallows everything except its own exit keys.
	if a.screen == ScreenChargers && a.chargers.searching {
		return a, a.chargers.update(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		a.chargers.stop()
		a.transactions.stop()
		a.detail.stop()
		return a, tea.Quit

	case "1":
		if a.screen != ScreenChargers {
			a.leaveScreen()
			a.screen = ScreenChargers
			return a, a.chargers.init()
		}
		return a, nil

	case "2":
		if a.screen != ScreenTransactions {
			a.leaveScreen()
			a.screen = ScreenTransactions
			return a, a.transactions.init()
		}
		return a, nil

	case "esc":
		if a.screen == ScreenDetail {
			a.leaveScreen()
			a.screen = ScreenChargers
			return a, a.chargers.init()
		}
	}

	a.status = ""
	switch a.screen {
	case ScreenTransactions:
		return a, a.transactions.update(msg)
	case ScreenDetail:
		return a, a.detail.update(msg)
	default:
		return a, a.chargers.update(msg)
	}
}

// leaveScreen stops the auto-refresh of the screen being blurred.
func (a *App) leaveScreen() {
	switch a.screen {
	case ScreenChargers:
		a.chargers.stop()
	case ScreenTransactions:
		a.transactions.stop()
	case ScreenDetail:
		a.detail.stop()
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

// View renders the header, the active screen, and the status bar.
func (a *App) View() string {
	user := a.session.User()
	header := titleStyle.Render("chargefront") + dimStyle.Render("  "+user.Name)

	var body string
	switch a.screen {
	case ScreenTransactions:
		body = a.transactions.view()
	case ScreenDetail:
		body = a.detail.view()
	default:
		body = a.chargers.view()
	}

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(a.status)
		} else {
			status = infoStyle.Render(a.status)
		}
	}
	help := helpStyle.Render("1 chargers · 2 sessions · r refresh · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", status, help)
}
