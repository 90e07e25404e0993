package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/chargefront/chargefront/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	statusStyles = map[domain.ConnectorStatus]lipgloss.Style{
		domain.StatusAvailable:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		domain.StatusPreparing:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusCharging:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusOccupied:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusFinishing:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusSuspendedEV:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusSuspendedEVSE: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusFaulted:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		domain.StatusUnavailable:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

func renderStatus(status domain.ConnectorStatus) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status.String())
	}
	return status.String()
}
