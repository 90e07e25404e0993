package format

import (
	"fmt"
	"io"
	"time"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/domain"
)

// StatusColor returns the ANSI color for a connector status.
func StatusColor(status domain.ConnectorStatus) string {
	switch status {
	case domain.StatusAvailable:
		return colors.Green
	case domain.StatusCharging, domain.StatusOccupied, domain.StatusPreparing,
		domain.StatusFinishing, domain.StatusSuspendedEV, domain.StatusSuspendedEVSE:
		return colors.Yellow
	case domain.StatusFaulted, domain.StatusUnavailable:
		return colors.Red
	default:
		return ""
	}
}

// WriteChargers renders a charging station list with one row per connector.
func WriteChargers(w io.Writer, chargers []domain.ChargingStation) {
	table := NewTable(w,
		Column{Name: "CHARGER", Width: 20},
		Column{Name: "CONN", Width: 4},
		Column{Name: "STATUS", Width: 13},
		Column{Name: "TYPE", Width: 4},
		Column{Name: "POWER", Width: 7, Align: "right"},
		Column{Name: "SITE AREA", Width: 20},
	)
	for _, charger := range chargers {
		siteArea := ""
		if charger.SiteArea != nil {
			siteArea = charger.SiteArea.Name
		}
		if len(charger.Connectors) == 0 {
			table.Row(charger.ID, "-", "-", "-", "-", siteArea)
			continue
		}
		for _, connector := range charger.Connectors {
			table.Row(
				charger.ID,
				domain.ConnectorLetterFromID(connector.ID),
				connector.Status.String(),
				connector.Type.String(),
				FormatPower(connector.Power),
				siteArea,
			)
		}
	}
}

// WriteSites renders a site list.
func WriteSites(w io.Writer, sites []domain.Site) {
	table := NewTable(w,
		Column{Name: "NAME", Width: 24},
		Column{Name: "CITY", Width: 16},
		Column{Name: "COUNTRY", Width: 12},
		Column{Name: "ID", Width: 24},
	)
	for _, site := range sites {
		table.Row(site.Name, site.Address.City, site.Address.Country, site.ID)
	}
}

// WriteSiteAreas renders a site area list.
func WriteSiteAreas(w io.Writer, areas []domain.SiteArea) {
	table := NewTable(w,
		Column{Name: "NAME", Width: 24},
		Column{Name: "SITE", Width: 24},
		Column{Name: "ID", Width: 24},
	)
	for _, area := range areas {
		siteName := ""
		if area.Site != nil {
			siteName = area.Site.Name
		}
		table.Row(area.Name, siteName, area.ID)
	}
}

// WriteUsers renders a user list.
func WriteUsers(w io.Writer, users []domain.User) {
	table := NewTable(w,
		Column{Name: "NAME", Width: 24},
		Column{Name: "EMAIL", Width: 28},
		Column{Name: "ROLE", Width: 4},
		Column{Name: "STATUS", Width: 8},
	)
	for i := range users {
		user := &users[i]
		table.Row(user.FullName(), user.Email, user.Role, user.Status)
	}
}

// FormatPower renders a power rating in watts as a kW figure.
func FormatPower(watts int) string {
	if watts == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fkW", float64(watts)/1000)
}

// FormatEnergy renders a consumption in watt-hours as a kWh figure.
func FormatEnergy(wattHours float64) string {
	return fmt.Sprintf("%.2fkWh", wattHours/1000)
}

// FormatDuration renders a duration as hours and minutes.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
