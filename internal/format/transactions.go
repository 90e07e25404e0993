package format

import (
	"io"
	"strconv"
	"time"

	"github.com/chargefront/chargefront/internal/domain"
)

// WriteTransactions renders a transaction list. Active transactions show
// live consumption; completed ones show their final figures and price.
func WriteTransactions(w io.Writer, transactions []domain.Transaction, now time.Time) {
	table := NewTable(w,
		Column{Name: "ID", Width: 8, Align: "right"},
		Column{Name: "CHARGER", Width: 20},
		Column{Name: "CONN", Width: 4},
		Column{Name: "STARTED", Width: 16},
		Column{Name: "DURATION", Width: 8, Align: "right"},
		Column{Name: "ENERGY", Width: 10, Align: "right"},
		Column{Name: "USER", Width: 20},
	)
	for i := range transactions {
		tx := &transactions[i]
		userName := ""
		if tx.User != nil {
			userName = tx.User.FullName()
		}
		energy := tx.TotalConsumption
		if tx.Stop != nil {
			energy = tx.Stop.TotalConsumption
		}
		table.Row(
			strconv.Itoa(tx.ID),
			tx.ChargeBoxID,
			domain.ConnectorLetterFromID(tx.ConnectorID),
			tx.Timestamp.Local().Format("2006-01-02 15:04"),
			FormatDuration(tx.Duration(now)),
			FormatEnergy(energy),
			userName,
		)
	}
}
