// Package format renders resource lists for CLI output. It provides a
// column-based table writer plus a JSON formatter for scripting.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chargefront/chargefront/internal/colors"
)

// Style selects the output rendering of a list command.
type Style string

const (
	// StyleTable renders an aligned table with headers.
	StyleTable Style = "table"

	// StyleJSON renders the raw records as a JSON array.
	StyleJSON Style = "json"
)

// Column describes one table column.
type Column struct {
	// Name is displayed in the header row.
	Name string

	// Width is the column width in characters. Values are truncated to fit.
	Width int

	// Align is "left" or "right".
	Align string
}

// Table writes aligned rows to a writer. Rows shorter than the column set
// are padded with empty cells.
type Table struct {
	columns []Column
	w       io.Writer
}

// NewTable creates a table writer and prints the header row.
func NewTable(w io.Writer, columns ...Column) *Table {
	t := &Table{columns: columns, w: w}
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = pad(c.Name, c.Width, c.Align)
	}
	fmt.Fprintf(w, "%s%s%s\n", colors.Blue, strings.Join(headers, "  "), colors.Reset)
	return t
}

// Row writes one data row.
func (t *Table) Row(cells ...string) {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		out[i] = pad(cell, c.Width, c.Align)
	}
	fmt.Fprintln(t.w, strings.TrimRight(strings.Join(out, "  "), " "))
}

// WriteJSON renders any record slice as indented JSON.
func WriteJSON(w io.Writer, records any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func pad(s string, width int, align string) string {
	s = truncate(s, width)
	if len(s) >= width {
		return s
	}
	padding := strings.Repeat(" ", width-len(s))
	if align == "right" {
		return padding + s
	}
	return s + padding
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
