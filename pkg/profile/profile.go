// Package profile summarizes what is still missing in a frame.
package profile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// ColumnMissing counts the nulls of one column.
type ColumnMissing struct {
	Name    string  `json:"name"`
	Missing int     `json:"missing"`
	Percent float64 `json:"percent"`
}

// Report lists every column of a frame in schema order.
type Report struct {
	Rows    int             `json:"rows"`
	Columns []ColumnMissing `json:"columns"`
}

// Missing counts nulls per column. Percent is zero for an empty frame.
func Missing(f *j.Frame) Report {
	r := Report{Rows: f.Rows(), Columns: make([]ColumnMissing, 0, f.Cols())}
	for _, col := range f.Columns() {
		cm := ColumnMissing{Name: col.Name(), Missing: col.NullCount()}
		if r.Rows > 0 {
			cm.Percent = float64(cm.Missing) / float64(r.Rows) * 100
		}
		r.Columns = append(r.Columns, cm)
	}
	return r
}

// Map returns the report keyed by column name.
func (r Report) Map() map[string]ColumnMissing {
	m := make(map[string]ColumnMissing, len(r.Columns))
	for _, c := range r.Columns {
		m[c.Name] = c
	}
	return m
}

// Incomplete returns the columns that still have nulls.
func (r Report) Incomplete() []ColumnMissing {
	var out []ColumnMissing
	for _, c := range r.Columns {
		if c.Missing > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Text renders the report as a table.
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing values (%d rows)\n", r.Rows)
	tw := tablewriter.NewWriter(&b)
	tw.SetHeader([]string{"Column", "Missing", "Percent"})
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, c := range r.Columns {
		tw.Append([]string{c.Name, strconv.Itoa(c.Missing), strconv.FormatFloat(c.Percent, 'f', 2, 64)})
	}
	tw.Render()
	return b.String()
}

// LogValue logs only the incomplete columns, as column=missing pairs.
func (r Report) LogValue() slog.Value {
	attrs := []slog.Attr{slog.Int("rows", r.Rows)}
	for _, c := range r.Incomplete() {
		attrs = append(attrs, slog.Group(c.Name, slog.Int("missing", c.Missing), slog.Float64("percent", c.Percent)))
	}
	return slog.GroupValue(attrs...)
}
