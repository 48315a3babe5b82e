package validate

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Complete requires Columns to hold no nulls. Columns listed in Tolerated may
// keep nulls; they are logged as a warning instead.
type Complete struct {
	Columns   []string
	Tolerated []string
}

func (t *Complete) Name() string { return "validate_complete" }

func (t *Complete) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	tolerated := make(map[string]bool, len(t.Tolerated))
	for _, c := range t.Tolerated {
		tolerated[c] = true
	}
	for _, name := range t.Columns {
		col, err := j.RequireColumn(f, t.Name(), name)
		if err != nil {
			return nil, err
		}
		n := col.NullCount()
		if n == 0 {
			continue
		}
		if tolerated[name] {
			j.Logger(ctx).Warn("tolerated residual nulls", "column", name, "missing", n)
			continue
		}
		return f, &Error{Check: t.Name(), Column: name, Rows: n, Detail: "missing values"}
	}
	return f, nil
}
