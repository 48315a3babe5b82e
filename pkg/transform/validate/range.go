package validate

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Range requires every non-null value of Column to lie within [Min, Max].
// Nil bounds are open. Text columns are parsed as numbers.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

// Bounds returns pointers for Range.Min and Range.Max.
func Bounds(lo, hi float64) (*float64, *float64) { return &lo, &hi }

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	vals, valid, err := j.Floats(col)
	if err != nil {
		return nil, err
	}
	var bad int
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			bad++
		}
	}
	if bad > 0 {
		return f, &Error{Check: t.Name(), Column: t.Column, Rows: bad, Detail: "out-of-range values"}
	}
	return f, nil
}
