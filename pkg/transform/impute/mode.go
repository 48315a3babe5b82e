package impute

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Mode fills nulls with the most frequent non-null value of the column. Ties
// go to the value that appears first.
type Mode struct{ Column string }

func (t *Mode) Name() string { return "impute_mode" }

func (t *Mode) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	keys, valid := j.Keys(col)
	counts := map[string]int{}
	first := map[string]int{}
	var order []string
	for i, k := range keys {
		if !valid[i] {
			continue
		}
		if _, seen := first[k]; !seen {
			first[k] = i
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		if col.NullCount() > 0 {
			warnStarved(ctx, t.Column, "", []string{""})
		}
		return f, nil
	}
	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}

	src := first[best]
	filled := 0
	for i := range keys {
		if !valid[i] {
			copyCell(col, i, src)
			filled++
		}
	}
	j.Logger(ctx).Info("filled missing values with mode", "column", t.Column, "mode", best, "filled", filled)
	return f, nil
}
