package impute

import (
	"context"
	"sort"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Median fills nulls with the median of the non-null values. With By set the
// median is taken within each group of rows sharing the By value.
type Median struct {
	Column string
	By     string
}

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	filled, starved, err := fillByGroup(f, t.Name(), t.Column, t.By, median)
	if err != nil {
		return nil, err
	}
	warnStarved(ctx, t.Column, t.By, starved)
	j.Logger(ctx).Info("filled missing values with median", "column", t.Column, "by", t.By, "filled", filled)
	return f, nil
}

// median averages the two middle values of an even-sized sample.
func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}
