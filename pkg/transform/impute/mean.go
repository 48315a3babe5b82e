package impute

import (
	"context"
	"math"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"gonum.org/v1/gonum/stat"
)

// Mean fills nulls with the mean of the non-null values, per By group when set.
// Integer rounds the whole column half to even afterwards and stores it as an
// int column.
type Mean struct {
	Column  string
	By      string
	Integer bool
}

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	filled, starved, err := fillByGroup(f, t.Name(), t.Column, t.By, mean)
	if err != nil {
		return nil, err
	}
	warnStarved(ctx, t.Column, t.By, starved)
	if t.Integer {
		col, _ := f.ColumnByName(t.Column)
		ic, err := j.ToInt(col)
		if err != nil {
			return nil, err
		}
		if err := f.ReplaceColumn(ic); err != nil {
			return nil, err
		}
	}
	j.Logger(ctx).Info("filled missing values with mean", "column", t.Column, "by", t.By, "filled", filled)
	return f, nil
}

func mean(vals []float64) float64 { return stat.Mean(vals, nil) }

func roundHalfEven(v float64) float64 { return math.RoundToEven(v) }
