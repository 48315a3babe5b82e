package impute

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Threshold fills nulls of Column with a yes/no flag derived from whether
// Source is strictly greater than Limit. Text columns receive Yes/No, numeric
// columns 1/0 and bool columns true/false. A null Source counts as not above.
type Threshold struct {
	Column string
	Source string
	Limit  float64
	Yes    string
	No     string
}

func (t *Threshold) Name() string { return "impute_threshold" }

func (t *Threshold) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	src, err := j.RequireColumn(f, t.Name(), t.Source)
	if err != nil {
		return nil, err
	}
	vals, valid, err := j.Floats(src)
	if err != nil {
		return nil, err
	}
	yes, no := t.Yes, t.No
	if yes == "" {
		yes = "yes"
	}
	if no == "" {
		no = "no"
	}

	above, below := 0, 0
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			continue
		}
		flag := valid[i] && vals[i] > t.Limit
		if flag {
			above++
		} else {
			below++
		}
		switch c := col.(type) {
		case *j.StringColumn:
			if flag {
				c.Set(i, yes)
			} else {
				c.Set(i, no)
			}
		case *j.IntColumn:
			if flag {
				c.Set(i, 1)
			} else {
				c.Set(i, 0)
			}
		case *j.FloatColumn:
			if flag {
				c.Set(i, 1)
			} else {
				c.Set(i, 0)
			}
		case *j.BoolColumn:
			c.Set(i, flag)
		default:
			return nil, &j.TypeConversionError{Column: t.Column, Row: i, Want: j.KindString}
		}
	}
	j.Logger(ctx).Info("filled missing values from threshold", "column", t.Column, "source", t.Source, "limit", t.Limit, "above", above, "below", below)
	return f, nil
}
