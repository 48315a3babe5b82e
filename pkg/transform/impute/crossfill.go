package impute

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// CrossFill imputes a family of related numeric columns. Columns are processed
// in the given order; a target with nulls is first back-filled row by row from
// each other column that holds any value at that point, in order, and what is
// still null then takes the target's mean within its By group.
//
// Order matters: a later target may pick up values already copied into an
// earlier one.
type CrossFill struct {
	Columns []string
	By      string
}

func (t *CrossFill) Name() string { return "impute_cross_fill" }

func (t *CrossFill) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	cols := make([]j.Column, len(t.Columns))
	for i, name := range t.Columns {
		col, err := j.RequireColumn(f, t.Name(), name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	if t.By != "" {
		if _, err := j.RequireColumn(f, t.Name(), t.By); err != nil {
			return nil, err
		}
	}

	log := j.Logger(ctx)
	for ti, target := range cols {
		if target.NullCount() > 0 {
			var sources []int
			for si, src := range cols {
				if si != ti && src.NullCount() < src.Len() {
					sources = append(sources, si)
				}
			}
			substituted := 0
			for _, si := range sources {
				n, err := backfill(target, cols[si])
				if err != nil {
					return nil, err
				}
				substituted += n
			}
			log.Debug("back-filled from related columns", "column", target.Name(), "filled", substituted)
		}

		filled, starved, err := fillByGroup(f, t.Name(), target.Name(), t.By, mean)
		if err != nil {
			return nil, err
		}
		warnStarved(ctx, target.Name(), t.By, starved)
		if filled > 0 {
			log.Debug("filled remaining values with group mean", "column", target.Name(), "by", t.By, "filled", filled)
		}
	}
	log.Info("filled missing values in related columns", "columns", t.Columns)
	return f, nil
}

// backfill copies src into the null cells of dst where src has a value.
func backfill(dst, src j.Column) (int, error) {
	vals, valid, err := j.Floats(src)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := 0; i < dst.Len(); i++ {
		if !dst.IsNull(i) || !valid[i] {
			continue
		}
		if err := j.SetFloat(dst, i, vals[i]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
