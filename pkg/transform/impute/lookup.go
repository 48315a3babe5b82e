package impute

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// GroupLookup fills nulls of Column with the mean of Column among rows sharing
// the row's By value. Rows whose group has no values, or whose By value is
// null, fall back to the mean over the whole column.
type GroupLookup struct {
	Column string
	By     string
	// Round rounds looked-up values half to even.
	Round bool
}

func (t *GroupLookup) Name() string { return "impute_group_lookup" }

func (t *GroupLookup) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	vals, valid, err := j.Floats(col)
	if err != nil {
		return nil, err
	}
	g, err := indexBy(f, t.Name(), t.By)
	if err != nil {
		return nil, err
	}

	var all []float64
	members := map[string][]float64{}
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		all = append(all, v)
		if g.valid[i] {
			members[g.keys[i]] = append(members[g.keys[i]], v)
		}
	}
	if len(all) == 0 {
		if col.NullCount() > 0 {
			warnStarved(ctx, t.Column, "", []string{""})
		}
		return f, nil
	}
	means := make(map[string]float64, len(members))
	for k, vs := range members {
		means[k] = mean(vs)
	}
	fallback := mean(all)

	filled, fellBack := 0, 0
	for i := range vals {
		if valid[i] {
			continue
		}
		v := fallback
		if m, ok := means[g.keys[i]]; ok && g.valid[i] {
			v = m
		} else {
			fellBack++
		}
		if t.Round {
			v = roundHalfEven(v)
		}
		if err := j.SetFloat(col, i, v); err != nil {
			return nil, err
		}
		filled++
	}
	j.Logger(ctx).Info("filled missing values from group means", "column", t.Column, "by", t.By, "filled", filled, "fallback", fellBack)
	return f, nil
}
