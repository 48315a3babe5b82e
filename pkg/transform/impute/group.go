package impute

import (
	"context"
	"sort"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// aggregate reduces the non-null values of one group to a fill value.
type aggregate func(vals []float64) float64

// groupIndex assigns each row to the group named by its key column. Rows with
// a null key belong to no group.
type groupIndex struct {
	keys  []string
	valid []bool
}

func wholeFrame(n int) groupIndex {
	g := groupIndex{keys: make([]string, n), valid: make([]bool, n)}
	for i := range g.valid {
		g.valid[i] = true
	}
	return g
}

func indexBy(f *j.Frame, step, by string) (groupIndex, error) {
	if by == "" {
		return wholeFrame(f.Rows()), nil
	}
	col, err := j.RequireColumn(f, step, by)
	if err != nil {
		return groupIndex{}, err
	}
	keys, valid := j.Keys(col)
	return groupIndex{keys: keys, valid: valid}, nil
}

// fillByGroup fills the nulls of column with agg over the non-null values
// sharing the row's group. It returns how many cells were filled and the
// sorted names of groups that had nulls but no values to aggregate.
func fillByGroup(f *j.Frame, step, column, by string, agg aggregate) (filled int, starved []string, err error) {
	col, err := j.RequireColumn(f, step, column)
	if err != nil {
		return 0, nil, err
	}
	vals, valid, err := j.Floats(col)
	if err != nil {
		return 0, nil, err
	}
	g, err := indexBy(f, step, by)
	if err != nil {
		return 0, nil, err
	}

	members := map[string][]float64{}
	for i := range vals {
		if valid[i] && g.valid[i] {
			members[g.keys[i]] = append(members[g.keys[i]], vals[i])
		}
	}
	fill := make(map[string]float64, len(members))
	for k, vs := range members {
		fill[k] = agg(vs)
	}

	missing := map[string]struct{}{}
	for i := range vals {
		if valid[i] {
			continue
		}
		if !g.valid[i] {
			missing["<null>"] = struct{}{}
			continue
		}
		v, ok := fill[g.keys[i]]
		if !ok {
			missing[g.keys[i]] = struct{}{}
			continue
		}
		if err := j.SetFloat(col, i, v); err != nil {
			return filled, nil, err
		}
		filled++
	}
	for k := range missing {
		starved = append(starved, k)
	}
	sort.Strings(starved)
	return filled, starved, nil
}

func warnStarved(ctx context.Context, column, by string, starved []string) {
	if len(starved) == 0 {
		return
	}
	if by == "" {
		j.Logger(ctx).Warn("no values to impute from, nulls left in place", "column", column)
		return
	}
	j.Logger(ctx).Warn("groups without values, nulls left in place", "column", column, "by", by, "groups", starved)
}

// copyCell copies cell src of col onto cell dst.
func copyCell(col j.Column, dst, src int) {
	switch c := col.(type) {
	case *j.StringColumn:
		v, _ := c.Get(src)
		c.Set(dst, v)
	case *j.IntColumn:
		v, _ := c.Get(src)
		c.Set(dst, v)
	case *j.FloatColumn:
		v, _ := c.Get(src)
		c.Set(dst, v)
	case *j.BoolColumn:
		v, _ := c.Get(src)
		c.Set(dst, v)
	case *j.TimeColumn:
		v, _ := c.Get(src)
		c.Set(dst, v)
	}
}
