package impute

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Band labels rows missing Column by where their Measure falls among the
// Measure ranges observed for existing labels within the same By group.
//
// For each group, the min/max Measure of rows already carrying each of Labels
// is computed once, from the labels present before this step runs. A row is
// given the first label whose range contains its Measure, else Default. Rows
// with a null By or Measure get Default.
type Band struct {
	Column  string
	Measure string
	By      string
	Labels  []string
	Default string
}

type bounds struct{ lo, hi float64 }

func (b bounds) contains(v float64) bool { return b.lo <= v && v <= b.hi }

func (t *Band) Name() string { return "impute_band" }

func (t *Band) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	mcol, err := j.RequireColumn(f, t.Name(), t.Measure)
	if err != nil {
		return nil, err
	}
	measure, mvalid, err := j.Floats(mcol)
	if err != nil {
		return nil, err
	}
	g, err := indexBy(f, t.Name(), t.By)
	if err != nil {
		return nil, err
	}
	labels, lvalid := j.Keys(col)

	// per-group bounds, filled lazily and owned by this call
	cache := map[string]map[string]bounds{}
	statsFor := func(group string) map[string]bounds {
		if s, ok := cache[group]; ok {
			return s
		}
		s := map[string]bounds{}
		for i := range labels {
			if !lvalid[i] || !g.valid[i] || g.keys[i] != group || !mvalid[i] {
				continue
			}
			b, ok := s[labels[i]]
			if !ok {
				s[labels[i]] = bounds{lo: measure[i], hi: measure[i]}
				continue
			}
			if measure[i] < b.lo {
				b.lo = measure[i]
			}
			if measure[i] > b.hi {
				b.hi = measure[i]
			}
			s[labels[i]] = b
		}
		cache[group] = s
		return s
	}

	out := j.NewStringColumn(t.Column, len(labels))
	counts := map[string]int{}
	for i := range labels {
		if lvalid[i] {
			out.Set(i, labels[i])
			continue
		}
		label := t.Default
		if g.valid[i] && mvalid[i] {
			stats := statsFor(g.keys[i])
			for _, l := range t.Labels {
				if b, ok := stats[l]; ok && b.contains(measure[i]) {
					label = l
					break
				}
			}
		}
		out.Set(i, label)
		counts[label]++
	}
	if err := f.ReplaceColumn(out); err != nil {
		return nil, err
	}
	j.Logger(ctx).Info("filled missing values from measure bands", "column", t.Column, "measure", t.Measure, "by", t.By, "assigned", counts)
	return f, nil
}
