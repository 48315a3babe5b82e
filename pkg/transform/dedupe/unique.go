// Package dedupe removes repeated rows.
package dedupe

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Unique keeps the first row for each value of Column and drops the rest,
// preserving row order. Null keys never collide. A frame without Column is
// returned unchanged.
type Unique struct{ Column string }

func (t *Unique) Name() string { return "dedupe_unique" }

func (t *Unique) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		j.Logger(ctx).Debug("key column absent, skipping", "column", t.Column)
		return f, nil
	}
	keys, valid := j.Keys(col)
	seen := make(map[string]struct{}, len(keys))
	keep := make([]int, 0, len(keys))
	for i, k := range keys {
		if valid[i] {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		keep = append(keep, i)
	}
	removed := len(keys) - len(keep)
	j.Logger(ctx).Info("removed duplicate rows", "column", t.Column, "removed", removed)
	if removed == 0 {
		return f, nil
	}
	return f.Take(keep), nil
}
