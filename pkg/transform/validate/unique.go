package validate

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Unique requires non-null values of Column to be distinct.
type Unique struct{ Column string }

func (t *Unique) Name() string { return "validate_unique" }

func (t *Unique) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	keys, valid := j.Keys(col)
	seen := make(map[string]struct{}, len(keys))
	var dup int
	for i, k := range keys {
		if !valid[i] {
			continue
		}
		if _, ok := seen[k]; ok {
			dup++
			continue
		}
		seen[k] = struct{}{}
	}
	if dup > 0 {
		return f, &Error{Check: t.Name(), Column: t.Column, Rows: dup, Detail: "duplicate values"}
	}
	return f, nil
}
