package validate

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// NotIn rejects values of Column that belong to a forbidden set.
type NotIn struct {
	Column string
	Values map[string]struct{}
}

func NewNotIn(col string, vals ...string) *NotIn {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &NotIn{Column: col, Values: m}
}

func (t *NotIn) Name() string { return "validate_not_in" }

func (t *NotIn) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	keys, valid := j.Keys(col)
	var bad int
	for i, k := range keys {
		if !valid[i] {
			continue
		}
		if _, ok := t.Values[k]; ok {
			bad++
		}
	}
	if bad > 0 {
		return f, &Error{Check: t.Name(), Column: t.Column, Rows: bad, Detail: "forbidden values"}
	}
	return f, nil
}
