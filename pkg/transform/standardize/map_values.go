package standardize

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// MapValues replaces exact string values of Column found in Map. Values not in
// Map are left alone.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := j.RequireColumn(f, t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	c, ok := col.(*j.StringColumn)
	if !ok {
		j.Logger(ctx).Debug("not a text column, skipping", "column", t.Column, "kind", col.Kind().String())
		return f, nil
	}
	replaced := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v, _ := c.Get(i)
		if nv, ok := t.Map[v]; ok {
			c.Set(i, nv)
			replaced++
		}
	}
	j.Logger(ctx).Info("replaced values", "column", t.Column, "replaced", replaced)
	return f, nil
}
