package standardize

import (
	"context"
	"strconv"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// Encode replaces exact string tokens with integers across the frame's string
// columns, or only Columns when set. A column whose values are all tokens
// becomes an int column. A column holding other text as well keeps its kind
// and receives the numbers as text.
type Encode struct {
	Map     map[string]int64
	Columns []string
}

// YesNo maps yes/no tokens to 1/0.
var YesNo = map[string]int64{"yes": 1, "no": 0}

func (t *Encode) Name() string { return "encode_values" }

func (t *Encode) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	var cols []j.Column
	if len(t.Columns) == 0 {
		cols = f.Columns()
	} else {
		for _, name := range t.Columns {
			col, err := j.RequireColumn(f, t.Name(), name)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		}
	}

	log := j.Logger(ctx)
	for _, col := range cols {
		sc, ok := col.(*j.StringColumn)
		if !ok {
			continue
		}
		hits, other := 0, 0
		for i := 0; i < sc.Len(); i++ {
			v, ok := sc.Get(i)
			if !ok {
				continue
			}
			if _, ok := t.Map[v]; ok {
				hits++
			} else {
				other++
			}
		}
		if hits == 0 {
			continue
		}
		if other > 0 {
			for i := 0; i < sc.Len(); i++ {
				v, ok := sc.Get(i)
				if !ok {
					continue
				}
				if n, ok := t.Map[v]; ok {
					sc.Set(i, strconv.FormatInt(n, 10))
				}
			}
			log.Warn("encoded tokens in a column holding other text", "column", sc.Name(), "encoded", hits, "other", other)
			continue
		}
		ic := j.NewIntColumn(sc.Name(), sc.Len())
		for i := 0; i < sc.Len(); i++ {
			v, ok := sc.Get(i)
			if !ok {
				ic.SetNull(i)
				continue
			}
			ic.Set(i, t.Map[v])
		}
		if err := f.ReplaceColumn(ic); err != nil {
			return nil, err
		}
		log.Info("encoded column", "column", sc.Name(), "encoded", hits)
	}
	return f, nil
}
