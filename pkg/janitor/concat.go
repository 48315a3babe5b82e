package janitor

import "fmt"

// Concat stacks frames vertically. The result holds the union of their
// columns in first-seen order; a column absent from a frame is null for that
// frame's rows. Int and float columns of the same name promote to float, any
// other kind mismatch falls back to string.
func Concat(frames ...*Frame) (*Frame, error) {
	var schema Schema
	pos := map[string]int{}
	for _, f := range frames {
		for _, cs := range f.Schema().Columns {
			i, ok := pos[cs.Name]
			if !ok {
				pos[cs.Name] = len(schema.Columns)
				schema.Columns = append(schema.Columns, ColumnSchema{Name: cs.Name, Type: cs.Type, Nullable: true})
				continue
			}
			schema.Columns[i].Type = unify(schema.Columns[i].Type, cs.Type)
		}
	}

	out := NewFrame(schema)
	for _, f := range frames {
		base := out.Rows()
		for r := 0; r < f.Rows(); r++ {
			out.AppendNullRow()
		}
		for _, src := range f.Columns() {
			dst, _ := out.ColumnByName(src.Name())
			for r := 0; r < f.Rows(); r++ {
				if src.IsNull(r) {
					continue
				}
				if err := copyCell(dst, base+r, src, r); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

func unify(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat
	default:
		return KindString
	}
}

func copyCell(dst Column, di int, src Column, si int) error {
	switch d := dst.(type) {
	case *StringColumn:
		s, _ := Format(src, si)
		d.Set(di, s)
	case *FloatColumn, *IntColumn:
		vals, _, err := Floats(src.Take([]int{si}))
		if err != nil {
			return err
		}
		return SetFloat(dst, di, vals[0])
	case *BoolColumn:
		v, _ := src.(*BoolColumn).Get(si)
		d.Set(di, v)
	case *TimeColumn:
		v, _ := src.(*TimeColumn).Get(si)
		d.Set(di, v)
	default:
		return fmt.Errorf("concat: unsupported column %s", dst.Name())
	}
	return nil
}
