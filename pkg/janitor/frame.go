package janitor

import (
	"fmt"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	NullCount() int
	// Take returns a new column holding the rows at idx, in that order.
	Take(idx []int) Column
}

func countNulls(nulls []bool) int {
	n := 0
	for _, null := range nulls {
		if null {
			n++
		}
	}
	return n
}

func takeNulls(nulls []bool, idx []int) []bool {
	out := make([]bool, len(idx))
	for k, i := range idx {
		out[k] = nulls[i]
	}
	return out
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) NullCount() int         { return countNulls(c.nulls) }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Take(idx []int) Column {
	out := &BoolColumn{name: c.name, data: make([]bool, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for k, i := range idx {
		out.data[k] = c.data[i]
	}
	return out
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) NullCount() int          { return countNulls(c.nulls) }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Take(idx []int) Column {
	out := &IntColumn{name: c.name, data: make([]int64, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for k, i := range idx {
		out.data[k] = c.data[i]
	}
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) NullCount() int            { return countNulls(c.nulls) }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) Set(i int, v float64)      { c.data[i] = v; c.nulls[i] = false }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *FloatColumn) Append(v float64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *FloatColumn) Take(idx []int) Column {
	out := &FloatColumn{name: c.name, data: make([]float64, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for k, i := range idx {
		out.data[k] = c.data[i]
	}
	return out
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) NullCount() int           { return countNulls(c.nulls) }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Take(idx []int) Column {
	out := &StringColumn{name: c.name, data: make([]string, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for k, i := range idx {
		out.data[k] = c.data[i]
	}
	return out
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: make([]bool, n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) NullCount() int              { return countNulls(c.nulls) }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) Take(idx []int) Column {
	out := &TimeColumn{name: c.name, data: make([]time.Time, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for k, i := range idx {
		out.data[k] = c.data[i]
	}
	return out
}

// NewColumn allocates an all-null column of the given kind.
func NewColumn(name string, k Kind, n int) (Column, error) {
	var c Column
	switch k {
	case KindBool:
		c = NewBoolColumn(name, n)
	case KindInt:
		c = NewIntColumn(name, n)
	case KindFloat:
		c = NewFloatColumn(name, n)
	case KindString:
		c = NewStringColumn(name, n)
	case KindTime:
		c = NewTimeColumn(name, n)
	default:
		return nil, fmt.Errorf("column %s: invalid kind %v", name, k)
	}
	for i := 0; i < n; i++ {
		c.SetNull(i)
	}
	return c, nil
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			panic(err)
		}
		f.cols[i] = c
		f.index[cs.Name] = i
	}
	return f
}

func (f *Frame) Schema() Schema    { return f.schema }
func (f *Frame) Rows() int         { return f.nrows }
func (f *Frame) Cols() int         { return len(f.cols) }
func (f *Frame) Columns() []Column { return f.cols }
func (f *Frame) HasColumn(n string) bool {
	_, ok := f.index[n]
	return ok
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// ReplaceColumn swaps the column with the same name for c, keeping its
// position and updating the schema kind.
func (f *Frame) ReplaceColumn(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return &MissingColumnError{Column: c.Name()}
	}
	if c.Len() != f.nrows {
		return fmt.Errorf("replace column %s: length %d, frame has %d rows", c.Name(), c.Len(), f.nrows)
	}
	f.cols[i] = c
	f.schema.Columns[i].Type = c.Kind()
	return nil
}

// Take returns a new frame with the rows at idx, in that order.
func (f *Frame) Take(idx []int) *Frame {
	cols := make([]ColumnSchema, len(f.schema.Columns))
	copy(cols, f.schema.Columns)
	out := &Frame{schema: Schema{Columns: cols}, cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.index)), nrows: len(idx)}
	for i, c := range f.cols {
		out.cols[i] = c.Take(idx)
		out.index[c.Name()] = i
	}
	return out
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return &MissingColumnError{Column: name}
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool, got %T", name, v)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64, got %T", name, v)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64, got %T", name, v)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string, got %T", name, v)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time, got %T", name, v)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
