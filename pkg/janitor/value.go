package janitor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Format renders cell i of col as text. ok is false for nulls.
func Format(col Column, i int) (string, bool) {
	if col.IsNull(i) {
		return "", false
	}
	switch c := col.(type) {
	case *FloatColumn:
		v, _ := c.Get(i)
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case *IntColumn:
		v, _ := c.Get(i)
		return strconv.FormatInt(v, 10), true
	case *BoolColumn:
		v, _ := c.Get(i)
		return strconv.FormatBool(v), true
	case *StringColumn:
		return c.Get(i)
	case *TimeColumn:
		v, _ := c.Get(i)
		return v.Format(time.RFC3339), true
	}
	return "", false
}

// Floats returns a numeric view of col. Int and float columns convert
// directly, bools read as 1/0 and string columns are parsed cell by cell; the
// first unparsable string yields a TypeConversionError.
func Floats(col Column) (vals []float64, valid []bool, err error) {
	n := col.Len()
	vals = make([]float64, n)
	valid = make([]bool, n)
	switch c := col.(type) {
	case *FloatColumn:
		for i := 0; i < n; i++ {
			vals[i], valid[i] = c.Get(i)
		}
	case *IntColumn:
		for i := 0; i < n; i++ {
			v, ok := c.Get(i)
			vals[i], valid[i] = float64(v), ok
		}
	case *BoolColumn:
		for i := 0; i < n; i++ {
			v, ok := c.Get(i)
			if v {
				vals[i] = 1
			}
			valid[i] = ok
		}
	case *StringColumn:
		for i := 0; i < n; i++ {
			s, ok := c.Get(i)
			if !ok {
				continue
			}
			x, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if perr != nil {
				return nil, nil, &TypeConversionError{Column: c.Name(), Row: i, Value: s, Want: KindFloat, Err: perr}
			}
			vals[i], valid[i] = x, true
		}
	default:
		for i := 0; i < n; i++ {
			if !col.IsNull(i) {
				s, _ := Format(col, i)
				return nil, nil, &TypeConversionError{Column: col.Name(), Row: i, Value: s, Want: KindFloat}
			}
		}
	}
	return vals, valid, nil
}

// Keys returns the text form of every cell, for grouping rows by value.
func Keys(col Column) (keys []string, valid []bool) {
	n := col.Len()
	keys = make([]string, n)
	valid = make([]bool, n)
	for i := 0; i < n; i++ {
		keys[i], valid[i] = Format(col, i)
	}
	return keys, valid
}

// SetFloat stores v in cell i of col, converting to the column's kind. Int
// columns round half to even.
func SetFloat(col Column, i int, v float64) error {
	switch c := col.(type) {
	case *FloatColumn:
		c.Set(i, v)
	case *IntColumn:
		c.Set(i, int64(math.RoundToEven(v)))
	case *StringColumn:
		c.Set(i, strconv.FormatFloat(v, 'f', -1, 64))
	case *BoolColumn:
		c.Set(i, v != 0)
	default:
		return fmt.Errorf("column %s: cannot store a number in a %v column", col.Name(), col.Kind())
	}
	return nil
}

// ToInt converts a numeric column to an IntColumn, rounding half to even.
// An IntColumn is returned as is.
func ToInt(col Column) (*IntColumn, error) {
	if c, ok := col.(*IntColumn); ok {
		return c, nil
	}
	vals, valid, err := Floats(col)
	if err != nil {
		return nil, err
	}
	out := NewIntColumn(col.Name(), len(vals))
	for i, v := range vals {
		if !valid[i] {
			out.SetNull(i)
			continue
		}
		out.Set(i, int64(math.RoundToEven(v)))
	}
	return out, nil
}
