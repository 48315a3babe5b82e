package impute

import (
	"context"
	"errors"
	"testing"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// frame builds a frame from columns of equal length; nil cells are null.
func frame(t *testing.T, cols map[string][]any, kinds map[string]j.Kind, order ...string) *j.Frame {
	t.Helper()
	var s j.Schema
	for _, name := range order {
		s.Columns = append(s.Columns, j.ColumnSchema{Name: name, Type: kinds[name], Nullable: true})
	}
	f := j.NewFrame(s)
	n := len(cols[order[0]])
	for i := 0; i < n; i++ {
		f.AppendNullRow()
	}
	for _, name := range order {
		for i, v := range cols[name] {
			if err := f.SetCell(i, name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	return f
}

func str(t *testing.T, f *j.Frame, name string, i int) (string, bool) {
	t.Helper()
	col, ok := f.ColumnByName(name)
	if !ok {
		t.Fatalf("no column %s", name)
	}
	return j.Format(col, i)
}

func TestModeTiesGoToFirstSeen(t *testing.T) {
	f := frame(t,
		map[string][]any{"m": {"brick", "panel", "panel", nil, "brick"}},
		map[string]j.Kind{"m": j.KindString}, "m")
	out, err := (&Mode{Column: "m"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := str(t, out, "m", 3); !ok || v != "brick" {
		t.Fatalf("expected brick, got %q (ok=%v)", v, ok)
	}
}

func TestModeOnlyUsesExistingValues(t *testing.T) {
	f := frame(t,
		map[string][]any{"m": {nil, "block", nil, "block", "flat"}},
		map[string]j.Kind{"m": j.KindString}, "m")
	before := map[string]bool{"block": true, "flat": true}
	out, err := (&Mode{Column: "m"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < out.Rows(); i++ {
		v, ok := str(t, out, "m", i)
		if !ok || !before[v] {
			t.Fatalf("row %d: unexpected value %q", i, v)
		}
	}
}

func TestModeAllNullLeavesResidual(t *testing.T) {
	f := frame(t, map[string][]any{"m": {nil, nil}}, map[string]j.Kind{"m": j.KindString}, "m")
	out, err := (&Mode{Column: "m"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("m")
	if col.NullCount() != 2 {
		t.Fatalf("expected nulls to remain, got %d", col.NullCount())
	}
}

func TestMedianByCity(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"city":      {"a", "a", "a", "b", "b", "c", nil},
			"buildYear": {1990.0, 2000.0, nil, 1980.0, nil, nil, nil},
		},
		map[string]j.Kind{"city": j.KindString, "buildYear": j.KindFloat}, "city", "buildYear")
	out, err := (&Median{Column: "buildYear", By: "city"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("buildYear")
	c := col.(*j.FloatColumn)
	if v, _ := c.Get(2); v != 1995 {
		t.Fatalf("even-sized median should average middle pair, got %v", v)
	}
	if v, _ := c.Get(4); v != 1980 {
		t.Fatalf("expected 1980, got %v", v)
	}
	if !c.IsNull(5) || !c.IsNull(6) {
		t.Fatal("rows without city values should stay null")
	}
}

func TestMeanIntegerStoresInts(t *testing.T) {
	f := frame(t,
		map[string][]any{"floorCount": {4.0, 5.0, nil}},
		map[string]j.Kind{"floorCount": j.KindFloat}, "floorCount")
	out, err := (&Mean{Column: "floorCount", Integer: true}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("floorCount")
	ic, ok := col.(*j.IntColumn)
	if !ok {
		t.Fatalf("expected int column, got %v", col.Kind())
	}
	// 4.5 rounds half to even
	if v, _ := ic.Get(2); v != 4 {
		t.Fatalf("expected 4, got %d", v)
	}
	if out.Schema().Columns[0].Type != j.KindInt {
		t.Fatal("schema not updated")
	}
}

func TestGroupLookupFallsBackToDatasetMean(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"floorCount": {int64(4), int64(4), int64(4), int64(10), int64(7)},
			"floor":      {int64(1), int64(2), nil, int64(8), nil},
		},
		map[string]j.Kind{"floorCount": j.KindInt, "floor": j.KindInt}, "floorCount", "floor")
	out, err := (&GroupLookup{Column: "floor", By: "floorCount", Round: true}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("floor")
	c := col.(*j.IntColumn)
	// group 4: mean 1.5 -> 2
	if v, _ := c.Get(2); v != 2 {
		t.Fatalf("expected group mean 2, got %d", v)
	}
	// group 7 has no floors: dataset mean (1+2+8)/3 -> 4
	if v, _ := c.Get(4); v != 4 {
		t.Fatalf("expected dataset mean 4, got %d", v)
	}
}

func TestBandWarsawScenario(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"city":      {"Warsaw", "Warsaw", "Warsaw"},
			"condition": {nil, "premium", "low"},
			"price":     {500000.0, 800000.0, 200000.0},
		},
		map[string]j.Kind{"city": j.KindString, "condition": j.KindString, "price": j.KindFloat},
		"city", "condition", "price")
	b := &Band{Column: "condition", Measure: "price", By: "city", Labels: []string{"premium", "low"}, Default: "medium"}
	out, err := b.Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"medium", "premium", "low"}
	for i, w := range want {
		if v, _ := str(t, out, "condition", i); v != w {
			t.Fatalf("row %d: got %q want %q", i, v, w)
		}
	}
}

func TestBandUsesPreFillLabelsOnly(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"city":      {"k", "k", "k", "k", "x"},
			"condition": {"premium", nil, nil, "low", nil},
			"price":     {900.0, 900.0, 100.0, 100.0, 100.0},
		},
		map[string]j.Kind{"city": j.KindString, "condition": j.KindString, "price": j.KindFloat},
		"city", "condition", "price")
	b := &Band{Column: "condition", Measure: "price", By: "city", Labels: []string{"premium", "low"}, Default: "medium"}
	out, err := b.Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"premium", "premium", "low", "low", "medium"}
	for i, w := range want {
		if v, _ := str(t, out, "condition", i); v != w {
			t.Fatalf("row %d: got %q want %q", i, v, w)
		}
	}
}

func TestBandRejectsNonNumericMeasure(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"city":      {"k", "k"},
			"condition": {"low", nil},
			"price":     {"100", "cheap"},
		},
		map[string]j.Kind{"city": j.KindString, "condition": j.KindString, "price": j.KindString},
		"city", "condition", "price")
	_, err := (&Band{Column: "condition", Measure: "price", By: "city", Default: "medium"}).Apply(context.Background(), f)
	if !errors.Is(err, j.ErrTypeConversion) {
		t.Fatalf("expected type conversion error, got %v", err)
	}
}

func TestCrossFillOrderAndCityMean(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"city": {"k", "k", "k"},
			"a":    {nil, 1.0, nil},
			"b":    {2.0, nil, nil},
			"c":    {nil, nil, 5.0},
		},
		map[string]j.Kind{"city": j.KindString, "a": j.KindFloat, "b": j.KindFloat, "c": j.KindFloat},
		"city", "a", "b", "c")
	out, err := (&CrossFill{Columns: []string{"a", "b", "c"}, By: "city"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	// a: row0 from b, row2 from c
	// b: row1 from a, row2 from a (already back-filled)
	// c: row0 from a, row1 from a
	want := map[string][]float64{
		"a": {2, 1, 5},
		"b": {2, 1, 5},
		"c": {2, 1, 5},
	}
	for name, w := range want {
		col, _ := out.ColumnByName(name)
		c := col.(*j.FloatColumn)
		for i := range w {
			if v, ok := c.Get(i); !ok || v != w[i] {
				t.Fatalf("%s row %d: got %v (ok=%v) want %v", name, i, v, ok, w[i])
			}
		}
	}
}

func TestCrossFillFallsBackToCityMean(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"city": {"k", "k", "k", "w"},
			"a":    {1.0, 3.0, nil, nil},
			"b":    {nil, nil, nil, nil},
		},
		map[string]j.Kind{"city": j.KindString, "a": j.KindFloat, "b": j.KindFloat},
		"city", "a", "b")
	out, err := (&CrossFill{Columns: []string{"a", "b"}, By: "city"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("a")
	a := col.(*j.FloatColumn)
	if v, _ := a.Get(2); v != 2 {
		t.Fatalf("expected city mean 2, got %v", v)
	}
	if !a.IsNull(3) {
		t.Fatal("city without values should keep its null")
	}
	col, _ = out.ColumnByName("b")
	b := col.(*j.FloatColumn)
	for i, w := range []float64{1, 3, 2} {
		if v, _ := b.Get(i); v != w {
			t.Fatalf("b row %d: got %v want %v", i, v, w)
		}
	}
}

func TestThresholdBoundary(t *testing.T) {
	f := frame(t,
		map[string][]any{
			"floorCount":  {int64(5), int64(6), nil, int64(2)},
			"hasElevator": {nil, nil, nil, "yes"},
		},
		map[string]j.Kind{"floorCount": j.KindInt, "hasElevator": j.KindString}, "floorCount", "hasElevator")
	out, err := (&Threshold{Column: "hasElevator", Source: "floorCount", Limit: 5}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"no", "yes", "no", "yes"}
	for i, w := range want {
		if v, _ := str(t, out, "hasElevator", i); v != w {
			t.Fatalf("row %d: got %q want %q", i, v, w)
		}
	}
}

func TestMissingColumn(t *testing.T) {
	f := frame(t, map[string][]any{"x": {1.0}}, map[string]j.Kind{"x": j.KindFloat}, "x")
	steps := []j.Transform{
		&Mode{Column: "nope"},
		&Median{Column: "x", By: "nope"},
		&Mean{Column: "nope"},
		&GroupLookup{Column: "x", By: "nope"},
		&Band{Column: "nope", Measure: "x"},
		&CrossFill{Columns: []string{"x", "nope"}},
		&Threshold{Column: "x", Source: "nope"},
	}
	for _, s := range steps {
		_, err := s.Apply(context.Background(), f)
		var mc *j.MissingColumnError
		if !errors.As(err, &mc) || mc.Column != "nope" {
			t.Fatalf("%s: expected missing column error, got %v", s.Name(), err)
		}
	}
}
