package standardize

import (
	"context"
	"errors"
	"testing"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

func textFrame(cols map[string][]any, order ...string) *j.Frame {
	var s j.Schema
	for _, name := range order {
		s.Columns = append(s.Columns, j.ColumnSchema{Name: name, Type: j.KindString, Nullable: true})
	}
	f := j.NewFrame(s)
	for i := range cols[order[0]] {
		f.AppendNullRow()
		for _, name := range order {
			_ = f.SetCell(i, name, cols[name][i])
		}
	}
	return f
}

func TestMapValuesOwnership(t *testing.T) {
	f := textFrame(map[string][]any{"ownership": {"udział", "full ownership", nil, "cooperative", "udział"}}, "ownership")
	tf := &MapValues{Column: "ownership", Map: map[string]string{"udział": "part ownership"}}
	if _, err := tf.Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	col, _ := f.ColumnByName("ownership")
	c := col.(*j.StringColumn)
	want := []string{"part ownership", "full ownership", "", "cooperative", "part ownership"}
	for i, w := range want {
		v, ok := c.Get(i)
		if i == 2 {
			if ok {
				t.Fatal("null should stay null")
			}
			continue
		}
		if v != w {
			t.Fatalf("row %d: got %q want %q", i, v, w)
		}
	}
}

func TestMapValuesMissingColumn(t *testing.T) {
	f := textFrame(map[string][]any{"x": {"a"}}, "x")
	_, err := (&MapValues{Column: "ownership"}).Apply(context.Background(), f)
	if !errors.Is(err, j.ErrMissingColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestEncodeDatasetWide(t *testing.T) {
	f := textFrame(map[string][]any{
		"hasElevator": {"yes", "no", nil},
		"hasBalcony":  {"no", "no", "yes"},
		"note":        {"yes", "maybe", "no"},
		"city":        {"a", "b", "c"},
	}, "hasElevator", "hasBalcony", "note", "city")
	if _, err := (&Encode{Map: YesNo}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}

	col, _ := f.ColumnByName("hasElevator")
	ic, ok := col.(*j.IntColumn)
	if !ok {
		t.Fatalf("expected int column, got %v", col.Kind())
	}
	if v, _ := ic.Get(0); v != 1 {
		t.Fatalf("yes -> %d", v)
	}
	if v, _ := ic.Get(1); v != 0 {
		t.Fatalf("no -> %d", v)
	}
	if !ic.IsNull(2) {
		t.Fatal("null should stay null")
	}

	col, _ = f.ColumnByName("note")
	sc, ok := col.(*j.StringColumn)
	if !ok {
		t.Fatal("mixed column should stay text")
	}
	for i, w := range []string{"1", "maybe", "0"} {
		if v, _ := sc.Get(i); v != w {
			t.Fatalf("note row %d: got %q want %q", i, v, w)
		}
	}

	col, _ = f.ColumnByName("city")
	if col.Kind() != j.KindString {
		t.Fatal("untouched column changed kind")
	}
}

func TestEncodeScoped(t *testing.T) {
	f := textFrame(map[string][]any{"a": {"yes"}, "b": {"yes"}}, "a", "b")
	if _, err := (&Encode{Map: YesNo, Columns: []string{"a"}}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	a, _ := f.ColumnByName("a")
	b, _ := f.ColumnByName("b")
	if a.Kind() != j.KindInt || b.Kind() != j.KindString {
		t.Fatalf("unexpected kinds a=%v b=%v", a.Kind(), b.Kind())
	}
}
