package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/transform/validate"
)

var baseColumns = []string{ID, City, Price, Condition, BuildingMaterial, Type, BuildYear, FloorCount, Floor, HasElevator, Ownership}

type row struct {
	vals []any // one per baseColumns entry
	dist []any // one per DistanceColumns entry, nil means all null
}

func build(t *testing.T, rows []row) *j.Frame {
	t.Helper()
	kinds := Kinds()
	var s j.Schema
	for _, c := range append(append([]string{}, baseColumns...), DistanceColumns...) {
		s.Columns = append(s.Columns, j.ColumnSchema{Name: c, Type: kinds[c], Nullable: true})
	}
	f := j.NewFrame(s)
	for i, r := range rows {
		f.AppendNullRow()
		for k, c := range baseColumns {
			if err := f.SetCell(i, c, r.vals[k]); err != nil {
				t.Fatal(err)
			}
		}
		for k, c := range DistanceColumns {
			var v any
			if r.dist != nil {
				v = r.dist[k]
			}
			if err := f.SetCell(i, c, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	return f
}

func all(v any) []any {
	out := make([]any, len(DistanceColumns))
	for i := range out {
		out[i] = v
	}
	return out
}

func sample(t *testing.T) *j.Frame {
	return build(t, []row{
		{[]any{"1", "Krakow", 600000.0, "premium", "brick", "blockOfFlats", 1990.0, int64(4), int64(2), "yes", "condominium"}, all(0.5)},
		{[]any{"2", "Krakow", 300000.0, "low", nil, nil, nil, nil, nil, nil, SharedOwnership}, []any{nil, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7}},
		{[]any{"3", "Krakow", 450000.0, nil, "brick", "apartmentBuilding", 2010.0, int64(10), nil, nil, "condominium"}, nil},
		{[]any{"1", "Krakow", 1.0, nil, nil, nil, nil, nil, nil, nil, nil}, nil},
		{[]any{"4", "Warsaw", 900000.0, nil, "panel", "blockOfFlats", nil, int64(6), int64(3), "no", "cooperative"}, []any{1.0, nil, nil, nil, nil, nil, nil}},
		{[]any{"5", "Warsaw", 800000.0, "premium", "concreteSlab", nil, nil, int64(3), int64(1), nil, SharedOwnership}, nil},
	})
}

func cell(f *j.Frame, name string, i int) string {
	col, ok := f.ColumnByName(name)
	if !ok {
		return "<no column>"
	}
	s, ok := j.Format(col, i)
	if !ok {
		return "<null>"
	}
	return s
}

func snapshot(f *j.Frame) [][]string {
	out := make([][]string, 0, f.Rows())
	for i := 0; i < f.Rows(); i++ {
		var r []string
		for _, col := range f.Columns() {
			r = append(r, col.Kind().String()+":"+cell(f, col.Name(), i))
		}
		out = append(out, r)
	}
	return out
}

func TestCleaningRun(t *testing.T) {
	convey.Convey("Given a listing export with gaps and a duplicate id", t, func() {
		f := sample(t)

		convey.Convey("Running the cleaning pipeline", func() {
			out, err := NewPipeline(Options{}).Run(context.Background(), f)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Duplicate ids are dropped, keeping the first", func() {
				convey.So(out.Rows(), convey.ShouldEqual, 5)
				convey.So(cell(out, Price, 0), convey.ShouldEqual, "600000")
				convey.So(cell(out, ID, 3), convey.ShouldEqual, "4")
			})

			convey.Convey("Conditions outside every band become medium", func() {
				convey.So(cell(out, Condition, 2), convey.ShouldEqual, Medium)
				convey.So(cell(out, Condition, 3), convey.ShouldEqual, Medium)
			})

			convey.Convey("Categorical gaps take the most frequent value", func() {
				convey.So(cell(out, BuildingMaterial, 1), convey.ShouldEqual, "brick")
				convey.So(cell(out, Type, 1), convey.ShouldEqual, "blockOfFlats")
				convey.So(cell(out, Type, 4), convey.ShouldEqual, "blockOfFlats")
			})

			convey.Convey("Build years use the city median and Warsaw keeps its residual", func() {
				convey.So(cell(out, BuildYear, 1), convey.ShouldEqual, "2000")
				convey.So(cell(out, BuildYear, 3), convey.ShouldEqual, "<null>")
			})

			convey.Convey("Floor counts and floors are integers", func() {
				// mean of 4, 10, 6, 3 is 5.75
				convey.So(cell(out, FloorCount, 1), convey.ShouldEqual, "6")
				convey.So(cell(out, Floor, 1), convey.ShouldEqual, "3")
				// no floors recorded for ten-storey buildings
				convey.So(cell(out, Floor, 2), convey.ShouldEqual, "2")
			})

			convey.Convey("Distances are cross-filled then averaged per city", func() {
				convey.So(cell(out, "schoolDistance", 1), convey.ShouldEqual, "0.7")
				convey.So(cell(out, "schoolDistance", 2), convey.ShouldEqual, "0.6")
				convey.So(cell(out, "schoolDistance", 4), convey.ShouldEqual, "1")
				convey.So(cell(out, "pharmacyDistance", 3), convey.ShouldEqual, "1")
			})

			convey.Convey("Elevators are encoded as numbers", func() {
				col, _ := out.ColumnByName(HasElevator)
				convey.So(col.Kind(), convey.ShouldEqual, j.KindInt)
				convey.So(cell(out, HasElevator, 0), convey.ShouldEqual, "1")
				convey.So(cell(out, HasElevator, 1), convey.ShouldEqual, "1")
				convey.So(cell(out, HasElevator, 3), convey.ShouldEqual, "0")
				convey.So(cell(out, HasElevator, 4), convey.ShouldEqual, "0")
			})

			convey.Convey("Ownership tokens are translated", func() {
				convey.So(cell(out, Ownership, 1), convey.ShouldEqual, PartOwnership)
				convey.So(cell(out, Ownership, 4), convey.ShouldEqual, PartOwnership)
				convey.So(cell(out, Ownership, 0), convey.ShouldEqual, "condominium")
				convey.So(cell(out, Ownership, 3), convey.ShouldEqual, "cooperative")
			})

			convey.Convey("The verifier accepts the result", func() {
				convey.So(Verifier{}.Verify(context.Background(), out), convey.ShouldBeNil)

				err := Verifier{Strict: true}.Verify(context.Background(), out)
				var ve *validate.Error
				convey.So(errors.As(err, &ve), convey.ShouldBeTrue)
				convey.So(ve.Column, convey.ShouldEqual, BuildYear)
				convey.So(ve.Rows, convey.ShouldEqual, 2)
			})

			convey.Convey("Running it again changes nothing", func() {
				before := snapshot(out)
				again, err := NewPipeline(Options{}).Run(context.Background(), out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(snapshot(again), convey.ShouldResemble, before)
			})
		})
	})
}

func TestWarsawConditionScenario(t *testing.T) {
	convey.Convey("Given three Warsaw listings with one missing condition", t, func() {
		f := build(t, []row{
			{[]any{"a", "Warsaw", 500000.0, nil, nil, nil, nil, nil, nil, nil, nil}, nil},
			{[]any{"b", "Warsaw", 800000.0, Premium, nil, nil, nil, nil, nil, nil, nil}, nil},
			{[]any{"c", "Warsaw", 200000.0, Low, nil, nil, nil, nil, nil, nil, nil}, nil},
		})
		out, err := NewPipeline(Options{}).Run(context.Background(), f)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("A price between the bands is medium", func() {
			convey.So(cell(out, Condition, 0), convey.ShouldEqual, Medium)
			convey.So(cell(out, Condition, 1), convey.ShouldEqual, Premium)
			convey.So(cell(out, Condition, 2), convey.ShouldEqual, Low)
		})
	})
}

func TestElevatorBoundary(t *testing.T) {
	f := build(t, []row{
		{[]any{"a", "Gdansk", 1.0, "low", "brick", "blockOfFlats", 2000.0, int64(5), int64(1), nil, "condominium"}, all(1.0)},
		{[]any{"b", "Gdansk", 1.0, "low", "brick", "blockOfFlats", 2000.0, int64(6), int64(1), nil, "condominium"}, all(1.0)},
	})
	out, err := NewPipeline(Options{}).Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if got := cell(out, HasElevator, 0); got != "0" {
		t.Fatalf("five floors: got %s want 0", got)
	}
	if got := cell(out, HasElevator, 1); got != "1" {
		t.Fatalf("six floors: got %s want 1", got)
	}
}

func TestModeFillIsBounded(t *testing.T) {
	f := sample(t)
	before := map[string]bool{}
	col, _ := f.ColumnByName(BuildingMaterial)
	keys, valid := j.Keys(col)
	for i, k := range keys {
		if valid[i] {
			before[k] = true
		}
	}
	out, err := NewPipeline(Options{}).Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ = out.ColumnByName(BuildingMaterial)
	keys, valid = j.Keys(col)
	for i, k := range keys {
		if !valid[i] || !before[k] {
			t.Fatalf("row %d: unexpected building material %q", i, k)
		}
	}
}

func TestMissingColumnSurfaces(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{{Name: ID, Type: j.KindString}, {Name: City, Type: j.KindString}}}
	f := j.NewFrame(s)
	f.AppendNullRow()
	_, err := NewPipeline(Options{}).Run(context.Background(), f)
	var mc *j.MissingColumnError
	if !errors.As(err, &mc) || mc.Column != Condition {
		t.Fatalf("expected missing condition column, got %v", err)
	}
}

func TestMalformedPriceSurfaces(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{
		{Name: City, Type: j.KindString},
		{Name: Condition, Type: j.KindString},
		{Name: Price, Type: j.KindString},
	}}
	f := j.NewFrame(s)
	f.AppendNullRow()
	_ = f.SetCell(0, City, "Lodz")
	_ = f.SetCell(0, Price, "call us")
	_, err := NewPipeline(Options{}).Run(context.Background(), f)
	if !errors.Is(err, j.ErrTypeConversion) {
		t.Fatalf("expected type conversion error, got %v", err)
	}
}

func TestScopedBooleanColumns(t *testing.T) {
	f := sample(t)
	out, err := NewPipeline(Options{BooleanColumns: []string{HasElevator}, ElevatorFloors: 100}).Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	// every building is below the limit now
	if got := cell(out, HasElevator, 2); got != "0" {
		t.Fatalf("got %s want 0", got)
	}
}
