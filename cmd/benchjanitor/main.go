package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/listing"
)

var (
	cities    = []string{"warszawa", "krakow", "gdansk", "wroclaw", "poznan", "lodz"}
	types     = []string{"blockOfFlats", "apartmentBuilding", "tenement"}
	materials = []string{"brick", "concreteSlab"}
	ownership = []string{"condominium", "cooperative", listing.SharedOwnership}
	yesNo     = []string{"yes", "no"}
)

type generator struct {
	missp float64
	dupp  float64
	rnd   *rand.Rand
}

func (g *generator) schema() j.Schema {
	names := []string{listing.ID, listing.City, listing.Price, listing.Condition, listing.BuildingMaterial,
		listing.Type, listing.BuildYear, listing.FloorCount, listing.Floor}
	names = append(names, listing.DistanceColumns...)
	names = append(names, listing.HasElevator, "hasBalcony", listing.Ownership)
	kinds := listing.Kinds()
	cols := make([]j.ColumnSchema, len(names))
	for i, n := range names {
		cols[i] = j.ColumnSchema{Name: n, Type: kinds[n], Nullable: true}
	}
	return j.Schema{Columns: cols}
}

func (g *generator) pick(vals []string) string { return vals[g.rnd.Intn(len(vals))] }

// frame builds n listings. Every column but id and city has cells left null
// with probability missp, and ids repeat with probability dupp.
func (g *generator) frame(n int) (*j.Frame, error) {
	f := j.NewFrame(g.schema())
	var last string
	for r := 0; r < n; r++ {
		f.AppendNullRow()
		id := uuid.NewString()
		if last != "" && g.rnd.Float64() < g.dupp {
			id = last
		}
		last = id
		floors := int64(1 + g.rnd.Intn(15))
		cells := map[string]any{
			listing.ID:               id,
			listing.City:             g.pick(cities),
			listing.Price:            float64(200_000 + g.rnd.Intn(1_800_000)),
			listing.Condition:        g.pick([]string{listing.Premium, listing.Low}),
			listing.BuildingMaterial: g.pick(materials),
			listing.Type:             g.pick(types),
			listing.BuildYear:        float64(1900 + g.rnd.Intn(124)),
			listing.FloorCount:       floors,
			listing.Floor:            int64(g.rnd.Intn(int(floors) + 1)),
			listing.HasElevator:      g.pick(yesNo),
			"hasBalcony":             g.pick(yesNo),
			listing.Ownership:        g.pick(ownership),
		}
		for _, c := range listing.DistanceColumns {
			cells[c] = g.rnd.Float64() * 5
		}
		for name, v := range cells {
			if name != listing.ID && name != listing.City && g.rnd.Float64() < g.missp {
				continue
			}
			if err := f.SetCell(r, name, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func main() {
	var (
		rows    = flag.Int("rows", 500_000, "listings to generate")
		missp   = flag.Float64("missing", 0.05, "probability of a missing value in each cell")
		dupp    = flag.Float64("duplicates", 0.01, "probability of a listing repeating the previous id")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	gen := &generator{missp: *missp, dupp: *dupp, rnd: rand.New(rand.NewSource(*seed))}
	f, err := gen.frame(*rows)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	p := listing.NewPipeline(listing.Options{})

	// Warm up
	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	out, err := p.Run(context.Background(), f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(*rows) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  *rows,
		"rows_out":              out.Rows(),
		"steps":                 p.Steps(),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"missing_prob":          *missp,
		"duplicate_prob":        *dupp,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d (%d after dedupe)\n", *rows, out.Rows())
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
