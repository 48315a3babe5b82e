package listing

import (
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/transform/dedupe"
	"github.com/wdm0006/listingjanitor/pkg/transform/impute"
	"github.com/wdm0006/listingjanitor/pkg/transform/standardize"
)

// Options tunes the cleaning run.
type Options struct {
	// BooleanColumns limits yes/no encoding to these columns. Empty encodes
	// every text column, matching the historical exports.
	BooleanColumns []string
	// ElevatorFloors is the floor count above which a building is assumed to
	// have an elevator. Zero means 5.
	ElevatorFloors int
}

// NewPipeline returns the cleaning steps in their required order. Each step
// relies on the ones before it: floors are looked up by the imputed floor
// count, and elevators are inferred from it.
func NewPipeline(opt Options) *j.Pipeline {
	limit := opt.ElevatorFloors
	if limit == 0 {
		limit = 5
	}
	return j.NewPipeline().
		Add(&dedupe.Unique{Column: ID}).
		Add(&impute.Band{Column: Condition, Measure: Price, By: City, Labels: []string{Premium, Low}, Default: Medium}).
		Add(&impute.Mode{Column: BuildingMaterial}).
		Add(&impute.Mode{Column: Type}).
		Add(&impute.Median{Column: BuildYear, By: City}).
		Add(&impute.Mean{Column: FloorCount, Integer: true}).
		Add(&impute.GroupLookup{Column: Floor, By: FloorCount, Round: true}).
		Add(&impute.CrossFill{Columns: DistanceColumns, By: City}).
		Add(&impute.Threshold{Column: HasElevator, Source: FloorCount, Limit: float64(limit)}).
		Add(&standardize.Encode{Map: standardize.YesNo, Columns: opt.BooleanColumns}).
		Add(&standardize.MapValues{Column: Ownership, Map: map[string]string{SharedOwnership: PartOwnership}})
}
