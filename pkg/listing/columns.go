// Package listing wires the generic frame transforms into the cleaning run for
// real-estate listing exports.
package listing

import j "github.com/wdm0006/listingjanitor/pkg/janitor"

const (
	ID               = "id"
	City             = "city"
	Price            = "price"
	Condition        = "condition"
	BuildingMaterial = "buildingMaterial"
	Type             = "type"
	BuildYear        = "buildYear"
	FloorCount       = "floorCount"
	Floor            = "floor"
	HasElevator      = "hasElevator"
	Ownership        = "ownership"
)

// Condition labels.
const (
	Premium = "premium"
	Medium  = "medium"
	Low     = "low"
)

const (
	// SharedOwnership is the raw export token for part ownership.
	SharedOwnership = "udział"
	PartOwnership   = "part ownership"
)

// DistanceColumns is the order in which distance columns are cross-filled.
// Later columns can pick up values copied into earlier ones, so changing it
// changes results.
var DistanceColumns = []string{
	"schoolDistance",
	"clinicDistance",
	"postOfficeDistance",
	"kindergartenDistance",
	"restaurantDistance",
	"collegeDistance",
	"pharmacyDistance",
}

// Covered lists the columns the cleaning run leaves without nulls.
func Covered() []string {
	out := []string{Condition, BuildingMaterial, Type, BuildYear, FloorCount, Floor}
	out = append(out, DistanceColumns...)
	return append(out, HasElevator)
}

// Kinds returns the column kinds of the export format. CSV readers apply them
// on top of inference so that a column holding only integers in one file and
// decimals in another loads the same way.
func Kinds() map[string]j.Kind {
	k := map[string]j.Kind{
		ID:                j.KindString,
		City:              j.KindString,
		Type:              j.KindString,
		Ownership:         j.KindString,
		BuildingMaterial:  j.KindString,
		Condition:         j.KindString,
		"hasParkingSpace": j.KindString,
		"hasBalcony":      j.KindString,
		HasElevator:       j.KindString,
		"hasSecurity":     j.KindString,
		"hasStorageRoom":  j.KindString,

		Price:            j.KindFloat,
		"squareMeters":   j.KindFloat,
		"latitude":       j.KindFloat,
		"longitude":      j.KindFloat,
		"centreDistance": j.KindFloat,
		BuildYear:        j.KindFloat,

		"rooms":    j.KindInt,
		Floor:      j.KindInt,
		FloorCount: j.KindInt,
		"poiCount": j.KindInt,
	}
	for _, c := range DistanceColumns {
		k[c] = j.KindFloat
	}
	return k
}
