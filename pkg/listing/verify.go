package listing

import (
	"context"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/transform/validate"
)

// Verifier checks a cleaned frame. Unless Strict, build years and distances
// may keep nulls for cities that had no values to impute from.
type Verifier struct {
	Strict bool
}

func (v Verifier) pipeline() *j.Pipeline {
	var tolerated []string
	if !v.Strict {
		tolerated = append([]string{BuildYear}, DistanceColumns...)
	}
	lo, hi := validate.Bounds(0, 1)
	return j.NewPipeline().
		Add(&validate.Unique{Column: ID}).
		Add(&validate.Complete{Columns: Covered(), Tolerated: tolerated}).
		Add(&validate.Range{Column: HasElevator, Min: lo, Max: hi}).
		Add(validate.NewNotIn(Ownership, SharedOwnership))
}

// Verify returns the first failed check.
func (v Verifier) Verify(ctx context.Context, f *j.Frame) error {
	_, err := v.pipeline().Run(ctx, f)
	return err
}
