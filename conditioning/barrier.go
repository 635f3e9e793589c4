package conditioning

import (
	"fmt"

	"github.com/katalvlaran/hydrocarve/raster"
)

// ApplyBarriers raises dem to at least each barrier's elevation along the
// cells of its segment. A barrier end outside the grid is an error wrapping
// raster.ErrOutsideArea.
func ApplyBarriers(dem *raster.Grid[float64], barriers []Barrier) error {
	for i, b := range barriers {
		from, err := dem.Area.ToRaster(b.From)
		if err != nil {
			return fmt.Errorf("conditioning: barrier %d: %w", i, err)
		}
		to, err := dem.Area.ToRaster(b.To)
		if err != nil {
			return fmt.Errorf("conditioning: barrier %d: %w", i, err)
		}
		for _, c := range raster.Line(from, to) {
			dem.Set(c, max(dem.At(c), b.Elevation))
		}
	}

	return nil
}
