package culvert

import (
	"fmt"

	"github.com/katalvlaran/hydrocarve/raster"
)

// Burn writes the id of every culvert into its sink and source cells. Later
// culverts overwrite earlier ones on shared cells. The grid is not cleared.
// A culvert end outside the grid is an invariant violation and is returned
// as an error wrapping raster.ErrOutsideArea.
func Burn(delta *raster.Grid[uint32], culverts []Culvert) error {
	for _, c := range culverts {
		sink, err := delta.Area.ToRaster(c.Sink)
		if err != nil {
			return fmt.Errorf("culvert: burn %d sink: %w", c.ID, err)
		}
		source, err := delta.Area.ToRaster(c.Source)
		if err != nil {
			return fmt.Errorf("culvert: burn %d source: %w", c.ID, err)
		}
		delta.Set(sink, c.ID)
		delta.Set(source, c.ID)
	}

	return nil
}

// Ends converts the culvert end points to cells of area.
func Ends(area raster.Area, c Culvert) (sink, source raster.Coord, err error) {
	if sink, err = area.ToRaster(c.Sink); err != nil {
		return sink, source, err
	}
	source, err = area.ToRaster(c.Source)

	return sink, source, err
}
