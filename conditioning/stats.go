package conditioning

import (
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hydrocarve/raster"
)

// ComputeCarvingStats compares the original and the final elevation. Only
// lowered cells are counted.
func ComputeCarvingStats(orig, final *raster.Grid[float64]) CarvingStats {
	var depths []float64
	for i, h := range orig.Data {
		if d := h - final.Data[i]; d > 0 {
			depths = append(depths, d)
		}
	}
	if len(depths) == 0 {
		return CarvingStats{}
	}
	total := floats.Sum(depths)

	return CarvingStats{
		Cells: len(depths),
		Total: total,
		Max:   floats.Max(depths),
		Mean:  total / float64(len(depths)),
	}
}
