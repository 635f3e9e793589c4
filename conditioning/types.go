package conditioning

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/placement"
	"github.com/katalvlaran/hydrocarve/raster"
)

// Sentinel errors for conditioning.
var (
	// ErrNilInput indicates a missing elevation or road grid.
	ErrNilInput = errors.New("conditioning: elevation and road grids are required")
	// ErrDimensionMismatch indicates the elevation and road grids differ in shape.
	ErrDimensionMismatch = errors.New("conditioning: grid dimensions differ")
	// ErrInvariant indicates an internal consistency failure. The run is aborted.
	ErrInvariant = errors.New("conditioning: internal invariant violated")
)

// State is a phase of Run.
type State int

const (
	Iterating State = iota
	Converged
	Pruning
	Finalizing
	Done
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Pruning:
		return "pruning"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Barrier raises the DEM along the segment From-To to at least Elevation.
// It blocks flow across lines the elevation model misses, such as a lake
// shore cut by the raster edge.
type Barrier struct {
	From, To  raster.Point
	Elevation float64
}

// Input holds the rasters of one run. Both grids must share the same shape
// and area. They are not modified.
type Input struct {
	// DEM is the original elevation.
	DEM *raster.Grid[float64]
	// Roads marks road cells with culvert.Road; every other value is
	// treated as off-road.
	Roads *raster.Grid[uint32]
	// Culverts are placed before the first iteration.
	Culverts []culvert.Culvert
}

// Params configures Run. Distances are in map units.
type Params struct {
	HaloWidth       float64
	RoadBufferWidth float64
	MinCarvingCost  float64
	MinHDiff        float64
	MinAccumulation uint32
	Limits          placement.Limits
	IgnoreSameIter  float64
	IgnoreOther     float64
	// MaxIterations caps the placement loop; 0 means unlimited.
	MaxIterations int
	Barriers      []Barrier
	// Logger receives state transitions and progress; nil discards.
	Logger *slog.Logger
}

func (p Params) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return p.Logger
}

// CarvingStats summarises how much the final DEM was lowered.
type CarvingStats struct {
	Cells int
	Total float64
	Max   float64
	Mean  float64
}

// Result holds the outputs of Run.
type Result struct {
	// DEM is the final carved elevation.
	DEM      *raster.Grid[float64]
	FlowDirs *raster.Grid[raster.Offset]
	Accum    *raster.Grid[uint32]
	// Delta holds the culvert ids burned into the final network.
	Delta *raster.Grid[uint32]
	// Roads is the road grid with buffer areas labelled.
	Roads *raster.Grid[uint32]
	// Culverts holds the surviving culverts; Props(id).Accumulation is the
	// accumulation observed at each sink.
	Culverts *culvert.Set
	// InsertArea is where culvert ends were allowed.
	InsertArea raster.Area

	Iterations int
	Inserted   int
	Pruned     int
	// Converged is false when MaxIterations stopped the loop.
	Converged bool
	Stats     CarvingStats
}
