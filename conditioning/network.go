package conditioning

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/hydrocarve/accum"
	"github.com/katalvlaran/hydrocarve/breach"
	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/flowdir"
	"github.com/katalvlaran/hydrocarve/linkedcells"
	"github.com/katalvlaran/hydrocarve/raster"
)

// Network is the set of grids derived from one elevation model and one list
// of culverts.
type Network struct {
	// Orig is the elevation every regeneration starts from.
	Orig *raster.Grid[float64]
	// DEM is the breached working copy.
	DEM      *raster.Grid[float64]
	Delta    *raster.Grid[uint32]
	FlowDirs *raster.Grid[raster.Offset]
	Carved   *raster.Grid[bool]
	Accum    *raster.Grid[uint32]
	Links    *linkedcells.Index

	logger *slog.Logger
}

// NewNetwork allocates the working grids for orig. Call Regenerate before
// reading any derived grid.
func NewNetwork(orig *raster.Grid[float64], logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Network{
		Orig:   orig,
		DEM:    orig.Clone(),
		Delta:  raster.Like[uint32](orig),
		logger: logger,
	}
}

// Regenerate rebuilds every derived grid for culverts.
//
// Steps:
//  1. Clear the delta grid and burn the culverts.
//  2. Reset the working DEM from Orig.
//  3. Breach with the culvert ends linked.
//  4. Complete directions by steepest descent, keeping carved cells and
//     culvert jumps.
//  5. Point the border outward.
//  6. Accumulate.
func (n *Network) Regenerate(culverts []culvert.Culvert) error {
	// 1) Delta grid.
	n.Delta.Fill(0)
	if err := culvert.Burn(n.Delta, culverts); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	n.Links = linkedcells.Build(n.Delta)

	// 2) Working DEM.
	if err := n.DEM.CopyFrom(n.Orig); err != nil {
		return err
	}

	// 3) Breach.
	res, err := breach.Breach(n.DEM, n.Links, breach.WithLogger(n.logger))
	if err != nil {
		return err
	}
	n.FlowDirs = res.FlowDirs
	n.Carved = res.Carved

	// 4) Complete.
	if _, err = flowdir.Complete(n.DEM, n.fixed(), n.FlowDirs); err != nil {
		return err
	}

	// 5) Border.
	flowdir.AssignBorderOutflow(n.FlowDirs)

	// 6) Accumulate.
	if n.Accum, err = accum.Accumulate(n.FlowDirs, accum.WithLogger(n.logger)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	n.logger.Debug("network regenerated",
		"culverts", len(culverts), "pits", res.Pits, "lowered", res.Lowered)

	return nil
}

// fixed marks the cells whose breach direction must survive completion:
// carved cells and cells draining through a culvert.
func (n *Network) fixed() *raster.Grid[bool] {
	fixed := n.Carved.Clone()
	for _, g := range n.Links.Groups() {
		for _, c := range g.Cells {
			d := n.FlowDirs.Move(c, n.FlowDirs.At(c))
			for _, o := range n.Links.Linked(c) {
				if o == d {
					fixed.Set(c, true)
					break
				}
			}
		}
	}

	return fixed
}
