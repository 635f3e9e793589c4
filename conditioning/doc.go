// Package conditioning runs the culvert placement loop over a DEM and a road
// raster and produces hydrologically conditioned outputs.
//
// A Network owns the working grids. Regenerate rebuilds them from the
// original elevation and the current culverts: the culverts are burned into
// the delta grid, the DEM is reset and breached with the culvert ends linked,
// the remaining directions are completed by steepest descent, border cells
// are pointed outward and flow accumulation is recomputed.
//
// Run drives a small state machine:
//
//	Iterating ──(nothing inserted, nothing deferred)──▶ Converged
//	    │                                                  │
//	    └──(MaxIterations reached)──────────────────────▶ Pruning
//	                                                       │
//	                                                  Finalizing ──▶ Done
//
// Each iteration regenerates the network, replaces expensive carvings with
// culverts and, once no carving is left to replace, places culverts at
// road/stream intersections. Pruning drops culverts that carry no water.
// Finalizing runs one more intersection pass with the flow-route heuristic
// and regenerates the outputs.
//
// The run is single-threaded. The context is checked between iterations.
package conditioning
