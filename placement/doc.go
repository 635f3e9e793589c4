// Package placement finds where culverts can replace expensive carving.
//
// Three searches are provided, each reporting failure through a boolean
// rather than an error:
//
//   - FindExpensiveCarvings compares the original and the carved elevation
//     and returns every carved chain whose total lowering (cost), height
//     difference and length exceed the configured minimums.
//   - FindAlternativeRoute runs a bounded Dijkstra search from a chain's
//     upstream point through road-buffer cells, looking for a lower cell on
//     the far side of a road that is cheaper to reach than the carving.
//   - PitFillUpstream and AlongFlowRoute propose culverts where a stream
//     with enough accumulation meets a road.
//
// InsertAtExpensiveCarvings and InsertAtIntersections drive the searches,
// suppress candidates close to existing culverts, append accepted culverts to
// a culvert.Set and return a Report. Deciding whether the placement loop has
// converged is left to the caller.
//
// Distances given in map units (culvert lengths, suppression radii) are
// converted to cells with the raster's cell size.
package placement
