// Package culvert models culverts, the drainage shortcuts under roads, and
// the road classification raster they are placed against.
//
// A Culvert joins a sink cell (where water enters) to a source cell (where it
// leaves). Culverts are two-way: the breaching engine treats both ends as
// neighbours. Burn writes every culvert's id into the delta grid, from which
// linkedcells builds the link index.
//
// The road raster uses small integer categories: None (0), Road (1), Buffer
// (2) and, after FillAreasWithUniqueID, one id per connected buffer region
// starting at FirstArea (3).
//
// Proximity indexes culvert segments in an R-tree so that placement can
// reject candidates too close to an existing culvert.
package culvert
