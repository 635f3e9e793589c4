// Package rasterio reads and writes rasters in the ESRI ASCII grid format.
//
// A file starts with a header of key/value lines (ncols, nrows, xllcorner or
// xllcenter, yllcorner or yllcenter, cellsize and an optional NODATA_value)
// followed by nrows lines of ncols whitespace-separated values, top row
// first. Keys are case-insensitive.
//
// Flow directions are stored as EncodeFlowDirs codes: 0 for no direction,
// 1..8 for the D8 neighbours in raster.D8Offsets order and 255 for a jump
// through a culvert.
package rasterio
