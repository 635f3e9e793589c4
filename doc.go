// Package hydrocarve conditions a digital elevation model (DEM) so that
// water can flow across road embankments the way it does in reality:
// through culverts.
//
// What is hydrocarve?
//
//	A pure-Go toolkit that turns a DEM plus a road raster into a
//	hydrologically connected surface:
//		• Priority-flood breaching with culvert links as extra neighbours
//		• D8 flow-direction completion with border outflow
//		• Flow accumulation over a DAG (cycle checked)
//		• Culvert placement at expensive carvings and at flow/road crossings
//		• An iterate / prune / finalise loop that converges on a culvert set
//		• ESRI ASCII raster and shapefile output
//
// Packages:
//
//	raster/       generic Grid[T], Area geotransform, D8 and scan offsets
//	linkedcells/  culvert end pairs as extra grid neighbours
//	breach/       priority-flood depression breaching
//	flowdir/      flow-direction completion and border outflow
//	accum/        flow accumulation (Kahn order)
//	culvert/      culvert set, road buffers, delta burning, R-tree proximity
//	placement/    expensive-carving and intersection heuristics
//	conditioning/ the iteration state machine tying it all together
//	rasterio/     ESRI ASCII grid reading and writing
//	vector/       stream extraction and shapefile export
//	config/       YAML and HCL run settings
//
// Quick ASCII example (row through a road at column 4):
//
//	before:  10  6  4  6 [8]  3  2  1  0
//	         pit at 4 cannot drain east without cutting the road
//	after:   culvert (2,1) → (5,1); the road keeps its elevation
//
// The command in cmd/hydrocarve wires the packages into a CLI:
//
//	hydrocarve --dem dem.asc --roads roads.asc --road-buffer 10 --out result/
package hydrocarve
