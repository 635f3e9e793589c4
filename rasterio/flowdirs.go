package rasterio

import "github.com/katalvlaran/hydrocarve/raster"

// JumpCode marks a direction through a culvert.
const JumpCode uint32 = 255

// EncodeFlowDirs converts offsets to codes: 0 for the zero offset, 1 plus the
// raster.D8Offsets index for unit offsets and JumpCode otherwise.
func EncodeFlowDirs(fd *raster.Grid[raster.Offset]) *raster.Grid[uint32] {
	out := raster.Like[uint32](fd)
	for i, o := range fd.Data {
		out.Data[i] = encode(o)
	}

	return out
}

func encode(o raster.Offset) uint32 {
	if o.IsZero() {
		return 0
	}
	for k, d := range raster.D8Offsets {
		if d == o {
			return uint32(k + 1)
		}
	}

	return JumpCode
}
