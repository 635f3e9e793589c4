package flowdir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydrocarve/flowdir"
	"github.com/katalvlaran/hydrocarve/raster"
)

func TestSteepest(t *testing.T) {
	dem, err := raster.FromRows([][]float64{
		{5, 5, 5},
		{5, 5, 3},
		{5, 5, 2.5},
	})
	require.NoError(t, err)
	c := raster.Coord{Col: 1, Row: 1}

	// E drops 2 over 1, SE drops 2.5 over √2 ≈ 1.77.
	o, ok := flowdir.Steepest(dem, c)
	require.True(t, ok)
	assert.Equal(t, raster.Offset{DX: 1, DY: 0}, o)

	_, ok = flowdir.Steepest(dem, raster.Coord{Col: 2, Row: 2})
	assert.False(t, ok, "lowest cell has no descent")
}

func TestSteepest_TieKeepsFirstInD8Order(t *testing.T) {
	dem, err := raster.FromRows([][]float64{
		{9, 4, 9},
		{4, 9, 9},
		{9, 9, 9},
	})
	require.NoError(t, err)

	o, ok := flowdir.Steepest(dem, raster.Coord{Col: 1, Row: 1})
	require.True(t, ok)
	assert.Equal(t, raster.Offset{DX: 0, DY: -1}, o, "N precedes W")
}

func TestComplete_RespectsFixed(t *testing.T) {
	dem, err := raster.FromRows([][]float64{
		{3, 2, 1},
		{3, 2, 1},
	})
	require.NoError(t, err)
	fixed := raster.Like[bool](dem)
	fixed.Set(raster.Coord{Col: 1, Row: 0}, true)
	fd := raster.Like[raster.Offset](dem)
	keep := raster.Offset{DX: -1, DY: 0}
	fd.Set(raster.Coord{Col: 1, Row: 0}, keep)
	fd.Set(raster.Coord{Col: 2, Row: 1}, keep)

	n, err := flowdir.Complete(dem, fixed, fd)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, keep, fd.At(raster.Coord{Col: 1, Row: 0}), "fixed cell untouched")
	assert.Equal(t, raster.Offset{DX: 1, DY: 0}, fd.At(raster.Coord{Col: 0, Row: 0}))
	assert.Equal(t, keep, fd.At(raster.Coord{Col: 2, Row: 1}), "no descent keeps the old direction")
	assert.Equal(t, []float64{3, 2, 1, 3, 2, 1}, dem.Data)

	_, err = flowdir.Complete(dem, nil, raster.New[raster.Offset](1, 1))
	require.ErrorIs(t, err, flowdir.ErrDimensionMismatch)
}

func TestAssignBorderOutflow(t *testing.T) {
	fd := raster.New[raster.Offset](4, 3)
	flowdir.AssignBorderOutflow(fd)

	want := map[raster.Coord]raster.Offset{
		{Col: 0, Row: 0}: {DX: -1, DY: -1},
		{Col: 3, Row: 0}: {DX: 1, DY: -1},
		{Col: 0, Row: 2}: {DX: -1, DY: 1},
		{Col: 3, Row: 2}: {DX: 1, DY: 1},
		{Col: 1, Row: 0}: {DY: -1},
		{Col: 2, Row: 2}: {DY: 1},
		{Col: 0, Row: 1}: {DX: -1},
		{Col: 3, Row: 1}: {DX: 1},
		{Col: 1, Row: 1}: {},
		{Col: 2, Row: 1}: {},
	}
	for c, o := range want {
		assert.Equal(t, o, fd.At(c), "cell %v", c)
	}
	for i := range fd.Data {
		c := fd.Coordinate(i)
		if fd.OnBorder(c) {
			assert.Equal(t, c, raster.Downstream(fd, c), "border cell %v must leave the grid", c)
		}
	}
}
