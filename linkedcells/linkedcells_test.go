package linkedcells_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydrocarve/linkedcells"
	"github.com/katalvlaran/hydrocarve/raster"
)

func TestBuild_GroupsByID(t *testing.T) {
	delta, err := raster.FromRows([][]uint32{
		{0, 7, 0, 0},
		{3, 0, 0, 7},
		{0, 0, 3, 5},
	})
	require.NoError(t, err)

	idx := linkedcells.Build(delta)
	require.Equal(t, 3, idx.Len())

	groups := idx.Groups()
	assert.Equal(t, uint32(3), groups[0].ID)
	assert.Equal(t, uint32(5), groups[1].ID)
	assert.Equal(t, uint32(7), groups[2].ID)
	assert.Equal(t, []raster.Coord{{Col: 1, Row: 0}, {Col: 3, Row: 1}}, groups[2].Cells)

	assert.Equal(t, []raster.Coord{{Col: 2, Row: 2}}, idx.Linked(raster.Coord{Col: 0, Row: 1}))
	assert.Equal(t, []raster.Coord{{Col: 1, Row: 0}}, idx.Linked(raster.Coord{Col: 3, Row: 1}))
	assert.Nil(t, idx.Linked(raster.Coord{Col: 3, Row: 2}), "a lone cell has no partner")
	assert.Nil(t, idx.Linked(raster.Coord{Col: 0, Row: 0}))
}

func TestBuild_Empty(t *testing.T) {
	idx := linkedcells.Build(raster.New[uint32](3, 3))
	assert.Zero(t, idx.Len())
	assert.Nil(t, idx.Linked(raster.Coord{}))

	var nilIdx *linkedcells.Index
	assert.Nil(t, nilIdx.Groups())
	assert.Nil(t, nilIdx.Linked(raster.Coord{}))
}

func TestLevel(t *testing.T) {
	delta, err := raster.FromRows([][]uint32{
		{1, 0, 1},
		{0, 0, 0},
		{2, 0, 2},
	})
	require.NoError(t, err)
	dem, err := raster.FromRows([][]float64{
		{4, 9, 6},
		{9, 9, 9},
		{1, 9, 3},
	})
	require.NoError(t, err)

	linkedcells.Build(delta).Level(dem)
	assert.Equal(t, []float64{4, 9, 4, 9, 9, 9, 1, 9, 1}, dem.Data)
}
