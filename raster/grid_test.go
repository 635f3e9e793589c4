package raster_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydrocarve/raster"
)

// TestFromRows_Errors verifies that FromRows rejects empty or ragged inputs.
func TestFromRows_Errors(t *testing.T) {
	cases := []struct {
		name string
		rows [][]float64
		err  error
	}{
		{"EmptyRows", [][]float64{}, raster.ErrEmptyGrid},
		{"EmptyCols", [][]float64{{}}, raster.ErrEmptyGrid},
		{"NonRectangular", [][]float64{{1, 2}, {3}}, raster.ErrNonRectangular},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := raster.FromRows(tc.rows)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

// TestFromRows_Layout checks row-major storage and copy semantics.
func TestFromRows_Layout(t *testing.T) {
	rows := [][]int{
		{1, 2, 3},
		{4, 5, 6},
	}
	g, err := raster.FromRows(rows)
	require.NoError(t, err)
	require.Equal(t, 3, g.Width)
	require.Equal(t, 2, g.Height)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, g.Data)

	rows[0][0] = 99
	assert.Equal(t, 1, g.At(raster.Coord{Col: 0, Row: 0}), "input must be copied")
	assert.Equal(t, 6, g.At(raster.Coord{Col: 2, Row: 1}))
}

// TestIndexCoordinateRoundTrip verifies Index and Coordinate are inverse.
func TestIndexCoordinateRoundTrip(t *testing.T) {
	g := raster.New[float64](7, 4)
	for i := 0; i < g.Len(); i++ {
		c := g.Coordinate(i)
		require.True(t, g.InBounds(c))
		require.Equal(t, i, g.Index(c))
	}
}

// TestMove_Total ensures moves off the grid are absorbed.
func TestMove_Total(t *testing.T) {
	g := raster.New[uint8](3, 3)
	corner := raster.Coord{Col: 0, Row: 0}
	center := raster.Coord{Col: 1, Row: 1}

	assert.Equal(t, corner, g.Move(corner, raster.Offset{DX: -1, DY: 0}))
	assert.Equal(t, corner, g.Move(corner, raster.Offset{DX: -1, DY: -1}))
	assert.Equal(t, corner, g.Move(corner, raster.Offset{}))
	assert.Equal(t, raster.Coord{Col: 2, Row: 2}, g.Move(center, raster.Offset{DX: 1, DY: 1}))
	assert.Equal(t, center, g.Move(center, raster.Offset{DX: 2, DY: 0}))
	assert.Equal(t, raster.Coord{Col: 2, Row: 0}, g.Move(corner, raster.Offset{DX: 2, DY: 0}))
}

// TestNeighbors_ScanOrder checks interior and corner neighbourhoods.
func TestNeighbors_ScanOrder(t *testing.T) {
	g := raster.New[uint8](3, 3)
	n := g.Neighbors(nil, raster.Coord{Col: 1, Row: 1})
	require.Len(t, n, 8)
	assert.Equal(t, raster.Coord{Col: 0, Row: 0}, n[0])
	assert.Equal(t, raster.Coord{Col: 2, Row: 2}, n[7])

	n = g.Neighbors(n[:0], raster.Coord{Col: 0, Row: 0})
	assert.Equal(t, []raster.Coord{{Col: 1, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: 1}}, n)
}

// TestCloneAndCopyFrom verifies deep copies and shape checks.
func TestCloneAndCopyFrom(t *testing.T) {
	g := raster.New[float64](2, 2)
	g.Fill(3)
	c := g.Clone()
	c.Set(raster.Coord{Col: 1, Row: 1}, 7)
	assert.Equal(t, 3.0, g.At(raster.Coord{Col: 1, Row: 1}))

	require.NoError(t, g.CopyFrom(c))
	assert.Equal(t, 7.0, g.At(raster.Coord{Col: 1, Row: 1}))
	require.ErrorIs(t, g.CopyFrom(raster.New[float64](3, 2)), raster.ErrDimensionMismatch)
}

// TestOffset covers the helper predicates.
func TestOffset(t *testing.T) {
	assert.True(t, raster.Offset{}.IsZero())
	assert.False(t, raster.Offset{}.IsUnit())
	assert.True(t, raster.Offset{DX: -1, DY: 1}.IsUnit())
	assert.False(t, raster.Offset{DX: 2, DY: 0}.IsUnit())
	assert.InDelta(t, math.Sqrt2, raster.Offset{DX: 1, DY: 1}.Length(), 1e-12)

	a := raster.Coord{Col: 4, Row: 2}
	b := raster.Coord{Col: 1, Row: 6}
	assert.Equal(t, 25, a.DistSq(b))
	assert.Equal(t, a, b.Add(a.Sub(b)))
	assert.True(t, raster.Coord{Col: 9, Row: 0}.Less(raster.Coord{Col: 0, Row: 1}))
}

// TestDownstream follows a stored direction and stops at the border.
func TestDownstream(t *testing.T) {
	fd := raster.New[raster.Offset](3, 1)
	fd.Set(raster.Coord{Col: 0, Row: 0}, raster.Offset{DX: 1})
	fd.Set(raster.Coord{Col: 2, Row: 0}, raster.Offset{DX: 1})

	assert.Equal(t, raster.Coord{Col: 1, Row: 0}, raster.Downstream(fd, raster.Coord{}))
	assert.True(t, raster.FlowsInto(fd, raster.Coord{}, raster.Coord{Col: 1, Row: 0}))
	assert.Equal(t, raster.Coord{Col: 2, Row: 0}, raster.Downstream(fd, raster.Coord{Col: 2, Row: 0}))
	assert.False(t, raster.FlowsInto(fd, raster.Coord{Col: 2, Row: 0}, raster.Coord{Col: 2, Row: 0}))
}
