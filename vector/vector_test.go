package vector_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	goshp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/raster"
	"github.com/katalvlaran/hydrocarve/vector"
)

func at(col, row int) raster.Coord { return raster.Coord{Col: col, Row: row} }

// channel is a 5×3 grid whose middle row drains east with accumulation
// 1..5.
func channel() (*raster.Grid[uint32], *raster.Grid[raster.Offset]) {
	acc := raster.New[uint32](5, 3)
	acc.Fill(1)
	fd := raster.New[raster.Offset](5, 3)
	for col := 0; col < 5; col++ {
		acc.Set(at(col, 1), uint32(col+1))
		fd.Set(at(col, 1), raster.Offset{DX: 1})
	}

	return acc, fd
}

func TestStreams(t *testing.T) {
	acc, fd := channel()

	got := vector.Streams(acc, fd, nil, 2)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(2), got[0].Accumulation)
	assert.Equal(t, geom.LineString{{X: 1.5, Y: 1.5}, {X: 4.5, Y: 1.5}}, got[0].Line)
}

func TestStreams_CulvertSplits(t *testing.T) {
	acc, fd := channel()
	delta := raster.Like[uint32](acc)
	delta.Set(at(3, 1), 7)

	got := vector.Streams(acc, fd, delta, 2)
	require.Len(t, got, 2)
	assert.Equal(t, geom.LineString{{X: 1.5, Y: 1.5}, {X: 3.5, Y: 1.5}}, got[0].Line)
	assert.Equal(t, geom.LineString{{X: 3.5, Y: 1.5}, {X: 4.5, Y: 1.5}}, got[1].Line)
	assert.Equal(t, uint32(4), got[1].Accumulation)
}

func TestStreams_BelowThreshold(t *testing.T) {
	acc, fd := channel()
	assert.Empty(t, vector.Streams(acc, fd, nil, 10))
}

func TestSimplify(t *testing.T) {
	line := []raster.Coord{at(0, 0), at(1, 0), at(2, 0), at(3, 0), at(3, 1), at(3, 2), at(3, 3)}

	assert.Equal(t, []raster.Coord{at(0, 0), at(3, 0), at(3, 3)}, vector.Simplify(line, 0.5))
	assert.Equal(t, []raster.Coord{at(0, 0), at(3, 3)}, vector.Simplify(line, 3))
	assert.Equal(t, []raster.Coord{at(1, 1)}, vector.Simplify([]raster.Coord{at(1, 1)}, 1))
}

func readShapes(t *testing.T, path string) ([]*goshp.PolyLine, [][]string) {
	t.Helper()
	r, err := goshp.Open(path)
	require.NoError(t, err)
	defer r.Close()

	var (
		lines []*goshp.PolyLine
		attrs [][]string
	)
	nf := len(r.Fields())
	for r.Next() {
		n, s := r.Shape()
		pl, ok := s.(*goshp.PolyLine)
		require.True(t, ok, "shape %d is %T", n, s)
		lines = append(lines, pl)
		row := make([]string, nf)
		for k := range row {
			row[k] = strings.TrimSpace(r.ReadAttribute(n, k))
		}
		attrs = append(attrs, row)
	}

	return lines, attrs
}

func TestWriteCulverts(t *testing.T) {
	set := culvert.NewSet()
	a := set.Add(raster.Point{X: 1, Y: 2}, raster.Point{X: 5, Y: 2})
	set.Add(raster.Point{X: 3, Y: 3}, raster.Point{X: 3, Y: 8})
	set.SetAccumulation(a.ID, 42)

	path := filepath.Join(t.TempDir(), "culverts.shp")
	require.NoError(t, vector.WriteCulverts(path, set))

	lines, attrs := readShapes(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, [][]string{{"1", "42"}, {"2", "0"}}, attrs)
	require.Len(t, lines[0].Points, 2)
	assert.Equal(t, goshp.Point{X: 1, Y: 2}, lines[0].Points[0])
	assert.Equal(t, goshp.Point{X: 5, Y: 2}, lines[0].Points[1])
}

func TestWriteStreams(t *testing.T) {
	acc, fd := channel()
	path := filepath.Join(t.TempDir(), "streams.shp")
	require.NoError(t, vector.WriteStreams(path, vector.Streams(acc, fd, nil, 2)))

	lines, attrs := readShapes(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, [][]string{{"2"}}, attrs)
	assert.Len(t, lines[0].Points, 2)
}

func TestWriteCulverts_Replace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "culverts.shp")
	set := culvert.NewSet()
	set.Add(raster.Point{X: 1, Y: 2}, raster.Point{X: 5, Y: 2})
	require.NoError(t, vector.WriteCulverts(path, set))

	set.Add(raster.Point{X: 3, Y: 3}, raster.Point{X: 3, Y: 8})
	require.NoError(t, vector.WriteCulverts(path, set))
	lines, _ := readShapes(t, path)
	assert.Len(t, lines, 2, "the previous file is replaced, not appended to")
}

func TestWriteStreams_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streams.shp")
	require.NoError(t, vector.WriteStreams(path, nil))
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		assert.FileExists(t, strings.TrimSuffix(path, ".shp")+ext)
	}
}

func TestWriteCulverts_Unremovable(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory in place of the attribute file cannot be removed.
	blocker := filepath.Join(dir, "culverts.dbf")
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0o755))

	err := vector.WriteCulverts(filepath.Join(dir, "culverts.shp"), culvert.NewSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replacing")
}
