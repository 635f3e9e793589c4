package rasterio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/hydrocarve/raster"
)

// Sentinel errors for ASCII grids.
var (
	// ErrHeader indicates a missing or malformed header entry.
	ErrHeader = errors.New("rasterio: invalid ascii grid header")
	// ErrData indicates a malformed or missing cell value.
	ErrData = errors.New("rasterio: invalid ascii grid data")
)

// header is the parsed ESRI ASCII header.
type header struct {
	cols, rows int
	x, y       float64
	center     bool
	cellSize   float64
	noData     float64
	hasNoData  bool
}

func (h header) area() (raster.Area, error) {
	left, bottom := h.x, h.y
	if h.center {
		left -= h.cellSize / 2
		bottom -= h.cellSize / 2
	}

	return raster.NewArea(left, bottom+float64(h.rows)*h.cellSize, h.cellSize, h.cols, h.rows)
}

// Read parses an ASCII grid of float values.
func Read(r io.Reader) (*raster.Grid[float64], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<26)
	sc.Split(bufio.ScanWords)

	// 1) Header.
	h, first, err := readHeader(sc)
	if err != nil {
		return nil, err
	}
	area, err := h.area()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeader, err)
	}
	g := raster.NewFromArea[float64](area)
	g.NoData, g.HasNoData = h.noData, h.hasNoData

	// 2) Values. The first value was consumed while looking for more keys.
	for i := range g.Data {
		tok := first
		if i > 0 || tok == "" {
			if !sc.Scan() {
				return nil, fmt.Errorf("%w: expected %d values, got %d", ErrData, len(g.Data), i)
			}
			tok = sc.Text()
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %w", ErrData, i, err)
		}
		g.Data[i] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return g, nil
}

// readHeader consumes header pairs. It returns the first data token when
// the scanner had to read past the header to find it.
func readHeader(sc *bufio.Scanner) (header, string, error) {
	var h header
	seen := map[string]bool{}
	for sc.Scan() {
		key := strings.ToLower(sc.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			if err := h.check(seen); err != nil {
				return h, "", err
			}

			return h, key, nil
		}
		if !sc.Scan() {
			return h, "", fmt.Errorf("%w: %s has no value", ErrHeader, key)
		}
		val := sc.Text()
		if err := h.set(key, val); err != nil {
			return h, "", err
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return h, "", err
	}
	if err := h.check(seen); err != nil {
		return h, "", err
	}

	return h, "", nil
}

func (h *header) set(key, val string) error {
	var err error
	switch key {
	case "ncols":
		h.cols, err = strconv.Atoi(val)
	case "nrows":
		h.rows, err = strconv.Atoi(val)
	case "xllcorner":
		h.x, err = strconv.ParseFloat(val, 64)
	case "yllcorner":
		h.y, err = strconv.ParseFloat(val, 64)
	case "xllcenter":
		h.x, err = strconv.ParseFloat(val, 64)
		h.center = true
	case "yllcenter":
		h.y, err = strconv.ParseFloat(val, 64)
		h.center = true
	case "cellsize":
		h.cellSize, err = strconv.ParseFloat(val, 64)
	case "nodata_value":
		h.noData, err = strconv.ParseFloat(val, 64)
		h.hasNoData = true
	default:
		return fmt.Errorf("%w: unknown key %q", ErrHeader, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHeader, key, err)
	}

	return nil
}

func (h *header) check(seen map[string]bool) error {
	for _, k := range []string{"ncols", "nrows", "cellsize"} {
		if !seen[k] {
			return fmt.Errorf("%w: missing %s", ErrHeader, k)
		}
	}
	if !(seen["xllcorner"] || seen["xllcenter"]) || !(seen["yllcorner"] || seen["yllcenter"]) {
		return fmt.Errorf("%w: missing lower-left coordinate", ErrHeader)
	}

	return nil
}

// Write encodes g as an ASCII grid with the lower-left corner convention.
// Values use the shortest representation that reads back exactly.
func Write[T Number](w io.Writer, g *raster.Grid[T]) error {
	bw := bufio.NewWriter(w)
	a := g.Area
	fmt.Fprintf(bw, "ncols %d\nnrows %d\n", g.Width, g.Height)
	fmt.Fprintf(bw, "xllcorner %s\nyllcorner %s\ncellsize %s\n",
		formatFloat(a.Left), formatFloat(a.Bottom()), formatFloat(a.CellSize))
	if g.HasNoData {
		fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(float64(g.NoData)))
	}
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(float64(g.At(raster.Coord{Col: col, Row: row}))))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Number is the set of cell types Write accepts.
type Number interface {
	~float64 | ~float32 | ~uint32 | ~int32 | ~int
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ToUint32 converts a float grid to uint32 by rounding. Negative values and
// no-data cells become 0.
func ToUint32(g *raster.Grid[float64]) *raster.Grid[uint32] {
	out := raster.Like[uint32](g)
	for i, v := range g.Data {
		if (g.HasNoData && v == g.NoData) || v <= 0 || math.IsNaN(v) {
			continue
		}
		out.Data[i] = uint32(math.Round(v))
	}

	return out
}

// ReadFile reads the ASCII grid at path.
func ReadFile(path string) (*raster.Grid[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

// WriteFile writes g to path as an ASCII grid.
func WriteFile[T Number](path string, g *raster.Grid[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = Write(f, g); err != nil {
		f.Close()

		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
