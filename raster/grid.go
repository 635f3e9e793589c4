package raster

// Grid is a dense, row-major 2-D array of cells. Width and Height define the
// dimensions and Data[Index(c)] holds the value at c. Area, when set, places
// the grid on the map; HasNoData/NoData carry an optional no-data marker that
// readers and writers preserve.
type Grid[T any] struct {
	Width, Height int
	Data          []T
	Area          Area
	NoData        T
	HasNoData     bool
}

// New allocates a zero-valued grid of the given size.
// Complexity: O(W×H).
func New[T any](width, height int) *Grid[T] {
	if width < 0 || height < 0 {
		panic("raster: negative grid dimensions")
	}

	return &Grid[T]{
		Width:  width,
		Height: height,
		Data:   make([]T, width*height),
		Area:   Area{Top: float64(height), CellSize: 1, Cols: width, Rows: height},
	}
}

// NewFromArea allocates a zero-valued grid covering area.
func NewFromArea[T any](area Area) *Grid[T] {
	g := New[T](area.Cols, area.Rows)
	g.Area = area

	return g
}

// Like allocates a zero-valued grid with the same dimensions and area as
// other, whatever its element type.
func Like[T, U any](other *Grid[U]) *Grid[T] {
	g := New[T](other.Width, other.Height)
	g.Area = other.Area

	return g
}

// FromRows builds a grid from a non-empty, rectangular slice of rows,
// values[row][col]. The input is copied.
// Returns ErrEmptyGrid or ErrNonRectangular on malformed input.
func FromRows[T any](values [][]T) (*Grid[T], error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for _, row := range values {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	g := New[T](w, h)
	for y := 0; y < h; y++ {
		copy(g.Data[y*w:(y+1)*w], values[y])
	}

	return g, nil
}

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return g.Width * g.Height }

// InBounds reports whether c lies within the grid.
// Complexity: O(1).
func (g *Grid[T]) InBounds(c Coord) bool {
	return c.Col >= 0 && c.Col < g.Width && c.Row >= 0 && c.Row < g.Height
}

// OnBorder reports whether c is an edge or corner cell.
func (g *Grid[T]) OnBorder(c Coord) bool {
	return c.Col == 0 || c.Row == 0 || c.Col == g.Width-1 || c.Row == g.Height-1
}

// Index maps c to its row-major position: Row*Width + Col.
// Complexity: O(1).
func (g *Grid[T]) Index(c Coord) int {
	return c.Row*g.Width + c.Col
}

// Coordinate converts a row-major index back to a Coord.
// Complexity: O(1).
func (g *Grid[T]) Coordinate(idx int) Coord {
	return Coord{Col: idx % g.Width, Row: idx / g.Width}
}

// At returns the value at c. c must be in bounds.
func (g *Grid[T]) At(c Coord) T { return g.Data[g.Index(c)] }

// Set stores v at c. c must be in bounds.
func (g *Grid[T]) Set(c Coord, v T) { g.Data[g.Index(c)] = v }

// Move returns c displaced by o, or c itself when the target falls outside
// the grid. A zero offset therefore never moves.
// Complexity: O(1).
func (g *Grid[T]) Move(c Coord, o Offset) Coord {
	n := c.Add(o)
	if !g.InBounds(n) {
		return c
	}

	return n
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// Clone returns a deep copy of g.
func (g *Grid[T]) Clone() *Grid[T] {
	out := *g
	out.Data = make([]T, len(g.Data))
	copy(out.Data, g.Data)

	return &out
}

// CopyFrom overwrites the cell values of g with those of src.
// Returns ErrDimensionMismatch if the shapes differ.
func (g *Grid[T]) CopyFrom(src *Grid[T]) error {
	if !SameShape(g, src) {
		return ErrDimensionMismatch
	}
	copy(g.Data, src.Data)

	return nil
}

// ToGeo returns the pixel-centre geocoordinate of c using the grid's Area.
func (g *Grid[T]) ToGeo(c Coord) Point { return g.Area.ToGeo(c) }

// SameShape reports whether a and b have identical dimensions.
func SameShape[T, U any](a *Grid[T], b *Grid[U]) bool {
	return a.Width == b.Width && a.Height == b.Height
}
