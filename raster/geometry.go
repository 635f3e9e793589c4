package raster

import "math"

// DistanceFromLine returns the perpendicular distance, in cells, from p to
// the infinite line through a and b. a and b must differ.
func DistanceFromLine(a, b, p Coord) float64 {
	x1, y1 := float64(a.Col), float64(a.Row)
	x2, y2 := float64(b.Col), float64(b.Row)
	x0, y0 := float64(p.Col), float64(p.Row)

	return math.Abs((y2-y1)*x0-(x2-x1)*y0+x2*y1-y2*x1) / math.Hypot(x2-x1, y2-y1)
}

// Distance returns the euclidean distance between two geographic points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// DistanceFromSegment returns the shortest distance from p to the segment
// [a, b]. A degenerate segment reduces to the point distance.
func DistanceFromSegment(a, b, p Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return Distance(a, p)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	switch {
	case t <= 0:
		return Distance(a, p)
	case t >= 1:
		return Distance(b, p)
	}

	return Distance(Point{X: a.X + t*abx, Y: a.Y + t*aby}, p)
}

// Line returns the 8-connected cells from a to b inclusive, in order, using
// Bresenham's algorithm.
func Line(a, b Coord) []Coord {
	dx := abs(b.Col - a.Col)
	dy := -abs(b.Row - a.Row)
	sx, sy := 1, 1
	if a.Col > b.Col {
		sx = -1
	}
	if a.Row > b.Row {
		sy = -1
	}

	out := make([]Coord, 0, max(dx, -dy)+1)
	c := a
	e := dx + dy
	for {
		out = append(out, c)
		if c == b {
			return out
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			c.Col += sx
		}
		if e2 <= dx {
			e += dx
			c.Row += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
