package culvert

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"github.com/katalvlaran/hydrocarve/raster"
)

// indexedCulvert stores a culvert as a line in the R-tree.
type indexedCulvert struct {
	geom.LineString
	culvert Culvert
}

// Proximity answers "is there a culvert near this point" queries.
type Proximity struct {
	tree *rtree.Rtree
	n    int
}

// NewProximity indexes culverts.
func NewProximity(culverts []Culvert) *Proximity {
	p := &Proximity{tree: rtree.NewTree(25, 50)}
	for _, c := range culverts {
		p.Insert(c)
	}

	return p
}

// Insert adds c to the index.
func (p *Proximity) Insert(c Culvert) {
	p.tree.Insert(&indexedCulvert{
		LineString: geom.LineString{c.Sink, c.Source},
		culvert:    c,
	})
	p.n++
}

// Len returns the number of indexed culverts.
func (p *Proximity) Len() int { return p.n }

// candidates returns the culverts whose bounding boxes intersect the square
// of half-width r around pt.
func (p *Proximity) candidates(pt raster.Point, r float64) []Culvert {
	if p.n == 0 {
		return nil
	}
	b := &geom.Bounds{
		Min: geom.Point{X: pt.X - r, Y: pt.Y - r},
		Max: geom.Point{X: pt.X + r, Y: pt.Y + r},
	}
	var out []Culvert
	for _, g := range p.tree.SearchIntersect(b) {
		out = append(out, g.(*indexedCulvert).culvert)
	}

	return out
}

// NearSegment reports whether any culvert segment passes closer than r to pt.
func (p *Proximity) NearSegment(pt raster.Point, r float64) bool {
	for _, c := range p.candidates(pt, r) {
		if raster.DistanceFromSegment(c.Sink, c.Source, pt) < r {
			return true
		}
	}

	return false
}

// NearCenter reports whether any culvert centre lies closer than r to pt.
func (p *Proximity) NearCenter(pt raster.Point, r float64) bool {
	for _, c := range p.candidates(pt, r) {
		if raster.Distance(c.Center(), pt) < r {
			return true
		}
	}

	return false
}
