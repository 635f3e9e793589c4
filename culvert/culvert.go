package culvert

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hydrocarve/raster"
)

// PendingAccumulation marks culvert metadata whose flow has not been observed yet.
const PendingAccumulation = math.MaxUint32

// Culvert is a sink-to-source drainage shortcut in map coordinates.
type Culvert struct {
	ID     uint32
	Sink   raster.Point
	Source raster.Point
}

// TwoWay reports whether water may pass in both directions. Always true.
func (c Culvert) TwoWay() bool { return true }

// Center returns the midpoint of the culvert.
func (c Culvert) Center() raster.Point { return raster.Midpoint(c.Sink, c.Source) }

// Length returns the distance between the two ends.
func (c Culvert) Length() float64 { return raster.Distance(c.Sink, c.Source) }

// String implements fmt.Stringer.
func (c Culvert) String() string {
	return fmt.Sprintf("culvert %d (%.2f,%.2f)->(%.2f,%.2f)", c.ID, c.Sink.X, c.Sink.Y, c.Source.X, c.Source.Y)
}

// Props is the reporting metadata kept for each culvert.
type Props struct {
	ID uint32
	// Accumulation observed at the active end, or PendingAccumulation.
	Accumulation uint32
}

// Set is the ordered list of culverts of one run plus their metadata and the
// next free id. Ids start at 1; 0 means "no culvert" in the delta grid.
type Set struct {
	culverts []Culvert
	props    map[uint32]Props
	nextID   uint32
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{props: make(map[uint32]Props), nextID: 1}
}

// NextID returns the id the next Add will assign.
func (s *Set) NextID() uint32 { return s.nextID }

// Add appends a culvert with the next free id and records pending metadata.
func (s *Set) Add(sink, source raster.Point) Culvert {
	c := Culvert{ID: s.nextID, Sink: sink, Source: source}
	s.nextID++
	s.culverts = append(s.culverts, c)
	s.props[c.ID] = Props{ID: c.ID, Accumulation: PendingAccumulation}

	return c
}

// Culverts returns the culverts in insertion order. The slice must not be
// modified.
func (s *Set) Culverts() []Culvert { return s.culverts }

// Len returns the number of culverts.
func (s *Set) Len() int { return len(s.culverts) }

// Contains reports whether a culvert joins a and b, in either direction.
func (s *Set) Contains(a, b raster.Point) bool {
	for _, c := range s.culverts {
		if (c.Sink == a && c.Source == b) || (c.Sink == b && c.Source == a) {
			return true
		}
	}

	return false
}

// Props returns the metadata for id.
func (s *Set) Props(id uint32) (Props, bool) {
	p, ok := s.props[id]

	return p, ok
}

// SetAccumulation records the observed accumulation for id.
func (s *Set) SetAccumulation(id uint32, acc uint32) {
	if p, ok := s.props[id]; ok {
		p.Accumulation = acc
		s.props[id] = p
	}
}

// Retain keeps the culverts for which keep returns true, preserving order,
// and returns how many were removed. Ids are never reused.
func (s *Set) Retain(keep func(Culvert) bool) int {
	kept := s.culverts[:0]
	removed := 0
	for _, c := range s.culverts {
		if keep(c) {
			kept = append(kept, c)
			continue
		}
		delete(s.props, c.ID)
		removed++
	}
	s.culverts = kept

	return removed
}
