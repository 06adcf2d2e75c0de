package region

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type shape struct {
	id     string
	rings  []orb.Ring
	bounds orb.Bound
}

// Index answers "which region is under this canvas point". Outlines are
// parsed once; a point is inside a region when an odd number of its rings
// contain it, so enclaves cut from a ring do not hit the surrounding region.
type Index struct {
	shapes  []shape
	content orb.Bound
	empty   bool
}

// NewIndex parses every region outline. Regions whose outline does not
// parse are left out.
func NewIndex(regions []Region) *Index {
	idx := &Index{empty: true}
	for _, r := range regions {
		rings, err := ParseOutline(r.Outline)
		if err != nil {
			continue
		}
		s := shape{id: r.ID(), rings: rings}
		first := true
		for _, ring := range rings {
			for _, p := range ring {
				if first {
					s.bounds = orb.Bound{Min: p, Max: p}
					first = false
					continue
				}
				s.bounds = s.bounds.Extend(p)
			}
		}
		if first {
			continue
		}
		if idx.empty {
			idx.content = s.bounds
			idx.empty = false
		} else {
			idx.content = idx.content.Union(s.bounds)
		}
		idx.shapes = append(idx.shapes, s)
	}
	return idx
}

// ContentBounds is the canvas-space bounding box of all outlines.
func (idx *Index) ContentBounds() (orb.Bound, bool) {
	return idx.content, !idx.empty
}

// Rings returns the parsed rings of a region.
func (idx *Index) Rings(id string) []orb.Ring {
	for _, s := range idx.shapes {
		if s.id == id {
			return s.rings
		}
	}
	return nil
}

// At returns the region containing the canvas point (x, y).
func (idx *Index) At(x, y float64) (string, bool) {
	p := orb.Point{x, y}
	for _, s := range idx.shapes {
		if !s.bounds.Contains(p) {
			continue
		}
		inside := false
		for _, ring := range s.rings {
			if planar.RingContains(ring, p) {
				inside = !inside
			}
		}
		if inside {
			return s.id, true
		}
	}
	return "", false
}
