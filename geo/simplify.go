// Package geo turns raw boundary polygons into canvas-space region records:
// ring simplification, linear projection and label point placement.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultTolerance is the simplification tolerance in degrees.
const DefaultTolerance = 0.005

// Simplify reduces a ring with the Douglas-Peucker algorithm. Deviation is
// measured against the segment between the run's endpoints, not the infinite
// line, so a closed ring (first point == last point) measures distance to
// that shared point. A run whose largest deviation is within tolerance
// collapses to its two endpoints.
func Simplify(ring orb.Ring, tolerance float64) orb.Ring {
	if len(ring) <= 2 {
		return ring
	}
	keep := make([]bool, len(ring))
	keep[0] = true
	keep[len(ring)-1] = true
	douglasPeucker(ring, 0, len(ring)-1, tolerance, keep)

	out := make(orb.Ring, 0, len(ring))
	for i, p := range ring {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

func douglasPeucker(ring orb.Ring, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}
	maxDist, maxIdx := 0.0, first
	for i := first + 1; i < last; i++ {
		d := planar.DistanceFromSegment(ring[first], ring[last], ring[i])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance {
		return
	}
	keep[maxIdx] = true
	douglasPeucker(ring, first, maxIdx, tolerance, keep)
	douglasPeucker(ring, maxIdx, last, tolerance, keep)
}

// Projection maps (lon, lat) linearly from Bounds onto a Width x Height
// canvas with the y axis flipped so north is at the top.
type Projection struct {
	Bounds orb.Bound
	Width  float64
	Height float64
}

// DefaultProjection covers Bangladesh on a 500x700 canvas.
var DefaultProjection = Projection{
	Bounds: orb.Bound{Min: orb.Point{87.5, 20.3}, Max: orb.Point{93.0, 26.9}},
	Width:  500,
	Height: 700,
}

// Project converts a geographic point into canvas coordinates rounded to one
// decimal place.
func (p Projection) Project(pt orb.Point) orb.Point {
	spanX := p.Bounds.Max[0] - p.Bounds.Min[0]
	spanY := p.Bounds.Max[1] - p.Bounds.Min[1]
	if spanX == 0 || spanY == 0 {
		return orb.Point{}
	}
	x := (pt[0] - p.Bounds.Min[0]) / spanX * p.Width
	y := p.Height - (pt[1]-p.Bounds.Min[1])/spanY*p.Height
	return orb.Point{round1(x), round1(y)}
}

// ProjectRing simplifies a geographic ring, then projects it.
func (p Projection) ProjectRing(ring orb.Ring, tolerance float64) orb.Ring {
	simplified := Simplify(ring, tolerance)
	out := make(orb.Ring, len(simplified))
	for i, pt := range simplified {
		out[i] = p.Project(pt)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
