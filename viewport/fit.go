package viewport

import (
	"math"

	"github.com/paulmach/orb"
)

// Fit is a camera move computed by PlanFit, to be applied later with Apply.
type Fit struct {
	Zoom float64
	PanX float64
	PanY float64
}

// PlanFit computes the zoom and pan that frame the bounding box of points
// (label points of a region subset). The zoom is bounded by FitMinZoom and
// FitMaxZoom as well as the viewport limits. It reports false while the
// viewport is unmeasured or when points is empty.
func (v *Viewport) PlanFit(points []orb.Point) (Fit, bool) {
	if !v.Measured() || len(points) == 0 {
		return Fit{}, false
	}
	b := orb.Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	center := b.Center()

	spanX := math.Max(v.cfg.FitMinSpan, b.Max[0]-b.Min[0])
	spanY := math.Max(v.cfg.FitMinSpan, b.Max[1]-b.Min[1])
	frameW := v.frame.Max[0] - v.frame.Min[0]
	frameH := v.frame.Max[1] - v.frame.Min[1]
	fitX := frameW / (spanX + v.cfg.FitPadX)
	fitY := frameH / (spanY + v.cfg.FitPadY)

	target := math.Min(v.cfg.MaxZoom, math.Min(fitX, fitY))
	target = clamp(target, v.cfg.FitMinZoom, v.cfg.FitMaxZoom)
	target = v.clampZoom(target)

	fc := v.frame.Center()
	return Fit{
		Zoom: target,
		PanX: -target * (center[0] - fc[0]) * v.scale,
		PanY: -target * (center[1] - fc[1]) * v.scale,
	}, true
}

// Apply moves the camera to a planned fit, clamping pan to the current
// container.
func (v *Viewport) Apply(f Fit) {
	v.zoom = v.clampZoom(f.Zoom)
	if v.zoom == 1 {
		v.panX, v.panY = 0, 0
		return
	}
	v.panX, v.panY = v.clampPan(f.PanX, f.PanY, v.zoom)
}
