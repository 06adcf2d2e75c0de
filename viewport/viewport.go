// Package viewport owns the camera of a map view: zoom level, pan offset and
// the measured ratio between rendered pixels and canvas units.
//
// Pixel coordinates handed to and returned by a Viewport are relative to
// the container centre. Canvas coordinates are in the fixed logical space
// of the region outlines. The two are related by
//
//	screen = scale*zoom*(canvas - frameCentre) + pan
//
// where frame is the canvas rectangle shown when unzoomed (the bounding box
// of the content) and scale fits that frame into the container.
package viewport

import (
	"math"

	"github.com/paulmach/orb"
)

// ButtonStep is the zoom delta applied by ZoomIn and ZoomOut.
const ButtonStep = 0.5

// Config holds the zoom limits and the fit parameters.
type Config struct {
	MinZoom float64
	MaxZoom float64

	// FitMinZoom and FitMaxZoom bound the zoom chosen by PlanFit regardless
	// of the subset's extent.
	FitMinZoom float64
	FitMaxZoom float64
	// FitPadX and FitPadY are canvas units added around the fitted subset.
	FitPadX float64
	FitPadY float64
	// FitMinSpan is the smallest extent, in canvas units, a subset is
	// treated as having.
	FitMinSpan float64
}

// DefaultConfig returns the limits used by the map view.
func DefaultConfig() Config {
	return Config{
		MinZoom:    1,
		MaxZoom:    5,
		FitMinZoom: 1.8,
		FitMaxZoom: 3.2,
		FitPadX:    80,
		FitPadY:    120,
		FitMinSpan: 30,
	}
}

// Viewport is the camera state of one map view. The zero value is not
// usable; create one with New.
type Viewport struct {
	cfg Config

	zoom       float64
	panX, panY float64

	width, height float64
	frame         orb.Bound
	hasFrame      bool
	scale         float64
}

// New returns an unzoomed, unmeasured viewport.
func New(cfg Config) *Viewport {
	if cfg.MaxZoom < cfg.MinZoom {
		cfg.MaxZoom = cfg.MinZoom
	}
	v := &Viewport{cfg: cfg}
	v.zoom = v.clampZoom(1)
	return v
}

// Config returns the viewport's limits.
func (v *Viewport) Config() Config { return v.cfg }

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the pan offset in pixels.
func (v *Viewport) Pan() (x, y float64) { return v.panX, v.panY }

// Scale returns the measured pixels-per-canvas-unit ratio, zero while the
// container has not been measured.
func (v *Viewport) Scale() float64 { return v.scale }

// Measured reports whether both the frame and the container size are known.
func (v *Viewport) Measured() bool { return v.scale > 0 }

// Size returns the container size in pixels.
func (v *Viewport) Size() (w, h float64) { return v.width, v.height }

// Frame returns the canvas rectangle shown at zoom 1.
func (v *Viewport) Frame() (orb.Bound, bool) { return v.frame, v.hasFrame }

// PanCanvas returns the pan offset converted to canvas units.
func (v *Viewport) PanCanvas() (x, y float64) {
	if !v.Measured() {
		return 0, 0
	}
	return v.panX / v.scale, v.panY / v.scale
}

// SetFrame sets the canvas rectangle rendered at zoom 1.
func (v *Viewport) SetFrame(b orb.Bound) {
	v.frame = b
	v.hasFrame = true
	v.measure()
}

// Resize records the container size in pixels and re-measures the scale.
// A zero or negative size leaves the viewport unmeasured; dependent
// computations wait for the next resize.
func (v *Viewport) Resize(w, h float64) {
	v.width, v.height = w, h
	v.measure()
	v.panX, v.panY = v.clampPan(v.panX, v.panY, v.zoom)
}

func (v *Viewport) measure() {
	v.scale = 0
	if !v.hasFrame || v.width <= 0 || v.height <= 0 {
		return
	}
	fw := v.frame.Max[0] - v.frame.Min[0]
	fh := v.frame.Max[1] - v.frame.Min[1]
	if fw <= 0 || fh <= 0 {
		return
	}
	v.scale = math.Min(v.width/fw, v.height/fh)
}

// MaxPan returns the largest allowed pan magnitude per axis at the current
// zoom.
func (v *Viewport) MaxPan() (x, y float64) {
	return v.maxPan(v.zoom)
}

func (v *Viewport) maxPan(z float64) (x, y float64) {
	x = math.Max(0, (v.width*z-v.width)/2)
	y = math.Max(0, (v.height*z-v.height)/2)
	return x, y
}

func (v *Viewport) clampPan(px, py, z float64) (float64, float64) {
	mx, my := v.maxPan(z)
	return clamp(px, -mx, mx), clamp(py, -my, my)
}

func (v *Viewport) clampZoom(z float64) float64 {
	return clamp(z, v.cfg.MinZoom, v.cfg.MaxZoom)
}

// ZoomBy changes the zoom by delta around the container centre.
func (v *Viewport) ZoomBy(delta float64) {
	v.zoomBy(delta, 0, 0, false)
}

// ZoomAt changes the zoom by delta keeping the content under (cx, cy) in
// place. The centre is in pixels relative to the container centre.
func (v *Viewport) ZoomAt(delta, cx, cy float64) {
	v.zoomBy(delta, cx, cy, true)
}

// ZoomIn zooms in one button step.
func (v *Viewport) ZoomIn() { v.ZoomBy(ButtonStep) }

// ZoomOut zooms out one button step.
func (v *Viewport) ZoomOut() { v.ZoomBy(-ButtonStep) }

func (v *Viewport) zoomBy(delta, cx, cy float64, anchored bool) {
	old := v.zoom
	next := v.clampZoom(old + delta)
	v.zoom = next
	if next == 1 {
		v.panX, v.panY = 0, 0
		return
	}
	px, py := v.panX, v.panY
	if anchored && old > 0 {
		k := next / old
		px = cx - (cx-px)*k
		py = cy - (cy-py)*k
	}
	v.panX, v.panY = v.clampPan(px, py, next)
}

// PanBy moves the content by a pixel delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.panX, v.panY = v.clampPan(v.panX+dx, v.panY+dy, v.zoom)
}

// Reset returns to zoom 1 with no pan.
func (v *Viewport) Reset() {
	v.zoom = v.clampZoom(1)
	v.panX, v.panY = 0, 0
}

// ToScreen converts a canvas point to pixels relative to the container
// centre. It reports false until the viewport is measured.
func (v *Viewport) ToScreen(p orb.Point) (x, y float64, ok bool) {
	if !v.Measured() {
		return 0, 0, false
	}
	c := v.frame.Center()
	k := v.scale * v.zoom
	return k*(p[0]-c[0]) + v.panX, k*(p[1]-c[1]) + v.panY, true
}

// ToCanvas converts pixels relative to the container centre into canvas
// coordinates.
func (v *Viewport) ToCanvas(x, y float64) (orb.Point, bool) {
	if !v.Measured() || v.zoom <= 0 {
		return orb.Point{}, false
	}
	c := v.frame.Center()
	k := v.scale * v.zoom
	return orb.Point{c[0] + (x-v.panX)/k, c[1] + (y-v.panY)/k}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
