// Package gesture turns raw mouse and touch events into map actions:
// selecting a region, panning, zooming and hovering.
//
// A Coordinator is a small state machine. Each pointer sequence ends in at
// most one Select; pans and pinches arm a short suppression latch so the
// pointer-up that ends them is never read as a click.
package gesture

import (
	"math"
	"time"
)

// Source tells mouse input apart from touch input.
type Source int

const (
	Mouse Source = iota
	Touch
)

// Kind is the type of a raw input event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Cancel
	Wheel
	Leave
)

// Point is a position in pixels relative to the container centre.
type Point struct {
	X, Y float64
}

func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Event is one raw input event, delivered in order.
type Event struct {
	Kind   Kind
	Source Source
	// Touches holds the touch points still active after the event.
	Touches []Point
	// At is the pointer position, or the changed touch for touch events.
	At Point
	// Region is the hit-tested region under At, empty when none.
	Region string
	// Wheel is positive to zoom in and negative to zoom out.
	Wheel float64
	Time  time.Time
}

// ActionKind is the type of an action produced by the coordinator.
type ActionKind int

const (
	Select ActionKind = iota
	Pan
	Zoom
	Hover
)

func (k ActionKind) String() string {
	switch k {
	case Select:
		return "select"
	case Pan:
		return "pan"
	case Zoom:
		return "zoom"
	case Hover:
		return "hover"
	}
	return "unknown"
}

// Action is what the host applies to the viewport or forwards to the quiz.
type Action struct {
	Kind   ActionKind
	Region string // Select and Hover; empty Hover clears the hover
	DX, DY float64
	Delta  float64
	Center Point
}

// Config holds the gesture thresholds.
type Config struct {
	// PanThreshold is how far a single touch must travel before it commits
	// to panning.
	PanThreshold float64
	// ClickThreshold is the largest movement still treated as a click.
	ClickThreshold float64
	// Suppress is how long clicks are ignored after a pan or pinch.
	Suppress time.Duration
	// PinchGain converts inter-touch distance change to zoom delta, which
	// is then clamped to ±PinchMaxStep per event.
	PinchGain    float64
	PinchMaxStep float64
	WheelStep    float64
}

// DefaultConfig returns the thresholds used by the map view.
func DefaultConfig() Config {
	return Config{
		PanThreshold:   6,
		ClickThreshold: 4,
		Suppress:       280 * time.Millisecond,
		PinchGain:      0.01,
		PinchMaxStep:   0.35,
		WheelStep:      0.3,
	}
}
