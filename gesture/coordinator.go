package gesture

import (
	"math"
	"time"
)

// State is the coordinator's current gesture.
type State int

const (
	Idle State = iota
	TapCandidate
	PanningTouch
	Pinching
	PanningMouse
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TapCandidate:
		return "tap-candidate"
	case PanningTouch:
		return "panning-touch"
	case Pinching:
		return "pinching"
	case PanningMouse:
		return "panning-mouse"
	}
	return "unknown"
}

// trigger is a classified input driving a state transition.
type trigger int

const (
	touchOne  trigger = iota // first touch lands
	touchTwo                 // a second touch lands
	mouseDown                // mouse press at zoom 1
	mouseGrab                // mouse press while zoomed in
	commit                   // a touch moved past the pan threshold
	dropToOne                // one touch of a pinch lifted
	release                  // every pointer is up
	cancel                   // the system cancelled the gesture
)

// transitions lists every legal state change. Triggers missing from a
// state's row are ignored.
var transitions = map[State]map[trigger]State{
	Idle: {
		touchOne:  TapCandidate,
		touchTwo:  Pinching,
		mouseDown: TapCandidate,
		mouseGrab: PanningMouse,
		release:   Idle,
		cancel:    Idle,
	},
	TapCandidate: {
		touchTwo: Pinching,
		commit:   PanningTouch,
		release:  Idle,
		cancel:   Idle,
	},
	PanningTouch: {
		touchTwo: Pinching,
		release:  Idle,
		cancel:   Idle,
	},
	Pinching: {
		touchTwo:  Pinching,
		dropToOne: PanningTouch,
		release:   Idle,
		cancel:    Idle,
	},
	PanningMouse: {
		release: Idle,
		cancel:  Idle,
	},
}

// Coordinator interprets one view's input stream. It is not safe for
// concurrent use; events must be handled in delivery order.
type Coordinator struct {
	cfg   Config
	state State

	source    Source
	start     Point
	last      Point
	moved     float64
	candidate string
	pinchDist float64
	hasPinch  bool

	hovered       string
	suppressUntil time.Time
}

// New returns an idle coordinator.
func New(cfg Config) *Coordinator {
	return &Coordinator{cfg: cfg}
}

// State returns the current gesture state.
func (c *Coordinator) State() State { return c.state }

// Hovered returns the region currently hovered, if any.
func (c *Coordinator) Hovered() string { return c.hovered }

// Suppressed reports whether a click at t falls inside the latch window.
func (c *Coordinator) Suppressed(t time.Time) bool {
	return t.Before(c.suppressUntil)
}

// Reset drops any gesture in progress without arming the latch.
func (c *Coordinator) Reset() {
	c.state = Idle
	c.clearGesture()
}

func (c *Coordinator) fire(t trigger) bool {
	next, ok := transitions[c.state][t]
	if !ok {
		return false
	}
	c.state = next
	return true
}

func (c *Coordinator) arm(t time.Time) {
	until := t.Add(c.cfg.Suppress)
	if until.After(c.suppressUntil) {
		c.suppressUntil = until
	}
}

func (c *Coordinator) clearGesture() {
	c.start, c.last = Point{}, Point{}
	c.moved = 0
	c.candidate = ""
	c.pinchDist = 0
	c.hasPinch = false
}

// Handle advances the state machine by one event. zoom is the viewport's
// current zoom level; single-pointer drags only pan when it is above 1.
func (c *Coordinator) Handle(ev Event, zoom float64) []Action {
	if ev.Kind == Cancel {
		return c.cancel(ev)
	}
	if ev.Kind == Wheel {
		if c.state == Pinching || ev.Wheel == 0 {
			return nil
		}
		step := c.cfg.WheelStep
		if ev.Wheel < 0 {
			step = -step
		}
		return []Action{{Kind: Zoom, Delta: step, Center: ev.At}}
	}
	if ev.Source == Touch {
		return c.handleTouch(ev, zoom)
	}
	return c.handleMouse(ev, zoom)
}

func (c *Coordinator) cancel(ev Event) []Action {
	var out []Action
	c.fire(cancel)
	c.clearGesture()
	c.arm(ev.Time)
	if c.hovered != "" {
		c.hovered = ""
		out = append(out, Action{Kind: Hover})
	}
	return out
}

func (c *Coordinator) setHover(region string) []Action {
	if region == c.hovered {
		return nil
	}
	c.hovered = region
	return []Action{{Kind: Hover, Region: region}}
}

func (c *Coordinator) handleTouch(ev Event, zoom float64) []Action {
	switch ev.Kind {
	case Down:
		if len(ev.Touches) >= 2 {
			return c.beginPinch(ev)
		}
		if len(ev.Touches) == 1 && c.fire(touchOne) {
			c.source = Touch
			c.start = ev.Touches[0]
			c.last = ev.Touches[0]
			c.moved = 0
			c.candidate = ev.Region
			if zoom <= 1 {
				return c.setHover(ev.Region)
			}
		}
		return nil

	case Move:
		switch c.state {
		case Pinching:
			if len(ev.Touches) < 2 {
				return nil
			}
			return c.pinchMove(ev)
		case TapCandidate:
			if c.source != Touch || len(ev.Touches) != 1 {
				return nil
			}
			p := ev.Touches[0]
			c.moved = math.Max(c.moved, p.dist(c.start))
			if zoom <= 1 || c.moved <= c.cfg.PanThreshold {
				return nil
			}
			c.fire(commit)
			c.arm(ev.Time)
			d := p.sub(c.start)
			c.last = p
			out := c.setHover("")
			return append(out, Action{Kind: Pan, DX: d.X, DY: d.Y})
		case PanningTouch:
			if len(ev.Touches) != 1 {
				return nil
			}
			p := ev.Touches[0]
			d := p.sub(c.last)
			c.last = p
			c.arm(ev.Time)
			if d.X == 0 && d.Y == 0 {
				return nil
			}
			return []Action{{Kind: Pan, DX: d.X, DY: d.Y}}
		}
		return nil

	case Up:
		switch c.state {
		case Pinching:
			c.arm(ev.Time)
			if len(ev.Touches) == 1 {
				c.fire(dropToOne)
				c.hasPinch = false
				c.last = ev.Touches[0]
				return nil
			}
			if len(ev.Touches) == 0 {
				c.fire(release)
				c.clearGesture()
				return nil
			}
			// still two or more touches: re-measure on the next move
			c.hasPinch = false
			return nil
		case PanningTouch:
			if len(ev.Touches) > 0 {
				c.last = ev.Touches[0]
				return nil
			}
			c.fire(release)
			c.arm(ev.Time)
			c.clearGesture()
			return nil
		case TapCandidate:
			if c.source != Touch || len(ev.Touches) > 0 {
				return nil
			}
			out := c.setHover("")
			if sel, ok := c.tap(ev); ok {
				out = append(out, sel)
			}
			c.fire(release)
			c.clearGesture()
			return out
		}
		return nil
	}
	return nil
}

func (c *Coordinator) beginPinch(ev Event) []Action {
	if c.state == PanningMouse {
		return nil
	}
	entering := c.state != Pinching
	if !c.fire(touchTwo) {
		return nil
	}
	c.source = Touch
	c.candidate = ""
	c.arm(ev.Time)
	if entering {
		c.pinchDist = ev.Touches[0].dist(ev.Touches[1])
		c.hasPinch = true
	}
	return c.setHover("")
}

func (c *Coordinator) pinchMove(ev Event) []Action {
	t1, t2 := ev.Touches[0], ev.Touches[1]
	dist := t1.dist(t2)
	center := Point{(t1.X + t2.X) / 2, (t1.Y + t2.Y) / 2}
	c.arm(ev.Time)
	if !c.hasPinch {
		c.pinchDist = dist
		c.hasPinch = true
		return nil
	}
	delta := (dist - c.pinchDist) * c.cfg.PinchGain
	delta = math.Max(-c.cfg.PinchMaxStep, math.Min(c.cfg.PinchMaxStep, delta))
	c.pinchDist = dist
	if delta == 0 {
		return nil
	}
	return []Action{{Kind: Zoom, Delta: delta, Center: center}}
}

// tap decides whether the pointer-up that ends a tap selects a region.
func (c *Coordinator) tap(ev Event) (Action, bool) {
	if c.moved > c.cfg.ClickThreshold && c.source == Mouse {
		return Action{}, false
	}
	if c.moved > c.cfg.PanThreshold {
		return Action{}, false
	}
	if ev.Region == "" || ev.Region != c.candidate || c.Suppressed(ev.Time) {
		return Action{}, false
	}
	return Action{Kind: Select, Region: ev.Region}, true
}

func (c *Coordinator) handleMouse(ev Event, zoom float64) []Action {
	switch ev.Kind {
	case Down:
		trig := mouseDown
		if zoom > 1 {
			trig = mouseGrab
		}
		if !c.fire(trig) {
			return nil
		}
		c.source = Mouse
		c.start = ev.At
		c.last = ev.At
		c.moved = 0
		c.candidate = ev.Region
		return nil

	case Move:
		switch c.state {
		case PanningMouse:
			d := ev.At.sub(c.last)
			c.last = ev.At
			c.moved = math.Max(c.moved, ev.At.dist(c.start))
			if d.X == 0 && d.Y == 0 {
				return nil
			}
			return []Action{{Kind: Pan, DX: d.X, DY: d.Y}}
		case TapCandidate:
			if c.source == Mouse {
				c.moved = math.Max(c.moved, ev.At.dist(c.start))
			}
			return nil
		case Idle:
			return c.setHover(ev.Region)
		}
		return nil

	case Up:
		switch c.state {
		case PanningMouse:
			var out []Action
			if ev.At.dist(c.start) > c.cfg.ClickThreshold {
				c.arm(ev.Time)
			} else if sel, ok := c.tap(ev); ok {
				out = append(out, sel)
			}
			c.fire(release)
			c.clearGesture()
			return append(out, c.setHover(ev.Region)...)
		case TapCandidate:
			if c.source != Mouse {
				return nil
			}
			var out []Action
			if sel, ok := c.tap(ev); ok {
				out = append(out, sel)
			}
			c.fire(release)
			c.clearGesture()
			return append(out, c.setHover(ev.Region)...)
		}
		return nil

	case Leave:
		if c.state == Idle {
			return c.setHover("")
		}
		return nil
	}
	return nil
}
