package gesture

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func touch(kind Kind, ms int, region string, pts ...Point) Event {
	ev := Event{Kind: kind, Source: Touch, Touches: pts, Region: region, Time: at(ms)}
	if len(pts) > 0 {
		ev.At = pts[0]
	}
	return ev
}

func mouse(kind Kind, ms int, x, y float64, region string) Event {
	return Event{Kind: kind, Source: Mouse, At: Point{x, y}, Region: region, Time: at(ms)}
}

func selects(actions []Action) []string {
	var out []string
	for _, a := range actions {
		if a.Kind == Select {
			out = append(out, a.Region)
		}
	}
	return out
}

func sumPan(actions []Action) (dx, dy float64) {
	for _, a := range actions {
		if a.Kind == Pan {
			dx += a.DX
			dy += a.DY
		}
	}
	return dx, dy
}

func TestTransitionTableCoversEveryState(t *testing.T) {
	for _, s := range []State{Idle, TapCandidate, PanningTouch, Pinching, PanningMouse} {
		row, ok := transitions[s]
		if !ok {
			t.Fatalf("state %v has no transitions", s)
		}
		if row[cancel] != Idle || row[release] != Idle {
			t.Errorf("state %v must return to idle on cancel and release", s)
		}
	}
}

func TestTouchTapSelectsAtZoomOne(t *testing.T) {
	c := New(DefaultConfig())
	var got []Action
	got = append(got, c.Handle(touch(Down, 0, "Dhaka", Point{10, 10}), 1)...)
	if c.State() != TapCandidate {
		t.Fatalf("state = %v, want tap-candidate", c.State())
	}
	if c.Hovered() != "Dhaka" {
		t.Fatalf("touched region not highlighted: %q", c.Hovered())
	}
	got = append(got, c.Handle(touch(Move, 20, "Dhaka", Point{12, 11}), 1)...)
	got = append(got, c.Handle(Event{Kind: Up, Source: Touch, At: Point{12, 11}, Region: "Dhaka", Time: at(60)}, 1)...)

	if s := selects(got); len(s) != 1 || s[0] != "Dhaka" {
		t.Fatalf("selects = %v, want [Dhaka]", s)
	}
	if c.State() != Idle || c.Hovered() != "" {
		t.Fatalf("state = %v hovered = %q after tap", c.State(), c.Hovered())
	}
}

func TestTapOnDifferentRegionDoesNotSelect(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(touch(Down, 0, "Dhaka", Point{0, 0}), 1)
	got := c.Handle(Event{Kind: Up, Source: Touch, Region: "Gazipur", Time: at(50)}, 1)
	if s := selects(got); len(s) != 0 {
		t.Fatalf("selects = %v, want none", s)
	}
}

func TestTouchPanCommitsAfterThreshold(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(touch(Down, 0, "Dhaka", Point{0, 0}), 2)

	if got := c.Handle(touch(Move, 10, "Dhaka", Point{3, 0}), 2); len(got) != 0 {
		t.Fatalf("micro-move produced actions %v", got)
	}
	if c.State() != TapCandidate {
		t.Fatalf("state = %v, want tap-candidate below threshold", c.State())
	}

	var got []Action
	got = append(got, c.Handle(touch(Move, 20, "Dhaka", Point{10, 0}), 2)...)
	if c.State() != PanningTouch {
		t.Fatalf("state = %v, want panning-touch", c.State())
	}
	got = append(got, c.Handle(touch(Move, 30, "Gazipur", Point{25, -5}), 2)...)
	dx, dy := sumPan(got)
	if dx != 25 || dy != -5 {
		t.Fatalf("total pan = (%v,%v), want (25,-5)", dx, dy)
	}

	end := c.Handle(Event{Kind: Up, Source: Touch, Region: "Dhaka", Time: at(40)}, 2)
	if s := selects(end); len(s) != 0 {
		t.Fatalf("pan end selected %v", s)
	}
	if !c.Suppressed(at(40 + 279)) {
		t.Fatal("latch not armed after pan")
	}
	if c.Suppressed(at(40 + 280)) {
		t.Fatal("latch outlived the suppression window")
	}
}

func TestTapWhileZoomedSelects(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(touch(Down, 0, "Feni", Point{0, 0}), 3)
	c.Handle(touch(Move, 10, "Feni", Point{2, 2}), 3)
	got := c.Handle(Event{Kind: Up, Source: Touch, Region: "Feni", Time: at(30)}, 3)
	if s := selects(got); len(s) != 1 || s[0] != "Feni" {
		t.Fatalf("selects = %v, want [Feni]", s)
	}
}

func TestPinchZoomsAndSuppressesClick(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(touch(Down, 0, "Dhaka", Point{-10, 0}), 1)
	got := c.Handle(touch(Down, 5, "Dhaka", Point{-10, 0}, Point{10, 0}), 1)
	if c.State() != Pinching {
		t.Fatalf("state = %v, want pinching", c.State())
	}
	if len(got) != 1 || got[0].Kind != Hover || got[0].Region != "" {
		t.Fatalf("pinch entry actions = %v, want hover clear", got)
	}

	got = c.Handle(touch(Move, 20, "", Point{-20, 10}, Point{20, 10}), 1)
	if len(got) != 1 || got[0].Kind != Zoom {
		t.Fatalf("pinch move actions = %v", got)
	}
	if math.Abs(got[0].Delta-0.2) > 1e-9 {
		t.Fatalf("zoom delta = %v, want 0.2", got[0].Delta)
	}
	if got[0].Center != (Point{0, 10}) {
		t.Fatalf("zoom centre = %v, want (0,10)", got[0].Center)
	}

	// sensor jump is clamped
	got = c.Handle(touch(Move, 30, "", Point{-200, 10}, Point{200, 10}), 1)
	if len(got) != 1 || got[0].Delta != 0.35 {
		t.Fatalf("jump delta = %v, want 0.35", got)
	}

	// lifting one finger then the other never selects
	var end []Action
	end = append(end, c.Handle(touch(Up, 40, "Dhaka", Point{20, 10}), 1)...)
	if c.State() != PanningTouch {
		t.Fatalf("state = %v after one finger lifted", c.State())
	}
	end = append(end, c.Handle(Event{Kind: Up, Source: Touch, Region: "Dhaka", Time: at(50)}, 1)...)
	if s := selects(end); len(s) != 0 {
		t.Fatalf("pinch end selected %v", s)
	}

	// a fresh tap inside the window is swallowed
	c.Handle(touch(Down, 100, "Dhaka", Point{0, 0}), 1)
	got = c.Handle(Event{Kind: Up, Source: Touch, Region: "Dhaka", Time: at(120)}, 1)
	if s := selects(got); len(s) != 0 {
		t.Fatalf("tap inside suppression window selected %v", s)
	}
	// and one after it goes through
	c.Handle(touch(Down, 400, "Dhaka", Point{0, 0}), 1)
	got = c.Handle(Event{Kind: Up, Source: Touch, Region: "Dhaka", Time: at(420)}, 1)
	if s := selects(got); len(s) != 1 {
		t.Fatalf("tap after window: selects = %v", s)
	}
}

func TestSecondFingerAbandonsPan(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(touch(Down, 0, "", Point{0, 0}), 2)
	c.Handle(touch(Move, 10, "", Point{20, 0}), 2)
	if c.State() != PanningTouch {
		t.Fatalf("state = %v", c.State())
	}
	c.Handle(touch(Down, 20, "", Point{20, 0}, Point{60, 0}), 2)
	if c.State() != Pinching {
		t.Fatalf("state = %v, want pinching", c.State())
	}
	if got := c.Handle(touch(Move, 30, "", Point{20, 0}), 2); len(got) != 0 {
		t.Fatalf("single touch during pinch produced %v", got)
	}
}

func TestCancelResetsAndArmsLatch(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(touch(Down, 0, "Dhaka", Point{0, 0}), 1)
	got := c.Handle(Event{Kind: Cancel, Source: Touch, Time: at(10)}, 1)
	if c.State() != Idle {
		t.Fatalf("state = %v after cancel", c.State())
	}
	if len(got) != 1 || got[0].Kind != Hover || got[0].Region != "" {
		t.Fatalf("cancel actions = %v, want hover clear", got)
	}
	if !c.Suppressed(at(100)) {
		t.Fatal("cancel must arm the latch")
	}
	// an orphan pointer-up after cancel is not a click
	if s := selects(c.Handle(Event{Kind: Up, Source: Touch, Region: "Dhaka", Time: at(20)}, 1)); len(s) != 0 {
		t.Fatalf("orphan up selected %v", s)
	}
}

func TestMouseClickAndHover(t *testing.T) {
	c := New(DefaultConfig())
	got := c.Handle(mouse(Move, 0, 5, 5, "Sylhet"), 1)
	if len(got) != 1 || got[0].Kind != Hover || got[0].Region != "Sylhet" {
		t.Fatalf("hover actions = %v", got)
	}
	if got := c.Handle(mouse(Move, 5, 6, 5, "Sylhet"), 1); len(got) != 0 {
		t.Fatalf("repeated hover emitted %v", got)
	}

	c.Handle(mouse(Down, 10, 6, 5, "Sylhet"), 1)
	got = c.Handle(mouse(Up, 20, 7, 5, "Sylhet"), 1)
	if s := selects(got); len(s) != 1 || s[0] != "Sylhet" {
		t.Fatalf("selects = %v, want [Sylhet]", s)
	}

	// drag across regions at zoom 1 is not a click
	c.Handle(mouse(Down, 30, 0, 0, "Sylhet"), 1)
	c.Handle(mouse(Move, 35, 30, 0, "Sylhet"), 1)
	got = c.Handle(mouse(Up, 40, 30, 0, "Sylhet"), 1)
	if s := selects(got); len(s) != 0 {
		t.Fatalf("drag selected %v", s)
	}

	got = c.Handle(Event{Kind: Leave, Source: Mouse, Time: at(50)}, 1)
	if len(got) != 1 || got[0].Kind != Hover || got[0].Region != "" {
		t.Fatalf("leave actions = %v", got)
	}
}

func TestMouseDragPanSuppressesClick(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(mouse(Down, 0, 0, 0, "Khulna"), 2)
	if c.State() != PanningMouse {
		t.Fatalf("state = %v, want panning-mouse", c.State())
	}
	var got []Action
	got = append(got, c.Handle(mouse(Move, 10, 15, 5, "Khulna"), 2)...)
	// off the map: the drag keeps tracking
	got = append(got, c.Handle(mouse(Move, 20, 400, -300, ""), 2)...)
	dx, dy := sumPan(got)
	if dx != 400 || dy != -300 {
		t.Fatalf("pan = (%v,%v), want (400,-300)", dx, dy)
	}
	got = c.Handle(mouse(Up, 30, 40, 0, "Khulna"), 2)
	if s := selects(got); len(s) != 0 {
		t.Fatalf("drag release selected %v", s)
	}
	if !c.Suppressed(at(200)) {
		t.Fatal("latch not armed after mouse drag")
	}
}

func TestMouseClickWhileZoomed(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(mouse(Down, 0, 0, 0, "Khulna"), 2)
	c.Handle(mouse(Move, 5, 1, 1, "Khulna"), 2)
	got := c.Handle(mouse(Up, 10, 1, 1, "Khulna"), 2)
	if s := selects(got); len(s) != 1 || s[0] != "Khulna" {
		t.Fatalf("selects = %v, want [Khulna]", s)
	}
}

func TestWheelZoom(t *testing.T) {
	c := New(DefaultConfig())
	got := c.Handle(Event{Kind: Wheel, Source: Mouse, At: Point{3, 4}, Wheel: 1}, 1)
	if len(got) != 1 || got[0].Kind != Zoom || got[0].Delta != 0.3 || got[0].Center != (Point{3, 4}) {
		t.Fatalf("wheel up = %v", got)
	}
	got = c.Handle(Event{Kind: Wheel, Source: Mouse, Wheel: -2}, 3)
	if len(got) != 1 || got[0].Delta != -0.3 {
		t.Fatalf("wheel down = %v", got)
	}
}

func TestSuppressedSelectNeverFires(t *testing.T) {
	c := New(DefaultConfig())
	c.Handle(Event{Kind: Cancel, Time: at(0)}, 1)
	for ms := 1; ms < 280; ms += 37 {
		c.Handle(mouse(Down, ms, 0, 0, "Bhola"), 1)
		if s := selects(c.Handle(mouse(Up, ms, 0, 0, "Bhola"), 1)); len(s) != 0 {
			t.Fatalf("click at +%dms selected %v", ms, s)
		}
	}
}
