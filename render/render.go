// Package render draws the region map onto a raster surface. The TUI uses
// it for PNG snapshots and regionbuild for previews.
package render

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/paulmach/orb"

	"mapquiz/highlight"
	"mapquiz/logger"
	"mapquiz/region"
	"mapquiz/viewport"
)

// Camera is the view to reproduce. Pan is in canvas units so it carries
// over between surfaces of different pixel size.
type Camera struct {
	Zoom       float64
	PanX, PanY float64
}

// Options controls the output surface.
type Options struct {
	Width, Height int
	Background    string
	// FontPath is a TTF/OTF file used for labels. Without it no text is
	// drawn.
	FontPath string
	FontSize float64
	// Labels draws every region's display name at its label point.
	Labels bool
}

func DefaultOptions() Options {
	return Options{
		Width:      500,
		Height:     700,
		Background: "#f8fafc",
		FontSize:   9,
	}
}

// Scene is everything needed to paint one frame.
type Scene struct {
	Regions []region.Region
	Index   *region.Index
	// Frame is the canvas rectangle shown at zoom 1. A zero frame uses the
	// bounds of all outlines.
	Frame  orb.Bound
	State  highlight.State
	Camera Camera
}

// Draw paints the scene into dc, which must be opts.Width x opts.Height.
func Draw(dc *gg.Context, sc Scene, opts Options) error {
	bounds, ok := sc.Index.ContentBounds()
	if !ok {
		return fmt.Errorf("render: no drawable regions")
	}
	if !sc.Frame.IsZero() {
		bounds = sc.Frame
	}
	v := viewport.New(viewport.DefaultConfig())
	v.SetFrame(bounds)
	v.Resize(float64(opts.Width), float64(opts.Height))
	if !v.Measured() {
		return fmt.Errorf("render: invalid surface %dx%d", opts.Width, opts.Height)
	}
	if sc.Camera.Zoom > 0 {
		v.Apply(viewport.Fit{
			Zoom: sc.Camera.Zoom,
			PanX: sc.Camera.PanX * v.Scale(),
			PanY: sc.Camera.PanY * v.Scale(),
		})
	}
	cx, cy := float64(opts.Width)/2, float64(opts.Height)/2
	toPixel := func(p orb.Point) (float64, float64) {
		x, y, _ := v.ToScreen(p)
		return cx + x, cy + y
	}

	dc.ClearWithColor(gg.Hex(opts.Background))
	dc.SetFillRule(gg.FillRuleEvenOdd)

	for _, reg := range sc.Regions {
		rings := sc.Index.Rings(reg.ID())
		if len(rings) == 0 {
			continue
		}
		st := highlight.StyleFor(highlight.Target{ID: reg.ID(), Group: reg.Group, GroupColor: reg.GroupColor}, sc.State)

		tracePath(dc, rings, toPixel)
		dc.SetHexColor(st.Fill)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("render: fill %s: %w", reg.Name, err)
		}
		tracePath(dc, rings, toPixel)
		dc.SetHexColor(st.Stroke)
		dc.SetLineWidth(st.StrokeWidth * v.Zoom())
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("render: stroke %s: %w", reg.Name, err)
		}
	}

	if opts.FontPath == "" {
		return nil
	}
	if err := dc.LoadFontFace(opts.FontPath, opts.FontSize); err != nil {
		logger.L().Warn("font_unavailable", "path", opts.FontPath, "error", err)
		return nil
	}
	for _, reg := range sc.Regions {
		color := LabelColor(reg.ID(), sc.State, opts.Labels)
		if color == "" {
			continue
		}
		x, y := toPixel(orb.Point{reg.LabelX, reg.LabelY})
		dc.SetHexColor(color)
		dc.DrawStringAnchored(reg.Name, x, y, 0.5, 0.5)
	}
	return nil
}

// LabelColor returns the text color for a region label, or "" when the
// region is not labelled. With all labels on, result labels are not drawn
// separately.
func LabelColor(id string, st highlight.State, all bool) string {
	switch {
	case all:
		return "#1e293b"
	case id == "":
		return ""
	case id == st.CorrectID:
		return "#16a34a"
	case id == st.WrongID:
		return "#dc2626"
	}
	return ""
}

func tracePath(dc *gg.Context, rings []orb.Ring, toPixel func(orb.Point) (float64, float64)) {
	for _, ring := range rings {
		for i, p := range ring {
			x, y := toPixel(p)
			if i == 0 {
				dc.MoveTo(x, y)
				continue
			}
			dc.LineTo(x, y)
		}
		dc.ClosePath()
	}
}

// SavePNG renders the scene to a new surface and writes it to path.
func SavePNG(path string, sc Scene, opts Options) error {
	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()
	if err := Draw(dc, sc, opts); err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	logger.L().Info("snapshot_saved", "path", path, "width", opts.Width, "height", opts.Height)
	return nil
}
