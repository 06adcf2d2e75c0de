package mapview

import (
	"fmt"
	"maps"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"mapquiz/gesture"
	"mapquiz/highlight"
	"mapquiz/logger"
	"mapquiz/region"
	"mapquiz/render"
	"mapquiz/viewport"
)

const (
	// CellAspect is how many pixel units tall a terminal cell is. Cells are
	// one unit wide.
	CellAspect = 2.0

	// fraction of the container moved by one pan key press
	panFactor = 0.1

	// delay standing in for "next animation frame"
	frameDelay = time.Second / 60
)

// Options selects the map overlay mode.
type Options struct {
	// Labels draws every region name, enables hover without selection and
	// fits the camera to a highlighted group.
	Labels bool
	// Interactive enables hover and region selection.
	Interactive bool
	// Tooltip shows details of the hovered region.
	Tooltip bool

	SnapshotDir string
	FontPath    string
}

// RegionSelectedMsg is sent when a region is picked and no callback is set.
type RegionSelectedMsg struct {
	ID string
}

// SnapshotMsg reports the result of a PNG snapshot.
type SnapshotMsg struct {
	Path string
	Err  error
}

type fitFrameMsg struct {
	seq int
}

// Model holds the map's state
type Model struct {
	width  int
	height int

	// terminal position of the top-left map cell, inside the border
	originX int
	originY int

	frame   orb.Bound
	regions []region.Region
	byID    map[string]region.Region
	index   *region.Index

	view     *viewport.Viewport
	gestures *gesture.Coordinator
	state    highlight.State
	opts     Options

	onSelect   func(id string) tea.Cmd
	fitSeq     int
	fitPending bool

	cache *gridCache
	now   func() time.Time
}

// New creates a map over the regions of an asset.
func New(asset *region.Asset, opts Options) (Model, error) {
	idx := region.NewIndex(asset.Regions)
	// the outlines' bounding box fills the container at zoom 1, so a
	// canvas with wide margins does not leave the map small
	frame, ok := idx.ContentBounds()
	if !ok {
		return Model{}, fmt.Errorf("no drawable regions in asset")
	}

	byID := make(map[string]region.Region, len(asset.Regions))
	for _, r := range asset.Regions {
		byID[r.ID()] = r
	}

	v := viewport.New(viewport.DefaultConfig())
	v.SetFrame(frame)

	m := Model{
		width:    80,
		height:   23,
		originX:  1,
		originY:  1,
		frame:    frame,
		regions:  asset.Regions,
		byID:     byID,
		index:    idx,
		view:     v,
		gestures: gesture.New(gesture.DefaultConfig()),
		opts:     opts,
		cache:    &gridCache{},
		now:      time.Now,
	}
	m.resize()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetOrigin tells the map where its top-left corner sits on screen, so
// mouse coordinates can be mapped. The border is accounted for.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x+1, y+1
}

// SetOptions switches overlay mode, e.g. between quiz and study.
func (m *Model) SetOptions(opts Options) {
	m.opts = opts
	m.state.HoveredID = ""
	m.gestures.Reset()
	m.invalidate()
}

// OnRegionSelected sets the callback run when a region is picked. The
// returned command, if any, is handed to the program.
func (m *Model) OnRegionSelected(fn func(id string) tea.Cmd) {
	m.onSelect = fn
}

// ZoomIn zooms one button step around the centre.
func (m *Model) ZoomIn() {
	m.view.ZoomIn()
	m.invalidate()
}

// ZoomOut zooms out one button step around the centre.
func (m *Model) ZoomOut() {
	m.view.ZoomOut()
	m.invalidate()
}

// ResetZoom returns to the whole map.
func (m *Model) ResetZoom() {
	m.view.Reset()
	m.fitPending = false
	m.invalidate()
}

// HighlightGroup filters the styling to one group; "" clears the filter
// and resets the camera. In label mode the camera is fitted to the group on
// the next frame.
func (m *Model) HighlightGroup(group string) tea.Cmd {
	m.state.FilterGroup = group
	m.invalidate()
	if group == "" {
		m.ResetZoom()
		return nil
	}
	if !m.opts.Labels {
		return nil
	}
	m.fitSeq++
	m.fitPending = true
	seq := m.fitSeq
	return tea.Tick(frameDelay, func(time.Time) tea.Msg {
		return fitFrameMsg{seq: seq}
	})
}

// SetCorrect marks the region answered correctly, "" clears it.
func (m *Model) SetCorrect(id string) {
	m.state.CorrectID = id
	m.invalidate()
}

// SetWrong marks the region picked wrongly, "" clears it.
func (m *Model) SetWrong(id string) {
	m.state.WrongID = id
	m.invalidate()
}

// SetAnswered replaces the set of answered regions.
func (m *Model) SetAnswered(ids map[string]bool) {
	m.state.Answered = maps.Clone(ids)
	m.invalidate()
}

// Zoom returns the current zoom level.
func (m Model) Zoom() float64 { return m.view.Zoom() }

// Hovered returns the hovered region id, if any.
func (m Model) Hovered() string { return m.state.HoveredID }

// FilterGroup returns the highlighted group.
func (m Model) FilterGroup() string { return m.state.FilterGroup }

// Region looks up a region by id.
func (m Model) Region(id string) (region.Region, bool) {
	r, ok := m.byID[id]
	return r, ok
}

func (m *Model) invalidate() {
	m.cache.dirty = true
}

// inner returns the drawable size in cells.
func (m Model) inner() (cols, rows int) {
	return max(m.width-2, 1), max(m.height-2, 1)
}

func (m *Model) resize() {
	cols, rows := m.inner()
	m.view.Resize(float64(cols), float64(rows)*CellAspect)
	m.invalidate()
}

// fit applies a pending group fit. While the viewport is unmeasured the
// fit stays pending and is retried after the next resize.
func (m *Model) fit() {
	if !m.fitPending || m.state.FilterGroup == "" {
		return
	}
	var points []orb.Point
	for _, r := range m.regions {
		if r.Group == m.state.FilterGroup {
			points = append(points, orb.Point{r.LabelX, r.LabelY})
		}
	}
	plan, ok := m.view.PlanFit(points)
	if !ok {
		if len(points) == 0 {
			m.fitPending = false
		}
		return
	}
	m.view.Apply(plan)
	m.fitPending = false
	m.invalidate()
}

// Update handles key, mouse and window messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.fitPending {
			m.fit()
		}

	case fitFrameMsg:
		if msg.seq == m.fitSeq {
			m.fit()
		}

	case tea.MouseMsg:
		ev, ok := m.mouseEvent(msg)
		if !ok {
			return m, nil
		}
		return m, m.Feed(ev)

	case tea.KeyMsg:
		cols, rows := m.inner()
		dx := float64(cols) * panFactor
		dy := float64(rows) * CellAspect * panFactor
		switch msg.String() {
		case "k", "up":
			m.view.PanBy(0, dy)
		case "j", "down":
			m.view.PanBy(0, -dy)
		case "h", "left":
			m.view.PanBy(dx, 0)
		case "l", "right":
			m.view.PanBy(-dx, 0)
		case "+", "=":
			m.view.ZoomIn()
		case "-", "_":
			m.view.ZoomOut()
		case "r":
			m.ResetZoom()
		case "p":
			return m, m.snapshot()
		default:
			return m, nil
		}
		m.invalidate()
	}

	return m, nil
}

// Feed runs one input event through the gesture coordinator and applies
// the resulting actions. Callers fill ev.Region with Hit; touch input from
// outside the terminal enters here too.
func (m *Model) Feed(ev gesture.Event) tea.Cmd {
	if ev.Time.IsZero() {
		ev.Time = m.now()
	}
	var cmds []tea.Cmd
	for _, a := range m.gestures.Handle(ev, m.view.Zoom()) {
		switch a.Kind {
		case gesture.Pan:
			m.view.PanBy(a.DX, a.DY)
			m.invalidate()
		case gesture.Zoom:
			m.view.ZoomAt(a.Delta, a.Center.X, a.Center.Y)
			m.invalidate()
		case gesture.Hover:
			if !m.opts.Interactive && !m.opts.Labels {
				continue
			}
			if m.state.HoveredID != a.Region {
				m.state.HoveredID = a.Region
				m.invalidate()
			}
		case gesture.Select:
			if !m.opts.Interactive {
				continue
			}
			cmds = append(cmds, m.selected(a.Region))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) selected(id string) tea.Cmd {
	logger.L().Debug("region_selected", "region", id)
	if m.onSelect != nil {
		return m.onSelect(id)
	}
	return func() tea.Msg { return RegionSelectedMsg{ID: id} }
}

// Hit returns the region under a container-centre-relative pixel.
func (m Model) Hit(p gesture.Point) string {
	c, ok := m.view.ToCanvas(p.X, p.Y)
	if !ok {
		return ""
	}
	id, _ := m.index.At(c[0], c[1])
	return id
}

// snapshot renders the current view to a PNG in the background.
func (m Model) snapshot() tea.Cmd {
	px, py := m.view.PanCanvas()
	sc := render.Scene{
		Regions: m.regions,
		Index:   m.index,
		Frame:   m.frame,
		State:   m.state,
		Camera:  render.Camera{Zoom: m.view.Zoom(), PanX: px, PanY: py},
	}
	sc.State.Answered = maps.Clone(m.state.Answered)
	opts := render.DefaultOptions()
	opts.Labels = m.opts.Labels
	opts.FontPath = m.opts.FontPath
	path := filepath.Join(m.opts.SnapshotDir, fmt.Sprintf("mapquiz-%s.png", m.now().Format("20060102-150405")))
	return func() tea.Msg {
		err := render.SavePNG(path, sc, opts)
		if err != nil {
			logger.L().Error("snapshot_failed", "path", path, "error", err)
		}
		return SnapshotMsg{Path: path, Err: err}
	}
}

func (m Model) View() string {
	mapStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	cols, rows := m.inner()
	return mapStyle.Render(m.renderGrid(cols, rows))
}
