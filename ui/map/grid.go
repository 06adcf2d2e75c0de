package mapview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"mapquiz/highlight"
	"mapquiz/render"
)

const backdrop = "#f8fafc"

// gridCache keeps the last rendered frame; pointer-held so value copies of
// the model share it.
type gridCache struct {
	dirty bool
	cols  int
	rows  int
	out   string
	fills map[string]string
}

type cell struct {
	ch rune
	fg string
	bg string
}

// flatten resolves a possibly translucent fill against the map backdrop.
func (c *gridCache) flatten(hex string) string {
	if c.fills == nil {
		c.fills = make(map[string]string)
	}
	if v, ok := c.fills[hex]; ok {
		return v
	}
	v, err := highlight.Blend(hex, backdrop)
	if err != nil {
		v = backdrop
	}
	c.fills[hex] = v
	return v
}

// hitGrid samples the region under the centre of every cell.
func (m Model) hitGrid(cols, rows int) [][]string {
	ids := make([][]string, rows)
	for y := range ids {
		ids[y] = make([]string, cols)
		for x := range ids[y] {
			ids[y][x] = m.Hit(m.cellPixel(x, y))
		}
	}
	return ids
}

// renderGrid rasterizes the regions into styled terminal cells.
func (m Model) renderGrid(cols, rows int) string {
	c := m.cache
	if !c.dirty && c.cols == cols && c.rows == rows && c.out != "" {
		return c.out
	}

	ids := m.hitGrid(cols, rows)
	grid := make([][]cell, rows)
	styles := make(map[string]highlight.Style)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			id := ids[y][x]
			if id == "" {
				grid[y][x] = cell{ch: ' ', bg: backdrop}
				continue
			}
			st, ok := styles[id]
			if !ok {
				r := m.byID[id]
				st = highlight.StyleFor(highlight.Target{ID: id, Group: r.Group, GroupColor: r.GroupColor}, m.state)
				styles[id] = st
			}
			cl := cell{ch: ' ', bg: c.flatten(st.Fill)}
			if (x+1 < cols && ids[y][x+1] != id) || (y+1 < rows && ids[y+1][x] != id) {
				cl.ch = '·'
				if st.StrokeWidth >= 1.8 {
					cl.ch = '•'
				}
				cl.fg = st.Stroke
			}
			grid[y][x] = cl
		}
	}

	m.drawLabels(grid, cols, rows)

	var b strings.Builder
	last := rows
	tip := m.tooltip()
	if tip != "" && rows > 1 {
		last = rows - 1
	}
	for y := 0; y < last; y++ {
		writeRow(&b, grid[y])
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	if last < rows {
		b.WriteString(lipgloss.NewStyle().
			Width(cols).
			MaxWidth(cols).
			Foreground(lipgloss.Color("#f8fafc")).
			Background(lipgloss.Color("#1e293b")).
			Render(tip))
	}

	c.out = b.String()
	c.cols, c.rows = cols, rows
	c.dirty = false
	return c.out
}

// drawLabels writes region names centred on their label points. Names
// that would run off the map are skipped, and cells keep their fill.
func (m Model) drawLabels(grid [][]cell, cols, rows int) {
	for _, r := range m.regions {
		color := render.LabelColor(r.ID(), m.state, m.opts.Labels)
		if color == "" {
			continue
		}
		px, py, ok := m.view.ToScreen(orb.Point{r.LabelX, r.LabelY})
		if !ok {
			continue
		}
		row := int(math.Floor((py + float64(rows)*CellAspect/2) / CellAspect))
		name := []rune(r.Name)
		col := int(math.Floor(px+float64(cols)/2)) - len(name)/2
		if row < 0 || row >= rows || col < 0 || col+len(name) > cols {
			continue
		}
		for i, ch := range name {
			grid[row][col+i].ch = ch
			grid[row][col+i].fg = color
		}
	}
}

func (m Model) tooltip() string {
	if !m.opts.Tooltip || m.state.HoveredID == "" {
		return ""
	}
	r, ok := m.byID[m.state.HoveredID]
	if !ok {
		return ""
	}
	return fmt.Sprintf(" %s • %s • %s", r.Name, r.DisplayName(), r.Group)
}

// writeRow renders runs of identically styled cells with one style each.
func writeRow(b *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].fg == row[start].fg && row[i].bg == row[start].bg {
			continue
		}
		var run strings.Builder
		for _, cl := range row[start:i] {
			run.WriteRune(cl.ch)
		}
		st := lipgloss.NewStyle().Background(lipgloss.Color(row[start].bg))
		if row[start].fg != "" {
			st = st.Foreground(lipgloss.Color(row[start].fg))
		}
		b.WriteString(st.Render(run.String()))
		start = i
	}
}
