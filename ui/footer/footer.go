package footer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the footer's state
type Model struct {
	width     int
	mode      string
	zoomLevel float64
	help      string
	message   string
}

// New creates a new footer model
func New() Model {
	return Model{
		width:     80, // Default
		zoomLevel: 1.0,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetZoom allows the parent model to update the zoom level
func (m *Model) SetZoom(z float64) {
	m.zoomLevel = z
}

// SetMode names the current screen and its key help.
func (m *Model) SetMode(mode, help string) {
	m.mode, m.help = mode, help
	m.message = ""
}

// SetMessage shows a transient note, e.g. where a snapshot was saved. It is
// cleared by the next SetMode.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Padding(0, 1)

	status := fmt.Sprintf("%s | Zoom: %.1fx", m.mode, m.zoomLevel)
	if m.message != "" {
		status += " | " + m.message
	}
	footerLeft := footerStyle.Render(status)

	footerRight := footerStyle.Width(max(m.width-lipgloss.Width(footerLeft)-1, 0)).
		Align(lipgloss.Right).
		Render(m.help)

	return lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Left, footerLeft, footerRight))
}
