package header

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tone colors the header bar.
type Tone int

const (
	Neutral Tone = iota
	Success
	Failure
)

var toneColors = map[Tone]lipgloss.Color{
	Neutral: lipgloss.Color("63"),
	Success: lipgloss.Color("#16a34a"),
	Failure: lipgloss.Color("#dc2626"),
}

// Model holds the header's state
type Model struct {
	width int
	title string
	left  string
	right string
	tone  Tone
}

// New creates a new header model
func New(title string) Model {
	return Model{
		width: 80, // default
		title: title,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Set replaces the prompt on the left, the status on the right and the bar
// color.
func (m *Model) Set(left, right string, tone Tone) {
	m.left, m.right, m.tone = left, right, tone
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Background(toneColors[m.tone]).
		Foreground(lipgloss.Color("255"))

	left := style.Bold(true).Padding(0, 1).Render(m.title)
	if m.left != "" {
		left += style.Padding(0, 1).Render(m.left)
	}
	right := style.Padding(0, 1).
		Width(max(m.width-lipgloss.Width(left), 0)).
		Align(lipgloss.Right).
		Render(m.right)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}
