package header

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestView(t *testing.T) {
	m := New("mapquiz")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 1})
	m.Set("Find: Sylhet", "3/10", Success)

	v := m.View()
	for _, want := range []string{"mapquiz", "Find: Sylhet", "3/10"} {
		if !strings.Contains(v, want) {
			t.Errorf("header %q is missing %q", v, want)
		}
	}
	if w := lipgloss.Width(v); w > 60 {
		t.Errorf("header width = %d, want <= 60", w)
	}
}
