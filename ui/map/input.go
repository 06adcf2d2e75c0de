package mapview

import (
	tea "github.com/charmbracelet/bubbletea"

	"mapquiz/gesture"
)

// cellPixel returns the centre of a map cell in pixels relative to the
// container centre.
func (m Model) cellPixel(col, row int) gesture.Point {
	cols, rows := m.inner()
	return gesture.Point{
		X: float64(col) + 0.5 - float64(cols)/2,
		Y: (float64(row)+0.5)*CellAspect - float64(rows)*CellAspect/2,
	}
}

// mouseEvent converts a terminal mouse message into a gesture event.
func (m Model) mouseEvent(msg tea.MouseMsg) (gesture.Event, bool) {
	cols, rows := m.inner()
	col, row := msg.X-m.originX, msg.Y-m.originY
	inside := col >= 0 && col < cols && row >= 0 && row < rows

	ev := gesture.Event{Source: gesture.Mouse, At: m.cellPixel(col, row), Time: m.now()}
	switch {
	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelDown:
		if !inside {
			return ev, false
		}
		ev.Kind = gesture.Wheel
		ev.Wheel = 1
		if msg.Button == tea.MouseButtonWheelDown {
			ev.Wheel = -1
		}
	case msg.Action == tea.MouseActionPress:
		if !inside || msg.Button != tea.MouseButtonLeft {
			return ev, false
		}
		ev.Kind = gesture.Down
	case msg.Action == tea.MouseActionRelease:
		ev.Kind = gesture.Up
	case msg.Action == tea.MouseActionMotion:
		ev.Kind = gesture.Move
		if !inside && msg.Button == tea.MouseButtonNone {
			ev.Kind = gesture.Leave
		}
	default:
		return ev, false
	}
	if inside {
		ev.Region = m.Hit(ev.At)
	}
	return ev, true
}
