// Package highlight decides how each region is painted from the current
// quiz and pointer state.
package highlight

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Rule names the branch of StyleFor that produced a style.
type Rule int

const (
	Default Rule = iota
	Correct
	Wrong
	Answered
	Hovered
	FilterMatch
	FilterMiss
)

func (r Rule) String() string {
	switch r {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Answered:
		return "answered"
	case Hovered:
		return "hovered"
	case FilterMatch:
		return "filter-match"
	case FilterMiss:
		return "filter-miss"
	}
	return "default"
}

// Style is the paint for one region outline. Fill may carry an alpha byte
// (#RRGGBBAA).
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Rule        Rule
}

// State is everything that affects region styling.
type State struct {
	CorrectID   string
	WrongID     string
	Answered    map[string]bool
	HoveredID   string
	FilterGroup string
}

// Target is the part of a region StyleFor looks at.
type Target struct {
	ID         string
	Group      string
	GroupColor string
}

const (
	muted       = "#e2e8f0"
	mutedStroke = "#cbd5e1"
	thinStroke  = 0.5
)

// StyleFor returns the style of a region. The first matching rule wins:
// correct, wrong, answered, hovered, group filter match, group filter miss,
// default.
func StyleFor(t Target, s State) Style {
	switch {
	case t.ID == "":
	case t.ID == s.CorrectID:
		return Style{Fill: "#22c55e", Stroke: "#16a34a", StrokeWidth: 2.5, Rule: Correct}
	case t.ID == s.WrongID:
		return Style{Fill: "#ef4444", Stroke: "#dc2626", StrokeWidth: 2.5, Rule: Wrong}
	case s.Answered[t.ID]:
		return Style{Fill: muted, Stroke: mutedStroke, StrokeWidth: thinStroke, Rule: Answered}
	case t.ID == s.HoveredID:
		return Style{Fill: "#fde68a", Stroke: "#f59e0b", StrokeWidth: 1.8, Rule: Hovered}
	}
	if s.FilterGroup != "" {
		if t.Group == s.FilterGroup {
			return Style{Fill: t.GroupColor + "70", Stroke: t.GroupColor, StrokeWidth: thinStroke, Rule: FilterMatch}
		}
		return Style{Fill: muted, Stroke: mutedStroke, StrokeWidth: thinStroke, Rule: FilterMiss}
	}
	return Style{Fill: t.GroupColor + "35", Stroke: "#64748b", StrokeWidth: thinStroke, Rule: Default}
}

// Blend flattens a #RRGGBB or #RRGGBBAA color over an opaque backdrop and
// returns the result as #rrggbb.
func Blend(hex, backdrop string) (string, error) {
	base, alpha, err := parse(hex)
	if err != nil {
		return "", err
	}
	bg, err := colorful.Hex(backdrop)
	if err != nil {
		return "", fmt.Errorf("backdrop %q: %w", backdrop, err)
	}
	return bg.BlendRgb(base, alpha).Hex(), nil
}

func parse(hex string) (colorful.Color, float64, error) {
	alpha := 1.0
	switch len(hex) {
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("color %q: bad alpha: %w", hex, err)
		}
		alpha = float64(a) / 255
		hex = hex[:7]
	case 7, 4:
	default:
		return colorful.Color{}, 0, fmt.Errorf("color %q: unsupported length", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, 0, fmt.Errorf("color %q: %w", hex, err)
	}
	return c, alpha, nil
}
