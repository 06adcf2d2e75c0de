package region

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ErrMalformedOutline is returned when an outline path cannot be parsed.
var ErrMalformedOutline = errors.New("malformed outline")

// FormatOutline renders rings as closed move/line path commands, one
// "M..Z" run per ring, runs separated by a space.
func FormatOutline(rings []orb.Ring) string {
	var b strings.Builder
	for i, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteByte(' ')
		}
		for j, p := range ring {
			if j == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(strconv.FormatFloat(p[0], 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(p[1], 'f', -1, 64))
		}
		b.WriteByte('Z')
	}
	return b.String()
}

// ParseOutline turns a path produced by FormatOutline back into rings.
// Rings are returned open (the closing command does not repeat the start).
func ParseOutline(s string) ([]orb.Ring, error) {
	var (
		rings []orb.Ring
		cur   orb.Ring
		open  bool
	)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == ',':
			i++
		case c == 'M':
			if open && len(cur) > 0 {
				rings = append(rings, cur)
			}
			cur = nil
			open = true
			p, n, err := parsePair(s[i+1:])
			if err != nil {
				return nil, err
			}
			cur = append(cur, p)
			i += 1 + n
		case c == 'L':
			if !open {
				return nil, fmt.Errorf("%w: line before move at offset %d", ErrMalformedOutline, i)
			}
			p, n, err := parsePair(s[i+1:])
			if err != nil {
				return nil, err
			}
			cur = append(cur, p)
			i += 1 + n
		case c == 'Z' || c == 'z':
			if !open {
				return nil, fmt.Errorf("%w: close without move at offset %d", ErrMalformedOutline, i)
			}
			rings = append(rings, cur)
			cur = nil
			open = false
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformedOutline, c, i)
		}
	}
	if open && len(cur) > 0 {
		rings = append(rings, cur)
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: no rings", ErrMalformedOutline)
	}
	return rings, nil
}

// parsePair reads "x,y" and reports how many bytes it consumed.
func parsePair(s string) (orb.Point, int, error) {
	x, n1, err := parseNumber(s)
	if err != nil {
		return orb.Point{}, 0, err
	}
	rest := s[n1:]
	sep := 0
	for sep < len(rest) && (rest[sep] == ',' || rest[sep] == ' ') {
		sep++
	}
	y, n2, err := parseNumber(rest[sep:])
	if err != nil {
		return orb.Point{}, 0, err
	}
	return orb.Point{x, y}, n1 + sep + n2, nil
}

func parseNumber(s string) (float64, int, error) {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	start := i
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			i++
			continue
		}
		break
	}
	if start == i {
		return 0, 0, fmt.Errorf("%w: expected number", ErrMalformedOutline)
	}
	v, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformedOutline, err)
	}
	return v, i, nil
}
