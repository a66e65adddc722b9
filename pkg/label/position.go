package label

import (
	"fmt"
	"strings"
)

// Position is where a label sits relative to its anchor's centroid.
type Position int

const (
	Center Position = iota
	Above
	Below
	Left
	Right
	AboveLeft
	AboveRight
	BelowLeft
	BelowRight
)

var positionNames = [...]string{
	Center:     "center",
	Above:      "above",
	Below:      "below",
	Left:       "left",
	Right:      "right",
	AboveLeft:  "above-left",
	AboveRight: "above-right",
	BelowLeft:  "below-left",
	BelowRight: "below-right",
}

// DefaultPositions is the preference order used when a series does not
// configure one.
var DefaultPositions = []Position{Above, Below, Right, Left, AboveRight, AboveLeft, BelowRight, BelowLeft}

// String returns the kebab-case position name.
func (p Position) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return fmt.Sprintf("position(%d)", int(p))
	}
	return positionNames[p]
}

// RequiresContainment reports whether a label at this position is only
// acceptable when it fits inside its anchor.
func (p Position) RequiresContainment() bool { return p == Center }

// Diagonal reports whether the position combines a vertical and a
// horizontal shift.
func (p Position) Diagonal() bool { return p >= AboveLeft && p <= BelowRight }

// ParsePosition parses a position name. Matching ignores case, and
// underscores or camel-case joins are accepted for the diagonal kinds.
func ParsePosition(s string) (Position, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	switch norm {
	case "aboveleft":
		norm = "above-left"
	case "aboveright":
		norm = "above-right"
	case "belowleft":
		norm = "below-left"
	case "belowright":
		norm = "below-right"
	}
	for i, name := range positionNames {
		if name == norm {
			return Position(i), nil
		}
	}
	return Center, fmt.Errorf("unknown label position %q", s)
}

// ParsePositions parses a list of names, failing on the first bad entry.
func ParsePositions(names []string) ([]Position, error) {
	out := make([]Position, 0, len(names))
	for _, n := range names {
		p, err := ParsePosition(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// MarshalText encodes the position by name.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a position name.
func (p *Position) UnmarshalText(text []byte) error {
	v, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
