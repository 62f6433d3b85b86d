package difftree

import "github.com/sadopc/gotermdiff/internal/schema"

// Color is the display tag of a tree node.
type Color int

const (
	Black  Color = iota // no change
	Red                 // dropped
	Green               // created
	Blue                // altered or disabled
	Gold                // whitespace-only change
	Purple              // needs rebuild
	Plum                // more than one kind of change below
)

var colorNames = [...]string{
	Black:  "black",
	Red:    "red",
	Green:  "green",
	Blue:   "blue",
	Gold:   "gold",
	Purple: "purple",
	Plum:   "plum",
}

func (c Color) String() string {
	if c >= 0 && int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// ColorOf maps an object's own status and sub-flags to a color, checked in
// priority order. Statuses without a color, including unknown values, are
// Black.
func ColorOf(n schema.Node) Color {
	switch {
	case n == nil:
		return Black
	case n.Status() == schema.StatusDropped:
		return Red
	case n.Status() == schema.StatusCreated:
		return Green
	case n.HasState(schema.StatusAltered) || n.HasState(schema.StatusDisabled):
		return Blue
	case n.HasState(schema.StatusWhitespace):
		return Gold
	case n.HasState(schema.StatusRebuild):
		return Purple
	default:
		return Black
	}
}

// Mix folds one child color into a running color. Black children carry no
// change and leave the running color alone.
func Mix(acc, c Color) Color {
	switch {
	case c == Black:
		return acc
	case acc == Black || acc == c:
		return c
	default:
		return Plum
	}
}

// Aggregate folds the colors of the visible children into a node's own
// color. The result is Black when nothing changed, the single change color
// when only one kind of change is present, and Plum otherwise.
func Aggregate(own Color, children ...Color) Color {
	acc := own
	for _, c := range children {
		acc = Mix(acc, c)
	}
	return acc
}
