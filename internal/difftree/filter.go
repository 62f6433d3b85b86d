package difftree

import (
	"strings"

	"github.com/sadopc/gotermdiff/internal/schema"
)

// FilterMode selects how the filter toggles are applied.
type FilterMode int

const (
	// FilterInclusive includes every object. The toggles can only add
	// visibility, so objects whose category is switched off stay visible.
	FilterInclusive FilterMode = iota
	// FilterStrict includes an object only when the toggle for its status
	// category is on. Unchanged objects are never included.
	FilterStrict
)

func (m FilterMode) String() string {
	if m == FilterStrict {
		return "strict"
	}
	return "inclusive"
}

// ParseFilterMode parses a mode name. Anything but "strict" is inclusive.
func ParseFilterMode(s string) FilterMode {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return FilterStrict
	}
	return FilterInclusive
}

// Toggle names one of the three filter switches.
type Toggle int

const (
	ToggleCreated Toggle = iota
	ToggleDropped
	ToggleAltered
)

func (t Toggle) String() string {
	switch t {
	case ToggleCreated:
		return "created"
	case ToggleDropped:
		return "dropped"
	default:
		return "altered"
	}
}

// Filters is the immutable filter configuration of a build.
type Filters struct {
	ShowCreated bool
	ShowDropped bool
	ShowAltered bool
	Mode        FilterMode
}

// DefaultFilters shows every category in inclusive mode.
func DefaultFilters() Filters {
	return Filters{ShowCreated: true, ShowDropped: true, ShowAltered: true}
}

// With returns a copy of f with toggle t set to v.
func (f Filters) With(t Toggle, v bool) Filters {
	switch t {
	case ToggleCreated:
		f.ShowCreated = v
	case ToggleDropped:
		f.ShowDropped = v
	case ToggleAltered:
		f.ShowAltered = v
	}
	return f
}

// Get returns the value of toggle t.
func (f Filters) Get(t Toggle) bool {
	switch t {
	case ToggleCreated:
		return f.ShowCreated
	case ToggleDropped:
		return f.ShowDropped
	default:
		return f.ShowAltered
	}
}

// Include reports whether n belongs in the visible tree.
func (f Filters) Include(n schema.Node) bool {
	switch n.Status() {
	case schema.StatusDropped:
		if f.ShowDropped {
			return true
		}
	case schema.StatusCreated:
		if f.ShowCreated {
			return true
		}
	case schema.StatusAltered, schema.StatusWhitespace, schema.StatusRebuild,
		schema.StatusDisabled, schema.StatusUpdated:
		if f.ShowAltered {
			return true
		}
	}
	return f.Mode == FilterInclusive
}
