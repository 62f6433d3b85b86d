package msg

import (
	"time"

	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/schema"
)

// Pane focus targets.
type Pane int

const (
	PaneTree Pane = iota
	PaneDetail
)

// KeyMode represents the active keybinding mode.
type KeyMode int

const (
	KeyModeStandard KeyMode = iota
	KeyModeVim
)

func (m KeyMode) String() string {
	if m == KeyModeVim {
		return "vim"
	}
	return "standard"
}

// ParseKeyMode parses a string into a KeyMode.
func ParseKeyMode(s string) KeyMode {
	if s == "vim" {
		return KeyModeVim
	}
	return KeyModeStandard
}

// FocusMsg requests a pane focus change.
type FocusMsg struct {
	Pane Pane
}

// ReloadMsg asks for the result file to be read again.
type ReloadMsg struct{}

// SchemaAssignedMsg carries a freshly loaded object graph. Gen is compared
// with the app's load generation so results of a superseded load are dropped.
type SchemaAssignedMsg struct {
	Root     *schema.Database
	Source   string
	Target   string
	Key      string // comparison key for saved selections
	Warnings []string
	Gen      uint64
}

// SchemaErrMsg is sent when loading the result fails.
type SchemaErrMsg struct {
	Err error
	Gen uint64
}

// FilterChangedMsg sets one of the filter toggles.
type FilterChangedMsg struct {
	Filter difftree.Toggle
	Value  bool
}

// NodeActivatedMsg activates the tree node with the given key, revealing it
// first if it is inside a collapsed branch.
type NodeActivatedMsg struct {
	Key string
}

// CheckToggledMsg sets the checked state of the tree node with the given key.
type CheckToggledMsg struct {
	Key     string
	Checked bool
}

// SelectItemMsg is emitted once per activation of an object node.
type SelectItemMsg struct {
	FullName string
	Node     schema.Node
}

// SelectionChangedMsg reports the number of checked objects after a change.
type SelectionChangedMsg struct {
	Count int
}

// SelectionSavedMsg is sent when the checked set has been stored.
type SelectionSavedMsg struct {
	Count int
}

// SelectionRestoredMsg carries a stored selection to apply to the tree.
type SelectionRestoredMsg struct {
	IDs []schema.ID
	Gen uint64
}

// SelectionErrMsg is sent when saving or restoring a selection fails.
type SelectionErrMsg struct {
	Err error
}

// RestoreConfirmedMsg is sent when the user confirms replacing the current
// checked set with the stored one.
type RestoreConfirmedMsg struct{}

// StatusMsg updates the status bar text.
type StatusMsg struct {
	Text     string
	IsError  bool
	Duration time.Duration
}
