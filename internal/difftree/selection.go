package difftree

import (
	"slices"

	"github.com/sadopc/gotermdiff/internal/schema"
)

// Selection is a set of checked object identities. It is independent of
// any display tree and survives rebuilds.
type Selection map[schema.ID]struct{}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...schema.ID) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Selection) Add(id schema.ID)    { s[id] = struct{}{} }
func (s Selection) Remove(id schema.ID) { delete(s, id) }
func (s Selection) Len() int            { return len(s) }

// Has reports whether id is checked. A nil selection is empty.
func (s Selection) Has(id schema.ID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the identities in sorted order.
func (s Selection) IDs() []schema.ID {
	ids := make([]schema.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Sync records the checked flags of every backed node of tree. Objects
// that are not in the tree keep their membership.
func (s Selection) Sync(tree *Node) {
	Walk(tree, func(n *Node) {
		if n.Source == nil {
			return
		}
		if n.Checked {
			s.Add(n.Source.ID())
		} else {
			s.Remove(n.Source.ID())
		}
	})
}

// Checked collects the identities of the checked backed nodes of tree.
func Checked(tree *Node) Selection {
	s := Selection{}
	Walk(tree, func(n *Node) {
		if n.Source != nil && n.Checked {
			s.Add(n.Source.ID())
		}
	})
	return s
}

// ApplyChecked sets the checked flag of every backed node of tree to its
// membership in sel. Grouping nodes are left as they are.
func ApplyChecked(tree *Node, sel Selection) {
	Walk(tree, func(n *Node) {
		if n.Source != nil {
			n.Checked = sel.Has(n.Source.ID())
		}
	})
}

// ToggleCheck sets the checked flag of n. Toggling a grouping node also
// sets its immediate children; the cascade does not recurse further.
func ToggleCheck(n *Node, value bool) {
	if n == nil {
		return
	}
	n.Checked = value
	if n.Source != nil {
		return
	}
	for _, c := range n.Children {
		c.Checked = value
	}
}
