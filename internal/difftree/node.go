// Package difftree builds the display tree of a schema comparison: it
// filters objects by status, folds change colors bottom-up, and tracks the
// checked selection by object identity across rebuilds.
package difftree

import (
	"strings"

	"github.com/sadopc/gotermdiff/internal/schema"
)

// Node is one display node. Nodes are discarded and recreated on every
// rebuild; only the Source identity is stable.
type Node struct {
	Label    string
	Icon     string
	Color    Color
	Children []*Node
	Parent   *Node

	// Source is the backing object, nil for grouping nodes.
	Source schema.Node
	// Category is the category label of a grouping node.
	Category string
	// Count is the number of filtered-in children of a grouping node.
	Count int

	Checked  bool
	Expanded bool
}

// IsGroup reports whether n is a synthetic grouping node.
func (n *Node) IsGroup() bool { return n.Source == nil }

// Depth returns the distance from the root.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Key identifies the position of n across rebuilds: the object identity
// for backed nodes, the owner key plus category for grouping nodes.
func (n *Node) Key() string {
	if n.Source != nil {
		return string(n.Source.ID())
	}
	var b strings.Builder
	if n.Parent != nil {
		b.WriteString(n.Parent.Key())
	}
	b.WriteByte('/')
	b.WriteString(n.Category)
	return b.String()
}

// Walk calls fn for n and every descendant in pre-order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Flatten returns the nodes a collapsible widget shows: n and, for every
// expanded node, its children.
func Flatten(n *Node) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(x *Node) {
		out = append(out, x)
		if x.Expanded {
			for _, c := range x.Children {
				visit(c)
			}
		}
	}
	if n != nil {
		visit(n)
	}
	return out
}

// Find returns the first node in pre-order whose key is key.
func Find(n *Node, key string) *Node {
	var found *Node
	Walk(n, func(x *Node) {
		if found == nil && x.Key() == key {
			found = x
		}
	})
	return found
}

// RevealPath expands every ancestor of n.
func RevealPath(n *Node) {
	for p := n.Parent; p != nil; p = p.Parent {
		p.Expanded = true
	}
}

// Stats summarizes a tree for status display.
type Stats struct {
	Objects int
	Checked int
	Changed int
}

// Summarize counts the backed nodes below the root.
func Summarize(root *Node) Stats {
	var s Stats
	Walk(root, func(n *Node) {
		if n == root || n.IsGroup() {
			return
		}
		s.Objects++
		if n.Checked {
			s.Checked++
		}
		if ColorOf(n.Source) != Black {
			s.Changed++
		}
	})
	return s
}
