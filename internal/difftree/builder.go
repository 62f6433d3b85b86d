package difftree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sadopc/gotermdiff/internal/schema"
)

// Builder turns an object graph into a display tree.
type Builder struct {
	Filters Filters
	// Lazy leaves expandable objects (tables, views) without children
	// until they are activated.
	Lazy bool
	// HideEmpty omits grouping nodes with no filtered-in children.
	HideEmpty bool
}

// NewBuilder returns a Builder with the given filters.
func NewBuilder(f Filters) Builder {
	return Builder{Filters: f}
}

// Build returns a fresh display tree for root, or nil when root is nil. The
// root is always included regardless of the filters and starts expanded.
func (b Builder) Build(root schema.Node) *Node {
	if schema.IsNil(root) {
		return nil
	}
	n := &Node{
		Label:    root.Name(),
		Icon:     schema.IconDatabase,
		Source:   root,
		Expanded: true,
	}
	b.populate(n)
	sortTree(n)
	return n
}

// Expand rebuilds the categories of an expandable node in place and
// recomputes the colors of its ancestors. It reports whether n was expanded.
func (b Builder) Expand(n *Node) bool {
	if n == nil || n.Source == nil || !schema.Expandable(n.Source.Kind()) {
		return false
	}
	b.populate(n)
	sortTree(n)
	for p := n.Parent; p != nil; p = p.Parent {
		p.Color = recolor(p)
	}
	return true
}

// Activate handles a user selecting n. Expandable objects get their details
// rebuilt; the full name to report is returned for backed nodes.
func (b Builder) Activate(n *Node) (string, bool) {
	if n == nil || n.Source == nil {
		return "", false
	}
	b.Expand(n)
	return n.Source.FullName(), true
}

// populate replaces the children of n with one grouping node per category
// and sets the aggregate colors of n and its groups.
func (b Builder) populate(n *Node) {
	n.Children = nil
	color := ColorOf(n.Source)

	for _, cat := range schema.Categories(n.Source.Kind()) {
		group := &Node{
			Icon:     schema.IconFolder,
			Category: cat.Label,
			Parent:   n,
		}
		for _, obj := range cat.Children(n.Source) {
			if schema.IsNil(obj) || !b.Filters.Include(obj) {
				continue
			}
			child := &Node{
				Label:  childLabel(obj, cat),
				Icon:   cat.Icon,
				Source: obj,
				Parent: group,
			}
			if b.descend(obj.Kind()) {
				b.populate(child)
			} else {
				child.Color = ColorOf(obj)
			}
			group.Color = Mix(group.Color, child.Color)
			group.Children = append(group.Children, child)
		}
		group.Count = len(group.Children)
		group.Label = fmt.Sprintf("%s (%d)", cat.Label, group.Count)
		if b.HideEmpty && group.Count == 0 {
			continue
		}
		color = Mix(color, group.Color)
		n.Children = append(n.Children, group)
	}

	n.Color = color
}

func (b Builder) descend(kind schema.Kind) bool {
	if len(schema.Categories(kind)) == 0 {
		return false
	}
	return !b.Lazy || !schema.Expandable(kind)
}

func childLabel(obj schema.Node, cat schema.Category) string {
	if cat.FullName {
		return obj.FullName()
	}
	return obj.Name()
}

// recolor recomputes the aggregate color of n from its current children.
func recolor(n *Node) Color {
	var own Color
	if n.Source != nil {
		own = ColorOf(n.Source)
	}
	for _, c := range n.Children {
		own = Mix(own, c.Color)
	}
	return own
}

// sortTree orders every level case-insensitively by label. The sort is
// stable so equal labels keep their declaration order.
func sortTree(n *Node) {
	slices.SortStableFunc(n.Children, func(a, b *Node) int {
		return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
	})
	for _, c := range n.Children {
		sortTree(c)
	}
}
