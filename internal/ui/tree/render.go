package tree

import (
	"strings"

	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/theme"
)

// Render draws the whole tree, ignoring expansion state, one styled line
// per node. It is used for non-interactive output.
func Render(root *difftree.Node, th *theme.Theme) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	difftree.Walk(root, func(n *difftree.Node) {
		line := strings.TrimRight(plainLine(n), " ")
		b.WriteString(th.Diff(n.Color).Render(line))
		b.WriteByte('\n')
	})
	return b.String()
}

// plainLine is nodeLine without checkboxes and with every branch marked
// open, since Render always shows the full tree.
func plainLine(n *difftree.Node) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth()))
	if len(n.Children) > 0 {
		b.WriteString("▼ ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(Glyph(n.Icon))
	b.WriteString(n.Label)
	return b.String()
}
