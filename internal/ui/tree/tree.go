// Package tree is the interactive diff tree pane. It owns the display tree,
// the persistent checked selection and the expansion state, and rebuilds the
// tree whenever the object graph or the filters change.
package tree

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/logger"
	appmsg "github.com/sadopc/gotermdiff/internal/msg"
	"github.com/sadopc/gotermdiff/internal/schema"
	"github.com/sadopc/gotermdiff/internal/theme"
)

// useSimpleIcons returns true when running inside Neovim's terminal emulator,
// which has emoji width rendering issues in libvterm.
var useSimpleIcons = os.Getenv("NVIM") != ""

// Model is the diff tree pane.
type Model struct {
	builder difftree.Builder
	db      *schema.Database
	root    *difftree.Node
	flat    []*difftree.Node
	sel     difftree.Selection

	// expanded holds the keys of expanded nodes so a rebuild keeps the
	// branches the user opened. activated holds lazily expanded objects.
	expanded  map[string]bool
	activated map[string]bool

	checkboxes bool
	title      string

	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	loading bool
}

// New creates an empty tree pane.
func New(b difftree.Builder) Model {
	return Model{
		builder:    b,
		sel:        difftree.Selection{},
		expanded:   make(map[string]bool),
		activated:  make(map[string]bool),
		checkboxes: true,
		title:      " Schema Diff ",
	}
}

// Init returns no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles tree messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case appmsg.FilterChangedMsg:
		m.SetFilter(msg.Filter, msg.Value)

	case appmsg.NodeActivatedMsg:
		cmd = m.activateKey(msg.Key)

	case appmsg.CheckToggledMsg:
		if m.root == nil {
			break
		}
		if n := difftree.Find(m.root, msg.Key); n != nil {
			cmd = m.setChecked(n, msg.Checked)
		}

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}
		case "down", "j":
			if m.cursor < len(m.flat)-1 {
				m.cursor++
				m.ensureVisible()
			}
		case "pgup":
			m.cursor -= m.pageSize()
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.ensureVisible()
		case "pgdown":
			m.cursor += m.pageSize()
			if m.cursor > len(m.flat)-1 {
				m.cursor = len(m.flat) - 1
			}
			m.ensureVisible()
		case "home", "g":
			m.cursor = 0
			m.offset = 0
		case "end", "G":
			m.cursor = len(m.flat) - 1
			m.ensureVisible()
		case "right", "l":
			if n := m.Current(); n != nil && len(n.Children) > 0 {
				m.setExpanded(n, true)
				m.flatten()
			}
		case "left", "h":
			m.collapseOrParent()
		case "enter":
			if n := m.Current(); n != nil {
				cmd = m.activate(n)
			}
		case " ":
			if n := m.Current(); n != nil && m.checkboxes {
				cmd = m.setChecked(n, !n.Checked)
			}
		case "x":
			m.checkboxes = !m.checkboxes
		}
	}

	return m, cmd
}

// View renders the tree pane.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	th := theme.Current

	// Account for border (left + right = 2, top + bottom = 2).
	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	titleStyle := th.TreeTitle
	if m.focused {
		titleStyle = titleStyle.Reverse(true)
	}
	titleLine := titleStyle.Width(innerW).Render(m.title)

	if m.loading {
		content := titleLine + "\n\n  Loading comparison..."
		return m.borderStyle().Width(innerW).Height(innerH).Render(content)
	}

	if len(m.flat) == 0 {
		content := titleLine + "\n\n  No comparison loaded."
		return m.borderStyle().Width(innerW).Height(innerH).Render(content)
	}

	contentHeight := max(innerH-1, 1)
	end := min(m.offset+contentHeight, len(m.flat))

	var lines []string
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderNode(m.flat[i], i == m.cursor, innerW, th))
	}

	content := titleLine + "\n" + strings.Join(lines, "\n")
	return m.borderStyle().Width(innerW).Height(innerH).Render(content)
}

func (m Model) renderNode(n *difftree.Node, selected bool, width int, th *theme.Theme) string {
	line := nodeLine(n, m.checkboxes)
	line = fit(line, width)
	if selected {
		return th.TreeSelected.Render(line)
	}
	return th.Diff(n.Color).Render(line)
}

// nodeLine is the unstyled text of a node: indent, expand marker, checkbox,
// icon and label.
func nodeLine(n *difftree.Node, checkboxes bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth()))

	switch {
	case len(n.Children) == 0:
		b.WriteString("  ")
	case n.Expanded:
		b.WriteString("▼ ")
	default:
		b.WriteString("▶ ")
	}

	if checkboxes {
		if n.Checked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
	}
	b.WriteString(Glyph(n.Icon))
	b.WriteString(n.Label)
	return b.String()
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := lipgloss.Width(s); w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Glyph returns the icon drawn before a label.
func Glyph(icon string) string {
	if useSimpleIcons {
		switch icon {
		case schema.IconDatabase:
			return "■ "
		case schema.IconFolder:
			return "≡ "
		case schema.IconTable:
			return "◆ "
		case schema.IconView:
			return "◇ "
		case schema.IconProcedure, schema.IconFunction:
			return "ƒ "
		case schema.IconUser, schema.IconRole:
			return "☺ "
		default:
			return "· "
		}
	}
	switch icon {
	case schema.IconDatabase:
		return "🗄 "
	case schema.IconFolder:
		return "📁 "
	case schema.IconSchema:
		return "📂 "
	case schema.IconTable:
		return "📊 "
	case schema.IconView:
		return "📄 "
	case schema.IconColumn:
		return "▫ "
	case schema.IconIndex:
		return "🔎 "
	case schema.IconConstraint:
		return "🔒 "
	case schema.IconTrigger:
		return "⚡ "
	case schema.IconProcedure, schema.IconFunction:
		return "ƒ "
	case schema.IconSynonym:
		return "↪ "
	case schema.IconUser, schema.IconRole:
		return "👤 "
	default:
		return "  "
	}
}

func (m Model) borderStyle() lipgloss.Style {
	th := theme.Current
	if m.focused {
		return th.FocusedBorder
	}
	return th.UnfocusedBorder
}

// SetRoot replaces the object graph and rebuilds. The checked selection
// carries over by identity; lazily expanded objects do not.
func (m *Model) SetRoot(db *schema.Database) {
	m.db = db
	m.loading = false
	clear(m.activated)
	m.rebuild()
}

// SetFilter changes one filter toggle and rebuilds.
func (m *Model) SetFilter(t difftree.Toggle, v bool) {
	m.builder.Filters = m.builder.Filters.With(t, v)
	m.rebuild()
}

// SetFilterMode switches between inclusive and strict filtering and rebuilds.
func (m *Model) SetFilterMode(mode difftree.FilterMode) {
	m.builder.Filters.Mode = mode
	m.rebuild()
}

// Filters returns the active filters.
func (m Model) Filters() difftree.Filters { return m.builder.Filters }

// Root returns the current display tree, nil when nothing is loaded.
func (m Model) Root() *difftree.Node { return m.root }

// Current returns the node under the cursor.
func (m Model) Current() *difftree.Node {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return nil
	}
	return m.flat[m.cursor]
}

// Selection exports the checked objects of the tree. It is empty while
// checkboxes are hidden.
func (m Model) Selection() difftree.Selection {
	if !m.checkboxes || m.root == nil {
		return difftree.Selection{}
	}
	return difftree.Checked(m.root)
}

// SetSelection replaces the checked set.
func (m *Model) SetSelection(ids []schema.ID) {
	m.sel = difftree.NewSelection(ids...)
	difftree.ApplyChecked(m.root, m.sel)
}

// Checkboxes reports whether check boxes are shown.
func (m Model) Checkboxes() bool { return m.checkboxes }

// SetCheckboxes shows or hides check boxes.
func (m *Model) SetCheckboxes(v bool) { m.checkboxes = v }

// Stats summarizes the current tree.
func (m Model) Stats() difftree.Stats { return difftree.Summarize(m.root) }

// Candidate is a searchable node.
type Candidate struct {
	Key   string
	Label string
}

// Candidates lists every node of the tree, including collapsed ones, in
// display order.
func (m Model) Candidates() []Candidate {
	var out []Candidate
	difftree.Walk(m.root, func(n *difftree.Node) {
		out = append(out, Candidate{Key: n.Key(), Label: n.Label})
	})
	return out
}

func (m *Model) rebuild() {
	cur := ""
	if n := m.Current(); n != nil {
		cur = n.Key()
	}

	m.root = nil
	if m.db != nil {
		m.root = m.builder.Build(m.db)
		for key := range m.activated {
			if n := difftree.Find(m.root, key); n != nil {
				m.builder.Expand(n)
			}
		}
		difftree.ApplyChecked(m.root, m.sel)
		m.restoreExpansion(m.root)
		logger.Get().Debug("tree rebuilt",
			"filters", m.builder.Filters,
			"objects", difftree.Summarize(m.root).Objects)
	}

	m.flatten()
	m.moveTo(cur)
}

// restoreExpansion reapplies the recorded expansion state below n. The root
// is always expanded.
func (m *Model) restoreExpansion(n *difftree.Node) {
	difftree.Walk(n, func(x *difftree.Node) {
		x.Expanded = x.Parent == nil || m.expanded[x.Key()]
	})
}

func (m *Model) setExpanded(n *difftree.Node, v bool) {
	if n.Parent == nil {
		return
	}
	n.Expanded = v
	if v {
		m.expanded[n.Key()] = true
	} else {
		delete(m.expanded, n.Key())
	}
}

func (m *Model) collapseOrParent() {
	n := m.Current()
	if n == nil {
		return
	}
	if n.Expanded && n.Parent != nil {
		m.setExpanded(n, false)
		m.flatten()
		return
	}
	if n.Parent != nil {
		m.moveTo(n.Parent.Key())
	}
}

// activate handles enter on n. Grouping nodes toggle; objects are
// (re)expanded and reported with a SelectItemMsg.
func (m *Model) activate(n *difftree.Node) tea.Cmd {
	if n.IsGroup() {
		m.setExpanded(n, !n.Expanded)
		m.flatten()
		return nil
	}

	fullName, ok := m.builder.Activate(n)
	if !ok {
		return nil
	}
	key := n.Key()
	if schema.Expandable(n.Source.Kind()) {
		m.activated[key] = true
		difftree.ApplyChecked(n, m.sel)
		m.restoreExpansion(n)
		if len(n.Children) > 0 {
			m.setExpanded(n, true)
		}
	}
	m.flatten()
	m.moveTo(key)

	src := n.Source
	return func() tea.Msg {
		return appmsg.SelectItemMsg{FullName: fullName, Node: src}
	}
}

func (m *Model) activateKey(key string) tea.Cmd {
	if m.root == nil {
		return nil
	}
	n := difftree.Find(m.root, key)
	if n == nil {
		return nil
	}
	difftree.RevealPath(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m.setExpanded(p, true)
	}
	m.flatten()
	m.moveTo(key)
	return m.activate(n)
}

func (m *Model) setChecked(n *difftree.Node, v bool) tea.Cmd {
	difftree.ToggleCheck(n, v)
	m.sel.Sync(n)
	count := m.sel.Len()
	return func() tea.Msg { return appmsg.SelectionChangedMsg{Count: count} }
}

func (m *Model) flatten() {
	m.flat = difftree.Flatten(m.root)
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// moveTo places the cursor on the visible node with key, if any.
func (m *Model) moveTo(key string) {
	if key == "" {
		return
	}
	for i, n := range m.flat {
		if n.Key() == key {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
}

func (m Model) pageSize() int {
	return max(m.height-3, 1)
}

func (m *Model) ensureVisible() {
	contentHeight := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+contentHeight {
		m.offset = m.cursor - contentHeight + 1
	}
}

// SetSize sets the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// SetTitle sets the pane title.
func (m *Model) SetTitle(title string) { m.title = title }

// Focus focuses the pane.
func (m *Model) Focus() { m.focused = true }

// Blur unfocuses the pane.
func (m *Model) Blur() { m.focused = false }

// Focused returns whether the pane is focused.
func (m Model) Focused() bool { return m.focused }

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) { m.loading = loading }
