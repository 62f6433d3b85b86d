// Package detail shows the attributes and change script of the object last
// activated in the tree.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/difftree"
	appmsg "github.com/sadopc/gotermdiff/internal/msg"
	"github.com/sadopc/gotermdiff/internal/schema"
	"github.com/sadopc/gotermdiff/internal/theme"
)

// Model is the detail pane.
type Model struct {
	vp       viewport.Model
	hl       *Highlighter
	node     schema.Node
	fullName string
	width    int
	height   int
	focused  bool
}

// New creates an empty detail pane.
func New() Model {
	return Model{
		vp: viewport.New(0, 0),
		hl: NewHighlighter(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update shows activated objects and scrolls while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appmsg.SelectItemMsg:
		m.SetNode(msg.FullName, msg.Node)
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SetNode replaces the displayed object and scrolls back to the top.
func (m *Model) SetNode(fullName string, n schema.Node) {
	m.node = n
	m.fullName = fullName
	m.vp.SetContent(m.content())
	m.vp.GotoTop()
}

// Clear drops the displayed object, e.g. after the result is reloaded.
func (m *Model) Clear() {
	m.node = nil
	m.fullName = ""
	m.vp.SetContent("")
}

// Node returns the displayed object, or nil.
func (m Model) Node() schema.Node {
	return m.node
}

func (m Model) content() string {
	if m.node == nil {
		return ""
	}
	th := theme.Current
	color := difftree.ColorOf(m.node)

	rows := [][2]string{
		{"Kind", m.node.Kind().String()},
		{"Name", m.fullName},
		{"ID", string(m.node.ID())},
		{"Status", statusText(m.node)},
		{"Color", th.Diff(color).Render(color.String())},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(th.DetailKey.Render(fmt.Sprintf("%-7s", r[0])))
		b.WriteString(" ")
		b.WriteString(th.DetailValue.Render(r[1]))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	script := strings.TrimRight(m.node.Script(), "\n")
	if script == "" {
		b.WriteString(th.MutedText.Render("(no change script)"))
		return b.String()
	}
	b.WriteString(m.hl.Highlight(script, th))
	return b.String()
}

// statusText lists the primary status followed by any sub-flags.
func statusText(n schema.Node) string {
	parts := []string{n.Status().String()}
	for _, s := range []schema.Status{schema.StatusDisabled, schema.StatusWhitespace, schema.StatusRebuild} {
		if n.Status() != s && n.HasState(s) {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, ", ")
}

// View renders the pane.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	th := theme.Current

	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	titleStyle := th.DetailTitle
	if m.focused {
		titleStyle = titleStyle.Reverse(true)
	}
	titleLine := titleStyle.Width(innerW).Render(" Details ")

	body := m.vp.View()
	if m.node == nil {
		body = "\n  Select an object and press enter."
	}
	return m.borderStyle().Width(innerW).Height(innerH).Render(titleLine + "\n" + body)
}

func (m Model) borderStyle() lipgloss.Style {
	if m.focused {
		return theme.Current.FocusedBorder
	}
	return theme.Current.UnfocusedBorder
}

// SetSize sets the outer dimensions of the pane.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.vp.Width = max(w-2, 1)
	m.vp.Height = max(h-3, 1)
	m.vp.SetContent(m.content())
}

// Focus gives the pane keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the pane has focus.
func (m Model) Focused() bool { return m.focused }
