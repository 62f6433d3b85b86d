// Package search is the find-node modal: a text input fuzzy-matched against
// the labels of the diff tree.
package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	appmsg "github.com/sadopc/gotermdiff/internal/msg"
	"github.com/sadopc/gotermdiff/internal/theme"
	"github.com/sadopc/gotermdiff/internal/ui/tree"
)

const maxResults = 200

// Result is a candidate that matched the query.
type Result struct {
	tree.Candidate
	Matched []int // rune indexes of Label that matched
}

// Model is the search modal.
type Model struct {
	candidates []tree.Candidate
	results    []Result
	cursor     int
	offset     int
	visible    bool
	width      int
	height     int
	input      textinput.Model
}

// New creates a hidden search modal.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Find object..."
	ti.Prompt = "  / "
	ti.Width = 50
	return Model{input: ti}
}

// Show opens the modal over the given candidates.
func (m *Model) Show(candidates []tree.Candidate) {
	m.candidates = candidates
	m.visible = true
	m.cursor = 0
	m.offset = 0
	m.input.SetValue("")
	m.input.Focus()
	m.filter()
}

// Hide closes the modal.
func (m *Model) Hide() {
	m.visible = false
	m.input.Blur()
}

// Visible returns whether the modal is shown.
func (m Model) Visible() bool { return m.visible }

// Results returns the current matches, best first.
func (m Model) Results() []Result { return m.results }

// SetSize sets the available space.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles search messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Hide()
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.ensureVisible()
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.results) {
				key := m.results[m.cursor].Key
				m.Hide()
				return m, func() tea.Msg {
					return appmsg.NodeActivatedMsg{Key: key}
				}
			}
			return m, nil
		}

		prev := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != prev {
			m.cursor = 0
			m.offset = 0
			m.filter()
		}
		return m, cmd
	}

	// Non-key messages (e.g. blink)
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	th := theme.Current
	w := m.dialogWidth()

	title := th.DialogTitle.Render("  Find  ")
	inputView := m.input.View()

	visible := m.visibleCount()
	end := min(m.offset+visible, len(m.results))

	var lines []string
	for i := m.offset; i < end; i++ {
		r := m.results[i]
		if i == m.cursor {
			lines = append(lines, th.TreeSelected.Render("  "+r.Label))
			continue
		}
		lines = append(lines, "  "+highlight(r.Label, r.Matched, th))
	}
	if len(m.results) == 0 {
		lines = append(lines, th.MutedText.Render("  No matches"))
	}

	count := th.MutedText.Render(fmt.Sprintf("  %d of %d", len(m.results), len(m.candidates)))
	help := th.MutedText.Render("  enter:go to  esc:close  up/down:navigate")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		inputView,
		"",
		strings.Join(lines, "\n"),
		"",
		count,
		help,
	)
	return th.DialogBorder.Width(w).Render(content)
}

func highlight(label string, matched []int, th *theme.Theme) string {
	if len(matched) == 0 {
		return label
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(label) {
		if hit[i] {
			b.WriteString(th.SearchMatch.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// labels implements fuzzy.Source over lowercased candidate labels.
type labels []string

func (l labels) String(i int) string { return l[i] }
func (l labels) Len() int            { return len(l) }

// filter recomputes the results. An empty query lists every candidate in
// tree order; otherwise matches are ranked by fuzzy score.
func (m *Model) filter() {
	q := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.results = nil

	if q == "" {
		for _, c := range m.candidates {
			m.results = append(m.results, Result{Candidate: c})
		}
	} else {
		src := make(labels, len(m.candidates))
		for i, c := range m.candidates {
			src[i] = strings.ToLower(c.Label)
		}
		for _, match := range fuzzy.FindFrom(q, src) {
			m.results = append(m.results, Result{
				Candidate: m.candidates[match.Index],
				Matched:   runeIndexes(src[match.Index], match.MatchedIndexes),
			})
		}
	}
	if len(m.results) > maxResults {
		m.results = m.results[:maxResults]
	}
}

// runeIndexes converts the byte offsets reported by fuzzy into rune indexes.
func runeIndexes(s string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	want := make(map[int]bool, len(byteIdx))
	for _, b := range byteIdx {
		want[b] = true
	}
	var out []int
	ri := 0
	for bi := range s {
		if want[bi] {
			out = append(out, ri)
		}
		ri++
	}
	return out
}

func (m Model) dialogWidth() int {
	w := 70
	if m.width > 0 && w > m.width-4 {
		w = m.width - 4
	}
	return w
}

// visibleCount returns how many results fit: title, input, two blanks,
// count and help lines plus the border and padding.
func (m Model) visibleCount() int {
	return max(m.height-12, 3)
}

func (m *Model) ensureVisible() {
	visible := m.visibleCount()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}
