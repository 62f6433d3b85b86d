package statusbar

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/difftree"
	appmsg "github.com/sadopc/gotermdiff/internal/msg"
	"github.com/sadopc/gotermdiff/internal/theme"
)

// ClearStatusMsg is sent after a timeout to revert the status bar to key
// hints. Gen identifies the message it was scheduled for, so an older timer
// cannot clear a newer message.
type ClearStatusMsg struct {
	Gen uint64
}

// clearDelay is how long a transient message stays up.
const clearDelay = 5 * time.Second

// Model is the status bar component.
type Model struct {
	width   int
	source  string
	target  string
	filters difftree.Filters
	stats   difftree.Stats
	keyMode appmsg.KeyMode
	message string
	isError bool
	gen     uint64
}

// New creates a new status bar.
func New() Model {
	return Model{
		filters: difftree.DefaultFilters(),
		keyMode: appmsg.KeyModeStandard,
	}
}

// Init returns no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case appmsg.SchemaAssignedMsg:
		m.source = msg.Source
		m.target = msg.Target
		m.message = ""
		m.isError = false
		if n := len(msg.Warnings); n > 0 {
			cmd = m.flash(fmt.Sprintf("loaded with %d warning(s)", n), false)
		}

	case appmsg.SchemaErrMsg:
		cmd = m.flash(errText(msg.Err), true)

	case appmsg.FilterChangedMsg:
		m.filters = m.filters.With(msg.Filter, msg.Value)

	case appmsg.SelectionChangedMsg:
		m.stats.Checked = msg.Count

	case appmsg.SelectionSavedMsg:
		cmd = m.flash(fmt.Sprintf("saved %d object(s)", msg.Count), false)

	case appmsg.SelectionRestoredMsg:
		cmd = m.flash(fmt.Sprintf("restored %d object(s)", len(msg.IDs)), false)

	case appmsg.SelectionErrMsg:
		cmd = m.flash(errText(msg.Err), true)

	case appmsg.StatusMsg:
		cmd = m.flashFor(msg.Text, msg.IsError, msg.Duration)

	case ClearStatusMsg:
		if msg.Gen == m.gen {
			m.message = ""
			m.isError = false
		}
	}

	return m, cmd
}

// flash shows a transient message and schedules its removal.
func (m *Model) flash(text string, isError bool) tea.Cmd {
	return m.flashFor(text, isError, clearDelay)
}

// flashFor is flash with a custom lifetime. Non-positive durations use the
// default.
func (m *Model) flashFor(text string, isError bool, d time.Duration) tea.Cmd {
	if d <= 0 {
		d = clearDelay
	}
	m.message = text
	m.isError = isError
	m.gen++
	gen := m.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Gen: gen}
	})
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// View renders the status bar.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	th := theme.Current

	left := th.StatusBarKey.Render(" " + m.comparison() + " ")

	var center string
	switch {
	case m.message != "" && m.isError:
		center = th.StatusBarError.Render(" " + truncate(m.message, m.width/2) + " ")
	case m.message != "":
		center = th.StatusBarSuccess.Render(" " + truncate(m.message, m.width/2) + " ")
	default:
		hintKey := th.StatusBarValue
		hintSep := th.StatusBar
		center = hintKey.Render("Enter") +
			hintSep.Render(" Open ") +
			hintKey.Render("Space") +
			hintSep.Render(" Check ") +
			hintKey.Render("/") +
			hintSep.Render(" Find ") +
			hintKey.Render("?") +
			hintSep.Render(" Help ")
	}

	right := th.StatusBarValue.Render(" "+m.toggles()+" ") +
		th.StatusBarKey.Render(" "+m.counts()+" ")
	if m.keyMode == appmsg.KeyModeVim {
		right += th.StatusBarValue.Render(" vim ")
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right), 0)
	leftGap := gap / 2
	rightGap := gap - leftGap

	bar := left +
		th.StatusBar.Render(strings.Repeat(" ", leftGap)) +
		center +
		th.StatusBar.Render(strings.Repeat(" ", rightGap)) +
		right

	return th.StatusBar.Width(m.width).Render(bar)
}

func (m Model) comparison() string {
	switch {
	case m.source == "" && m.target == "":
		return "no comparison"
	case m.target == "":
		return m.source
	default:
		return m.source + " → " + m.target
	}
}

// toggles renders the filter state as e.g. "+C +D -A strict".
func (m Model) toggles() string {
	mark := func(on bool, letter string) string {
		if on {
			return "+" + letter
		}
		return "-" + letter
	}
	return strings.Join([]string{
		mark(m.filters.ShowCreated, "C"),
		mark(m.filters.ShowDropped, "D"),
		mark(m.filters.ShowAltered, "A"),
		m.filters.Mode.String(),
	}, " ")
}

func (m Model) counts() string {
	return fmt.Sprintf("%d obj  %d chg  %d ✓", m.stats.Objects, m.stats.Changed, m.stats.Checked)
}

// SetSize sets the status bar width.
func (m *Model) SetSize(width int) {
	m.width = width
}

// SetFilters replaces the displayed filter state.
func (m *Model) SetFilters(f difftree.Filters) {
	m.filters = f
}

// SetStats replaces the displayed counts.
func (m *Model) SetStats(s difftree.Stats) {
	m.stats = s
}

// KeyMode returns the current key mode.
func (m Model) KeyMode() appmsg.KeyMode {
	return m.keyMode
}

// SetKeyMode sets the key mode.
func (m *Model) SetKeyMode(mode appmsg.KeyMode) {
	m.keyMode = mode
}

// Message returns the transient message, if any.
func (m Model) Message() (string, bool) {
	return m.message, m.isError
}

func truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}
