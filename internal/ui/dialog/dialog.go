// Package dialog provides a small modal with a row of buttons, used to
// confirm actions that replace the user's work.
package dialog

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/theme"
)

// Button is one choice. Key is an optional single-key shortcut. Msg is
// emitted when the button is chosen; a nil Msg just closes the dialog.
type Button struct {
	Label string
	Key   string
	Msg   tea.Msg
}

// Model is the modal dialog.
type Model struct {
	title    string
	body     string
	buttons  []Button
	active   int
	visible  bool
	width    int
	height   int
	maxWidth int
}

// New creates a hidden dialog.
func New(title, body string, buttons ...Button) Model {
	return Model{
		title:    title,
		body:     body,
		buttons:  buttons,
		maxWidth: 60,
	}
}

// Confirm creates a Yes/No dialog that emits onYes when confirmed. No is
// focused when shown.
func Confirm(title, body string, onYes tea.Msg) Model {
	return New(title, body,
		Button{Label: "Yes", Key: "y", Msg: onYes},
		Button{Label: "No", Key: "n"},
	)
}

// Init returns no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles keys while the dialog is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "left", "shift+tab", "h":
		if m.active > 0 {
			m.active--
		}
	case "right", "tab", "l":
		if m.active < len(m.buttons)-1 {
			m.active++
		}
	case "enter":
		return m.choose(m.active)
	case "esc", "q":
		m.visible = false
	default:
		for i, b := range m.buttons {
			if b.Key != "" && strings.EqualFold(b.Key, s) {
				return m.choose(i)
			}
		}
	}
	return m, nil
}

func (m Model) choose(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.buttons) {
		return m, nil
	}
	m.visible = false
	if out := m.buttons[i].Msg; out != nil {
		return m, func() tea.Msg { return out }
	}
	return m, nil
}

// View renders the dialog box without positioning.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	th := theme.Current
	inner := max(m.maxWidth-4, 10)

	btns := make([]string, 0, len(m.buttons))
	for i, b := range m.buttons {
		style := th.DialogButton
		if i == m.active {
			style = th.DialogButtonActive
		}
		label := b.Label
		if b.Key != "" {
			label += " (" + b.Key + ")"
		}
		btns = append(btns, style.Render(" "+label+" "))
	}
	row := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, btns...))

	return th.DialogBorder.Render(lipgloss.JoinVertical(lipgloss.Left,
		th.DialogTitle.Render(m.title),
		"",
		lipgloss.NewStyle().Width(inner).Render(m.body),
		"",
		row,
	))
}

// Overlay returns the dialog centered in the available area when visible,
// otherwise background unchanged.
func (m Model) Overlay(background string) string {
	if !m.visible {
		return background
	}
	if m.width == 0 || m.height == 0 {
		return m.View()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.View())
}

// Show makes the dialog visible with the default button focused.
func (m *Model) Show() {
	m.visible = true
	m.active = m.defaultButton()
}

// defaultButton is the last button, which is the safe choice for Confirm.
func (m Model) defaultButton() int {
	return max(len(m.buttons)-1, 0)
}

// SetBody replaces the message text.
func (m *Model) SetBody(body string) {
	m.body = body
}

// Hide closes the dialog without choosing.
func (m *Model) Hide() {
	m.visible = false
}

// Visible returns whether the dialog is shown.
func (m Model) Visible() bool {
	return m.visible
}

// SetSize sets the area the dialog is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.maxWidth = min(60, max(width-4, 14))
}
