package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all application keybindings. Tree navigation keys are
// handled by the tree pane itself and listed here for help only.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Activate key.Binding

	// Selection
	Check            key.Binding
	ToggleCheckboxes key.Binding
	SaveSelection    key.Binding
	RestoreSelection key.Binding

	// Filters
	ToggleCreated key.Binding
	ToggleDropped key.Binding
	ToggleAltered key.Binding
	ToggleMode    key.Binding

	// Panes
	FocusNext key.Binding
	FocusPrev key.Binding

	// App
	Search        key.Binding
	Reload        key.Binding
	ToggleKeyMode key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// StandardKeyMap returns keybindings for standard mode.
func StandardKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "collapse"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Check: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "check"),
		),
		ToggleCheckboxes: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "checkboxes"),
		),
		SaveSelection: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save selection"),
		),
		RestoreSelection: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "restore selection"),
		),
		ToggleCreated: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "created"),
		),
		ToggleDropped: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dropped"),
		),
		ToggleAltered: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "altered"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "strict/inclusive"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev pane"),
		),
		Search: key.NewBinding(
			key.WithKeys("/", "ctrl+f"),
			key.WithHelp("/", "find"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "reload"),
		),
		ToggleKeyMode: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "vim/standard"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// VimKeyMap returns keybindings for vim mode.
func VimKeyMap() KeyMap {
	km := StandardKeyMap()

	km.Up = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k", "up"),
	)
	km.Down = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j", "down"),
	)
	km.Expand = key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("l", "expand"),
	)
	km.Collapse = key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("h", "collapse"),
	)
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+q", "ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	)

	return km
}

// ShortHelp returns a subset of keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Activate, k.Check, k.Search, k.FocusNext, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse, k.Activate},
		{k.Check, k.ToggleCheckboxes, k.SaveSelection, k.RestoreSelection},
		{k.ToggleCreated, k.ToggleDropped, k.ToggleAltered, k.ToggleMode},
		{k.FocusNext, k.FocusPrev, k.Search, k.Reload},
		{k.ToggleKeyMode, k.Help, k.Quit},
	}
}
