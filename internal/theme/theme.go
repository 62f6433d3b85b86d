// Package theme provides a centralized styling system for the gotermdiff
// terminal UI. Every visual element references a lipgloss.Style held in a
// Theme struct so that the entire look-and-feel can be swapped at runtime.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/difftree"
)

// Theme holds lipgloss.Style values for every UI element in the application.
type Theme struct {
	Name string

	// Diff palette, one style per difftree.Color.
	DiffNeutral    lipgloss.Style
	DiffDropped    lipgloss.Style
	DiffCreated    lipgloss.Style
	DiffAltered    lipgloss.Style
	DiffWhitespace lipgloss.Style
	DiffRebuild    lipgloss.Style
	DiffMixed      lipgloss.Style

	// Tree pane
	TreeTitle    lipgloss.Style
	TreeSelected lipgloss.Style
	TreeCount    lipgloss.Style
	TreeCheckbox lipgloss.Style

	// Detail pane
	DetailTitle lipgloss.Style
	DetailKey   lipgloss.Style
	DetailValue lipgloss.Style

	// SQL Syntax highlighting
	SQLKeyword    lipgloss.Style
	SQLString     lipgloss.Style
	SQLNumber     lipgloss.Style
	SQLComment    lipgloss.Style
	SQLOperator   lipgloss.Style
	SQLFunction   lipgloss.Style
	SQLType       lipgloss.Style
	SQLIdentifier lipgloss.Style

	// Status bar
	StatusBar        lipgloss.Style
	StatusBarKey     lipgloss.Style
	StatusBarValue   lipgloss.Style
	StatusBarError   lipgloss.Style
	StatusBarSuccess lipgloss.Style

	// Search box
	SearchPrompt lipgloss.Style
	SearchMatch  lipgloss.Style

	// Dialog/Modal
	DialogBorder       lipgloss.Style
	DialogTitle        lipgloss.Style
	DialogButton       lipgloss.Style
	DialogButtonActive lipgloss.Style

	// General
	FocusedBorder   lipgloss.Style
	UnfocusedBorder lipgloss.Style
	ErrorText       lipgloss.Style
	SuccessText     lipgloss.Style
	WarningText     lipgloss.Style
	MutedText       lipgloss.Style
}

// Diff returns the style for a tree color. Unknown colors render neutral.
func (t *Theme) Diff(c difftree.Color) lipgloss.Style {
	switch c {
	case difftree.Red:
		return t.DiffDropped
	case difftree.Green:
		return t.DiffCreated
	case difftree.Blue:
		return t.DiffAltered
	case difftree.Gold:
		return t.DiffWhitespace
	case difftree.Purple:
		return t.DiffRebuild
	case difftree.Plum:
		return t.DiffMixed
	default:
		return t.DiffNeutral
	}
}

// palette is the set of colors a theme is built from.
type palette struct {
	name string

	fg, muted, border, accent, selBg, selFg string
	barBg, barFg, barKeyBg, barKeyFg, panel string
	errBg, okBg, warn                       string

	neutral, dropped, created, altered, whitespace, rebuild, mixed string

	keyword, str, number, comment, operator, function, typ, ident string
}

func build(p palette) *Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	fg := func(hex string) lipgloss.Style { return lipgloss.NewStyle().Foreground(c(hex)) }
	border := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c(hex))
	}

	return &Theme{
		Name: p.name,

		DiffNeutral:    fg(p.neutral),
		DiffDropped:    fg(p.dropped).Strikethrough(true),
		DiffCreated:    fg(p.created),
		DiffAltered:    fg(p.altered),
		DiffWhitespace: fg(p.whitespace),
		DiffRebuild:    fg(p.rebuild),
		DiffMixed:      fg(p.mixed).Italic(true),

		TreeTitle:    fg(p.accent).Bold(true).PaddingLeft(1),
		TreeSelected: lipgloss.NewStyle().Bold(true).Foreground(c(p.selFg)).Background(c(p.selBg)),
		TreeCount:    fg(p.muted),
		TreeCheckbox: fg(p.accent),

		DetailTitle: fg(p.accent).Bold(true),
		DetailKey:   fg(p.muted),
		DetailValue: fg(p.fg),

		SQLKeyword:    fg(p.keyword).Bold(true),
		SQLString:     fg(p.str),
		SQLNumber:     fg(p.number),
		SQLComment:    fg(p.comment).Italic(true),
		SQLOperator:   fg(p.operator),
		SQLFunction:   fg(p.function),
		SQLType:       fg(p.typ),
		SQLIdentifier: fg(p.ident),

		StatusBar:        lipgloss.NewStyle().Foreground(c(p.barFg)).Background(c(p.barBg)),
		StatusBarKey:     lipgloss.NewStyle().Bold(true).Foreground(c(p.barKeyFg)).Background(c(p.barKeyBg)).Padding(0, 1),
		StatusBarValue:   lipgloss.NewStyle().Foreground(c(p.fg)).Background(c(p.panel)).Padding(0, 1),
		StatusBarError:   lipgloss.NewStyle().Bold(true).Foreground(c(p.selFg)).Background(c(p.errBg)),
		StatusBarSuccess: lipgloss.NewStyle().Bold(true).Foreground(c(p.selFg)).Background(c(p.okBg)),

		SearchPrompt: fg(p.accent).Bold(true),
		SearchMatch:  fg(p.warn).Underline(true),

		DialogBorder:       border(p.accent).Padding(1, 2),
		DialogTitle:        fg(p.accent).Bold(true),
		DialogButton:       lipgloss.NewStyle().Foreground(c(p.fg)).Background(c(p.border)).Padding(0, 2),
		DialogButtonActive: lipgloss.NewStyle().Bold(true).Foreground(c(p.barKeyFg)).Background(c(p.barKeyBg)).Padding(0, 2),

		FocusedBorder:   border(p.accent),
		UnfocusedBorder: border(p.border),
		ErrorText:       fg(p.dropped).Bold(true),
		SuccessText:     fg(p.created),
		WarningText:     fg(p.warn),
		MutedText:       fg(p.muted),
	}
}

// ---------------------------------------------------------------------------
// Theme definitions
// ---------------------------------------------------------------------------

// newDefaultTheme builds the Default dark theme.
func newDefaultTheme() *Theme {
	return build(palette{
		name:   "default",
		fg:     "#D4D4D4",
		muted:  "#808080",
		border: "#3C3C3C",
		accent: "#569CD6",
		selBg:  "#264F78",
		selFg:  "#FFFFFF",
		barBg:  "#007ACC", barFg: "#FFFFFF", barKeyBg: "#007ACC", barKeyFg: "#FFFFFF",
		panel: "#1E1E1E",
		errBg: "#F44747", okBg: "#6A9955", warn: "#CCA700",

		neutral:    "#D4D4D4",
		dropped:    "#F44747",
		created:    "#6A9955",
		altered:    "#569CD6",
		whitespace: "#D7BA7D",
		rebuild:    "#C586C0",
		mixed:      "#DDA0DD",

		keyword: "#569CD6", str: "#CE9178", number: "#B5CEA8", comment: "#6A9955",
		operator: "#D4D4D4", function: "#DCDCAA", typ: "#4EC9B0", ident: "#9CDCFE",
	})
}

// newLightTheme builds the Light theme suitable for light terminal backgrounds.
func newLightTheme() *Theme {
	return build(palette{
		name:   "light",
		fg:     "#1E1E1E",
		muted:  "#A0A0A0",
		border: "#D4D4D4",
		accent: "#0451A5",
		selBg:  "#0060C0",
		selFg:  "#FFFFFF",
		barBg:  "#0060C0", barFg: "#FFFFFF", barKeyBg: "#0060C0", barKeyFg: "#FFFFFF",
		panel: "#F3F3F3",
		errBg: "#E51400", okBg: "#16825D", warn: "#BF8803",

		neutral:    "#1E1E1E",
		dropped:    "#E51400",
		created:    "#16825D",
		altered:    "#0451A5",
		whitespace: "#BF8803",
		rebuild:    "#AF00DB",
		mixed:      "#8E4585",

		keyword: "#0000FF", str: "#A31515", number: "#098658", comment: "#008000",
		operator: "#1E1E1E", function: "#795E26", typ: "#267F99", ident: "#001080",
	})
}

// newMonokaiTheme builds a Monokai-inspired dark theme.
func newMonokaiTheme() *Theme {
	return build(palette{
		name:   "monokai",
		fg:     "#F8F8F2",
		muted:  "#75715E",
		border: "#49483E",
		accent: "#F92672",
		selBg:  "#49483E",
		selFg:  "#F8F8F2",
		barBg:  "#75715E", barFg: "#F8F8F2", barKeyBg: "#A6E22E", barKeyFg: "#272822",
		panel: "#3E3D32",
		errBg: "#F92672", okBg: "#A6E22E", warn: "#E6DB74",

		neutral:    "#F8F8F2",
		dropped:    "#F92672",
		created:    "#A6E22E",
		altered:    "#66D9EF",
		whitespace: "#E6DB74",
		rebuild:    "#AE81FF",
		mixed:      "#DDA0DD",

		keyword: "#F92672", str: "#E6DB74", number: "#AE81FF", comment: "#75715E",
		operator: "#F92672", function: "#A6E22E", typ: "#66D9EF", ident: "#F8F8F2",
	})
}

// ---------------------------------------------------------------------------
// Registry and accessors
// ---------------------------------------------------------------------------

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": newDefaultTheme(),
	"light":   newLightTheme(),
	"monokai": newMonokaiTheme(),
}

// Current is the currently active theme. It is initialized to Default.
var Current = Themes["default"]

// Default returns the default dark theme.
func Default() *Theme {
	return Themes["default"]
}

// Get returns the theme identified by name. If no theme with that name exists
// it falls back to the default theme.
func Get(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Default()
}
