package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/audit"
	"github.com/sadopc/gotermdiff/internal/config"
	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/logger"
	"github.com/sadopc/gotermdiff/internal/result"
	"github.com/sadopc/gotermdiff/internal/selstore"
	"github.com/sadopc/gotermdiff/internal/theme"
	"github.com/sadopc/gotermdiff/internal/ui/detail"
	"github.com/sadopc/gotermdiff/internal/ui/dialog"
	"github.com/sadopc/gotermdiff/internal/ui/search"
	"github.com/sadopc/gotermdiff/internal/ui/statusbar"
	"github.com/sadopc/gotermdiff/internal/ui/tree"
)

const treeTitle = " Schema Diff "

// Options carries the collaborators the app does not own. Store and Audit
// may be nil; the features that need them then report an error or do
// nothing.
type Options struct {
	Path  string // comparison result file
	Store *selstore.Store
	Audit *audit.Logger
}

// Model is the root application model.
type Model struct {
	// Layout
	width     int
	height    int
	treeWidth int // percentage of the width given to the tree

	focusedPane Pane

	// Components
	tree      tree.Model
	detail    detail.Model
	statusbar statusbar.Model
	search    search.Model
	confirm   dialog.Model
	help      help.Model
	spinner   spinner.Model

	// Comparison
	path string
	key  string
	gen  uint64

	cfg   *config.Config
	store *selstore.Store
	audit *audit.Logger

	// Keybinding
	keyMap  KeyMap
	keyMode KeyMode

	// State
	showHelp bool
	loading  bool
	quitting bool
}

// New creates a new app model. Loading starts in Init when a path is set.
func New(cfg *config.Config, opts Options) Model {
	keyMode := ParseKeyMode(cfg.KeyMode)
	km := StandardKeyMap()
	if keyMode == KeyModeVim {
		km = VimKeyMap()
	}

	if t := theme.Get(cfg.Theme); t != nil {
		theme.Current = t
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	h := help.New()
	h.ShowAll = true

	m := Model{
		treeWidth:   45,
		focusedPane: PaneTree,

		tree:      tree.New(BuilderFor(cfg.Tree)),
		detail:    detail.New(),
		statusbar: statusbar.New(),
		search:    search.New(),
		confirm: dialog.Confirm(" Restore selection ",
			"Replace the checked objects with the saved selection?",
			RestoreConfirmedMsg{}),
		help:    h,
		spinner: s,

		path:    opts.Path,
		cfg:     cfg,
		store:   opts.Store,
		audit:   opts.Audit,
		keyMap:  km,
		keyMode: keyMode,
	}

	m.tree.Focus()
	m.statusbar.SetKeyMode(keyMode)
	m.statusbar.SetFilters(m.tree.Filters())
	if m.path != "" {
		m.gen = 1
		m.loading = true
		m.tree.SetLoading(true)
	}
	return m
}

// BuilderFor maps the tree section of the configuration to a tree builder.
func BuilderFor(tc config.TreeConfig) difftree.Builder {
	b := difftree.NewBuilder(difftree.Filters{
		ShowCreated: tc.ShowCreated,
		ShowDropped: tc.ShowDropped,
		ShowAltered: tc.ShowAltered,
		Mode:        difftree.ParseFilterMode(tc.FilterMode),
	})
	b.Lazy = tc.LazyExpand
	b.HideEmpty = tc.HideEmptyGroups
	return b
}

// Init starts loading the result file, if any.
func (m Model) Init() tea.Cmd {
	if m.path == "" {
		return nil
	}
	return tea.Batch(m.spinner.Tick, loadResult(m.path, m.gen))
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		// Modals take every key while open.
		if m.confirm.Visible() {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		if m.search.Visible() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			switch msg.String() {
			case "?", "f1", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}

		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
		cmds = append(cmds, m.handleFocusedPaneKey(msg))

	case FocusMsg:
		m.setFocus(msg.Pane)

	case ReloadMsg:
		cmds = append(cmds, m.reload())

	case SchemaAssignedMsg:
		if msg.Gen != m.gen {
			logger.Get().Debug("dropping stale load", "gen", msg.Gen, "current", m.gen)
			break
		}
		m.loading = false
		m.key = msg.Key
		m.tree.SetRoot(msg.Root)
		m.detail.Clear()
		for _, w := range msg.Warnings {
			logger.Get().Warn("result warning", "path", m.path, "warning", w)
		}
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		cmds = append(cmds, cmd)

	case SchemaErrMsg:
		if msg.Gen != m.gen {
			break
		}
		m.loading = false
		m.tree.SetLoading(false)
		logger.Get().Error("load result", "path", m.path, "err", msg.Err)
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		cmds = append(cmds, cmd)

	case FilterChangedMsg:
		m.tree, _ = m.tree.Update(msg)
		m.statusbar, _ = m.statusbar.Update(msg)

	case NodeActivatedMsg:
		m.setFocus(PaneTree)
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		cmds = append(cmds, cmd)

	case CheckToggledMsg:
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		cmds = append(cmds, cmd)

	case SelectItemMsg:
		m.detail, _ = m.detail.Update(msg)
		m.audit.Log(audit.Entry{Event: audit.EventActivate, Object: msg.FullName, Source: m.key})

	case SelectionChangedMsg:
		m.statusbar, _ = m.statusbar.Update(msg)

	case RestoreConfirmedMsg:
		cmds = append(cmds, m.restoreSelection())

	case SelectionRestoredMsg:
		if msg.Gen != m.gen {
			break
		}
		m.tree.SetCheckboxes(true)
		m.tree.SetSelection(msg.IDs)
		m.audit.Log(audit.Entry{Event: audit.EventRestore, Count: len(msg.IDs), Source: m.key})
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		cmds = append(cmds, cmd)

	case SelectionSavedMsg:
		m.audit.Log(audit.Entry{Event: audit.EventExport, Count: msg.Count, Source: m.key})
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		cmds = append(cmds, cmd)

	case SelectionErrMsg:
		logger.Get().Error("selection", "err", msg.Err)
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		cmds = append(cmds, cmd)

	case StatusMsg:
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		cmds = append(cmds, cmd)

	case statusbar.ClearStatusMsg:
		m.statusbar, _ = m.statusbar.Update(msg)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if m.focusedPane == PaneDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.statusbar.SetStats(m.tree.Stats())
	return m, tea.Batch(cmds...)
}

// handleGlobalKeys runs app-level bindings. The bool reports whether the key
// was consumed.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	km := m.keyMap
	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		return tea.Quit, true

	case key.Matches(msg, km.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, km.ToggleKeyMode):
		if m.keyMode == KeyModeStandard {
			m.keyMode = KeyModeVim
			m.keyMap = VimKeyMap()
		} else {
			m.keyMode = KeyModeStandard
			m.keyMap = StandardKeyMap()
		}
		m.statusbar.SetKeyMode(m.keyMode)
		return nil, true

	case key.Matches(msg, km.FocusNext):
		m.cycleFocus(1)
		return nil, true

	case key.Matches(msg, km.FocusPrev):
		m.cycleFocus(-1)
		return nil, true

	case key.Matches(msg, km.Search):
		if m.tree.Root() == nil {
			return nil, true
		}
		m.search.SetSize(m.width, m.height)
		m.search.Show(m.tree.Candidates())
		return nil, true

	case key.Matches(msg, km.Reload):
		return m.reload(), true

	case key.Matches(msg, km.SaveSelection):
		return m.saveSelection(), true

	case key.Matches(msg, km.RestoreSelection):
		if m.store == nil || m.key == "" {
			return statusCmd("no saved selections available", true), true
		}
		m.confirm.SetSize(m.width, m.height)
		m.confirm.Show()
		return nil, true

	case key.Matches(msg, km.ToggleCreated):
		return m.toggle(difftree.ToggleCreated), true

	case key.Matches(msg, km.ToggleDropped):
		return m.toggle(difftree.ToggleDropped), true

	case key.Matches(msg, km.ToggleAltered):
		return m.toggle(difftree.ToggleAltered), true

	case key.Matches(msg, km.ToggleMode):
		mode := difftree.FilterStrict
		if m.tree.Filters().Mode == difftree.FilterStrict {
			mode = difftree.FilterInclusive
		}
		m.tree.SetFilterMode(mode)
		m.statusbar.SetFilters(m.tree.Filters())
		return nil, true
	}
	return nil, false
}

// toggle flips one filter toggle through a FilterChangedMsg.
func (m *Model) toggle(t difftree.Toggle) tea.Cmd {
	v := !m.tree.Filters().Get(t)
	return func() tea.Msg {
		return FilterChangedMsg{Filter: t, Value: v}
	}
}

func (m *Model) handleFocusedPaneKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focusedPane {
	case PaneTree:
		m.tree, cmd = m.tree.Update(msg)
	case PaneDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return cmd
}

// View renders the entire application.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	statusBar := m.statusbar.View()
	mainHeight := max(m.height-lipgloss.Height(statusBar), 1)
	treeW, detailW := m.paneWidths()

	t := m.tree
	t.SetSize(treeW, mainHeight)
	if m.loading {
		t.SetTitle(treeTitle + m.spinner.View() + " ")
	}
	d := m.detail
	d.SetSize(detailW, mainHeight)

	content := lipgloss.JoinHorizontal(lipgloss.Top, t.View(), d.View())
	view := lipgloss.JoinVertical(lipgloss.Left, content, statusBar)

	switch {
	case m.confirm.Visible():
		return m.confirm.Overlay(view)
	case m.search.Visible():
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.search.View())
	case m.showHelp:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelpScreen())
	}
	return view
}

func (m Model) paneWidths() (int, int) {
	treeW := max(m.width*m.treeWidth/100, 20)
	return treeW, max(m.width-treeW, 1)
}

func (m *Model) updateLayout() {
	mainHeight := max(m.height-1, 1)
	treeW, detailW := m.paneWidths()
	m.tree.SetSize(treeW, mainHeight)
	m.detail.SetSize(detailW, mainHeight)
	m.statusbar.SetSize(m.width)
	m.search.SetSize(m.width, m.height)
	m.confirm.SetSize(m.width, m.height)
	m.help.Width = m.width
}

func (m *Model) cycleFocus(direction int) {
	panes := []Pane{PaneTree, PaneDetail}
	current := 0
	for i, p := range panes {
		if p == m.focusedPane {
			current = i
			break
		}
	}
	m.setFocus(panes[(current+direction+len(panes))%len(panes)])
}

func (m *Model) setFocus(pane Pane) {
	switch m.focusedPane {
	case PaneTree:
		m.tree.Blur()
	case PaneDetail:
		m.detail.Blur()
	}

	m.focusedPane = pane

	switch pane {
	case PaneTree:
		m.tree.Focus()
	case PaneDetail:
		m.detail.Focus()
	}
}

func (m Model) renderHelpScreen() string {
	th := theme.Current
	content := lipgloss.JoinVertical(lipgloss.Left,
		th.DialogTitle.Render("  gotermdiff - Keyboard Shortcuts"),
		"",
		m.help.View(m.keyMap),
		"",
		th.MutedText.Render("  Press ? / F1 / Esc to close"),
	)
	return th.DialogBorder.Render(content)
}

// reload starts a new load generation. Results of earlier loads still in
// flight are dropped when they arrive.
func (m *Model) reload() tea.Cmd {
	if m.path == "" {
		return statusCmd("no result file to reload", true)
	}
	m.gen++
	m.loading = true
	m.tree.SetLoading(true)
	m.audit.Log(audit.Entry{Event: audit.EventReload, Source: m.path})
	logger.Get().Info("reloading result", "path", m.path, "gen", m.gen)
	return tea.Batch(m.spinner.Tick, loadResult(m.path, m.gen))
}

func loadResult(path string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		r, err := result.Load(path)
		if err != nil {
			return SchemaErrMsg{Err: err, Gen: gen}
		}
		return SchemaAssignedMsg{
			Root:     r.Database,
			Source:   r.Source,
			Target:   r.Target,
			Key:      r.Key(),
			Warnings: r.Warnings,
			Gen:      gen,
		}
	}
}

func (m *Model) saveSelection() tea.Cmd {
	if m.store == nil {
		return statusCmd("selection store is not available", true)
	}
	if m.key == "" {
		return statusCmd("nothing loaded", true)
	}
	store, cmpKey := m.store, m.key
	ids := m.tree.Selection().IDs()
	return func() tea.Msg {
		if err := store.Save(cmpKey, ids); err != nil {
			return SelectionErrMsg{Err: fmt.Errorf("save selection: %w", err)}
		}
		return SelectionSavedMsg{Count: len(ids)}
	}
}

func (m *Model) restoreSelection() tea.Cmd {
	if m.store == nil || m.key == "" {
		return nil
	}
	store, cmpKey, gen := m.store, m.key, m.gen
	return func() tea.Msg {
		ids, err := store.Load(cmpKey)
		if errors.Is(err, selstore.ErrNotFound) {
			return StatusMsg{Text: "no saved selection for this comparison"}
		}
		if err != nil {
			return SelectionErrMsg{Err: fmt.Errorf("restore selection: %w", err)}
		}
		return SelectionRestoredMsg{IDs: ids, Gen: gen}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text, IsError: isError}
	}
}

// Tree returns the tree pane.
func (m Model) Tree() tree.Model { return m.tree }

// Detail returns the detail pane.
func (m Model) Detail() detail.Model { return m.detail }

// Key returns the comparison key of the loaded result.
func (m Model) Key() string { return m.key }

// Gen returns the current load generation.
func (m Model) Gen() uint64 { return m.gen }
