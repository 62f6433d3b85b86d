package detail

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	appmsg "github.com/sadopc/gotermdiff/internal/msg"
	"github.com/sadopc/gotermdiff/internal/schema"
	"github.com/sadopc/gotermdiff/internal/theme"
)

// lipgloss renders without escape codes when there is no TTY, so these tests
// check text content only.

func ordersTable() *schema.Table {
	return &schema.Table{Object: schema.Object{
		Ident: "t:orders",
		Label: "orders",
		Owner: "dbo",
		State: schema.StatusAltered,
		Flags: schema.FlagRebuild,
		SQL:   "ALTER TABLE [dbo].[orders] ADD [total] money NULL;\n",
	}}
}

func TestNew(t *testing.T) {
	m := New()
	if m.Node() != nil {
		t.Fatal("new pane should be empty")
	}
	if m.Focused() {
		t.Fatal("new pane should not be focused")
	}
	if m.View() != "" {
		t.Fatal("View with zero size should be empty")
	}
}

func TestSelectItemMsg(t *testing.T) {
	m := New()
	m.SetSize(80, 20)
	tbl := ordersTable()

	m, _ = m.Update(appmsg.SelectItemMsg{FullName: "dbo.orders", Node: tbl})
	if m.Node() != schema.Node(tbl) {
		t.Fatal("SelectItemMsg should set the node")
	}

	content := m.content()
	for _, want := range []string{"table", "dbo.orders", "t:orders", "altered, rebuild", "blue", "ALTER", "orders", "money"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q:\n%s", want, content)
		}
	}
}

func TestNoScript(t *testing.T) {
	m := New()
	m.SetSize(80, 20)
	col := &schema.Column{Object: schema.Object{Ident: "c:orders.id", Label: "id", Parent: "dbo.orders"}}
	m.SetNode("dbo.orders.id", col)

	content := m.content()
	if !strings.Contains(content, "(no change script)") {
		t.Errorf("expected placeholder for missing script:\n%s", content)
	}
	if !strings.Contains(content, "unchanged") || !strings.Contains(content, "black") {
		t.Errorf("expected unchanged/black:\n%s", content)
	}
}

func TestClear(t *testing.T) {
	m := New()
	m.SetSize(80, 20)
	m.SetNode("dbo.orders", ordersTable())
	m.Clear()
	if m.Node() != nil {
		t.Fatal("Clear should drop the node")
	}
	if !strings.Contains(m.View(), "Select an object") {
		t.Error("cleared pane should show the hint")
	}
}

func TestKeysIgnoredWhenBlurred(t *testing.T) {
	m := New()
	m.SetSize(40, 5)
	m.SetNode("dbo.orders", &schema.Table{Object: schema.Object{
		Ident: "t:orders",
		Label: "orders",
		SQL:   strings.Repeat("SELECT 1;\n", 50),
	}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if !m.vp.AtTop() {
		t.Fatal("blurred pane should not scroll")
	}

	m.Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.vp.AtTop() {
		t.Fatal("focused pane should scroll")
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		obj  schema.Object
		want string
	}{
		{"plain", schema.Object{State: schema.StatusCreated}, "created"},
		{"flags", schema.Object{State: schema.StatusAltered, Flags: schema.FlagDisabled | schema.FlagWhitespace}, "altered, disabled, whitespace"},
		{"primary flag not repeated", schema.Object{State: schema.StatusDisabled, Flags: schema.FlagDisabled}, "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statusText(&schema.Table{Object: tt.obj})
			if got != tt.want {
				t.Errorf("statusText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHighlight(t *testing.T) {
	h := NewHighlighter()
	if h.lexer == nil {
		t.Fatal("lexer is nil")
	}
	th := theme.Default()

	script := "-- add column\nALTER TABLE t ADD c int DEFAULT 'x';\nGO"
	got := h.Highlight(script, th)
	for _, want := range []string{"add column", "ALTER", "TABLE", "int", "'x'", "GO"} {
		if !strings.Contains(got, want) {
			t.Errorf("highlighted output missing %q", want)
		}
	}
	if strings.Count(got, "\n") != strings.Count(script, "\n") {
		t.Errorf("newline count changed: %q", got)
	}
}

func TestHighlight_NilThemeAndEmpty(t *testing.T) {
	h := NewHighlighter()
	if got := h.Highlight("SELECT 1", nil); got != "SELECT 1" {
		t.Errorf("nil theme should pass through, got %q", got)
	}
	if got := h.Highlight("", theme.Default()); got != "" {
		t.Errorf("empty script should stay empty, got %q", got)
	}
}
