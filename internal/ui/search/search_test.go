package search

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	appmsg "github.com/sadopc/gotermdiff/internal/msg"
	"github.com/sadopc/gotermdiff/internal/theme"
	"github.com/sadopc/gotermdiff/internal/ui/tree"
)

func init() {
	theme.Current = theme.Default()
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func candidates() []tree.Candidate {
	return []tree.Candidate{
		{Key: "db", Label: "sales"},
		{Key: "db/Tables", Label: "Tables (3)"},
		{Key: "t:orders", Label: "dbo.Orders"},
		{Key: "t:order_lines", Label: "dbo.order_lines"},
		{Key: "t:customers", Label: "dbo.customers"},
	}
}

func keys(rs []Result) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Key)
	}
	return out
}

func TestShowListsEverything(t *testing.T) {
	m := New()
	if m.Visible() {
		t.Fatal("expected hidden initially")
	}
	m.Show(candidates())

	if !m.Visible() {
		t.Fatal("expected visible after Show")
	}
	if len(m.Results()) != 5 {
		t.Fatalf("empty query should list all candidates, got %v", keys(m.Results()))
	}
}

func TestFuzzyFilterIsCaseInsensitive(t *testing.T) {
	m := New()
	m.SetSize(80, 30)
	m.Show(candidates())

	m = typeText(m, "ORD")

	got := keys(m.Results())
	if len(got) != 2 {
		t.Fatalf("expected the two order tables, got %v", got)
	}
	for _, k := range got {
		if !strings.HasPrefix(k, "t:order") {
			t.Errorf("unexpected match %q", k)
		}
	}
	if len(m.Results()[0].Matched) != 3 {
		t.Errorf("matched indexes = %v", m.Results()[0].Matched)
	}
}

func TestNoMatches(t *testing.T) {
	m := New()
	m.SetSize(80, 30)
	m.Show(candidates())
	m = typeText(m, "zzz")

	if len(m.Results()) != 0 {
		t.Fatalf("expected no matches, got %v", keys(m.Results()))
	}
	if !strings.Contains(m.View(), "No matches") {
		t.Error("view should say there are no matches")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter with no results should do nothing")
	}
}

func TestEnterActivatesSelection(t *testing.T) {
	m := New()
	m.Show(candidates())
	m = typeText(m, "cust")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Visible() {
		t.Error("enter should close the modal")
	}
	if cmd == nil {
		t.Fatal("expected a command")
	}
	act, ok := cmd().(appmsg.NodeActivatedMsg)
	if !ok || act.Key != "t:customers" {
		t.Fatalf("expected NodeActivatedMsg for customers, got %#v", cmd())
	}
}

func TestCursorMovement(t *testing.T) {
	m := New()
	m.Show(candidates())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	m = typeText(m, "s")
	if m.cursor != 0 {
		t.Fatal("typing should reset the cursor")
	}
}

func TestEscCloses(t *testing.T) {
	m := New()
	m.Show(candidates())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Visible() {
		t.Fatal("esc should close the modal")
	}
	if m.View() != "" {
		t.Fatal("hidden modal renders nothing")
	}
}

func TestRuneIndexes(t *testing.T) {
	got := runeIndexes("äbc", []int{0, 2, 3})
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("runeIndexes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("runeIndexes = %v, want %v", got, want)
		}
	}
}
