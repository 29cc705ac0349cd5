package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cfglevel/pkg/graph"
)

func testEntries() []functionEntry {
	return []functionEntry{
		{Name: "helper", Nodes: 1, Levels: 1},
		{Name: "main", Nodes: 4, Edges: 4, Back: 1, Levels: 3},
		{Name: "main_loop", Nodes: 2, Edges: 2, Back: 1, Levels: 2},
	}
}

func press(m FunctionPicker, keys ...tea.KeyMsg) (FunctionPicker, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(FunctionPicker)
	}
	return m, cmd
}

func TestFunctionEntries(t *testing.T) {
	doc, err := graph.UnmarshalDocument([]byte(twoFunctions))
	if err != nil {
		t.Fatal(err)
	}
	entries := functionEntries(doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	want := functionEntry{Name: "main", Nodes: 4, Edges: 4, Back: 1, Levels: 3}
	if entries[1] != want {
		t.Errorf("entries[1] = %+v, want %+v", entries[1], want)
	}
}

func TestPickerInitialSelection(t *testing.T) {
	m := NewFunctionPicker(testEntries(), "main_loop")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
	m = NewFunctionPicker(testEntries(), "unknown")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 for unknown initial", m.Cursor)
	}
}

func TestPickerNavigation(t *testing.T) {
	m := NewFunctionPicker(testEntries(), "")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d after moving past the end, want 2", m.Cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyPgUp})
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after PgUp, want 0", m.Cursor)
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "main" {
		t.Errorf("Selected = %q, want main", m.Selected)
	}
	if cmd == nil {
		t.Error("Enter did not quit")
	}
}

func TestPickerFilter(t *testing.T) {
	m := NewFunctionPicker(testEntries(), "")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("loop")})
	if len(m.filtered) != 1 {
		t.Fatalf("filtered = %v, want one entry", m.filtered)
	}
	if !strings.Contains(m.View(), "main_loop") || strings.Contains(m.View(), "helper") {
		t.Errorf("view does not reflect filter:\n%s", m.View())
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "main_loop" {
		t.Errorf("Selected = %q, want main_loop", m.Selected)
	}
}

func TestPickerFilterNoMatch(t *testing.T) {
	m := NewFunctionPicker(testEntries(), "")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zz")}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "" || cmd != nil {
		t.Errorf("Enter with no match selected %q", m.Selected)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.filtered) != 3 {
		t.Errorf("filtered = %v after clearing the filter", m.filtered)
	}
}

func TestPickerQuit(t *testing.T) {
	m := NewFunctionPicker(testEntries(), "")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Selected != "" {
		t.Errorf("Selected = %q after Esc", m.Selected)
	}
	if cmd == nil {
		t.Error("Esc did not quit")
	}
}

func TestPickerWindowSize(t *testing.T) {
	m := NewFunctionPicker(testEntries(), "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(FunctionPicker).Height; got != 5 {
		t.Errorf("Height = %d, want 5", got)
	}
}
