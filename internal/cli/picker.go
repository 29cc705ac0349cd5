package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cfglevel/pkg/graph"
)

// errNoSelection is returned when the picker is closed without a choice.
var errNoSelection = errors.New("no function selected")

var (
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// functionEntry is one row of the picker.
type functionEntry struct {
	Name   string
	Nodes  int
	Edges  int
	Back   int
	Levels int
}

// functionEntries levels every function of doc for display.
func functionEntries(doc graph.Document) []functionEntry {
	names := doc.Names()
	entries := make([]functionEntry, len(names))
	for i, name := range names {
		g, _ := doc.Lookup(name)
		l := graph.Level(g)
		entries[i] = functionEntry{
			Name:   name,
			Nodes:  l.Stats.Nodes,
			Edges:  l.Stats.Edges,
			Back:   l.Stats.Back,
			Levels: l.Stats.Levels,
		}
	}
	return entries
}

// =============================================================================
// FunctionPicker - Interactive function selection
// =============================================================================

// FunctionPicker is the bubbletea model that lets the user pick one function
// of a multi-function document.
type FunctionPicker struct {
	Entries  []functionEntry
	Cursor   int
	Offset   int
	Height   int
	Selected string
	Filter   string
	filtered []int
}

// NewFunctionPicker creates a picker over entries, initially on initial
// when it names one of them.
func NewFunctionPicker(entries []functionEntry, initial string) FunctionPicker {
	m := FunctionPicker{Entries: entries, Height: 15}
	m.refilter()
	for i, idx := range m.filtered {
		if entries[idx].Name == initial {
			m.Cursor = i
			m.scroll()
		}
	}
	return m
}

func (m FunctionPicker) Init() tea.Cmd {
	return nil
}

func (m FunctionPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown:
			m.move(1)
		case tea.KeyPgUp:
			m.move(-m.Height)
		case tea.KeyPgDown:
			m.move(m.Height)
		case tea.KeyEnter:
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.Selected = m.Entries[m.filtered[m.Cursor]].Name
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.refilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m *FunctionPicker) move(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.filtered)-1)
	m.scroll()
}

func (m *FunctionPicker) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// refilter keeps the entries whose name contains Filter.
func (m *FunctionPicker) refilter() {
	m.filtered = make([]int, 0, len(m.Entries))
	needle := strings.ToLower(m.Filter)
	for i, e := range m.Entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.Cursor = min(m.Cursor, max(len(m.filtered)-1, 0))
	m.Offset = 0
	m.scroll()
}

func (m FunctionPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Function"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString("filter: " + StyleValue.Render(m.Filter))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.filtered))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[m.filtered[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			e.Name,
			strconv.Itoa(e.Nodes),
			strconv.Itoa(e.Edges),
			strconv.Itoa(e.Back),
			strconv.Itoa(e.Levels),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Function", "Nodes", "Edges", "Back", "Levels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.filtered)), len(m.filtered))))

	return b.String()
}

// pickFunction runs the picker on the terminal and returns the chosen name.
func pickFunction(in io.Reader, out io.Writer, doc graph.Document, initial string) (string, error) {
	model := NewFunctionPicker(functionEntries(doc), initial)
	final, err := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("function picker: %w", err)
	}
	picked := final.(FunctionPicker)
	if picked.Selected == "" {
		return "", errNoSelection
	}
	return picked.Selected, nil
}
