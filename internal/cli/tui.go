package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/labelpress/labelpress/pkg/dataset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// recordPickerModel - Interactive record selection
// =============================================================================

// recordPickerModel is the bubbletea model for picking dataset rows before
// rendering. Space toggles a row, "a" toggles all, enter confirms.
type recordPickerModel struct {
	ds       *dataset.Dataset
	cursor   int
	checked  map[int]bool // 0-based row index
	done     bool         // enter pressed
	height   int
	offset   int
	maxCols  int // columns shown in the table
}

func newRecordPickerModel(ds *dataset.Dataset, preselected []int) recordPickerModel {
	checked := make(map[int]bool)
	for _, row := range preselected {
		if row >= 1 && row <= len(ds.Records) {
			checked[row-1] = true
		}
	}
	return recordPickerModel{
		ds:      ds,
		checked: checked,
		height:  15,
		maxCols: 4,
	}
}

func (m recordPickerModel) Init() tea.Cmd {
	return nil
}

func (m recordPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.ds.Records)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ":
			if m.checked[m.cursor] {
				delete(m.checked, m.cursor)
			} else {
				m.checked[m.cursor] = true
			}
		case "a":
			if len(m.checked) == len(m.ds.Records) {
				m.checked = make(map[int]bool)
			} else {
				for i := range m.ds.Records {
					m.checked[i] = true
				}
			}
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m recordPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Records"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	cols := m.ds.Columns
	if len(cols) > m.maxCols {
		cols = cols[:m.maxCols]
	}
	headers := append([]string{"", ""}, cols...)

	end := m.offset + m.height
	if end > len(m.ds.Records) {
		end = len(m.ds.Records)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.checked[i] {
			mark = iconSuccess
		}

		row := []string{cursor, mark}
		for _, col := range cols {
			row = append(row, m.ds.Records[i].Field(col))
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.offset + row
			if actualIdx == m.cursor {
				return listSelectedStyle
			}
			if m.checked[actualIdx] {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.cursor+1, len(m.ds.Records), len(m.checked))))

	return b.String()
}

// rowsString formats the checked set as a 1-based rows expression.
func (m recordPickerModel) rowsString() string {
	rows := make([]int, 0, len(m.checked))
	for i := range m.checked {
		rows = append(rows, i+1)
	}
	sort.Ints(rows)

	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%d", r)
	}
	return strings.Join(parts, ",")
}

// runRecordPicker shows the record picker and returns the selected rows as
// a 1-based expression ("" when the picker was cancelled or nothing was
// chosen). Rows already named in preselected start out checked.
func runRecordPicker(ds *dataset.Dataset, preselected string) (string, error) {
	var pre []int
	if preselected != "" {
		var err error
		pre, err = dataset.ParseRows(preselected)
		if err != nil {
			return "", err
		}
	}

	final, err := tea.NewProgram(newRecordPickerModel(ds, pre)).Run()
	if err != nil {
		return "", fmt.Errorf("record picker: %w", err)
	}

	m, ok := final.(recordPickerModel)
	if !ok || !m.done {
		return "", nil
	}
	return m.rowsString(), nil
}

// =============================================================================
// symbolPickerModel - Interactive library symbol selection
// =============================================================================

// symbolPickerModel is the bubbletea model for picking one symbol from the
// library.
type symbolPickerModel struct {
	items    []string
	cursor   int
	selected string
}

func newSymbolPickerModel(items []string) symbolPickerModel {
	return symbolPickerModel{items: items}
}

func (m symbolPickerModel) Init() tea.Cmd {
	return nil
}

func (m symbolPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.items[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m symbolPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Symbol"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := cursor + item
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.items))))

	return b.String()
}

// runSymbolPicker shows the library picker and returns the chosen item
// ("" when cancelled).
func runSymbolPicker(items []string) (string, error) {
	final, err := tea.NewProgram(newSymbolPickerModel(items)).Run()
	if err != nil {
		return "", fmt.Errorf("symbol picker: %w", err)
	}
	m, ok := final.(symbolPickerModel)
	if !ok {
		return "", nil
	}
	return m.selected, nil
}
