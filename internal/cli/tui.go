package cli

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	listErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ArrangeModel - Interactive image ordering
// =============================================================================

// ArrangeItem is one input image in the arranger.
type ArrangeItem struct {
	Index int // position in the original argument list
	Name  string
	Size  image.Point
}

// ArrangeModel is the bubbletea model for reordering images before export.
// The plan is rebuilt after every change so the canvas size is always current.
type ArrangeModel struct {
	Items       []ArrangeItem
	Orientation layout.Orientation
	Cursor      int
	Height      int
	Offset      int
	Confirmed   bool

	plan layout.Plan
	err  error
}

// NewArrangeModel creates a new arrange model.
func NewArrangeModel(items []ArrangeItem, o layout.Orientation) ArrangeModel {
	m := ArrangeModel{
		Items:       items,
		Orientation: o,
		Height:      15,
	}
	m.replan()
	return m
}

// Order returns the original indices in their arranged order.
func (m ArrangeModel) Order() []int {
	out := make([]int, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.Index
	}
	return out
}

// Plan returns the layout for the current order.
func (m ArrangeModel) Plan() layout.Plan { return m.plan }

func (m *ArrangeModel) replan() {
	sizes := make([]image.Point, len(m.Items))
	for i, it := range m.Items {
		sizes[i] = it.Size
	}
	m.plan, m.err = layout.Build(sizes, m.Orientation)
}

func (m ArrangeModel) Init() tea.Cmd {
	return nil
}

func (m ArrangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "shift+up", "K":
			m.swap(-1)
		case "shift+down", "J":
			m.swap(1)
		case "o", "tab":
			if m.Orientation == layout.Vertical {
				m.Orientation = layout.Horizontal
			} else {
				m.Orientation = layout.Vertical
			}
			m.replan()
		case "d", "delete", "backspace":
			m.remove()
		case "enter":
			if m.err != nil {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m *ArrangeModel) moveCursor(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Items) {
		return
	}
	m.Cursor = next
	m.scroll()
}

// swap moves the selected item by delta, carrying the cursor along.
func (m *ArrangeModel) swap(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Items) {
		return
	}
	m.Items[m.Cursor], m.Items[next] = m.Items[next], m.Items[m.Cursor]
	m.Cursor = next
	m.scroll()
	m.replan()
}

// remove drops the selected item. The last item cannot be removed.
func (m *ArrangeModel) remove() {
	if len(m.Items) <= 1 {
		return
	}
	m.Items = append(m.Items[:m.Cursor:m.Cursor], m.Items[m.Cursor+1:]...)
	if m.Cursor >= len(m.Items) {
		m.Cursor = len(m.Items) - 1
	}
	m.scroll()
	m.replan()
}

func (m *ArrangeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	if m.Offset > len(m.Items)-1 {
		m.Offset = max(len(m.Items)-1, 0)
	}
}

func (m ArrangeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Arrange Images"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  K/J move  o orientation  d remove  ⏎ export  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		scaled := "—"
		if m.err == nil && i < len(m.plan.Entries) {
			e := m.plan.Entries[i]
			scaled = fmt.Sprintf("%d×%d", e.Width, e.Height)
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i + 1),
			filepath.Base(it.Name),
			fmt.Sprintf("%d×%d", it.Size.X, it.Size.Y),
			scaled,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Image", "Source", "Scaled").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 1 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(listErrStyle.Render("  " + m.err.Error()))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s  %s",
			StyleHighlight.Render(m.Orientation.String()),
			StyleValue.Render(fmt.Sprintf("%d×%d", m.plan.Width, m.plan.Height)),
			listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.Cursor+1, len(m.Items)))))
	}

	return b.String()
}
