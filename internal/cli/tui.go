package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Interactive graph exploration
// =============================================================================

// TreeModel is the bubbletea model for exploring a document graph. The
// surface it drives is a view.View, so pins survive re-layout the same way
// they do in the HTML viewer.
type TreeModel struct {
	Surface  *view.View
	Graph    *graph.Graph
	Title    string
	Cursor   int
	Height   int
	Offset   int
	expanded map[string]bool
	visible  []string
}

// NewTreeModel creates a tree model over a published view surface. The root
// starts expanded, everything else collapsed.
func NewTreeModel(surface *view.View, title string) TreeModel {
	m := TreeModel{
		Surface:  surface,
		Graph:    surface.Graph(),
		Title:    title,
		Height:   20,
		expanded: make(map[string]bool),
	}
	if m.Graph != nil && m.Graph.RootID != "" {
		m.expanded[m.Graph.RootID] = true
	}
	m.refresh()
	return m
}

// refresh rebuilds the visible node list from the expansion state.
func (m *TreeModel) refresh() {
	m.visible = m.visible[:0]
	if m.Graph == nil || m.Graph.RootID == "" {
		return
	}
	stack := []string{m.Graph.RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.visible = append(m.visible, id)
		if !m.expanded[id] {
			continue
		}
		children := m.Graph.ChildIDs(id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	if m.Cursor >= len(m.visible) {
		m.Cursor = len(m.visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ", "l", "right":
			if id, ok := m.current(); ok {
				n := m.Graph.NodeByID(id)
				if n != nil && n.IsContainer() {
					m.expanded[id] = !m.expanded[id]
					m.refresh()
				}
			}
		case "h", "left":
			if id, ok := m.current(); ok {
				if m.expanded[id] {
					m.expanded[id] = false
				} else if parent, ok := m.Graph.ParentID(id); ok {
					for i, v := range m.visible {
						if v == parent {
							m.Cursor = i
							break
						}
					}
					if m.Cursor < m.Offset {
						m.Offset = m.Cursor
					}
				}
				m.refresh()
			}
		case "r":
			m.Surface.Reset(context.Background())
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// current returns the node ID under the cursor.
func (m TreeModel) current() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.visible) {
		return "", false
	}
	return m.visible[m.Cursor], true
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  r re-layout  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := m.Offset; i < end; i++ {
		id := m.visible[i]
		n := m.Graph.NodeByID(id)
		if n == nil {
			continue
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if n.IsContainer() {
			marker = "+ "
			if m.expanded[id] {
				marker = "- "
			}
		}

		label := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render(n.Label)
		line := cursor + strings.Repeat("  ", n.Depth) + marker + label
		if i == m.Cursor {
			line = listSelectedStyle.Render(cursor+strings.Repeat("  ", n.Depth)+marker) + label
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if id, ok := m.current(); ok {
		b.WriteString("\n")
		b.WriteString(m.detailPane(id))
	}

	return b.String()
}

// detailPane renders the hover detail for the selected node.
func (m TreeModel) detailPane(id string) string {
	d, err := m.Surface.Hover(id)
	if err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(listDimStyle.Render("kind ") + StyleValue.Render(d.Kind.String()))
	b.WriteString(listDimStyle.Render("  path ") + StyleValue.Render(d.Path))
	if d.Raw != "" {
		b.WriteString(listDimStyle.Render("  value ") + StyleValue.Render(d.Raw))
	} else if d.Children > 0 {
		b.WriteString(listDimStyle.Render("  children ") + StyleValue.Render(fmt.Sprintf("%d", d.Children)))
	}
	if pos, ok := m.Surface.Positions()[id]; ok {
		coord := fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y)
		if pos.Pinned {
			coord += " pinned"
		}
		b.WriteString(listDimStyle.Render("  at ") + StyleValue.Render(coord))
	}
	return b.String()
}
