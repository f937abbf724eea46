package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
)

var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	propsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// BrowseModel - Interactive vertex browser
// =============================================================================

// browseFrame is one level of navigation: a titled vertex list.
type browseFrame struct {
	title    string
	vertices []*store.Vertex
	cursor   int
	offset   int
}

// BrowseModel is the bubbletea model for walking the graph. Enter follows
// outgoing edges of the selected vertex, i follows incoming edges and
// backspace returns to the previous list.
type BrowseModel struct {
	g         *traversal.Source
	stack     []browseFrame
	height    int
	showProps bool
	status    string
}

// NewBrowseModel starts at the vertices of the given types, or at all
// vertices if none are given.
func NewBrowseModel(s *store.Store, types ...string) (BrowseModel, error) {
	g := traversal.New(s)
	t := g.V()
	title := "All vertices"
	if len(types) > 0 {
		t = t.HasType(types...)
		title = "Vertices: " + strings.Join(types, ", ")
	}
	vs, err := t.ToVertices()
	if err != nil {
		return BrowseModel{}, err
	}
	return BrowseModel{
		g:      g,
		stack:  []browseFrame{{title: title, vertices: vs}},
		height: 15,
	}, nil
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) frame() *browseFrame {
	return &m.stack[len(m.stack)-1]
}

// Selected returns the vertex under the cursor, if any.
func (m BrowseModel) Selected() (*store.Vertex, bool) {
	f := m.frame()
	if len(f.vertices) == 0 {
		return nil, false
	}
	return f.vertices[f.cursor], true
}

// Depth returns the number of navigation levels.
func (m BrowseModel) Depth() int { return len(m.stack) }

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		// Frames are copied before mutation; the stack slice is shared
		// with earlier model values.
		m.stack = append([]browseFrame(nil), m.stack...)
		f := m.frame()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if f.cursor > 0 {
				f.cursor--
				if f.cursor < f.offset {
					f.offset = f.cursor
				}
			}
		case "down", "j":
			if f.cursor < len(f.vertices)-1 {
				f.cursor++
				if f.cursor >= f.offset+m.height {
					f.offset = f.cursor - m.height + 1
				}
			}
		case "enter", "o":
			return m.follow(true), nil
		case "i":
			return m.follow(false), nil
		case "backspace", "h":
			if len(m.stack) > 1 {
				m.stack = m.stack[:len(m.stack)-1]
			}
		case "p":
			m.showProps = !m.showProps
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

// follow pushes the neighbours of the selected vertex.
func (m BrowseModel) follow(out bool) BrowseModel {
	v, ok := m.Selected()
	if !ok {
		return m
	}
	t, arrow := m.g.V(v.ID).Out(), "→"
	if !out {
		t, arrow = m.g.V(v.ID).In(), "←"
	}
	vs, err := t.Dedup().ToVertices()
	if err != nil {
		m.status = err.Error()
		return m
	}
	if len(vs) == 0 {
		m.status = fmt.Sprintf("%s has no neighbours %s", v.ID, arrow)
		return m
	}
	m.stack = append(m.stack, browseFrame{title: v.ID + " " + arrow, vertices: vs})
	return m
}

func (m BrowseModel) View() string {
	var b strings.Builder
	f := m.frame()

	crumbs := make([]string, len(m.stack))
	for i, fr := range m.stack {
		crumbs[i] = fr.title
	}
	b.WriteString(StyleTitle.Render(strings.Join(crumbs, " / ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ out  i in  ⌫ back  p properties  q quit"))
	b.WriteString("\n\n")

	end := min(f.offset+m.height, len(f.vertices))
	rows := [][]string{}
	for i := f.offset; i < end; i++ {
		v := f.vertices[i]
		cursor := "  "
		if i == f.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, v.ID, v.Type, v.Name()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if f.offset+row == f.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(f.cursor+1, len(f.vertices)), len(f.vertices))))

	if m.showProps {
		if v, ok := m.Selected(); ok {
			data, _ := v.Props.MarshalJSON()
			b.WriteString("\n")
			b.WriteString(propsBoxStyle.Render(string(data)))
		}
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.status))
	}
	return b.String()
}
