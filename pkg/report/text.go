package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteMarkdown writes the summary followed by one table per domain.
func WriteMarkdown(w io.Writer, title string, sum Summary, domains []DomainReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d vertices, %d edges.\n\n", sum.Vertices, sum.Edges)

	b.WriteString("| Type | Count |\n|---|---|\n")
	for _, tc := range sum.VertexTypes {
		fmt.Fprintf(&b, "| %s | %d |\n", tc.Type, tc.Count)
	}

	for _, d := range domains {
		fmt.Fprintf(&b, "\n## %s\n\n", d.Name)
		if len(d.Components) == 0 {
			b.WriteString("No components.\n")
			continue
		}
		b.WriteString("| Component | Repository | Gateways | Stack | Docs |\n|---|---|---|---|---|\n")
		for _, c := range d.Components {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				c.Name, orDash(c.Repository), list(c.Gateways), list(stack(c)), check(c.Documented))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Table renders all components as a terminal table.
func Table(domains []DomainReport) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	missing := lipgloss.NewStyle().Foreground(lipgloss.Color("204"))

	var rows [][]string
	for _, d := range domains {
		for _, c := range d.Components {
			rows = append(rows, []string{d.Name, c.Name, list(c.Gateways), list(stack(c)), check(c.Documented)})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Domain", "Component", "Gateways", "Stack", "Docs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 4 && rows[row][col] == "no" {
				return missing.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

func stack(c ComponentReport) []string {
	return append(append([]string{}, c.Languages...), c.Frameworks...)
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func check(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
