package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (c *CLI) browseCommand() *cobra.Command {
	var graph string
	var types []string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a built graph interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadGraph(c.graphPath(graph))
			if err != nil {
				return err
			}
			model, err := NewBrowseModel(s, types...)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&graph, "graph", "g", "", "graph file (default from config)")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "start at vertices of these types")

	return cmd
}
