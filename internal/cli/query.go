package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackinv/pkg/codec"
	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
)

// queryOpts holds the flags shared by the query subcommands.
type queryOpts struct {
	graph  string
	asJSON bool
}

func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a built graph",
	}
	cmd.PersistentFlags().StringVarP(&opts.graph, "graph", "g", "", "graph file (default from config)")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print vertices as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "type <vertex-type>",
		Short: "List vertices of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, opts, "", func(g *traversal.Source) *traversal.Traversal {
				return g.V().HasType(args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "out <vertex-id> [edge-type...]",
		Short: "List vertices reached over outgoing edges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, opts, args[0], func(g *traversal.Source) *traversal.Traversal {
				return g.V(args[0]).Out(args[1:]...)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "in <vertex-id> [edge-type...]",
		Short: "List vertices reached over incoming edges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, opts, args[0], func(g *traversal.Source) *traversal.Traversal {
				return g.V(args[0]).In(args[1:]...)
			})
		},
	})

	return cmd
}

// runQuery loads the graph, checks that start exists (if set) and prints the
// vertices the traversal yields.
func (c *CLI) runQuery(cmd *cobra.Command, opts queryOpts, start string, build func(*traversal.Source) *traversal.Traversal) error {
	s, _, err := loadGraph(c.graphPath(opts.graph))
	if err != nil {
		return err
	}
	if start != "" {
		if _, ok := s.Vertex(start); !ok {
			return errors.New(errors.ErrCodeNotFound, "vertex %q not found", start)
		}
	}

	t := build(traversal.New(s))
	c.Logger.Debug("query", "traversal", t.String())
	vs, err := t.ToVertices()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.asJSON {
		records := make([]codec.VertexRecord, len(vs))
		for i, v := range vs {
			records[i] = vertexRecord(v)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(vs) == 0 {
		printInfo("No vertices")
		return nil
	}
	fmt.Fprintln(w, vertexTable(vs))
	return nil
}

func vertexRecord(v *store.Vertex) codec.VertexRecord {
	return codec.VertexRecord{ID: v.ID, Type: v.Type, Properties: v.Props.Map()}
}
