package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackinv/pkg/archive"
	"github.com/matzehuels/stackinv/pkg/cache"
	"github.com/matzehuels/stackinv/pkg/codec"
	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/inventory"
	"github.com/matzehuels/stackinv/pkg/pipeline"
	"github.com/matzehuels/stackinv/pkg/store"
)

// buildOpts holds the flags of the build command. Unset flags fall back to
// the config file.
type buildOpts struct {
	output  string
	tasks   []string
	workers int
	noCache bool
	archive bool
}

func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [inventory]",
		Short: "Build the inventory graph and run analysis tasks",
		Long: `Build loads an inventory manifest (YAML), builds the graph, runs the
analysis tasks over it and writes the enriched graph as JSON.

Available tasks: ` + strings.Join(pipeline.TaskNames(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.config.Inventory
			if len(args) == 1 {
				path = args[0]
			}
			flags := cmd.Flags()
			if !flags.Changed("output") {
				opts.output = c.config.Graph
			}
			if !flags.Changed("tasks") {
				opts.tasks = c.config.Tasks
			}
			if !flags.Changed("workers") {
				opts.workers = c.config.Workers
			}
			return c.runBuild(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "graph output file (default from config)")
	cmd.Flags().StringSliceVarP(&opts.tasks, "tasks", "t", nil, "tasks to run, in order (comma-separated)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent workers for vertex tasks")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always rebuild, ignoring cached graphs")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "store the graph in the configured archive")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, path string, opts buildOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeNotFound, "inventory %s not found", path)
		}
		return err
	}
	m, err := inventory.Parse(data)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	tasks, err := pipeline.Resolve(opts.tasks)
	if err != nil {
		return err
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	prog := newProgress(c.Logger)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), m.Name+":")
	key := keyer.GraphKey(cache.Hash(data), opts.tasks)

	var (
		graph  *store.Store
		result *pipeline.Result
	)
	graphJSON, cached, err := cache.Fetch(ctx, ch, key, "graph", c.config.Cache.TTL, func() ([]byte, error) {
		s, err := inventory.Build(m)
		if err != nil {
			return nil, err
		}
		runner := pipeline.NewRunner(c.Logger)
		if result, err = runner.Run(ctx, s, pipeline.Options{Workers: opts.workers}, tasks...); err != nil {
			return nil, err
		}
		graph = s
		return codec.Marshal(s)
	})
	if err != nil {
		return err
	}
	if graph == nil {
		if graph, err = codec.Unmarshal(graphJSON); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "cached graph")
		}
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(opts.output, graphJSON, 0644); err != nil {
		return err
	}
	prog.done("Built graph", "inventory", m.Name, "cached", cached)

	printSuccess("Graph built")
	printFile(opts.output)
	printStats(graph.VertexCount(), graph.EdgeCount(), cached)
	if result != nil {
		for _, d := range result.Diagnostics.Items() {
			printWarning("%s", d)
		}
	}

	if opts.archive {
		runID := uuid.NewString()
		if result != nil {
			runID = result.RunID
		}
		if err := c.archiveGraph(ctx, runID, graph); err != nil {
			return err
		}
	}

	printNextStep("Render reports", appName+" report --graph "+opts.output)
	return nil
}

func (c *CLI) archiveGraph(ctx context.Context, runID string, s *store.Store) error {
	a, err := c.requireArchive(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	snap, err := archive.NewSnapshot(runID, s)
	if err != nil {
		return err
	}
	if err := a.Put(ctx, snap); err != nil {
		return err
	}
	printDetail("Archived snapshot %s (%s)", snap.ID, snap.GraphHash[:12])
	return nil
}
