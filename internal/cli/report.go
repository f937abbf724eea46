package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackinv/pkg/cache"
	"github.com/matzehuels/stackinv/pkg/report"
)

// reportOpts holds the flags of the report command.
type reportOpts struct {
	graph   string
	outDir  string
	stdout  bool
	noCache bool
}

// defaultReportKinds are rendered when no kind is given.
var defaultReportKinds = []string{report.KindMarkdown, report.KindJSON}

func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOpts

	cmd := &cobra.Command{
		Use:       "report [kind...]",
		Short:     "Render reports from a built graph",
		Long:      "Render one or more reports. Kinds: " + strings.Join(report.Kinds, ", ") + ".",
		ValidArgs: report.Kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := args
			if len(kinds) == 0 {
				kinds = defaultReportKinds
			}
			for _, k := range kinds {
				if err := report.ValidateKind(k); err != nil {
					return err
				}
			}
			if opts.outDir == "" {
				opts.outDir = c.config.ReportDir
			}
			return c.runReport(cmd, kinds, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "graph file (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "output-dir", "o", "", "directory for report files (default from config)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write reports to stdout instead of files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always re-render")

	return cmd
}

func (c *CLI) runReport(cmd *cobra.Command, kinds []string, opts reportOpts) error {
	ctx := cmd.Context()
	s, data, err := loadGraph(c.graphPath(opts.graph))
	if err != nil {
		return err
	}
	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	keyer := cache.NewDefaultKeyer()
	graphHash := cache.Hash(data)

	rendered := make([][]byte, len(kinds))
	hits := make([]bool, len(kinds))
	spinner := newSpinner(ctx, "Rendering reports...")
	spinner.Start()
	for i, kind := range kinds {
		spinner.Update("Rendering " + kind + "...")
		out, hit, err := cache.Fetch(ctx, ch, keyer.ReportKey(graphHash, kind), "report", c.config.Cache.TTL,
			func() ([]byte, error) { return report.Render(ctx, s, kind) })
		if err != nil {
			spinner.StopWithError("Rendering %s failed", kind)
			return err
		}
		rendered[i], hits[i] = out, hit
	}
	spinner.Stop()

	if opts.stdout {
		w := cmd.OutOrStdout()
		for _, out := range rendered {
			if _, err := w.Write(out); err != nil {
				return err
			}
		}
		return nil
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return err
	}
	printSuccess("Rendered %d report(s)", len(kinds))
	for i, kind := range kinds {
		path := filepath.Join(opts.outDir, reportFileName(kind))
		if err := os.WriteFile(path, rendered[i], 0644); err != nil {
			return err
		}
		printFile(path)
		c.Logger.Debug("report written", "kind", kind, "bytes", len(rendered[i]), "cached", hits[i])
	}
	return nil
}

// reportFileName names the file a report kind is written to.
func reportFileName(kind string) string {
	return kind + report.Extension(kind)
}
