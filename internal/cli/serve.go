package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackinv/pkg/api"
)

// shutdownTimeout bounds how long serve waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var graph, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a built graph over a read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), c.graphPath(graph), addr)
		},
	}

	cmd.Flags().StringVarP(&graph, "graph", "g", "", "graph file (default from config)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, graph, addr string) error {
	s, _, err := loadGraph(graph)
	if err != nil {
		return err
	}
	a, err := c.newArchive(ctx)
	if err != nil {
		return err
	}
	if a != nil {
		defer a.Close(context.Background())
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.New(s, api.Options{Logger: c.Logger, Archive: a}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	c.Logger.Info("serving graph", "addr", addr, "graph", graph, "vertices", s.VertexCount())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
