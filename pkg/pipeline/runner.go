package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/observability"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
)

// Runner executes tasks against a store.
//
// The Runner holds no per-run state, so one Runner may serve several runs
// as long as they target different stores.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run validates s and executes tasks in order.
func (r *Runner) Run(ctx context.Context, s *store.Store, opts Options, tasks ...Task) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "graph failed validation")
	}

	result := &Result{
		RunID:       uuid.NewString(),
		Diagnostics: NewDiagnostics(),
	}
	logger := r.Logger.With("run", result.RunID[:8])

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats, err := r.runTask(ctx, s, task, opts, result.Diagnostics)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task.Name(), err)
		}
		result.Stats = append(result.Stats, stats)

		logger.Info("task finished",
			"task", stats.Task,
			"vertices", stats.Vertices,
			"errors", stats.Errors,
			"duration", stats.Duration)
	}
	return result, nil
}

func (r *Runner) runTask(ctx context.Context, s *store.Store, task Task, opts Options, diags *Diagnostics) (TaskStats, error) {
	name := task.Name()
	hooks := observability.Pipeline()
	hooks.OnTaskStart(ctx, name)

	start := time.Now()
	before := diags.countTask(name)
	var (
		vertices int
		err      error
	)
	switch t := task.(type) {
	case GraphTask:
		err = t.Run(ctx, s, diags)
	case VertexTask:
		vertices, err = r.fanOut(ctx, s, t, opts.workers(), diags)
	default:
		err = errors.New(errors.ErrCodeUnsupported, "task %s implements neither GraphTask nor VertexTask", name)
	}

	stats := TaskStats{
		Task:     name,
		Vertices: vertices,
		Errors:   diags.countTask(name) - before,
		Duration: time.Since(start),
	}
	hooks.OnTaskComplete(ctx, name, vertices, stats.Duration, err)
	return stats, err
}

// fanOut applies t to every selected vertex. Each id is handed to exactly one
// worker.
func (r *Runner) fanOut(ctx context.Context, s *store.Store, t VertexTask, workers int, diags *Diagnostics) (int, error) {
	ids, err := t.Select(traversal.New(s))
	if err != nil {
		return 0, err
	}
	ids = distinct(ids)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		v, ok := s.Vertex(id)
		if !ok {
			diags.Record(t.Name(), id, errors.New(errors.ErrCodeNotFound, "selected vertex does not exist"))
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := t.Apply(gctx, s, v); err != nil {
				diags.Record(t.Name(), v.ID, err)
				observability.Pipeline().OnVertexError(gctx, t.Name(), v.ID, err)
				r.Logger.Debug("vertex skipped", "task", t.Name(), "vertex", v.ID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
