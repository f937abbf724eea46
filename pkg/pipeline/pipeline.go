// Package pipeline runs analysis tasks over an inventory graph.
//
// A task either works on the whole graph ([GraphTask]) or is applied to a
// selection of vertices ([VertexTask]). The [Runner] executes tasks in order:
// graph tasks run on the calling goroutine, vertex tasks fan out over a
// bounded worker pool.
//
// # Concurrency
//
// The store is not synchronized. A vertex task's Apply may read any part of
// the graph but must only write properties of the vertex it was given; the
// runner hands every selected vertex id to exactly one worker, so writes
// never overlap. Structural mutation is not allowed inside tasks.
//
// # Errors
//
// Errors returned by Apply are recoverable: they are recorded in the run's
// [Diagnostics] against the vertex and the batch continues. Errors returned
// by a graph task's Run, by Select, or by context cancellation abort the run.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	tasks, err := pipeline.Resolve(pipeline.DefaultTasks)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx, s, pipeline.Options{Workers: 8}, tasks...)
//	for _, d := range result.Diagnostics.Items() {
//	    fmt.Println(d)
//	}
package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
)

// DefaultWorkers is the worker count used when Options.Workers is not set.
const DefaultWorkers = 4

// Task is a named unit of analysis work. Every task also implements
// [GraphTask] or [VertexTask].
type Task interface {
	Name() string
}

// GraphTask works on the whole graph. Diagnostics it records do not abort
// the run; a returned error does.
type GraphTask interface {
	Task
	Run(ctx context.Context, s *store.Store, diags *Diagnostics) error
}

// VertexTask is applied independently to each selected vertex.
type VertexTask interface {
	Task

	// Select returns the ids of the vertices to apply the task to.
	Select(g *traversal.Source) ([]string, error)

	// Apply processes one vertex. It may only write properties of v.
	Apply(ctx context.Context, s *store.Store, v *store.Vertex) error
}

// Options configures a run.
type Options struct {
	// Workers bounds the number of concurrent Apply calls.
	Workers int
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return DefaultWorkers
	}
	return o.Workers
}

// Result contains the outcome of a run.
type Result struct {
	// RunID identifies the run in logs and archived snapshots.
	RunID string

	// Diagnostics holds the recoverable per-vertex failures.
	Diagnostics *Diagnostics

	// Stats holds one entry per executed task, in execution order.
	Stats []TaskStats
}

// TaskStats contains execution statistics for one task.
type TaskStats struct {
	Task     string
	Vertices int
	Errors   int
	Duration time.Duration
}
