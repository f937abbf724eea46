package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	stackerrors "github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/inventory"
	"github.com/matzehuels/stackinv/pkg/observability"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/traversal"
	"github.com/matzehuels/stackinv/pkg/value"
)

const manifest = `
name: acme
domains:
  - id: payments
    name: Payments
    components:
      - id: billing
        documentation: https://docs.acme.dev/billing
        language: go
        frameworks: [chi]
        gateways:
          - name: public
          - name: internal
      - id: ledger
        language: go
        gateways:
          - name: internal
  - id: search
    name: Search
    components:
      - id: indexer
`

func build(t *testing.T) *store.Store {
	t.Helper()
	m, err := inventory.Parse([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}
	s, err := inventory.Build(m)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func read(t *testing.T, s *store.Store, id string, path props.Path) value.Value {
	t.Helper()
	v, ok := s.Vertex(id)
	if !ok {
		t.Fatalf("vertex %s missing", id)
	}
	got, _ := v.Props.Read(path)
	return got
}

func TestRunDefaultTasks(t *testing.T) {
	s := build(t)
	tasks, err := Resolve(DefaultTasks)
	if err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(quietLogger()).Run(context.Background(), s, Options{Workers: 2}, tasks...)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	checks := []struct {
		id   string
		path props.Path
		want value.Value
	}{
		{"billing", PathDomain, value.String("Payments")},
		{"indexer", PathDomain, value.String("Search")},
		{"billing", PathGateways, value.Strings("public", "internal")},
		{"ledger", PathGateways, value.Strings("internal")},
		{"billing", PathLanguages, value.Strings("go")},
		{"billing", PathFrameworks, value.Strings("chi")},
		{"billing", PathDocumented, value.Bool(true)},
		{"ledger", PathDocumented, value.Bool(false)},
	}
	for _, c := range checks {
		if got := read(t, s, c.id, c.path); !got.Equal(c.want) {
			t.Errorf("%s %s = %v, want %v", c.id, c.path, got, c.want)
		}
	}
	if _, ok := mustVertex(t, s, "indexer").Props.Read(PathGateways); ok {
		t.Error("indexer has details.gateways, want none")
	}

	var got []string
	for _, d := range result.Diagnostics.Items() {
		got = append(got, d.Task+"/"+d.VertexID+"/"+string(d.Code()))
	}
	want := []string{
		"documentation/indexer/NOT_FOUND",
		"documentation/ledger/NOT_FOUND",
		"languages/indexer/NOT_FOUND",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	var stats []string
	for _, st := range result.Stats {
		stats = append(stats, st.Task)
	}
	if diff := cmp.Diff(DefaultTasks, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if result.Stats[1].Vertices != 2 {
		t.Errorf("gateways applied to %d vertices, want 2", result.Stats[1].Vertices)
	}
	if result.Stats[2].Errors != 1 {
		t.Errorf("languages errors = %d, want 1", result.Stats[2].Errors)
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	s := build(t)
	tasks, _ := Resolve([]string{TaskGateways})
	r := NewRunner(quietLogger())

	for range 2 {
		if _, err := r.Run(context.Background(), s, Options{}, tasks...); err != nil {
			t.Fatal(err)
		}
	}
	if got := read(t, s, "billing", PathGateways); !got.Equal(value.Strings("public", "internal")) {
		t.Errorf("gateways after two runs = %v", got)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve([]string{TaskGateways, "secrets"})
	if !stackerrors.Is(err, stackerrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestTaskNames(t *testing.T) {
	want := []string{"documentation", "gateways", "languages", "ownership"}
	if diff := cmp.Diff(want, TaskNames()); diff != "" {
		t.Errorf("TaskNames mismatch (-want +got):\n%s", diff)
	}
}

// countingTask records how often, and how concurrently, each vertex is applied.
type countingTask struct {
	mu      sync.Mutex
	applied map[string]int
	active  atomic.Int32
	peak    atomic.Int32
	fail    string
}

func (*countingTask) Name() string { return "counting" }

func (*countingTask) Select(g *traversal.Source) ([]string, error) {
	// Duplicates and unknown ids must not reach Apply.
	return []string{"billing", "ledger", "billing", "indexer", "ghost"}, nil
}

func (c *countingTask) Apply(_ context.Context, _ *store.Store, v *store.Vertex) error {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.applied[v.ID]++
	c.mu.Unlock()
	if v.ID == c.fail {
		return stackerrors.New(stackerrors.ErrCodeTypeMismatch, "bad vertex")
	}
	return nil
}

func TestFanOut(t *testing.T) {
	s := build(t)
	task := &countingTask{applied: map[string]int{}, fail: "ledger"}

	result, err := NewRunner(quietLogger()).Run(context.Background(), s, Options{Workers: 2}, task)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"billing": 1, "ledger": 1, "indexer": 1}
	if diff := cmp.Diff(want, task.applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
	if p := task.peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}

	diags := result.Diagnostics.Items()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	if diags[0].VertexID != "ghost" || diags[0].Code() != stackerrors.ErrCodeNotFound {
		t.Errorf("diags[0] = %v", diags[0])
	}
	if diags[1].VertexID != "ledger" || diags[1].Code() != stackerrors.ErrCodeTypeMismatch {
		t.Errorf("diags[1] = %v", diags[1])
	}
	if got := result.Diagnostics.ForVertex("ledger"); len(got) != 1 {
		t.Errorf("ForVertex(ledger) = %v", got)
	}
}

type failingTask struct{}

func (failingTask) Name() string { return "failing" }

func (failingTask) Run(context.Context, *store.Store, *Diagnostics) error {
	return stackerrors.New(stackerrors.ErrCodeInvalidInput, "cannot run")
}

func TestGraphTaskErrorAborts(t *testing.T) {
	s := build(t)
	gateways, _ := Resolve([]string{TaskGateways})

	_, err := NewRunner(quietLogger()).Run(context.Background(), s, Options{}, failingTask{}, gateways[0])
	if !stackerrors.Is(err, stackerrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if _, ok := mustVertex(t, s, "billing").Props.Read(PathGateways); ok {
		t.Error("task after the failing one ran")
	}
}

type namedOnly struct{}

func (namedOnly) Name() string { return "named" }

func TestUnsupportedTask(t *testing.T) {
	_, err := NewRunner(quietLogger()).Run(context.Background(), build(t), Options{}, namedOnly{})
	if !stackerrors.Is(err, stackerrors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks, _ := Resolve(DefaultTasks)
	_, err := NewRunner(quietLogger()).Run(ctx, build(t), Options{}, tasks...)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnTaskStart(_ context.Context, task string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "start:"+task)
}

func (h *recordingHooks) OnVertexError(_ context.Context, task, vertexID string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "error:"+task+":"+vertexID)
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	tasks, _ := Resolve([]string{TaskLanguages})
	if _, err := NewRunner(quietLogger()).Run(context.Background(), build(t), Options{}, tasks...); err != nil {
		t.Fatal(err)
	}
	want := []string{"start:languages", "error:languages:indexer"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func mustVertex(t *testing.T, s *store.Store, id string) *store.Vertex {
	t.Helper()
	v, ok := s.Vertex(id)
	if !ok {
		t.Fatalf("vertex %s missing", id)
	}
	return v
}
