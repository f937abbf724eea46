package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/stackinv/pkg/errors"
)

// Diagnostic is a recoverable failure recorded against a vertex.
type Diagnostic struct {
	Task     string
	VertexID string
	Err      error
}

// String renders the diagnostic as "task vertex: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Task, d.VertexID, errors.UserMessage(d.Err))
}

// Code returns the error code of the recorded failure.
func (d Diagnostic) Code() errors.Code { return errors.GetCode(d.Err) }

// Diagnostics accumulates diagnostics. It is safe for concurrent use.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewDiagnostics creates an empty accumulator.
func NewDiagnostics() *Diagnostics { return &Diagnostics{} }

// Record adds a diagnostic.
func (d *Diagnostics) Record(task, vertexID string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, Diagnostic{Task: task, VertexID: vertexID, Err: err})
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Items returns the diagnostics sorted by task, then vertex id. Workers record
// in completion order, so sorting keeps reports stable across runs.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	out := slices.Clone(d.items)
	d.mu.Unlock()
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		return cmp.Or(cmp.Compare(a.Task, b.Task), cmp.Compare(a.VertexID, b.VertexID))
	})
	return out
}

// ForVertex returns the diagnostics recorded against id.
func (d *Diagnostics) ForVertex(id string) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.Items() {
		if item.VertexID == id {
			out = append(out, item)
		}
	}
	return out
}

func (d *Diagnostics) countTask(task string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, item := range d.items {
		if item.Task == task {
			n++
		}
	}
	return n
}
