package traversal

import (
	"slices"
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/predicate"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Source starts traversals over one store.
type Source struct {
	store *store.Store
}

// New creates a traversal source for s.
func New(s *store.Store) *Source { return &Source{store: s} }

// Store returns the store traversals run against.
func (g *Source) Store() *store.Store { return g.store }

// V seeds a traversal with every vertex, or with the named vertices. Either
// way vertices are emitted in store insertion order; unknown ids are skipped.
func (g *Source) V(ids ...string) *Traversal {
	return &Traversal{store: g.store, steps: []step{{kind: stepV, ids: ids}}}
}

// E seeds a traversal with every edge, or with the named edges, in store
// insertion order. Unknown ids are skipped.
func (g *Source) E(ids ...string) *Traversal {
	return &Traversal{store: g.store, steps: []step{{kind: stepE, ids: ids}}}
}

// Traversal is an immutable step pipeline. Traversals built from a [Source]
// can be executed; anonymous ones from [Anon] only run as sub-pipelines.
type Traversal struct {
	store *store.Store
	steps []step
	err   error // first construction error, reported by terminals
}

// Anon starts an anonymous sub-pipeline for Not, Where and Local. Those
// steps reject traversals started from a Source with INVALID_INPUT, since a
// seed would ignore the element the sub-pipeline is run from.
func Anon() *Traversal { return &Traversal{} }

// String renders the pipeline, e.g. V().hasType("domain").out().
func (t *Traversal) String() string {
	parts := make([]string, len(t.steps))
	for i, s := range t.steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

func (t *Traversal) add(s step) *Traversal {
	steps := slices.Clip(t.steps)
	return &Traversal{store: t.store, steps: append(steps, s), err: t.err}
}

func (t *Traversal) fail(err error) *Traversal {
	if t.err != nil {
		return t
	}
	return &Traversal{store: t.store, steps: t.steps, err: err}
}

func parsePaths(keys []string) ([]props.Path, error) {
	paths := make([]props.Path, 0, len(keys))
	for _, k := range keys {
		p, err := props.ParsePath(k)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Out navigates from vertices to the targets of their outgoing edges,
// optionally only along edges of the given types.
func (t *Traversal) Out(edgeTypes ...string) *Traversal {
	return t.add(step{kind: stepOut, types: edgeTypes})
}

// In navigates from vertices to the sources of their incoming edges,
// optionally only along edges of the given types.
func (t *Traversal) In(edgeTypes ...string) *Traversal {
	return t.add(step{kind: stepIn, types: edgeTypes})
}

// Both emits the Out neighbours of each vertex followed by its In
// neighbours.
func (t *Traversal) Both(edgeTypes ...string) *Traversal {
	return t.add(step{kind: stepBoth, types: edgeTypes})
}

// OutE navigates from vertices to their outgoing edges.
func (t *Traversal) OutE(edgeTypes ...string) *Traversal {
	return t.add(step{kind: stepOutE, types: edgeTypes})
}

// InE navigates from vertices to their incoming edges.
func (t *Traversal) InE(edgeTypes ...string) *Traversal {
	return t.add(step{kind: stepInE, types: edgeTypes})
}

// OutV navigates from edges to their source vertices.
func (t *Traversal) OutV() *Traversal { return t.add(step{kind: stepOutV}) }

// InV navigates from edges to their target vertices.
func (t *Traversal) InV() *Traversal { return t.add(step{kind: stepInV}) }

// HasType keeps vertices and edges whose type is one of types.
func (t *Traversal) HasType(types ...string) *Traversal {
	return t.add(step{kind: stepHasType, types: types})
}

// Has keeps elements whose property at key (a dotted path) exists and
// satisfies p. A nil p only checks existence.
func (t *Traversal) Has(key string, p predicate.P) *Traversal {
	paths, err := parsePaths([]string{key})
	if err != nil {
		return t.fail(err)
	}
	return t.add(step{kind: stepHas, paths: paths, pred: p})
}

// HasKey keeps elements whose property at key exists.
func (t *Traversal) HasKey(key string) *Traversal { return t.Has(key, nil) }

// HasID keeps vertices and edges whose id is one of ids.
func (t *Traversal) HasID(ids ...string) *Traversal {
	return t.add(step{kind: stepHasID, ids: ids})
}

// HasKeys keeps elements possessing every listed property key.
func (t *Traversal) HasKeys(keys ...string) *Traversal {
	paths, err := parsePaths(keys)
	if err != nil {
		return t.fail(err)
	}
	return t.add(step{kind: stepHasKeys, paths: paths})
}

// Not keeps elements for which sub yields nothing.
func (t *Traversal) Not(sub *Traversal) *Traversal {
	return t.subStep(stepNot, sub)
}

// Where keeps elements for which sub yields at least one element.
func (t *Traversal) Where(sub *Traversal) *Traversal {
	return t.subStep(stepWhere, sub)
}

// Local runs sub once per element, seeded with exactly that element, and
// replaces the element with sub's results. Each result keeps the binding
// table of the element it was computed from.
func (t *Traversal) Local(sub *Traversal) *Traversal {
	return t.subStep(stepLocal, sub)
}

func (t *Traversal) subStep(kind stepKind, sub *Traversal) *Traversal {
	if sub == nil {
		return t.fail(errors.New(errors.ErrCodeInvalidInput, "%s: sub-traversal is nil", kind))
	}
	if sub.err != nil {
		return t.fail(sub.err)
	}
	if sub.store != nil || slices.ContainsFunc(sub.steps, step.seeds) {
		return t.fail(errors.New(errors.ErrCodeInvalidInput, "%s: sub-traversal %s has its own seed, start it from Anon()", kind, sub))
	}
	return t.add(step{kind: kind, sub: sub})
}

// Limit keeps the first n elements.
func (t *Traversal) Limit(n int) *Traversal {
	if n < 0 {
		return t.fail(errors.New(errors.ErrCodeInvalidInput, "limit must not be negative, got %d", n))
	}
	return t.add(step{kind: stepLimit, n: n})
}

// Name projects each element's "name" property. Elements without a string
// name are dropped.
func (t *Traversal) Name() *Traversal {
	return t.add(step{kind: stepName, paths: []props.Path{{"name"}}})
}

// Values projects the property at each key (dotted paths), in key order.
// Missing properties are skipped.
func (t *Traversal) Values(keys ...string) *Traversal {
	paths, err := parsePaths(keys)
	if err != nil {
		return t.fail(err)
	}
	return t.add(step{kind: stepValues, paths: paths})
}

// ID projects vertex and edge ids as string values.
func (t *Traversal) ID() *Traversal { return t.add(step{kind: stepID}) }

// Type projects vertex and edge types as string values.
func (t *Traversal) Type() *Traversal { return t.add(step{kind: stepType}) }

// As binds the current element to label without changing it.
func (t *Traversal) As(label string) *Traversal {
	if label == "" {
		return t.fail(errors.New(errors.ErrCodeInvalidInput, "label must not be empty"))
	}
	return t.add(step{kind: stepAs, labels: []string{label}})
}

// Select emits one record per element mapping each label to the element
// most recently bound to it. A label never bound on the lineage fails the
// traversal with UNBOUND_LABEL.
func (t *Traversal) Select(labels ...string) *Traversal {
	if len(labels) == 0 {
		return t.fail(errors.New(errors.ErrCodeInvalidInput, "select needs at least one label"))
	}
	return t.add(step{kind: stepSelect, labels: labels})
}

// Dedup removes later duplicates, keeping each first occurrence in place.
func (t *Traversal) Dedup() *Traversal { return t.add(step{kind: stepDedup}) }

// Fold collapses the stream into a single list element in arrival order.
func (t *Traversal) Fold() *Traversal { return t.add(step{kind: stepFold}) }

// Unfold expands list elements and list values into their items.
func (t *Traversal) Unfold() *Traversal { return t.add(step{kind: stepUnfold}) }

// Count collapses the stream into its cardinality.
func (t *Traversal) Count() *Traversal { return t.add(step{kind: stepCount}) }

// Property writes v at key on each vertex or edge, creating intermediate
// maps, and passes the element through.
func (t *Traversal) Property(key string, v value.Value) *Traversal {
	paths, err := parsePaths([]string{key})
	if err != nil {
		return t.fail(err)
	}
	return t.add(step{kind: stepProperty, paths: paths, val: v})
}
