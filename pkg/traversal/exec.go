package traversal

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/value"
)

// traverser is one lineage: the current element plus its binding table.
// Binding tables are shared between traversers and never modified in place.
type traverser struct {
	elem     Element
	bindings []Binding
}

func (t traverser) with(e Element) traverser {
	return traverser{elem: e, bindings: t.bindings}
}

func (t traverser) bind(label string) traverser {
	b := append(slices.Clip(t.bindings), Binding{Label: label, Elem: t.elem})
	return traverser{elem: t.elem, bindings: b}
}

func (t traverser) lookup(label string) (Element, bool) {
	for i := len(t.bindings) - 1; i >= 0; i-- {
		if t.bindings[i].Label == label {
			return t.bindings[i].Elem, true
		}
	}
	return Element{}, false
}

// ToList runs the traversal and returns every resulting element in order.
func (t *Traversal) ToList() ([]Element, error) {
	out, err := t.execute()
	if err != nil {
		return nil, err
	}
	elems := make([]Element, len(out))
	for i, tr := range out {
		elems[i] = tr.elem
	}
	return elems, nil
}

// Next runs the traversal and returns its first element, if any.
func (t *Traversal) Next() (Element, bool, error) {
	out, err := t.execute()
	if err != nil || len(out) == 0 {
		return Element{}, false, err
	}
	return out[0].elem, true, nil
}

// Iterate runs the traversal for its side effects and discards the results.
func (t *Traversal) Iterate() error {
	_, err := t.execute()
	return err
}

// ToVertices runs the traversal and returns the resulting vertices. Any
// non-vertex result fails with TYPE_MISMATCH.
func (t *Traversal) ToVertices() ([]*store.Vertex, error) {
	elems, err := t.ToList()
	if err != nil {
		return nil, err
	}
	out := make([]*store.Vertex, 0, len(elems))
	for _, e := range elems {
		v, ok := e.Vertex()
		if !ok {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "expected vertex, got %s", e)
		}
		out = append(out, v)
	}
	return out, nil
}

// ToValues runs the traversal and returns the resulting values. Any
// non-value result fails with TYPE_MISMATCH.
func (t *Traversal) ToValues() ([]value.Value, error) {
	elems, err := t.ToList()
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(elems))
	for _, e := range elems {
		v, ok := e.Value()
		if !ok {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "expected value, got %s", e)
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Traversal) execute() ([]traverser, error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "anonymous traversal %s has no source", t)
	}
	x := executor{store: t.store}
	return x.run(nil, t.steps)
}

// executor interprets steps against one store.
type executor struct {
	store *store.Store
}

func (x executor) run(in []traverser, steps []step) ([]traverser, error) {
	cur := in
	for _, s := range steps {
		next, err := x.apply(cur, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.kind, err)
		}
		cur = next
	}
	return cur, nil
}

func (x executor) apply(in []traverser, s step) ([]traverser, error) {
	switch s.kind {
	case stepV:
		return x.seedVertices(s.ids), nil
	case stepE:
		return x.seedEdges(s.ids), nil
	case stepOut, stepIn, stepBoth:
		return x.neighbours(in, s)
	case stepOutE, stepInE:
		return x.incident(in, s)
	case stepOutV, stepInV:
		return endpoints(x.store, in, s.kind == stepOutV)
	case stepHasType:
		return filter(in, func(e Element) (bool, error) {
			typ, ok := e.typeLabel()
			return ok && slices.Contains(s.types, typ), nil
		})
	case stepHasID:
		return filter(in, func(e Element) (bool, error) {
			id, ok := e.ID()
			return ok && slices.Contains(s.ids, id), nil
		})
	case stepHas:
		return filter(in, func(e Element) (bool, error) {
			v, ok := e.read(s.paths[0])
			if !ok || s.pred == nil {
				return ok, nil
			}
			return s.pred(v)
		})
	case stepHasKeys:
		return filter(in, func(e Element) (bool, error) {
			for _, p := range s.paths {
				if _, ok := e.read(p); !ok {
					return false, nil
				}
			}
			return true, nil
		})
	case stepNot, stepWhere:
		want := s.kind == stepWhere
		var out []traverser
		for _, t := range in {
			res, err := x.run([]traverser{t}, s.sub.steps)
			if err != nil {
				return nil, err
			}
			if (len(res) > 0) == want {
				out = append(out, t)
			}
		}
		return out, nil
	case stepLimit:
		if len(in) > s.n {
			return in[:s.n], nil
		}
		return in, nil
	case stepName, stepValues:
		var out []traverser
		for _, t := range in {
			for _, p := range s.paths {
				if v, ok := t.elem.read(p); ok && (s.kind != stepName || v.Kind() == value.KindString) {
					out = append(out, t.with(ValueElement(v)))
				}
			}
		}
		return out, nil
	case stepID, stepType:
		return project(in, s.kind)
	case stepAs:
		out := make([]traverser, len(in))
		for i, t := range in {
			out[i] = t.bind(s.labels[0])
		}
		return out, nil
	case stepLocal:
		var out []traverser
		for _, t := range in {
			res, err := x.run([]traverser{t}, s.sub.steps)
			if err != nil {
				return nil, err
			}
			for _, r := range res {
				out = append(out, t.with(r.elem))
			}
		}
		return out, nil
	case stepSelect:
		return selectLabels(in, s.labels)
	case stepDedup:
		return dedup(in), nil
	case stepFold:
		items := make([]Element, len(in))
		for i, t := range in {
			items[i] = t.elem
		}
		return []traverser{{elem: ListElement(items)}}, nil
	case stepUnfold:
		return unfold(in), nil
	case stepCount:
		return []traverser{{elem: ValueElement(value.Int(len(in)))}}, nil
	case stepProperty:
		return x.writeProperty(in, s)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown step %d", s.kind)
}

func (x executor) seedVertices(ids []string) []traverser {
	var out []traverser
	for _, v := range x.store.Vertices() {
		if len(ids) == 0 || slices.Contains(ids, v.ID) {
			out = append(out, traverser{elem: VertexElement(v)})
		}
	}
	return out
}

func (x executor) seedEdges(ids []string) []traverser {
	var out []traverser
	for _, e := range x.store.Edges() {
		if len(ids) == 0 || slices.Contains(ids, e.ID) {
			out = append(out, traverser{elem: EdgeElement(e)})
		}
	}
	return out
}

func matchesType(types []string, typ string) bool {
	return len(types) == 0 || slices.Contains(types, typ)
}

func requireVertex(t traverser, kind stepKind) (*store.Vertex, error) {
	v, ok := t.elem.Vertex()
	if !ok {
		return nil, errors.New(errors.ErrCodeTypeMismatch, "%s needs a vertex, got %s", kind, t.elem)
	}
	return v, nil
}

func (x executor) neighbours(in []traverser, s step) ([]traverser, error) {
	var out []traverser
	for _, t := range in {
		v, err := requireVertex(t, s.kind)
		if err != nil {
			return nil, err
		}
		if s.kind == stepOut || s.kind == stepBoth {
			for _, e := range x.store.OutEdges(v.ID) {
				if matchesType(s.types, e.Type) {
					target, _ := x.store.Vertex(e.To)
					out = append(out, t.with(VertexElement(target)))
				}
			}
		}
		if s.kind == stepIn || s.kind == stepBoth {
			for _, e := range x.store.InEdges(v.ID) {
				if matchesType(s.types, e.Type) {
					source, _ := x.store.Vertex(e.From)
					out = append(out, t.with(VertexElement(source)))
				}
			}
		}
	}
	return out, nil
}

func (x executor) incident(in []traverser, s step) ([]traverser, error) {
	var out []traverser
	for _, t := range in {
		v, err := requireVertex(t, s.kind)
		if err != nil {
			return nil, err
		}
		edges := x.store.OutEdges(v.ID)
		if s.kind == stepInE {
			edges = x.store.InEdges(v.ID)
		}
		for _, e := range edges {
			if matchesType(s.types, e.Type) {
				out = append(out, t.with(EdgeElement(e)))
			}
		}
	}
	return out, nil
}

func endpoints(s *store.Store, in []traverser, source bool) ([]traverser, error) {
	out := make([]traverser, 0, len(in))
	for _, t := range in {
		e, ok := t.elem.Edge()
		if !ok {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "needs an edge, got %s", t.elem)
		}
		id := e.To
		if source {
			id = e.From
		}
		v, _ := s.Vertex(id)
		out = append(out, t.with(VertexElement(v)))
	}
	return out, nil
}

func filter(in []traverser, keep func(Element) (bool, error)) ([]traverser, error) {
	var out []traverser
	for _, t := range in {
		ok, err := keep(t.elem)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func project(in []traverser, kind stepKind) ([]traverser, error) {
	out := make([]traverser, 0, len(in))
	for _, t := range in {
		var s string
		var ok bool
		if kind == stepID {
			s, ok = t.elem.ID()
		} else {
			s, ok = t.elem.typeLabel()
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "%s needs a vertex or edge, got %s", kind, t.elem)
		}
		out = append(out, t.with(ValueElement(value.String(s))))
	}
	return out, nil
}

func selectLabels(in []traverser, labels []string) ([]traverser, error) {
	out := make([]traverser, 0, len(in))
	for _, t := range in {
		rec := make(Record, 0, len(labels))
		for _, label := range labels {
			e, ok := t.lookup(label)
			if !ok {
				return nil, errors.New(errors.ErrCodeUnboundLabel, "label %q is not bound for %s", label, t.elem)
			}
			rec = append(rec, Binding{Label: label, Elem: e})
		}
		out = append(out, t.with(Element{kind: KindRecord, record: rec}))
	}
	return out, nil
}

func dedup(in []traverser) []traverser {
	seen := make(map[string][]Element)
	var out []traverser
	for _, t := range in {
		key := t.elem.dedupKey()
		if slices.ContainsFunc(seen[key], t.elem.Equal) {
			continue
		}
		seen[key] = append(seen[key], t.elem)
		out = append(out, t)
	}
	return out
}

func unfold(in []traverser) []traverser {
	var out []traverser
	for _, t := range in {
		if items, ok := t.elem.List(); ok {
			for _, item := range items {
				out = append(out, t.with(item))
			}
			continue
		}
		if v, ok := t.elem.Value(); ok {
			if l, ok := v.AsList(); ok {
				for _, item := range l.Items() {
					out = append(out, t.with(ValueElement(item)))
				}
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (x executor) writeProperty(in []traverser, s step) ([]traverser, error) {
	for _, t := range in {
		var err error
		switch t.elem.Kind() {
		case KindVertex:
			err = x.store.SetProperty(t.elem.vertex.ID, s.paths[0], s.val.Clone())
		case KindEdge:
			err = x.store.SetEdgeProperty(t.elem.edge.ID, s.paths[0], s.val.Clone())
		default:
			err = errors.New(errors.ErrCodeTypeMismatch, "property needs a vertex or edge, got %s", t.elem)
		}
		if err != nil {
			return nil, err
		}
	}
	return in, nil
}
