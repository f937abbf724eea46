package traversal

import (
	"strings"

	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/value"
)

// ElementKind identifies what an [Element] holds.
type ElementKind int

const (
	KindVertex ElementKind = iota
	KindEdge
	KindValue
	KindList
	KindRecord
)

// Element is one item of a traversal stream.
type Element struct {
	kind   ElementKind
	vertex *store.Vertex
	edge   *store.Edge
	val    value.Value
	items  []Element
	record Record
}

// VertexElement wraps a vertex.
func VertexElement(v *store.Vertex) Element { return Element{kind: KindVertex, vertex: v} }

// EdgeElement wraps an edge.
func EdgeElement(e *store.Edge) Element { return Element{kind: KindEdge, edge: e} }

// ValueElement wraps a scalar or structured value.
func ValueElement(v value.Value) Element { return Element{kind: KindValue, val: v} }

// ListElement wraps an ordered list of elements.
func ListElement(items []Element) Element {
	if items == nil {
		items = []Element{}
	}
	return Element{kind: KindList, items: items}
}

// Kind returns what the element holds.
func (e Element) Kind() ElementKind { return e.kind }

// Vertex returns the vertex if the element is one.
func (e Element) Vertex() (*store.Vertex, bool) { return e.vertex, e.kind == KindVertex }

// Edge returns the edge if the element is one.
func (e Element) Edge() (*store.Edge, bool) { return e.edge, e.kind == KindEdge }

// Value returns the value if the element is one.
func (e Element) Value() (value.Value, bool) { return e.val, e.kind == KindValue }

// List returns the folded elements if the element is a list.
func (e Element) List() ([]Element, bool) { return e.items, e.kind == KindList }

// Record returns the selected bindings if the element is a record.
func (e Element) Record() (Record, bool) { return e.record, e.kind == KindRecord }

// ID returns the id of a vertex or edge element.
func (e Element) ID() (string, bool) {
	switch e.kind {
	case KindVertex:
		return e.vertex.ID, true
	case KindEdge:
		return e.edge.ID, true
	}
	return "", false
}

// typeLabel returns the type of a vertex or edge element.
func (e Element) typeLabel() (string, bool) {
	switch e.kind {
	case KindVertex:
		return e.vertex.Type, true
	case KindEdge:
		return e.edge.Type, true
	}
	return "", false
}

// properties returns the container for vertex and edge elements.
func (e Element) properties() (*props.Props, bool) {
	switch e.kind {
	case KindVertex:
		return e.vertex.Props, true
	case KindEdge:
		return e.edge.Props, true
	}
	return nil, false
}

// read looks up path on the element. Vertices and edges read their
// containers; map values are read directly.
func (e Element) read(path props.Path) (value.Value, bool) {
	if p, ok := e.properties(); ok {
		return p.Read(path)
	}
	if e.kind == KindValue {
		if m, ok := e.val.AsMap(); ok {
			return props.FromMap(m).Read(path)
		}
	}
	return value.Value{}, false
}

// Equal reports identity for vertices and edges and deep equality for
// everything else.
func (e Element) Equal(o Element) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case KindVertex:
		return e.vertex.ID == o.vertex.ID
	case KindEdge:
		return e.edge.ID == o.edge.ID
	case KindValue:
		return e.val.Equal(o.val)
	case KindList:
		if len(e.items) != len(o.items) {
			return false
		}
		for i := range e.items {
			if !e.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		return e.record.Equal(o.record)
	}
	return false
}

// String renders the element for display: v[id], e[id], the value itself,
// [a b] for lists and {label:elem} for records.
func (e Element) String() string {
	switch e.kind {
	case KindVertex:
		return "v[" + e.vertex.ID + "]"
	case KindEdge:
		return "e[" + e.edge.ID + "]"
	case KindValue:
		return e.val.String()
	case KindList:
		parts := make([]string, len(e.items))
		for i, item := range e.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindRecord:
		parts := make([]string, len(e.record))
		for i, b := range e.record {
			parts[i] = b.Label + ":" + b.Elem.String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
	return "?"
}

// dedupKey is a cheap bucket key: equal elements always share a key, but a
// shared key does not imply equality.
func (e Element) dedupKey() string {
	switch e.kind {
	case KindVertex:
		return "v:" + e.vertex.ID
	case KindEdge:
		return "e:" + e.edge.ID
	case KindValue:
		return "x:" + e.val.Kind().String() + ":" + e.val.String()
	}
	return e.String()
}

// Binding associates a label with the element bound by As.
type Binding struct {
	Label string
	Elem  Element
}

// Record is the ordered label/element mapping produced by Select.
type Record []Binding

// Get returns the element bound to label.
func (r Record) Get(label string) (Element, bool) {
	for _, b := range r {
		if b.Label == label {
			return b.Elem, true
		}
	}
	return Element{}, false
}

// Labels returns the labels in selection order.
func (r Record) Labels() []string {
	out := make([]string, len(r))
	for i, b := range r {
		out[i] = b.Label
	}
	return out
}

// Equal reports label-wise equality in order.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i].Label != o[i].Label || !r[i].Elem.Equal(o[i].Elem) {
			return false
		}
	}
	return true
}
