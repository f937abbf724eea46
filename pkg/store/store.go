package store

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/value"
)

// TypeRoot is the distinguished vertex type held by at most one vertex.
const TypeRoot = "root"

// Vertex is a typed, uniquely identified node.
//
// Vertices returned by the store are live: read them freely, but change
// properties only through [Store.SetProperty] or code that owns the vertex
// for the current pipeline phase.
type Vertex struct {
	ID    string
	Type  string
	Props *props.Props
}

// Name returns the vertex's "name" property, falling back to its id.
func (v *Vertex) Name() string {
	if name, ok := v.Props.ReadString(props.Path{"name"}); ok {
		return name
	}
	return v.ID
}

// Edge is a typed, directed connection between two vertices.
type Edge struct {
	ID    string
	Type  string
	From  string // Source vertex ID
	To    string // Target vertex ID
	Props *props.Props
}

// Store is an in-memory multigraph with id and type indices.
// The zero value is not usable - use New.
type Store struct {
	vertices    map[string]*Vertex
	vertexOrder []string
	vertexTypes map[string][]string // type -> vertex IDs

	edges     map[string]*Edge
	edgeOrder []string
	edgeTypes map[string][]string // type -> edge IDs

	outgoing map[string][]string // vertexID -> outgoing edge IDs
	incoming map[string][]string // vertexID -> incoming edge IDs

	root string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		vertices:    make(map[string]*Vertex),
		vertexTypes: make(map[string][]string),
		edges:       make(map[string]*Edge),
		edgeTypes:   make(map[string][]string),
		outgoing:    make(map[string][]string),
		incoming:    make(map[string][]string),
	}
}

// NewEdgeID returns a random edge identifier.
func NewEdgeID() string { return uuid.NewString() }

// AddVertex adds a vertex. A nil container is replaced by an empty one; the
// store takes ownership of p.
//
// Returns INVALID_INPUT for an empty id, DUPLICATE_ID if the id exists or if
// a second vertex of type [TypeRoot] is added.
func (s *Store) AddVertex(id, typ string, p *props.Props) (*Vertex, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vertex id must not be empty")
	}
	if _, exists := s.vertices[id]; exists {
		return nil, errors.New(errors.ErrCodeDuplicateID, "vertex %q already exists", id)
	}
	if typ == TypeRoot && s.root != "" {
		return nil, errors.New(errors.ErrCodeDuplicateID, "root vertex already exists (%q)", s.root)
	}
	if p == nil {
		p = props.New()
	}

	v := &Vertex{ID: id, Type: typ, Props: p}
	s.vertices[id] = v
	s.vertexOrder = append(s.vertexOrder, id)
	s.vertexTypes[typ] = append(s.vertexTypes[typ], id)
	if typ == TypeRoot {
		s.root = id
	}
	return v, nil
}

// AddEdge adds a directed edge from one existing vertex to another. An empty
// id is replaced with [NewEdgeID]. Multiple edges between the same vertices
// are allowed.
//
// Returns DANGLING_REFERENCE if either endpoint is missing, DUPLICATE_ID if
// the edge id exists, or INVALID_EDGE if the target is the root vertex.
func (s *Store) AddEdge(id, typ, from, to string, p *props.Props) (*Edge, error) {
	if id == "" {
		id = NewEdgeID()
	}
	if _, exists := s.edges[id]; exists {
		return nil, errors.New(errors.ErrCodeDuplicateID, "edge %q already exists", id)
	}
	if _, ok := s.vertices[from]; !ok {
		return nil, errors.New(errors.ErrCodeDanglingReference, "edge %q: unknown source vertex %q", id, from)
	}
	if _, ok := s.vertices[to]; !ok {
		return nil, errors.New(errors.ErrCodeDanglingReference, "edge %q: unknown target vertex %q", id, to)
	}
	if to == s.root && s.root != "" {
		return nil, errors.New(errors.ErrCodeInvalidEdge, "edge %q: root vertex %q cannot have incoming edges", id, to)
	}
	if p == nil {
		p = props.New()
	}

	e := &Edge{ID: id, Type: typ, From: from, To: to, Props: p}
	s.edges[id] = e
	s.edgeOrder = append(s.edgeOrder, id)
	s.edgeTypes[typ] = append(s.edgeTypes[typ], id)
	s.outgoing[from] = append(s.outgoing[from], id)
	s.incoming[to] = append(s.incoming[to], id)
	return e, nil
}

// Vertex returns the vertex with the given id.
func (s *Store) Vertex(id string) (*Vertex, bool) {
	v, ok := s.vertices[id]
	return v, ok
}

// Edge returns the edge with the given id.
func (s *Store) Edge(id string) (*Edge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// Root returns the root vertex, if one was added.
func (s *Store) Root() (*Vertex, bool) {
	if s.root == "" {
		return nil, false
	}
	return s.Vertex(s.root)
}

// RemoveVertex removes the vertex and every edge where it is source or
// target. It reports whether the vertex existed.
func (s *Store) RemoveVertex(id string) bool {
	v, ok := s.vertices[id]
	if !ok {
		return false
	}

	incident := slices.Concat(s.outgoing[id], s.incoming[id])
	for _, eid := range incident {
		s.removeEdge(eid)
	}

	delete(s.vertices, id)
	delete(s.outgoing, id)
	delete(s.incoming, id)
	s.vertexOrder = deleteID(s.vertexOrder, id)
	s.vertexTypes[v.Type] = deleteID(s.vertexTypes[v.Type], id)
	if len(s.vertexTypes[v.Type]) == 0 {
		delete(s.vertexTypes, v.Type)
	}
	if s.root == id {
		s.root = ""
	}
	return true
}

// RemoveEdge removes the edge and reports whether it existed.
func (s *Store) RemoveEdge(id string) bool {
	if _, ok := s.edges[id]; !ok {
		return false
	}
	s.removeEdge(id)
	return true
}

func (s *Store) removeEdge(id string) {
	e, ok := s.edges[id]
	if !ok {
		// Self-loops appear in both adjacency lists of the same vertex.
		return
	}
	delete(s.edges, id)
	s.edgeOrder = deleteID(s.edgeOrder, id)
	s.edgeTypes[e.Type] = deleteID(s.edgeTypes[e.Type], id)
	if len(s.edgeTypes[e.Type]) == 0 {
		delete(s.edgeTypes, e.Type)
	}
	s.outgoing[e.From] = deleteID(s.outgoing[e.From], id)
	s.incoming[e.To] = deleteID(s.incoming[e.To], id)
}

func deleteID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}

// Vertices returns all vertices in insertion order.
func (s *Store) Vertices() []*Vertex { return s.resolveVertices(s.vertexOrder) }

// Edges returns all edges in insertion order.
func (s *Store) Edges() []*Edge { return s.resolveEdges(s.edgeOrder) }

// VerticesByType returns the vertices of type typ in insertion order.
func (s *Store) VerticesByType(typ string) []*Vertex {
	return s.resolveVertices(s.vertexTypes[typ])
}

// EdgesByType returns the edges of type typ in insertion order.
func (s *Store) EdgesByType(typ string) []*Edge {
	return s.resolveEdges(s.edgeTypes[typ])
}

// OutEdges returns the edges leaving vertex id in insertion order.
func (s *Store) OutEdges(id string) []*Edge { return s.resolveEdges(s.outgoing[id]) }

// InEdges returns the edges entering vertex id in insertion order.
func (s *Store) InEdges(id string) []*Edge { return s.resolveEdges(s.incoming[id]) }

// OutDegree returns the number of outgoing edges from the vertex.
func (s *Store) OutDegree(id string) int { return len(s.outgoing[id]) }

// InDegree returns the number of incoming edges to the vertex.
func (s *Store) InDegree(id string) int { return len(s.incoming[id]) }

// VertexCount returns the number of vertices.
func (s *Store) VertexCount() int { return len(s.vertices) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// VertexTypes returns the distinct vertex types in order of first use.
func (s *Store) VertexTypes() []string {
	return distinctTypes(s.Vertices(), func(v *Vertex) string { return v.Type })
}

// EdgeTypes returns the distinct edge types in order of first use.
func (s *Store) EdgeTypes() []string {
	return distinctTypes(s.Edges(), func(e *Edge) string { return e.Type })
}

func distinctTypes[T any](items []T, typeOf func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		t := typeOf(item)
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// SetProperty writes v at path on the vertex, creating intermediate maps.
// This is the entry point enrichment tasks use to annotate vertices.
func (s *Store) SetProperty(id string, path props.Path, v value.Value) error {
	vx, ok := s.vertices[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "vertex %q not found", id)
	}
	return vx.Props.WriteCreate(path, v)
}

// SetEdgeProperty writes v at path on the edge, creating intermediate maps.
func (s *Store) SetEdgeProperty(id string, path props.Path, v value.Value) error {
	e, ok := s.edges[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "edge %q not found", id)
	}
	return e.Props.WriteCreate(path, v)
}

func (s *Store) resolveVertices(ids []string) []*Vertex {
	out := make([]*Vertex, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.vertices[id])
	}
	return out
}

func (s *Store) resolveEdges(ids []string) []*Edge {
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.edges[id])
	}
	return out
}
