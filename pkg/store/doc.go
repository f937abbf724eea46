// Package store provides the in-memory property graph that every stackinv
// task reads and annotates.
//
// # Overview
//
// A [Store] owns all vertices and edges. Vertices carry an id, a type label
// (root, domain, component, gateway, ...) and a [props.Props] container with
// arbitrary nested structure. Edges are directed, typed and carry their own
// container; several edges may join the same ordered pair of vertices.
//
// Elements live in flat collections keyed by id. Adjacency and type indices
// hold ids, never pointers to other elements, so cycles in the graph need no
// special handling.
//
// # Basic Usage
//
//	s := store.New()
//	_, _ = s.AddVertex("root", store.TypeRoot, nil)
//	_, _ = s.AddVertex("payments", "domain", nil)
//	_, _ = s.AddEdge("", "owns", "root", "payments", nil)
//
// Every listing ([Store.Vertices], [Store.VerticesByType], [Store.OutEdges],
// ...) returns elements in insertion order, which is what makes traversal
// output and saved documents deterministic.
//
// # Integrity
//
//   - Vertex and edge ids are unique; collisions fail with DUPLICATE_ID.
//   - Edge endpoints must exist when the edge is created (DANGLING_REFERENCE).
//   - At most one vertex has type [TypeRoot], and no edge may target it.
//   - [Store.RemoveVertex] drops every incident edge with the vertex.
//
// A failed mutation leaves the store unchanged.
//
// # Concurrency
//
// Store is not internally synchronized. Structural mutation (AddVertex,
// AddEdge, RemoveVertex, RemoveEdge) must not overlap with traversals or with
// other structural mutation. Property writes through [Store.SetProperty] may
// run concurrently only when each goroutine writes a distinct vertex.
package store
