// Package traversal implements the step-based query language over a
// [store.Store].
//
// # Overview
//
// A traversal is an ordered pipeline of steps applied to a stream of
// elements. An element is a vertex, an edge, a scalar [value.Value], a list
// (the output of Fold) or a record (the output of Select). Pipelines are built
// with an immutable fluent builder and executed by a single interpreter when a
// terminal method (ToList, Next, Iterate) is called:
//
//	g := traversal.New(s)
//	components, err := g.V().HasType("domain").Out("owns").ToList()
//
// Every builder method returns a new *Traversal, so a partially built pipeline
// can be reused as the prefix of several queries.
//
// # Sub-pipelines
//
// Not, Where and Local take anonymous sub-pipelines started with [Anon]. A
// sub-pipeline runs independently per input element, seeded with exactly that
// element:
//
//	// components that expose no gateway
//	g.V().HasType("component").Not(traversal.Anon().Out("gateway"))
//
// # Labels
//
// As binds the current element to a label in the lineage's binding table.
// The table travels with the element through later steps, including through
// Local, whose result inherits the table of the element it was computed from.
// Select turns the table into a record:
//
//	g.V().HasType("domain").As("domain").
//	    Local(traversal.Anon().Out("owns").Count()).As("size").
//	    Select("domain", "size")
//
// # Ordering
//
// Steps preserve upstream order. Navigation emits all neighbours of the first
// input element, in edge insertion order, before any neighbour of the second.
// Nothing sorts implicitly and navigation never removes duplicates; use Dedup.
//
// # Barriers
//
// Count and Fold collapse the whole stream into one element and drop binding
// tables. Inside Local they collapse only the per-element sub-stream, which is
// why the usual pattern for per-element aggregates is Local(...Count()).
//
// # Concurrency
//
// Traversals only read the store, except for the Property step. Concurrent
// read-only traversals are safe; none may overlap structural mutation.
package traversal
