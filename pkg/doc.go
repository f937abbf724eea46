// Package pkg provides the libraries behind stackinv.
//
// # Overview
//
// Stackinv turns a static software inventory (domains, the components they
// own, and the gateways, routes, languages and frameworks those components
// use) into a property graph, enriches it with analysis tasks that read and
// annotate the graph through a step-based traversal engine, and renders
// reports from the result.
//
// # Architecture
//
//	inventory.yaml
//	     ↓
//	[inventory] (manifest → store)
//	     ↓
//	[pipeline] (tasks over [traversal] → annotated [store])
//	     ↓
//	[codec] (graph.json)  →  [report] / [api] / [archive]
//
// # Quick Start
//
//	m, _ := inventory.LoadFile("inventory.yaml")
//	s, _ := inventory.Build(m)
//
//	tasks, _ := pipeline.Resolve(pipeline.DefaultTasks)
//	result, _ := pipeline.NewRunner(nil).Run(ctx, s, pipeline.Options{}, tasks...)
//
//	g := traversal.New(s)
//	names, _ := g.V("payments").Out("owns").Name().ToValues()
//
// # Main Packages
//
// ## Graph Core
//
// [value] - Tagged property values with ordered maps and lists.
//
// [props] - Path-addressed property trees on top of [value].
//
// [store] - The in-memory graph: vertices, edges, adjacency and type
// indices, all in insertion order.
//
// [predicate] - Value predicates for filter steps.
//
// [traversal] - Fluent, immutable traversal builder and its interpreter.
//
// [codec] - JSON document format for whole graphs.
//
// ## Application
//
// [inventory] - YAML manifest loading and graph construction.
//
// [pipeline] - Graph and per-vertex analysis tasks, run over a worker pool.
//
// [report] - Summaries, domain reports, Markdown and terminal tables, DOT
// and SVG diagrams.
//
// [api] - Read-only HTTP API (chi).
//
// ## Infrastructure
//
// [cache] - Graph and report cache: file, Redis and null backends.
//
// [archive] - Snapshot history: directory and MongoDB backends.
//
// [config] - stackinv.toml loading and validation.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by all packages.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./...
//	STACKINV_TEST_REDIS=localhost:6379 go test ./pkg/cache
//	STACKINV_TEST_MONGO=mongodb://localhost:27017 go test ./pkg/archive
package pkg
