// Package report renders inventory graphs for people.
//
// Reports only consume traversal results; they never mutate the store.
//
// # Kinds
//
//   - summary: vertex and edge counts per type ([Summarize])
//   - markdown: summary plus one table per domain ([WriteMarkdown])
//   - table: terminal table of all components ([Table])
//   - json: the summary and domain reports as JSON
//   - dot: Graphviz DOT source of the graph ([ToDOT])
//   - svg: the DOT graph laid out by Graphviz ([RenderSVG])
//
// [Render] dispatches on the kind name:
//
//	data, err := report.Render(ctx, s, report.KindMarkdown)
package report
