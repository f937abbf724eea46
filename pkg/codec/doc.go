// Package codec persists a [store.Store] as a JSON graph document.
//
// The document is the wire format for graph files, API responses and
// archived snapshots:
//
//	{
//	  "vertices": [{"id": "billing", "type": "component", "properties": {"name": "billing"}}],
//	  "edges": [{"id": "e1", "type": "owns", "source": "payments", "target": "billing", "properties": {}}]
//	}
//
// Vertices and edges appear in store insertion order and property keys keep
// their order, so loading a saved document reproduces the same traversal
// order as the store it came from.
//
// # Loading
//
// [ToStore] replays the document through the store's mutation API. A duplicate
// id fails the whole load with DUPLICATE_ID and an edge to a missing vertex
// with DANGLING_REFERENCE; no partial store is returned.
//
// Common operations:
//
//	doc := codec.FromStore(s)                  // Store -> Document
//	s, _ := codec.ReadFile("graph.json")       // File -> Store
//	_ = codec.WriteFile(s, "graph.json")       // Store -> File
//	data, _ := codec.Marshal(s)                // Store -> []byte
package codec
