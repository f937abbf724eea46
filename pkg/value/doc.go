// Package value provides the tagged union used for graph property values.
//
// # Kinds
//
// A [Value] is exactly one of:
//
//   - null (the zero Value)
//   - boolean
//   - number (float64)
//   - string
//   - ordered list ([List])
//   - ordered key/value map with unique keys ([Map])
//
// Lists and maps are reference containers: copying a Value that holds a list
// shares the list. Use [Value.Clone] for an independent deep copy. Property
// trees are owned by exactly one vertex or edge, so sharing across elements
// only happens when a caller clones explicitly.
//
// # JSON
//
// Values marshal to and from JSON with map key order preserved, so a property
// tree written by the codec reloads with the same key order:
//
//	m := value.NewMap()
//	m.Set("gateways", value.ListOf(value.String("public")))
//	data, _ := json.Marshal(value.FromMap(m)) // {"gateways":["public"]}
//
// # Concurrency
//
// Values are not safe for concurrent mutation. Concurrent reads are safe.
package value
