package value

import "slices"

// List is an ordered sequence of values.
// The zero value is an empty list ready to use.
type List struct {
	items []Value
}

// NewList creates a list holding the given items.
func NewList(items ...Value) *List {
	return &List{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the item at index i.
func (l *List) At(i int) Value { return l.items[i] }

// Items returns the items in order. The returned slice must not be modified.
func (l *List) Items() []Value {
	if l == nil {
		return nil
	}
	return l.items
}

// Append adds items to the end of the list.
func (l *List) Append(items ...Value) { l.items = append(l.items, items...) }

// Contains reports whether an item equal to v is present.
func (l *List) Contains(v Value) bool {
	return slices.ContainsFunc(l.Items(), v.Equal)
}

// AppendDistinct appends each item not already present and returns how many
// were added.
func (l *List) AppendDistinct(items ...Value) int {
	added := 0
	for _, item := range items {
		if !l.Contains(item) {
			l.items = append(l.items, item)
			added++
		}
	}
	return added
}

// Equal reports element-wise equality.
func (l *List) Equal(o *List) bool {
	return slices.EqualFunc(l.Items(), o.Items(), Value.Equal)
}

// Clone returns a deep copy.
func (l *List) Clone() *List {
	out := &List{items: make([]Value, len(l.Items()))}
	for i, item := range l.Items() {
		out.items[i] = item.Clone()
	}
	return out
}

// Map is an ordered key/value map with unique keys. Keys keep their first
// insertion position; replacing a value does not move its key.
// The zero value is not usable - use NewMap.
type Map struct {
	keys  []string
	index map[string]int
	vals  []Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice must not be
// modified.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get returns the value stored at key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Set stores v at key, appending the key if new.
func (m *Map) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	delete(m.index, key)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return true
}

// Equal reports whether both maps hold equal values under the same keys in
// the same order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if o.keys[i] != k || !m.vals[i].Equal(o.vals[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	out := NewMap()
	for i, k := range m.Keys() {
		out.Set(k, m.vals[i].Clone())
	}
	return out
}
