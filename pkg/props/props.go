// Package props implements the path-addressed property container attached to
// every vertex and edge.
//
// A container is an ordered map of [value.Value]s. Nested structure is
// addressed with a [Path] of segments, written in dotted form on the command
// line and in queries ("details.gateways"). Reads never mutate; writes either
// require every intermediate map to exist ([Props.Write]) or create the missing
// ones ([Props.WriteCreate]).
package props

import (
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Path addresses a nested property by its ordered segments.
type Path []string

// ParsePath splits a dotted path. Empty input or empty segments fail with
// INVALID_PATH.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path cannot be empty")
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path %q has an empty segment", s)
		}
	}
	return Path(parts), nil
}

// MustPath is like ParsePath but panics on malformed input.
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String joins the segments with dots.
func (p Path) String() string { return strings.Join(p, ".") }

func (p Path) validate() error {
	if len(p) == 0 {
		return errors.New(errors.ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, seg := range p {
		if seg == "" {
			return errors.New(errors.ErrCodeInvalidPath, "path %q has an empty segment", p.String())
		}
	}
	return nil
}

// Props is a property container. The zero value is not usable - use New.
type Props struct {
	m *value.Map
}

// New creates an empty container.
func New() *Props { return &Props{m: value.NewMap()} }

// FromMap wraps an existing map. The container takes ownership of m.
func FromMap(m *value.Map) *Props {
	if m == nil {
		m = value.NewMap()
	}
	return &Props{m: m}
}

// FromAny builds a container from a plain Go map.
func FromAny(m map[string]any) (*Props, error) {
	v, err := value.FromAny(m)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return New(), nil
	}
	vm, _ := v.AsMap()
	return FromMap(vm), nil
}

// Map returns the underlying ordered map.
func (p *Props) Map() *value.Map { return p.m }

// Keys returns the top-level keys in insertion order.
func (p *Props) Keys() []string { return p.m.Keys() }

// Len returns the number of top-level keys.
func (p *Props) Len() int { return p.m.Len() }

// Has reports whether a top-level key exists.
func (p *Props) Has(key string) bool { return p.m.Has(key) }

// Clone returns a deep copy.
func (p *Props) Clone() *Props { return &Props{m: p.m.Clone()} }

// Equal reports deep, order-sensitive equality.
func (p *Props) Equal(o *Props) bool { return p.m.Equal(o.m) }

// Read returns the value at path. Missing keys and paths that run through a
// non-map value are reported as absent.
func (p *Props) Read(path Path) (value.Value, bool) {
	if len(path) == 0 {
		return value.Value{}, false
	}
	cur := p.m
	for _, seg := range path[:len(path)-1] {
		next, ok := cur.Get(seg)
		if !ok {
			return value.Value{}, false
		}
		if cur, ok = next.AsMap(); !ok {
			return value.Value{}, false
		}
	}
	return cur.Get(path[len(path)-1])
}

// ReadString returns the string at path, if present and a string.
func (p *Props) ReadString(path Path) (string, bool) {
	v, ok := p.Read(path)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Write sets the leaf at path. Every intermediate map must already exist.
func (p *Props) Write(path Path, v value.Value) error {
	parent, err := p.parent(path, false)
	if err != nil {
		return err
	}
	parent.Set(path[len(path)-1], v)
	return nil
}

// WriteCreate sets the leaf at path, creating missing intermediate maps.
// An existing intermediate that is not a map is never overwritten.
func (p *Props) WriteCreate(path Path, v value.Value) error {
	parent, err := p.parent(path, true)
	if err != nil {
		return err
	}
	parent.Set(path[len(path)-1], v)
	return nil
}

// GetOrCreateList returns the list at path, creating an empty one (and any
// missing intermediate maps) if absent. The returned list is live: appending
// to it updates the container.
func (p *Props) GetOrCreateList(path Path) (*value.List, error) {
	parent, err := p.parent(path, true)
	if err != nil {
		return nil, err
	}
	leaf := path[len(path)-1]
	if existing, ok := parent.Get(leaf); ok {
		l, ok := existing.AsList()
		if !ok {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "%s is a %s, not a list", path, existing.Kind())
		}
		return l, nil
	}
	l := value.NewList()
	parent.Set(leaf, value.FromList(l))
	return l, nil
}

// AppendDistinct appends each value not already in the list at path, creating
// the list if needed. It returns the number of values added.
func (p *Props) AppendDistinct(path Path, vs ...value.Value) (int, error) {
	l, err := p.GetOrCreateList(path)
	if err != nil {
		return 0, err
	}
	return l.AppendDistinct(vs...), nil
}

// Remove deletes the leaf at path and reports whether it existed.
func (p *Props) Remove(path Path) bool {
	parent, err := p.parent(path, false)
	if err != nil {
		return false
	}
	return parent.Delete(path[len(path)-1])
}

// MarshalJSON encodes the container as a JSON object in key order.
func (p *Props) MarshalJSON() ([]byte, error) { return p.m.MarshalJSON() }

// UnmarshalJSON decodes a JSON object into the container.
func (p *Props) UnmarshalJSON(data []byte) error {
	m := value.NewMap()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	p.m = m
	return nil
}

// parent walks to the map that holds the leaf of path.
func (p *Props) parent(path Path, create bool) (*value.Map, error) {
	if err := path.validate(); err != nil {
		return nil, err
	}
	cur := p.m
	for i, seg := range path[:len(path)-1] {
		next, ok := cur.Get(seg)
		if !ok {
			if !create {
				return nil, errors.New(errors.ErrCodeInvalidPath, "%s: missing %s", path, path[:i+1])
			}
			child := value.NewMap()
			cur.Set(seg, value.FromMap(child))
			cur = child
			continue
		}
		child, ok := next.AsMap()
		if !ok {
			return nil, errors.New(errors.ErrCodeTypeMismatch, "%s: %s is a %s, not a map", path, path[:i+1], next.Kind())
		}
		cur = child
	}
	return cur, nil
}
