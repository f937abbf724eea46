package inventory

import (
	"math"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Details is a free-form property tree attached to a domain or component.
// Keys keep the order they have in the manifest, at every level.
type Details struct {
	m *value.Map
}

// NewDetails wraps m. The manifest keeps a reference; callers must not
// modify m afterwards.
func NewDetails(m *value.Map) Details { return Details{m: m} }

// Map returns the tree, or nil when no details were given.
func (d Details) Map() *value.Map { return d.m }

// Len returns the number of top-level keys.
func (d Details) Len() int { return d.m.Len() }

// Equal reports whether both trees hold the same keys, in the same order,
// with equal values.
func (d Details) Equal(o Details) bool { return d.m.Equal(o.m) }

// UnmarshalYAML implements yaml.Unmarshaler. Walking the node tree instead
// of decoding into map[string]any is what keeps key order.
func (d *Details) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return errors.New(errors.ErrCodeInvalidInput, "line %d: details must be a mapping", n.Line)
	}
	v, err := fromNode(n)
	if err != nil {
		return err
	}
	d.m, _ = v.AsMap()
	return nil
}

func fromNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		m := value.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode || k.ShortTag() == "!!merge" {
				return value.Value{}, errors.New(errors.ErrCodeInvalidInput, "line %d: unsupported details key", k.Line)
			}
			if m.Has(k.Value) {
				return value.Value{}, errors.New(errors.ErrCodeDuplicateID, "line %d: duplicate details key %q", k.Line, k.Value)
			}
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return value.Value{}, err
			}
			m.Set(k.Value, v)
		}
		return value.FromMap(m), nil
	case yaml.SequenceNode:
		l := value.NewList()
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return value.Value{}, err
			}
			l.Append(v)
		}
		return value.FromList(l), nil
	}
	return fromScalar(n)
}

func fromScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", n.Line)
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", n.Line)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.Value{}, errors.New(errors.ErrCodeInvalidInput, "line %d: number %s is not finite", n.Line, n.Value)
		}
		return value.Number(f), nil
	}
	// Strings, timestamps and binary keep their source text.
	return value.String(n.Value), nil
}
