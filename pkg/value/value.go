package value

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
)

// Kind identifies which variant a [Value] holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindList:   "list",
	KindMap:    "map",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is a graph property value. The zero value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list *List
	m    *Map
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer as a number.
func Int(i int) Value { return Value{kind: KindNumber, n: float64(i)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromList wraps a list. A nil list becomes an empty list.
func FromList(l *List) Value {
	if l == nil {
		l = NewList()
	}
	return Value{kind: KindList, list: l}
}

// FromMap wraps a map. A nil map becomes an empty map.
func FromMap(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// ListOf builds a list value from the given items.
func ListOf(items ...Value) Value { return FromList(NewList(items...)) }

// Strings builds a list value of strings.
func Strings(ss ...string) Value {
	l := NewList()
	for _, s := range ss {
		l.Append(String(s))
	}
	return FromList(l)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and true if v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and true if v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string and true if v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the list and true if v is a list.
// The returned list is shared with v.
func (v Value) AsList() (*List, bool) { return v.list, v.kind == KindList }

// AsMap returns the map and true if v is a map.
// The returned map is shared with v.
func (v Value) AsMap() (*Map, bool) { return v.m, v.kind == KindMap }

// Equal reports deep equality. Lists compare element-wise in order and maps
// compare key order as well as contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindList:
		return v.list.Equal(o.list)
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		return FromList(v.list.Clone())
	case KindMap:
		return FromMap(v.m.Clone())
	}
	return v
}

// String renders v for display. Strings are unquoted at the top level.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.n)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, 0, v.list.Len())
		for _, item := range v.list.Items() {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindMap:
		parts := make([]string, 0, v.m.Len())
		for _, k := range v.m.Keys() {
			item, _ := v.m.Get(k)
			parts = append(parts, k+":"+item.String())
		}
		return "map[" + strings.Join(parts, " ") + "]"
	}
	return "?"
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// FromAny converts a plain Go value into a Value. Supported inputs are nil,
// bool, the integer and float types, string, []string, []any,
// map[string]any (keys are sorted, since Go maps carry no order), *List, *Map
// and Value itself. Anything else fails with TYPE_MISMATCH.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *List:
		return FromList(t), nil
	case *Map:
		return FromMap(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case []string:
		return Strings(t...), nil
	case []any:
		l := NewList()
		for i, item := range t {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, errors.Wrap(errors.ErrCodeTypeMismatch, err, "list index %d", i)
			}
			l.Append(iv)
		}
		return FromList(l), nil
	case map[string]any:
		m := NewMap()
		for _, k := range slices.Sorted(maps.Keys(t)) {
			iv, err := FromAny(t[k])
			if err != nil {
				return Value{}, errors.Wrap(errors.ErrCodeTypeMismatch, err, "map key %q", k)
			}
			m.Set(k, iv)
		}
		return FromMap(m), nil
	}
	return Value{}, errors.New(errors.ErrCodeTypeMismatch, "unsupported property type %T", x)
}

// MustFromAny is like FromAny but panics on unsupported input.
// It is intended for literals in tests and examples.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(fmt.Sprintf("value: %v", err))
	}
	return v
}

// ToAny converts v into plain Go values: nil, bool, float64, string, []any
// and map[string]any. Map key order is lost.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]any, 0, v.list.Len())
		for _, item := range v.list.Items() {
			out = append(out, item.ToAny())
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for _, k := range v.m.Keys() {
			item, _ := v.m.Get(k)
			out[k] = item.ToAny()
		}
		return out
	}
	return nil
}
