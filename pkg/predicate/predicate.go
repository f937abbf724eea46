// Package predicate provides composable boolean tests over property values.
//
// A [P] is a pure function: it never mutates state and always returns the same
// answer for the same input, so a traversal may evaluate it any number of
// times. Predicates are passed to filter steps such as traversal Has:
//
//	g.V().Has("details.visibility", predicate.Within("public", "partner"))
//	g.V().Has("replicas", predicate.And(predicate.Gte(2), predicate.Lt(10)))
//
// Comparisons that only make sense for one kind (ordering for numbers,
// prefixes for strings) fail with TYPE_MISMATCH when applied to another kind.
package predicate

import (
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/value"
)

// P tests a single value.
type P func(v value.Value) (bool, error)

// Test evaluates the predicate.
func (p P) Test(v value.Value) (bool, error) { return p(v) }

// literal converts a Go literal once, deferring any conversion error to
// evaluation time so predicates stay composable expressions.
func literal(x any) (value.Value, error) {
	v, err := value.FromAny(x)
	if err != nil {
		return value.Value{}, errors.Wrap(errors.ErrCodeTypeMismatch, err, "predicate operand")
	}
	return v, nil
}

// Exists is true for every value. Has(key, Exists()) behaves like HasKey.
func Exists() P {
	return func(value.Value) (bool, error) { return true, nil }
}

// Eq is true when the value equals x.
func Eq(x any) P {
	want, err := literal(x)
	return func(v value.Value) (bool, error) {
		if err != nil {
			return false, err
		}
		return v.Equal(want), nil
	}
}

// Neq is true when the value differs from x.
func Neq(x any) P { return Not(Eq(x)) }

// Within is true when the value equals any of xs.
func Within(xs ...any) P {
	set, err := literals(xs)
	return func(v value.Value) (bool, error) {
		if err != nil {
			return false, err
		}
		for _, want := range set {
			if v.Equal(want) {
				return true, nil
			}
		}
		return false, nil
	}
}

// Without is true when the value equals none of xs.
func Without(xs ...any) P { return Not(Within(xs...)) }

func literals(xs []any) ([]value.Value, error) {
	out := make([]value.Value, 0, len(xs))
	for _, x := range xs {
		v, err := literal(x)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Not negates p. Errors from p are passed through, not negated.
func Not(p P) P {
	return func(v value.Value) (bool, error) {
		ok, err := p(v)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// And is true when every predicate is true. Evaluation stops at the first
// false or failing predicate. And() with no arguments is true.
func And(ps ...P) P {
	return func(v value.Value) (bool, error) {
		for _, p := range ps {
			ok, err := p(v)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Or is true when any predicate is true. Evaluation stops at the first true
// or failing predicate. Or() with no arguments is false.
func Or(ps ...P) P {
	return func(v value.Value) (bool, error) {
		for _, p := range ps {
			ok, err := p(v)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

func number(v value.Value, op string) (float64, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, errors.New(errors.ErrCodeTypeMismatch, "%s needs a number, got %s", op, v.Kind())
	}
	return n, nil
}

func compare(op string, x float64, cmp func(a, b float64) bool) P {
	return func(v value.Value) (bool, error) {
		n, err := number(v, op)
		if err != nil {
			return false, err
		}
		return cmp(n, x), nil
	}
}

// Gt is true for numbers greater than x.
func Gt(x float64) P { return compare("gt", x, func(a, b float64) bool { return a > b }) }

// Gte is true for numbers greater than or equal to x.
func Gte(x float64) P { return compare("gte", x, func(a, b float64) bool { return a >= b }) }

// Lt is true for numbers less than x.
func Lt(x float64) P { return compare("lt", x, func(a, b float64) bool { return a < b }) }

// Lte is true for numbers less than or equal to x.
func Lte(x float64) P { return compare("lte", x, func(a, b float64) bool { return a <= b }) }

func text(op string, match func(s string) bool) P {
	return func(v value.Value) (bool, error) {
		s, ok := v.AsString()
		if !ok {
			return false, errors.New(errors.ErrCodeTypeMismatch, "%s needs a string, got %s", op, v.Kind())
		}
		return match(s), nil
	}
}

// StartingWith is true for strings with the given prefix.
func StartingWith(prefix string) P {
	return text("startingWith", func(s string) bool { return strings.HasPrefix(s, prefix) })
}

// EndingWith is true for strings with the given suffix.
func EndingWith(suffix string) P {
	return text("endingWith", func(s string) bool { return strings.HasSuffix(s, suffix) })
}

// Containing is true for strings containing sub.
func Containing(sub string) P {
	return text("containing", func(s string) bool { return strings.Contains(s, sub) })
}

// Includes is true for lists holding an item equal to x.
func Includes(x any) P {
	want, err := literal(x)
	return func(v value.Value) (bool, error) {
		if err != nil {
			return false, err
		}
		l, ok := v.AsList()
		if !ok {
			return false, errors.New(errors.ErrCodeTypeMismatch, "includes needs a list, got %s", v.Kind())
		}
		return l.Contains(want), nil
	}
}
