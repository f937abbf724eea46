package traversal

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackinv/pkg/predicate"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/value"
)

// stepKind enumerates the step variants the interpreter understands.
type stepKind int

const (
	stepV stepKind = iota
	stepE
	stepOut
	stepIn
	stepBoth
	stepOutE
	stepInE
	stepOutV
	stepInV
	stepHasType
	stepHas
	stepHasID
	stepHasKeys
	stepNot
	stepWhere
	stepLimit
	stepName
	stepValues
	stepID
	stepType
	stepAs
	stepLocal
	stepSelect
	stepDedup
	stepFold
	stepUnfold
	stepCount
	stepProperty
)

var stepNames = map[stepKind]string{
	stepV:        "V",
	stepE:        "E",
	stepOut:      "out",
	stepIn:       "in",
	stepBoth:     "both",
	stepOutE:     "outE",
	stepInE:      "inE",
	stepOutV:     "outV",
	stepInV:      "inV",
	stepHasType:  "hasType",
	stepHas:      "has",
	stepHasID:    "hasId",
	stepHasKeys:  "hasKeys",
	stepNot:      "not",
	stepWhere:    "where",
	stepLimit:    "limit",
	stepName:     "name",
	stepValues:   "values",
	stepID:       "id",
	stepType:     "type",
	stepAs:       "as",
	stepLocal:    "local",
	stepSelect:   "select",
	stepDedup:    "dedup",
	stepFold:     "fold",
	stepUnfold:   "unfold",
	stepCount:    "count",
	stepProperty: "property",
}

func (k stepKind) String() string {
	if name, ok := stepNames[k]; ok {
		return name
	}
	return "unknown"
}

// step is one tagged pipeline stage. Only the fields relevant to kind are set.
type step struct {
	kind   stepKind
	ids    []string     // V, E, hasId
	types  []string     // navigation edge types, hasType
	paths  []props.Path // has, hasKeys, values, property
	pred   predicate.P  // has
	sub    *Traversal   // not, where, local
	labels []string     // as, select
	n      int          // limit
	val    value.Value  // property
}

// seeds reports whether s starts a traversal from the store.
func (s step) seeds() bool { return s.kind == stepV || s.kind == stepE }

func (s step) String() string {
	var args []string
	switch s.kind {
	case stepV, stepE, stepHasID:
		args = quoteAll(s.ids)
	case stepOut, stepIn, stepBoth, stepOutE, stepInE, stepHasType:
		args = quoteAll(s.types)
	case stepHas, stepHasKeys, stepValues:
		for _, p := range s.paths {
			args = append(args, fmt.Sprintf("%q", p.String()))
		}
		if s.kind == stepHas && s.pred != nil {
			args = append(args, "<predicate>")
		}
	case stepProperty:
		args = []string{fmt.Sprintf("%q", s.paths[0].String()), s.val.String()}
	case stepNot, stepWhere, stepLocal:
		args = []string{s.sub.String()}
	case stepAs, stepSelect:
		args = quoteAll(s.labels)
	case stepLimit:
		args = []string{fmt.Sprint(s.n)}
	}
	return s.kind.String() + "(" + strings.Join(args, ", ") + ")"
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
