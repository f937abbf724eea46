package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/store"
)

// Report kinds accepted by Render.
const (
	KindSummary  = "summary"
	KindMarkdown = "markdown"
	KindTable    = "table"
	KindJSON     = "json"
	KindDOT      = "dot"
	KindSVG      = "svg"
)

// Kinds lists every report kind.
var Kinds = []string{KindSummary, KindMarkdown, KindTable, KindJSON, KindDOT, KindSVG}

// Extension returns the file extension for a report kind.
func Extension(kind string) string {
	switch kind {
	case KindMarkdown:
		return ".md"
	case KindJSON:
		return ".json"
	case KindDOT:
		return ".dot"
	case KindSVG:
		return ".svg"
	}
	return ".txt"
}

// ValidateKind checks that kind is a known report kind.
func ValidateKind(kind string) error {
	for _, k := range Kinds {
		if k == kind {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"invalid report kind %q (must be one of: %s)", kind, strings.Join(Kinds, ", "))
}

// Render produces the report of the given kind.
func Render(ctx context.Context, s *store.Store, kind string) ([]byte, error) {
	if err := ValidateKind(kind); err != nil {
		return nil, err
	}
	switch kind {
	case KindDOT:
		return []byte(ToDOT(s, DOTOptions{EdgeLabels: true})), nil
	case KindSVG:
		return RenderSVG(ctx, ToDOT(s, DOTOptions{}))
	}

	sum := Summarize(s)
	if kind == KindSummary {
		var b strings.Builder
		fmt.Fprintf(&b, "vertices: %d\n", sum.Vertices)
		for _, tc := range sum.VertexTypes {
			fmt.Fprintf(&b, "  %s: %d\n", tc.Type, tc.Count)
		}
		fmt.Fprintf(&b, "edges: %d\n", sum.Edges)
		for _, tc := range sum.EdgeTypes {
			fmt.Fprintf(&b, "  %s: %d\n", tc.Type, tc.Count)
		}
		return []byte(b.String()), nil
	}

	domains, err := Domains(s)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindTable:
		return []byte(Table(domains) + "\n"), nil
	case KindJSON:
		data, err := json.MarshalIndent(struct {
			Summary Summary        `json:"summary"`
			Domains []DomainReport `json:"domains"`
		}{sum, domains}, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	title := "Inventory"
	if root, ok := s.Root(); ok {
		title = root.Name()
	}
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, title, sum, domains); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
