package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/inventory"
	"github.com/matzehuels/stackinv/pkg/store"
)

const manifest = `
name: acme
domains:
  - id: payments
    name: Payments
    components:
      - id: billing
        name: billing
        repository: git@x/billing
        documentation: https://docs/billing
        language: go
        frameworks: [chi]
        gateways:
          - name: public
  - id: search
    name: Search
`

func build(t *testing.T) *store.Store {
	t.Helper()
	m, err := inventory.Parse([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}
	s, err := inventory.Build(m)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSummarize(t *testing.T) {
	got := Summarize(build(t))
	want := Summary{
		Vertices: 7,
		Edges:    6,
		VertexTypes: []TypeCount{
			{"root", 1}, {"domain", 2}, {"component", 1}, {"language", 1}, {"framework", 1}, {"gateway", 1},
		},
		EdgeTypes: []TypeCount{{"owns", 3}, {"uses", 2}, {"gateway", 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestDomains(t *testing.T) {
	got, err := Domains(build(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []DomainReport{
		{
			ID:   "payments",
			Name: "Payments",
			Components: []ComponentReport{{
				ID:         "billing",
				Name:       "billing",
				Repository: "git@x/billing",
				Gateways:   []string{"public"},
				Languages:  []string{"go"},
				Frameworks: []string{"chi"},
				Documented: true,
			}},
		},
		{ID: "search", Name: "Search", Components: []ComponentReport{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Domains mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMarkdown(t *testing.T) {
	s := build(t)
	domains, err := Domains(s)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, "acme", Summarize(s), domains); err != nil {
		t.Fatal(err)
	}
	want := `# acme

7 vertices, 6 edges.

| Type | Count |
|---|---|
| root | 1 |
| domain | 2 |
| component | 1 |
| language | 1 |
| framework | 1 |
| gateway | 1 |

## Payments

| Component | Repository | Gateways | Stack | Docs |
|---|---|---|---|---|
| billing | git@x/billing | public | go, chi | yes |

## Search

No components.
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestTable(t *testing.T) {
	domains, err := Domains(build(t))
	if err != nil {
		t.Fatal(err)
	}
	out := Table(domains)
	for _, want := range []string{"Domain", "Payments", "billing", "go, chi"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestToDOT(t *testing.T) {
	s := store.New()
	_, _ = s.AddVertex("d", inventory.TypeDomain, nil)
	_, _ = s.AddVertex("c", inventory.TypeComponent, nil)
	_, _ = s.AddVertex("go", inventory.TypeLanguage, nil)
	_, _ = s.AddEdge("e1", inventory.EdgeOwns, "d", "c", nil)
	_, _ = s.AddEdge("e2", inventory.EdgeUses, "c", "go", nil)

	got := ToDOT(s, DOTOptions{Types: []string{inventory.TypeDomain, inventory.TypeComponent}, EdgeLabels: true})
	want := `digraph G {
  rankdir=LR;
  bgcolor="transparent";
  node [style="rounded,filled", fillcolor=white, fontsize=14];

  "d" [label="d", shape=folder];
  "c" [label="c", shape=box];

  "d" -> "c" [label="owns"];
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DOT mismatch (-want +got):\n%s", diff)
	}

	all := ToDOT(s, DOTOptions{})
	if !strings.Contains(all, `"c" -> "go" [style=dashed];`) {
		t.Errorf("uses edge not dashed:\n%s", all)
	}
}

func TestRender(t *testing.T) {
	s := build(t)
	ctx := context.Background()

	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			data, err := Render(ctx, s, kind)
			if err != nil {
				t.Fatalf("Render(%s): %v", kind, err)
			}
			if len(data) == 0 {
				t.Fatalf("Render(%s) returned nothing", kind)
			}
			switch kind {
			case KindJSON:
				var out struct {
					Summary Summary        `json:"summary"`
					Domains []DomainReport `json:"domains"`
				}
				if err := json.Unmarshal(data, &out); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if len(out.Domains) != 2 {
					t.Errorf("got %d domains, want 2", len(out.Domains))
				}
			case KindSVG:
				if !bytes.Contains(data, []byte("<svg")) {
					t.Errorf("SVG output lacks <svg>: %.80s", data)
				}
			case KindMarkdown:
				if !bytes.HasPrefix(data, []byte("# acme\n")) {
					t.Errorf("markdown title = %.20q", data)
				}
			case KindSummary:
				if !bytes.Contains(data, []byte("  component: 1\n")) {
					t.Errorf("summary = %s", data)
				}
			}
		})
	}
}

func TestRenderInvalidKind(t *testing.T) {
	_, err := Render(context.Background(), store.New(), "pdf")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		KindMarkdown: ".md",
		KindJSON:     ".json",
		KindDOT:      ".dot",
		KindSVG:      ".svg",
		KindTable:    ".txt",
		KindSummary:  ".txt",
	}
	for kind, want := range tests {
		if got := Extension(kind); got != want {
			t.Errorf("Extension(%s) = %s, want %s", kind, got, want)
		}
	}
}
