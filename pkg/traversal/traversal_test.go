package traversal

import (
	"testing"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/predicate"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/value"
)

// fixture builds R -> D -> C1, C2 with C1 -gateway-> G, C1 -uses-> L and
// C2 -uses-> L.
func fixture(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	vertex := func(id, typ, name string) {
		p := props.New()
		if name != "" {
			if err := p.WriteCreate(props.MustPath("name"), value.String(name)); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := s.AddVertex(id, typ, p); err != nil {
			t.Fatal(err)
		}
	}
	edge := func(id, typ, from, to string) {
		if _, err := s.AddEdge(id, typ, from, to, nil); err != nil {
			t.Fatal(err)
		}
	}
	vertex("R", store.TypeRoot, "")
	vertex("D", "domain", "payments")
	vertex("C1", "component", "billing")
	vertex("C2", "component", "ledger")
	vertex("G", "gateway", "public")
	vertex("L", "language", "go")
	edge("e1", "owns", "R", "D")
	edge("e2", "owns", "D", "C1")
	edge("e3", "owns", "D", "C2")
	edge("e4", "gateway", "C1", "G")
	edge("e5", "uses", "C1", "L")
	edge("e6", "uses", "C2", "L")
	return s
}

func ids(t *testing.T, tr *Traversal) []string {
	t.Helper()
	elems, err := tr.ToList()
	if err != nil {
		t.Fatalf("%s: %v", tr, err)
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		id, ok := e.ID()
		if !ok {
			t.Fatalf("%s: element %s has no id", tr, e)
		}
		out[i] = id
	}
	return out
}

func strs(t *testing.T, tr *Traversal) []string {
	t.Helper()
	vals, err := tr.ToValues()
	if err != nil {
		t.Fatalf("%s: %v", tr, err)
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNavigation(t *testing.T) {
	g := New(fixture(t))

	tests := []struct {
		name string
		tr   *Traversal
		want []string
	}{
		{"all vertices", g.V(), []string{"R", "D", "C1", "C2", "G", "L"}},
		{"seed ids in insertion order", g.V("C2", "missing", "R"), []string{"R", "C2"}},
		{"root to domain", g.V("R").Out().HasType("domain"), []string{"D"}},
		{"domain components", g.V("R").Out().HasType("domain").Out(), []string{"C1", "C2"}},
		{"typed out", g.V("C1").Out("gateway"), []string{"G"}},
		{"in", g.V("L").In("uses"), []string{"C1", "C2"}},
		{"duplicates kept", g.V("C1", "C2").Out("uses"), []string{"L", "L"}},
		{"both", g.V("C1").Both(), []string{"G", "L", "D"}},
		{"outE", g.V("C1").OutE(), []string{"e4", "e5"}},
		{"inE then outV", g.V("C1").InE().OutV(), []string{"D"}},
		{"outE then inV", g.V("D").OutE("owns").InV(), []string{"C1", "C2"}},
		{"all edges", g.E("e6", "e1"), []string{"e1", "e6"}},
		{"hasId", g.V().HasID("G", "C2"), []string{"C2", "G"}},
		{"limit", g.V().Limit(2), []string{"R", "D"}},
		{"limit above length", g.V("G").Limit(5), []string{"G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(t, tt.tr); !equal(got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.tr, got, tt.want)
			}
		})
	}
}

func TestWhereNotGateway(t *testing.T) {
	g := New(fixture(t))

	got := ids(t, g.V("C1").Out().Where(Anon().Not(Anon().HasType("gateway"))))
	if want := []string{"L"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNotIsComplement(t *testing.T) {
	g := New(fixture(t))
	sub := Anon().Out("uses")

	all := ids(t, g.V())
	kept := ids(t, g.V().Where(sub))
	dropped := ids(t, g.V().Not(sub))

	if len(kept)+len(dropped) != len(all) {
		t.Fatalf("where %v + not %v does not cover %v", kept, dropped, all)
	}
	for _, id := range kept {
		for _, other := range dropped {
			if id == other {
				t.Errorf("%s kept by both where and not", id)
			}
		}
	}
	if want := []string{"C1", "C2"}; !equal(kept, want) {
		t.Errorf("where = %v, want %v", kept, want)
	}
}

func TestHas(t *testing.T) {
	s := fixture(t)
	if err := s.SetProperty("C1", props.MustPath("details.gateways"), value.ListOf(value.String("public"))); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProperty("C2", props.MustPath("details.repository"), value.String("git@x/ledger")); err != nil {
		t.Fatal(err)
	}
	g := New(s)

	tests := []struct {
		name string
		tr   *Traversal
		want []string
	}{
		{"exists", g.V().HasKey("name").HasType("component"), []string{"C1", "C2"}},
		{"eq", g.V().Has("name", predicate.Eq("ledger")), []string{"C2"}},
		{"within", g.V().Has("name", predicate.Within("go", "public")), []string{"G", "L"}},
		{"not", g.V().HasType("component").Has("name", predicate.Not(predicate.Eq("billing"))), []string{"C2"}},
		{"nested", g.V().Has("details.gateways", predicate.Includes("public")), []string{"C1"}},
		{"hasKeys", g.V().HasKeys("name", "details.repository"), []string{"C2"}},
		{"missing key drops", g.V().HasKey("details"), []string{"C1", "C2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(t, tt.tr); !equal(got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.tr, got, tt.want)
			}
		})
	}
}

func TestPredicateTypeMismatch(t *testing.T) {
	g := New(fixture(t))

	_, err := g.V().Has("name", predicate.Gt(3)).ToList()
	if !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("err = %v, want TYPE_MISMATCH", err)
	}
}

func TestProjection(t *testing.T) {
	g := New(fixture(t))

	tests := []struct {
		name string
		tr   *Traversal
		want []string
	}{
		{"name skips unnamed", g.V().Name(), []string{"payments", "billing", "ledger", "public", "go"}},
		{"values", g.V("D").Out().Values("name"), []string{"billing", "ledger"}},
		{"id", g.V("D").Out().ID(), []string{"C1", "C2"}},
		{"type", g.V("C1").Out().Type(), []string{"gateway", "language"}},
		{"edge type", g.V("C1").OutE().Type(), []string{"gateway", "uses"}},
		{"count", g.V().HasType("component").Count(), []string{"2"}},
		{"count empty", g.V().HasType("route").Count(), []string{"0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strs(t, tt.tr); !equal(got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.tr, got, tt.want)
			}
		})
	}
}

func TestDedupIdempotent(t *testing.T) {
	g := New(fixture(t))
	base := g.V().Out().Out()

	in := ids(t, base)
	once := ids(t, base.Dedup())
	twice := ids(t, base.Dedup().Dedup())

	if want := []string{"C1", "C2", "G", "L"}; !equal(once, want) {
		t.Errorf("dedup = %v, want %v", once, want)
	}
	if !equal(once, twice) {
		t.Errorf("dedup twice = %v, want %v", twice, once)
	}
	if len(once) > len(in) {
		t.Errorf("dedup grew %v to %v", in, once)
	}
}

func TestDedupValues(t *testing.T) {
	g := New(fixture(t))

	got := strs(t, g.V("C1", "C2").Out("uses").Name().Dedup())
	if want := []string{"go"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFoldPreservesOrder(t *testing.T) {
	g := New(fixture(t))

	before := ids(t, g.V().Both())
	elems, err := g.V().Both().Fold().ToList()
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 1 {
		t.Fatalf("fold produced %d elements, want 1", len(elems))
	}
	items, ok := elems[0].List()
	if !ok {
		t.Fatalf("fold produced %s, want a list", elems[0])
	}
	got := make([]string, len(items))
	for i, item := range items {
		got[i], _ = item.ID()
	}
	if !equal(got, before) {
		t.Errorf("fold = %v, want %v", got, before)
	}

	unfolded := ids(t, g.V().Both().Fold().Unfold())
	if !equal(unfolded, before) {
		t.Errorf("unfold = %v, want %v", unfolded, before)
	}
}

func TestFoldEmpty(t *testing.T) {
	g := New(fixture(t))

	e, ok, err := g.V().HasType("route").Fold().Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v", ok, err)
	}
	if items, _ := e.List(); len(items) != 0 {
		t.Errorf("fold of empty stream = %s, want []", e)
	}
}

func TestLocalPreservesBindings(t *testing.T) {
	g := New(fixture(t))

	elems, err := g.V().HasType("component").As("c").
		Local(Anon().Out().Name().Fold()).As("deps").
		Select("c", "deps").ToList()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"C1": "[public go]", "C2": "[go]"}
	if len(elems) != len(want) {
		t.Fatalf("got %d records, want %d", len(elems), len(want))
	}
	for _, e := range elems {
		rec, ok := e.Record()
		if !ok {
			t.Fatalf("got %s, want a record", e)
		}
		if labels := rec.Labels(); !equal(labels, []string{"c", "deps"}) {
			t.Errorf("labels = %v", labels)
		}
		c, _ := rec.Get("c")
		deps, _ := rec.Get("deps")
		id, _ := c.ID()
		if deps.String() != want[id] {
			t.Errorf("deps(%s) = %s, want %s", id, deps, want[id])
		}
	}
}

func TestLocalFlatMap(t *testing.T) {
	g := New(fixture(t))

	got := ids(t, g.V("D").As("d").Local(Anon().Out().Limit(1)))
	if want := []string{"C1"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = ids(t, g.V("G", "L").Local(Anon().Out()))
	if len(got) != 0 {
		t.Errorf("local over leaves = %v, want none", got)
	}
}

func TestLocalCount(t *testing.T) {
	g := New(fixture(t))

	got := strs(t, g.V().HasType("component").Local(Anon().Out().Count()))
	if want := []string{"2", "1"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelectLastBindingWins(t *testing.T) {
	g := New(fixture(t))

	e, ok, err := g.V("R").As("x").Out().As("x").Select("x").Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v", ok, err)
	}
	rec, _ := e.Record()
	x, _ := rec.Get("x")
	if id, _ := x.ID(); id != "D" {
		t.Errorf("x = %s, want v[D]", x)
	}
}

func TestSelectUnboundLabel(t *testing.T) {
	g := New(fixture(t))

	_, err := g.V("D").As("d").Out().Select("d", "missing").ToList()
	if !errors.Is(err, errors.ErrCodeUnboundLabel) {
		t.Errorf("err = %v, want UNBOUND_LABEL", err)
	}
}

func TestBindingsDoNotLeakAcrossLineages(t *testing.T) {
	g := New(fixture(t))

	// Bindings made inside a sub-pipeline stay inside it.
	_, err := g.V("D").Where(Anon().Out().As("inner")).Select("inner").ToList()
	if !errors.Is(err, errors.ErrCodeUnboundLabel) {
		t.Errorf("err = %v, want UNBOUND_LABEL", err)
	}
}

func TestProperty(t *testing.T) {
	s := fixture(t)
	g := New(s)

	if err := g.V().HasType("component").Property("details.audited", value.Bool(true)).Iterate(); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"C1", "C2"} {
		v, _ := s.Vertex(id)
		got, ok := v.Props.Read(props.MustPath("details.audited"))
		if !ok || !got.Equal(value.Bool(true)) {
			t.Errorf("%s details.audited = %v, %v", id, got, ok)
		}
	}

	if err := g.E("e4").Property("weight", value.Int(2)).Iterate(); err != nil {
		t.Fatal(err)
	}
	e, _ := s.Edge("e4")
	if got, _ := e.Props.Read(props.MustPath("weight")); !got.Equal(value.Int(2)) {
		t.Errorf("e4 weight = %v, want 2", got)
	}

	if err := g.V("D").Name().Property("x", value.Null()).Iterate(); !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("property on value: err = %v, want TYPE_MISMATCH", err)
	}
}

func TestConstructionErrors(t *testing.T) {
	g := New(fixture(t))

	tests := []struct {
		name string
		tr   *Traversal
		code errors.Code
	}{
		{"empty path", g.V().Has("a..b", nil), errors.ErrCodeInvalidPath},
		{"empty label", g.V().As(""), errors.ErrCodeInvalidInput},
		{"no labels", g.V().Select(), errors.ErrCodeInvalidInput},
		{"negative limit", g.V().Limit(-1), errors.ErrCodeInvalidInput},
		{"nil sub", g.V().Not(nil), errors.ErrCodeInvalidInput},
		{"bad sub", g.V().Where(Anon().Values("")), errors.ErrCodeInvalidPath},
		{"first error kept", g.V().As("").Limit(-1).Has("", nil), errors.ErrCodeInvalidInput},
		{"anonymous run", Anon().Out(), errors.ErrCodeInvalidInput},
		{"seeded where", g.V("D").Where(g.V("G")), errors.ErrCodeInvalidInput},
		{"seeded not", g.V("D").Not(g.E()), errors.ErrCodeInvalidInput},
		{"seeded local", g.V().Local(g.V().Count()), errors.ErrCodeInvalidInput},
		{"out on value", g.V("D").Name().Out(), errors.ErrCodeTypeMismatch},
		{"outV on vertex", g.V("D").OutV(), errors.ErrCodeTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tr.ToList()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNameSkipsNonString(t *testing.T) {
	s := fixture(t)
	if err := s.SetProperty("C2", props.MustPath("name"), value.Int(3)); err != nil {
		t.Fatal(err)
	}
	g := New(s)

	if got, want := strs(t, g.V("D").Out("owns").Name()), []string{"billing"}; !equal(got, want) {
		t.Errorf("Name() = %v, want %v", got, want)
	}
	if got, want := strs(t, g.V("C2").Values("name")), []string{"3"}; !equal(got, want) {
		t.Errorf("Values(name) = %v, want %v", got, want)
	}
}

func TestImmutableBuilder(t *testing.T) {
	g := New(fixture(t))
	base := g.V("D").Out()

	a := base.HasID("C1")
	b := base.HasID("C2")

	if got := ids(t, a); !equal(got, []string{"C1"}) {
		t.Errorf("a = %v", got)
	}
	if got := ids(t, b); !equal(got, []string{"C2"}) {
		t.Errorf("b = %v", got)
	}
	if got := ids(t, base); !equal(got, []string{"C1", "C2"}) {
		t.Errorf("base = %v", got)
	}
}

func TestString(t *testing.T) {
	g := New(store.New())

	got := g.V().HasType("domain").Out("owns").Not(Anon().HasKey("name")).Limit(2).String()
	want := `V().hasType("domain").out("owns").not(has("name")).limit(2)`
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
