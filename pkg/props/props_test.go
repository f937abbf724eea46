package props

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/value"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"name", 1, false},
		{"details.gateways", 2, false},
		{"", 0, true},
		{"details.", 0, true},
		{".details", 0, true},
		{"a..b", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPath) {
					t.Errorf("err = %v, want INVALID_PATH", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			if len(p) != tt.want {
				t.Errorf("len = %d, want %d", len(p), tt.want)
			}
			if p.String() != tt.input {
				t.Errorf("String() = %q, want %q", p.String(), tt.input)
			}
		})
	}
}

func TestReadMissingDoesNotMutate(t *testing.T) {
	p := New()
	if _, ok := p.Read(MustPath("details.documentationLink")); ok {
		t.Error("Read on empty container reported present")
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d after read, want 0", p.Len())
	}

	_ = p.WriteCreate(MustPath("name"), value.String("svc"))
	if _, ok := p.Read(MustPath("name.inner")); ok {
		t.Error("Read through a string reported present")
	}
}

func TestWrite(t *testing.T) {
	p := New()

	err := p.Write(MustPath("details.documentationLink"), value.String("https://docs"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Fatalf("Write without intermediates err = %v, want INVALID_PATH", err)
	}
	if p.Has("details") {
		t.Error("failed Write created an intermediate")
	}

	if err := p.WriteCreate(MustPath("details.documentationLink"), value.String("https://docs")); err != nil {
		t.Fatalf("WriteCreate: %v", err)
	}
	if err := p.Write(MustPath("details.owner"), value.String("team-a")); err != nil {
		t.Fatalf("Write with intermediates: %v", err)
	}

	got, ok := p.ReadString(MustPath("details.documentationLink"))
	if !ok || got != "https://docs" {
		t.Errorf("documentationLink = %q, %v", got, ok)
	}
	if got, _ := p.ReadString(MustPath("details.owner")); got != "team-a" {
		t.Errorf("owner = %q, want team-a", got)
	}
}

func TestWriteThroughScalar(t *testing.T) {
	p := New()
	_ = p.WriteCreate(MustPath("details"), value.String("flat"))

	err := p.WriteCreate(MustPath("details.gateways"), value.Strings("public"))
	if !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("err = %v, want TYPE_MISMATCH", err)
	}
	if got, _ := p.ReadString(MustPath("details")); got != "flat" {
		t.Errorf("details = %q, want flat (unchanged)", got)
	}
}

func TestGetOrCreateList(t *testing.T) {
	p := New()
	path := MustPath("details.gateways")

	l, err := p.GetOrCreateList(path)
	if err != nil {
		t.Fatalf("GetOrCreateList: %v", err)
	}
	l.Append(value.String("public"))

	again, err := p.GetOrCreateList(path)
	if err != nil {
		t.Fatalf("GetOrCreateList again: %v", err)
	}
	if again.Len() != 1 {
		t.Errorf("list len = %d, want 1 (live list)", again.Len())
	}

	_ = p.WriteCreate(MustPath("name"), value.String("x"))
	if _, err := p.GetOrCreateList(MustPath("name")); !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("err = %v, want TYPE_MISMATCH", err)
	}
}

func TestAppendDistinct(t *testing.T) {
	p := New()
	path := MustPath("details.languages")

	n, err := p.AppendDistinct(path, value.String("go"), value.String("java"))
	if err != nil || n != 2 {
		t.Fatalf("AppendDistinct = %d, %v", n, err)
	}
	n, _ = p.AppendDistinct(path, value.String("go"), value.String("rust"))
	if n != 1 {
		t.Errorf("second AppendDistinct added %d, want 1", n)
	}
	v, _ := p.Read(path)
	if !v.Equal(value.Strings("go", "java", "rust")) {
		t.Errorf("languages = %v", v)
	}
}

func TestRemove(t *testing.T) {
	p := New()
	_ = p.WriteCreate(MustPath("details.a"), value.Int(1))
	if !p.Remove(MustPath("details.a")) {
		t.Error("Remove = false, want true")
	}
	if p.Remove(MustPath("missing.a")) {
		t.Error("Remove of missing = true, want false")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p := New()
	_ = p.WriteCreate(MustPath("name"), value.String("billing"))
	_ = p.WriteCreate(MustPath("details.gateways"), value.Strings("public", "internal"))

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"name":"billing","details":{"gateways":["public","internal"]}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	back := New()
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(p) {
		t.Error("round trip not equal")
	}
}
