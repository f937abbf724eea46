package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Document is the serialized form of a store.
type Document struct {
	Vertices []VertexRecord `json:"vertices"`
	Edges    []EdgeRecord   `json:"edges"`
}

// VertexRecord is one serialized vertex.
type VertexRecord struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Properties *value.Map `json:"properties"`
}

// EdgeRecord is one serialized edge.
type EdgeRecord struct {
	ID         string     `json:"id"`
	Type       string     `json:"type,omitempty"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Properties *value.Map `json:"properties"`
}

// FromStore snapshots s into a document. Property trees are deep-copied, so
// later store mutations do not affect the document.
func FromStore(s *store.Store) Document {
	doc := Document{
		Vertices: make([]VertexRecord, 0, s.VertexCount()),
		Edges:    make([]EdgeRecord, 0, s.EdgeCount()),
	}
	for _, v := range s.Vertices() {
		doc.Vertices = append(doc.Vertices, VertexRecord{
			ID:         v.ID,
			Type:       v.Type,
			Properties: v.Props.Map().Clone(),
		})
	}
	for _, e := range s.Edges() {
		doc.Edges = append(doc.Edges, EdgeRecord{
			ID:         e.ID,
			Type:       e.Type,
			Source:     e.From,
			Target:     e.To,
			Properties: e.Props.Map().Clone(),
		})
	}
	return doc
}

// ToStore builds a new store from doc. All vertices are added before any
// edge, so edge records may reference vertices that appear later.
func ToStore(doc Document) (*store.Store, error) {
	s := store.New()
	for i, r := range doc.Vertices {
		if _, err := s.AddVertex(r.ID, r.Type, clone(r.Properties)); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "vertex record %d", i)
		}
	}
	for i, r := range doc.Edges {
		if r.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge record %d: missing id", i)
		}
		if _, err := s.AddEdge(r.ID, r.Type, r.Source, r.Target, clone(r.Properties)); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "edge record %d", i)
		}
	}
	return s, nil
}

func clone(m *value.Map) *props.Props {
	if m == nil {
		return props.New()
	}
	return props.FromMap(m.Clone())
}

// Marshal encodes s as indented JSON.
func Marshal(s *store.Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON document into a new store.
func Unmarshal(data []byte) (*store.Store, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes s as indented JSON to w. Ids, types and property strings
// must be valid UTF-8; anything else fails with INVALID_INPUT before a byte
// is written, since JSON cannot carry it losslessly.
func Write(s *store.Store, w io.Writer) error {
	doc := FromStore(s)
	if err := checkUTF8(doc); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		if code := errors.GetCode(err); code != "" {
			return errors.Wrap(code, err, "encode graph document")
		}
		return fmt.Errorf("encode: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func checkUTF8(doc Document) error {
	for i, r := range doc.Vertices {
		for _, f := range []string{r.ID, r.Type} {
			if !utf8.ValidString(f) {
				return errors.New(errors.ErrCodeInvalidInput, "vertex record %d: %q is not valid UTF-8", i, f)
			}
		}
	}
	for i, r := range doc.Edges {
		for _, f := range []string{r.ID, r.Type, r.Source, r.Target} {
			if !utf8.ValidString(f) {
				return errors.New(errors.ErrCodeInvalidInput, "edge record %d: %q is not valid UTF-8", i, f)
			}
		}
	}
	return nil
}

// Read decodes a JSON document from r into a new store.
func Read(r io.Reader) (*store.Store, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return ToStore(doc)
}

// Decode reads a document without building a store.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph document")
	}
	return doc, nil
}

// WriteFile writes s to path, creating or truncating the file. An existing
// file is left alone when s cannot be encoded.
func WriteFile(s *store.Store, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads the store saved at path.
func ReadFile(path string) (*store.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
