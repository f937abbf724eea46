package report

import (
	"github.com/matzehuels/stackinv/pkg/store"
)

// TypeCount is the number of elements of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary holds element counts per type, in order of first appearance.
type Summary struct {
	Vertices    int         `json:"vertices"`
	Edges       int         `json:"edges"`
	VertexTypes []TypeCount `json:"vertexTypes"`
	EdgeTypes   []TypeCount `json:"edgeTypes"`
}

// Summarize counts the vertices and edges of s.
func Summarize(s *store.Store) Summary {
	sum := Summary{
		Vertices:    s.VertexCount(),
		Edges:       s.EdgeCount(),
		VertexTypes: []TypeCount{},
		EdgeTypes:   []TypeCount{},
	}
	for _, typ := range s.VertexTypes() {
		sum.VertexTypes = append(sum.VertexTypes, TypeCount{Type: typ, Count: len(s.VerticesByType(typ))})
	}
	for _, typ := range s.EdgeTypes() {
		sum.EdgeTypes = append(sum.EdgeTypes, TypeCount{Type: typ, Count: len(s.EdgesByType(typ))})
	}
	return sum
}
