package store

import (
	"slices"

	"github.com/matzehuels/stackinv/pkg/errors"
)

// Validate checks that the indices agree with the owning collections and
// returns nil if they do. It verifies:
//
//  1. Every ordered id resolves to exactly one element.
//  2. Every edge endpoint exists and the edge appears in both adjacency lists.
//  3. Every type index entry points at an element of that type.
//  4. The root vertex, if any, has no incoming edges.
//
// A failure indicates a bug in the store, never bad input, and is reported as
// INTERNAL_ERROR.
func (s *Store) Validate() error {
	if len(s.vertexOrder) != len(s.vertices) {
		return errors.New(errors.ErrCodeInternal, "vertex order has %d ids for %d vertices", len(s.vertexOrder), len(s.vertices))
	}
	if len(s.edgeOrder) != len(s.edges) {
		return errors.New(errors.ErrCodeInternal, "edge order has %d ids for %d edges", len(s.edgeOrder), len(s.edges))
	}
	if err := s.validateEdgeConsistency(); err != nil {
		return err
	}
	if err := s.validateTypeIndex(); err != nil {
		return err
	}
	if s.root != "" && len(s.incoming[s.root]) > 0 {
		return errors.New(errors.ErrCodeInternal, "root vertex %q has incoming edges", s.root)
	}
	return nil
}

func (s *Store) validateEdgeConsistency() error {
	for _, id := range s.edgeOrder {
		e, ok := s.edges[id]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "edge %q in order but not stored", id)
		}
		if _, ok := s.vertices[e.From]; !ok {
			return errors.New(errors.ErrCodeInternal, "edge %q has dangling source %q", id, e.From)
		}
		if _, ok := s.vertices[e.To]; !ok {
			return errors.New(errors.ErrCodeInternal, "edge %q has dangling target %q", id, e.To)
		}
		if !slices.Contains(s.outgoing[e.From], id) || !slices.Contains(s.incoming[e.To], id) {
			return errors.New(errors.ErrCodeInternal, "edge %q missing from adjacency index", id)
		}
	}
	for vid, ids := range s.outgoing {
		for _, id := range ids {
			if e, ok := s.edges[id]; !ok || e.From != vid {
				return errors.New(errors.ErrCodeInternal, "stale outgoing entry %q on %q", id, vid)
			}
		}
	}
	for vid, ids := range s.incoming {
		for _, id := range ids {
			if e, ok := s.edges[id]; !ok || e.To != vid {
				return errors.New(errors.ErrCodeInternal, "stale incoming entry %q on %q", id, vid)
			}
		}
	}
	return nil
}

func (s *Store) validateTypeIndex() error {
	count := 0
	for typ, ids := range s.vertexTypes {
		for _, id := range ids {
			if v, ok := s.vertices[id]; !ok || v.Type != typ {
				return errors.New(errors.ErrCodeInternal, "stale type index entry %q for vertex type %q", id, typ)
			}
			count++
		}
	}
	if count != len(s.vertices) {
		return errors.New(errors.ErrCodeInternal, "vertex type index covers %d of %d vertices", count, len(s.vertices))
	}

	count = 0
	for typ, ids := range s.edgeTypes {
		for _, id := range ids {
			if e, ok := s.edges[id]; !ok || e.Type != typ {
				return errors.New(errors.ErrCodeInternal, "stale type index entry %q for edge type %q", id, typ)
			}
			count++
		}
	}
	if count != len(s.edges) {
		return errors.New(errors.ErrCodeInternal, "edge type index covers %d of %d edges", count, len(s.edges))
	}
	return nil
}
