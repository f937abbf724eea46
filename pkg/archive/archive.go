// Package archive keeps a history of enriched inventory graphs.
//
// Each successful build can be stored as a [Snapshot]: the graph document
// together with its content hash, the run id, and the build of stackinv that
// produced it. Two backends implement [Archive]:
//
//   - [FileArchive]: one JSON file per snapshot in a directory
//   - [MongoArchive]: a MongoDB collection, with property trees stored as
//     ordered BSON documents
package archive

import (
	"context"
	"time"

	"github.com/matzehuels/stackinv/pkg/buildinfo"
	"github.com/matzehuels/stackinv/pkg/cache"
	"github.com/matzehuels/stackinv/pkg/codec"
	"github.com/matzehuels/stackinv/pkg/store"
)

// Snapshot is one archived graph.
type Snapshot struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	GraphHash string         `json:"graphHash"`
	Build     buildinfo.Info `json:"build"`
	Graph     codec.Document `json:"graph"`
}

// Info describes a snapshot without its graph.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	GraphHash string    `json:"graphHash"`
	Vertices  int       `json:"vertices"`
	Edges     int       `json:"edges"`
}

// Info returns the snapshot's metadata.
func (s Snapshot) Info() Info {
	return Info{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		GraphHash: s.GraphHash,
		Vertices:  len(s.Graph.Vertices),
		Edges:     len(s.Graph.Edges),
	}
}

// NewSnapshot captures s under id, usually the pipeline run id.
func NewSnapshot(id string, s *store.Store) (Snapshot, error) {
	data, err := codec.Marshal(s)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		GraphHash: cache.Hash(data),
		Build:     buildinfo.Get(),
		Graph:     codec.FromStore(s),
	}, nil
}

// Archive stores snapshots.
type Archive interface {
	// Put stores a snapshot. Snapshot ids must be unique.
	Put(ctx context.Context, s Snapshot) error

	// Latest returns the most recent snapshot, or false if there is none.
	Latest(ctx context.Context) (Snapshot, bool, error)

	// List returns up to limit snapshots, newest first.
	List(ctx context.Context, limit int) ([]Info, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
