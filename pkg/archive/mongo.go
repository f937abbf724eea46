package archive

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/stackinv/pkg/buildinfo"
	"github.com/matzehuels/stackinv/pkg/codec"
	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Collection is the MongoDB collection snapshots are stored in.
const Collection = "snapshots"

// MongoConfig configures a [MongoArchive].
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration // default: 10 seconds
}

// MongoArchive stores snapshots in a MongoDB collection.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoSnapshot is the stored document shape. Property trees are ordered
// documents so key order survives a round trip.
type mongoSnapshot struct {
	ID        string         `bson:"_id"`
	CreatedAt time.Time      `bson:"createdAt"`
	GraphHash string         `bson:"graphHash"`
	Build     buildinfo.Info `bson:"build"`
	Vertices  []mongoVertex  `bson:"vertices"`
	Edges     []mongoEdge    `bson:"edges"`

	// Counts let List skip the graph.
	VertexCount int `bson:"vertexCount"`
	EdgeCount   int `bson:"edgeCount"`
}

type mongoVertex struct {
	ID         string `bson:"id"`
	Type       string `bson:"type"`
	Properties bson.D `bson:"properties"`
}

type mongoEdge struct {
	ID         string `bson:"id"`
	Type       string `bson:"type,omitempty"`
	Source     string `bson:"source"`
	Target     string `bson:"target"`
	Properties bson.D `bson:"properties"`
}

// mongoInfo is the projection used by List.
type mongoInfo struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"createdAt"`
	GraphHash string    `bson:"graphHash"`
	Vertices  int       `bson:"vertexCount"`
	Edges     int       `bson:"edgeCount"`
}

// NewMongoArchive connects to MongoDB and ensures the createdAt index.
func NewMongoArchive(ctx context.Context, cfg MongoConfig) (*MongoArchive, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo archive needs a URI and a database")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoArchive{client: client, coll: coll}, nil
}

// Put inserts the snapshot.
func (a *MongoArchive) Put(ctx context.Context, s Snapshot) error {
	if _, err := a.coll.InsertOne(ctx, toMongo(s)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeDuplicateID, "snapshot %q already archived", s.ID)
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the snapshot with the newest createdAt.
func (a *MongoArchive) Latest(ctx context.Context) (Snapshot, bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var doc mongoSnapshot
	err := a.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("find snapshot: %w", err)
	}
	s, err := fromMongo(doc)
	if err != nil {
		return Snapshot{}, false, err
	}
	return s, true, nil
}

// List returns snapshot metadata, newest first.
func (a *MongoArchive) List(ctx context.Context, limit int) ([]Info, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.D{{Key: "vertices", Value: 0}, {Key: "edges", Value: 0}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := a.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var docs []mongoInfo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out := make([]Info, len(docs))
	for i, d := range docs {
		out[i] = Info{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			GraphHash: d.GraphHash,
			Vertices:  d.Vertices,
			Edges:     d.Edges,
		}
	}
	return out, nil
}

// Close disconnects the client.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func toMongo(s Snapshot) mongoSnapshot {
	doc := mongoSnapshot{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		GraphHash: s.GraphHash,
		Build:     s.Build,
		Vertices:  make([]mongoVertex, len(s.Graph.Vertices)),
		Edges:     make([]mongoEdge, len(s.Graph.Edges)),

		VertexCount: len(s.Graph.Vertices),
		EdgeCount:   len(s.Graph.Edges),
	}
	for i, v := range s.Graph.Vertices {
		doc.Vertices[i] = mongoVertex{ID: v.ID, Type: v.Type, Properties: mapToBSON(v.Properties)}
	}
	for i, e := range s.Graph.Edges {
		doc.Edges[i] = mongoEdge{
			ID:         e.ID,
			Type:       e.Type,
			Source:     e.Source,
			Target:     e.Target,
			Properties: mapToBSON(e.Properties),
		}
	}
	return doc
}

func fromMongo(doc mongoSnapshot) (Snapshot, error) {
	s := Snapshot{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		GraphHash: doc.GraphHash,
		Build:     doc.Build,
		Graph: codec.Document{
			Vertices: make([]codec.VertexRecord, len(doc.Vertices)),
			Edges:    make([]codec.EdgeRecord, len(doc.Edges)),
		},
	}
	for i, v := range doc.Vertices {
		m, err := mapFromBSON(v.Properties)
		if err != nil {
			return Snapshot{}, fmt.Errorf("vertex %s: %w", v.ID, err)
		}
		s.Graph.Vertices[i] = codec.VertexRecord{ID: v.ID, Type: v.Type, Properties: m}
	}
	for i, e := range doc.Edges {
		m, err := mapFromBSON(e.Properties)
		if err != nil {
			return Snapshot{}, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		s.Graph.Edges[i] = codec.EdgeRecord{
			ID:         e.ID,
			Type:       e.Type,
			Source:     e.Source,
			Target:     e.Target,
			Properties: m,
		}
	}
	return s, nil
}

func mapToBSON(m *value.Map) bson.D {
	d := bson.D{}
	if m == nil {
		return d
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		d = append(d, bson.E{Key: k, Value: toBSON(v)})
	}
	return d
}

func toBSON(v value.Value) any {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindList:
		l, _ := v.AsList()
		a := make(bson.A, l.Len())
		for i, item := range l.Items() {
			a[i] = toBSON(item)
		}
		return a
	case value.KindMap:
		m, _ := v.AsMap()
		return mapToBSON(m)
	default:
		return nil
	}
}

func mapFromBSON(d bson.D) (*value.Map, error) {
	m := value.NewMap()
	for _, e := range d {
		v, err := fromBSON(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}
		m.Set(e.Key, v)
	}
	return m, nil
}

// fromBSON converts a decoded BSON value. Nested documents inside a bson.D
// decode as bson.D and arrays as bson.A.
func fromBSON(x any) (value.Value, error) {
	switch x := x.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(x), nil
	case int32:
		return value.Int(int(x)), nil
	case int64:
		return value.Number(float64(x)), nil
	case float64:
		return value.Number(x), nil
	case string:
		return value.String(x), nil
	case bson.A:
		l := value.NewList()
		for _, item := range x {
			v, err := fromBSON(item)
			if err != nil {
				return value.Value{}, err
			}
			l.Append(v)
		}
		return value.FromList(l), nil
	case bson.D:
		m, err := mapFromBSON(x)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromMap(m), nil
	default:
		return value.Value{}, errors.New(errors.ErrCodeTypeMismatch, "unsupported BSON value %T", x)
	}
}

var _ Archive = (*MongoArchive)(nil)
