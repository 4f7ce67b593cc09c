package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/feature"
)

// Collection names within a venue database. Each venue is one database
// holding a nodes and an edges collection, matching the layout the map
// editor writes.
const (
	nodesCollection = "nodes"
	edgesCollection = "edges"
)

// connectTimeout bounds the initial connection handshake.
const connectTimeout = 10 * time.Second

// MongoSource loads venue maps from MongoDB.
type MongoSource struct {
	client *mongo.Client
}

// NewMongoSource connects to MongoDB at the given URI and verifies the
// connection with a ping.
func NewMongoSource(ctx context.Context, uri string) (Source, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	return &MongoSource{client: client}, nil
}

// Load reads all node and edge records for the given venue.
// The venue name selects the database; records come back in the same
// loosely typed wire format as the JSON files.
func (s *MongoSource) Load(ctx context.Context, venue string) (*feature.Map, error) {
	if err := errors.ValidateVenueName(venue); err != nil {
		return nil, err
	}

	db := s.client.Database(venueDatabase(venue))

	var m feature.Map
	if err := loadAll(ctx, db.Collection(nodesCollection), &m.Nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load nodes for venue %s", venue)
	}
	if err := loadAll(ctx, db.Collection(edgesCollection), &m.Edges); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load edges for venue %s", venue)
	}

	if len(m.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeVenueNotFound, "venue %s has no nodes", venue)
	}
	return &m, nil
}

// Close disconnects the MongoDB client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// loadAll decodes every document of a collection into out.
func loadAll[T any](ctx context.Context, coll *mongo.Collection, out *[]T) error {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// venueDatabase maps a venue name to its database name.
func venueDatabase(venue string) string {
	return fmt.Sprintf("wayfinder_%s", venue)
}

// Ensure MongoSource implements Source.
var _ Source = (*MongoSource)(nil)
