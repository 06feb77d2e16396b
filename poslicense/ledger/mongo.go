package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultMongoCollection = "pos_license_ledger"

// MongoOption configures a MongoLedger.
type MongoOption func(*MongoLedger)

// WithCollectionName sets the MongoDB collection name. Default: "pos_license_ledger".
func WithCollectionName(name string) MongoOption {
	return func(l *MongoLedger) {
		l.collectionName = name
	}
}

// MongoLedger implements Ledger using MongoDB.
type MongoLedger struct {
	collection     *mongo.Collection
	collectionName string
}

// NewMongoLedger creates a MongoDB-backed ledger.
// It creates the necessary indexes on initialization.
func NewMongoLedger(ctx context.Context, db *mongo.Database, opts ...MongoOption) (*MongoLedger, error) {
	l := &MongoLedger{
		collectionName: defaultMongoCollection,
	}
	for _, opt := range opts {
		opt(l)
	}
	if !validIdentifier.MatchString(l.collectionName) {
		return nil, fmt.Errorf("invalid collection name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", l.collectionName)
	}
	if db == nil {
		return nil, fmt.Errorf("mongo database is required")
	}
	l.collection = db.Collection(l.collectionName)

	if err := l.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return l, nil
}

func (l *MongoLedger) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "customer_name", Value: 1},
				{Key: "issued_at", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "device_hash", Value: 1},
				{Key: "issued_at", Value: 1},
			},
		},
	}
	_, err := l.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (l *MongoLedger) Record(ctx context.Context, rec Record) (*Record, error) {
	if _, err := l.collection.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("record license: %w", err)
	}
	return &rec, nil
}

func (l *MongoLedger) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := l.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

func (l *MongoLedger) ListByCustomer(ctx context.Context, customerName string) ([]Record, error) {
	return l.find(ctx, bson.M{"customer_name": customerName})
}

func (l *MongoLedger) ListByDevice(ctx context.Context, deviceHash string) ([]Record, error) {
	return l.find(ctx, bson.M{"device_hash": deviceHash})
}

func (l *MongoLedger) List(ctx context.Context) ([]Record, error) {
	return l.find(ctx, bson.M{})
}

func (l *MongoLedger) find(ctx context.Context, filter bson.M) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "issued_at", Value: 1}})
	cursor, err := l.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func (l *MongoLedger) Count(ctx context.Context, customerName string) (int, error) {
	count, err := l.collection.CountDocuments(ctx, bson.M{"customer_name": customerName})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return int(count), nil
}

func (l *MongoLedger) Close(_ context.Context) error {
	return nil // user manages the mongo.Database lifecycle
}
