package repository

import (
	"context"
	"fmt"

	"github.com/swetasamaddar-clear/document-finder/internal/document"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// readOrder sorts on the fixed-width UTC timestamp, which has millisecond
// resolution. ObjectIDs only order by second across writers, so _id breaks ties.
// Appends from different writers in the same millisecond have no defined order.
var readOrder = bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}

// MongoRepo stores one BSON document per row.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) AppendRow(ctx context.Context, row []string) error {
	if err := validateRow(row); err != nil {
		metrics.ObserveStore(BackendMongo, OpAppend, err)
		return err
	}
	_, err := m.col.InsertOne(ctx, document.RecordFromRow(row))
	metrics.ObserveStore(BackendMongo, OpAppend, err)
	if err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (m *MongoRepo) ReadRows(ctx context.Context) ([][]string, error) {
	rows, err := m.readRows(ctx)
	metrics.ObserveStore(BackendMongo, OpRead, err)
	return rows, err
}

func (m *MongoRepo) readRows(ctx context.Context) ([][]string, error) {
	opts := options.Find().SetSort(readOrder)
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	out := [][]string{append([]string(nil), document.HeaderRow...)}
	for cur.Next(ctx) {
		var r document.Record
		if err := cur.Decode(&r); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		out = append(out, r.Row())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return out, nil
}
