package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mscofield999-cyber/meetingminutes/config"
	"github.com/mscofield999-cyber/meetingminutes/model"
)

// MongoStore persists meetings in a MongoDB collection, one document per
// meeting keyed by _id. UpdateOne with $set gives the per-document atomic
// merge the adapter relies on.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(ctx context.Context, cfg *config.StoreConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoStore{
		coll: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, id string, doc model.Document) error {
	record := bson.M{"_id": id}
	for k, v := range doc {
		record[k] = v
	}

	if _, err := s.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert meeting: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (model.Document, error) {
	var record bson.M
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meeting: %w", err)
	}
	return fromRecord(record), nil
}

func (s *MongoStore) Merge(ctx context.Context, id string, fields model.Document) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]model.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []model.Document
	for cursor.Next(ctx) {
		var record bson.M
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode meeting: %w", err)
		}
		docs = append(docs, fromRecord(record))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}
	return docs, nil
}

func fromRecord(record bson.M) model.Document {
	doc := make(model.Document, len(record))
	for k, v := range record {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}
