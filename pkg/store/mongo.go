package store

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"podcast-pipeline/pkg/domain"
)

// MongoStore persists transcript records in a MongoDB collection, upserting by
// episode ID.
type MongoStore struct {
	mongoClient *mongo.Client
	collection  *mongo.Collection

	uri      string
	database string
	collName string
}

// NewMongoStore creates a Mongo-backed record store. Call Connect before use.
func NewMongoStore(connectionString, databaseName, collectionName string) *MongoStore {
	return &MongoStore{
		uri:      connectionString,
		database: databaseName,
		collName: collectionName,
	}
}

// Connect establishes the connection and verifies it with a ping.
func (s *MongoStore) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	s.mongoClient = client
	s.collection = client.Database(s.database).Collection(s.collName)
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.mongoClient == nil {
		return nil
	}
	return s.mongoClient.Disconnect(ctx)
}

// SaveRecord upserts the record keyed by episode_id.
func (s *MongoStore) SaveRecord(ctx context.Context, record *domain.EpisodeRecord) error {
	if s.collection == nil {
		return fmt.Errorf("collection not initialized")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	filter := bson.M{"episode_id": record.EpisodeID}
	update := bson.M{"$set": record}
	opts := options.Update().SetUpsert(true)

	_, err := s.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// ExistingIDs fetches all episode IDs from the collection as a set.
func (s *MongoStore) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"episode_id": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to query episode IDs: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make(map[string]bool)
	for cursor.Next(ctx) {
		var result struct {
			EpisodeID string `bson:"episode_id"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue // Skip invalid documents
		}
		if result.EpisodeID != "" {
			ids[result.EpisodeID] = true
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return ids, nil
}

// LoadRecords returns all records sorted by episode ID.
func (s *MongoStore) LoadRecords(ctx context.Context) ([]domain.EpisodeRecord, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.EpisodeRecord
	for cursor.Next(ctx) {
		var record domain.EpisodeRecord
		if err := cursor.Decode(&record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].EpisodeID < records[j].EpisodeID
	})
	return records, nil
}
