package repository

import (
	"context"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDecisionLogRepository implements DecisionLogRepository
type MongoDecisionLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDecisionLogRepository creates a new decision log repository
func NewMongoDecisionLogRepository(db *mongo.Database) repository.DecisionLogRepository {
	collection := db.Collection("decision_log")

	// Create unique index on reference
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"reference": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	// Create index on userId for queries
	userIndex := mongo.IndexModel{
		Keys: bson.M{"userId": 1},
	}
	collection.Indexes().CreateOne(ctx, userIndex)

	return &MongoDecisionLogRepository{
		collection: collection,
	}
}

// Insert appends one admission decision to the archive
func (r *MongoDecisionLogRepository) Insert(ctx context.Context, rec *entity.DecisionRecord) error {
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

// ListForUser returns the most recent decisions for a member
func (r *MongoDecisionLogRepository) ListForUser(ctx context.Context, userID uint, limit int64) ([]entity.DecisionRecord, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []entity.DecisionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
