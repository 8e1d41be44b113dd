package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-portal/internal/domain"
)

// ResultStore is a MongoDB implementation of app.ResultStore.
type ResultStore struct {
	collection *mongo.Collection
}

func NewResultStore(db *mongo.Database) *ResultStore {
	return &ResultStore{collection: db.Collection("results")}
}

func (s *ResultStore) CreateResult(ctx context.Context, result domain.Result) (domain.Result, error) {
	if result.ID == "" {
		result.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.collection.InsertOne(ctx, result); err != nil {
		return domain.Result{}, fmt.Errorf("insert result: %w", err)
	}
	return result, nil
}

func (s *ResultStore) GetResult(ctx context.Context, id string) (domain.Result, error) {
	var result domain.Result
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Result{}, domain.ErrResultNotFound
		}
		return domain.Result{}, fmt.Errorf("find result: %w", err)
	}
	return result, nil
}

func (s *ResultStore) ListResultsByStudent(ctx context.Context, studentID string) ([]domain.Result, error) {
	return s.list(ctx, bson.M{"student": studentID})
}

func (s *ResultStore) ListResultsByQuizzes(ctx context.Context, quizIDs []string) ([]domain.Result, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	return s.list(ctx, bson.M{"quiz": bson.M{"$in": quizIDs}})
}

func (s *ResultStore) ListResults(ctx context.Context) ([]domain.Result, error) {
	return s.list(ctx, bson.M{})
}

func (s *ResultStore) list(ctx context.Context, filter bson.M) ([]domain.Result, error) {
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.Result
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}
