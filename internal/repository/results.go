package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/arkandaru/simdoc/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	resultsCollection = "results"
	matchesCollection = "matches"
)

type ResultsRepository struct {
	mongoRepo *MongoRepository
}

func NewResultsRepository(mongoRepo *MongoRepository) *ResultsRepository {
	return &ResultsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ResultsRepository) InsertResult(ctx context.Context, result *models.CheckResult) error {
	id, err := r.mongoRepo.NextID(ctx, resultsCollection)
	if err != nil {
		return err
	}
	result.ID = id
	result.CreatedAt = time.Now()

	if err := r.mongoRepo.InsertOne(ctx, resultsCollection, result); err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	return nil
}

func (r *ResultsRepository) GetResultByID(ctx context.Context, id int64) (*models.CheckResult, error) {
	var result models.CheckResult
	err := r.mongoRepo.FindOne(ctx, resultsCollection, bson.M{"id_result": id}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find result: %w", err)
	}

	return &result, nil
}

func (r *ResultsRepository) GetResultByCheckID(ctx context.Context, checkID int64) (*models.CheckResult, error) {
	var result models.CheckResult
	err := r.mongoRepo.FindOne(ctx, resultsCollection, bson.M{"check_id": checkID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find result: %w", err)
	}

	return &result, nil
}

func (r *ResultsRepository) InsertMatches(ctx context.Context, matches []*models.CheckMatch) error {
	for _, m := range matches {
		id, err := r.mongoRepo.NextID(ctx, matchesCollection)
		if err != nil {
			return err
		}
		m.ID = id

		if err := r.mongoRepo.InsertOne(ctx, matchesCollection, m); err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
	}

	return nil
}

// GetMatchesByResultID returns matches ordered by descending score for
// display.
func (r *ResultsRepository) GetMatchesByResultID(ctx context.Context, resultID int64) ([]*models.CheckMatch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "match_score", Value: -1}, {Key: "id_match", Value: 1}})
	cursor, err := r.mongoRepo.FindMany(ctx, matchesCollection, bson.M{"result_id": resultID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find matches: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []*models.CheckMatch
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}

	return matches, nil
}
