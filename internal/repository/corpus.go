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

const corpusCollection = "corpus"

type CorpusRepository struct {
	mongoRepo *MongoRepository
}

func NewCorpusRepository(mongoRepo *MongoRepository) *CorpusRepository {
	return &CorpusRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *CorpusRepository) InsertCorpusItem(ctx context.Context, item *models.CorpusItem) error {
	id, err := r.mongoRepo.NextID(ctx, corpusCollection)
	if err != nil {
		return err
	}
	item.ID = id
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	if err := r.mongoRepo.InsertOne(ctx, corpusCollection, item); err != nil {
		return fmt.Errorf("failed to insert corpus item: %w", err)
	}

	return nil
}

func (r *CorpusRepository) GetCorpusItemByID(ctx context.Context, id int64) (*models.CorpusItem, error) {
	var item models.CorpusItem
	err := r.mongoRepo.FindOne(ctx, corpusCollection, bson.M{"id_corpus": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find corpus item: %w", err)
	}

	return &item, nil
}

func (r *CorpusRepository) ListCorpus(ctx context.Context, limit, offset int) ([]*models.CorpusItem, int64, error) {
	total, err := r.mongoRepo.CountDocuments(ctx, corpusCollection, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count corpus: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id_corpus", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.mongoRepo.FindMany(ctx, corpusCollection, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find corpus: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*models.CorpusItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode corpus: %w", err)
	}

	return items, total, nil
}

// ListActiveCorpus returns every item eligible as a candidate source.
func (r *CorpusRepository) ListActiveCorpus(ctx context.Context) ([]*models.CorpusItem, error) {
	cursor, err := r.mongoRepo.FindMany(ctx, corpusCollection, bson.M{"is_active": 1})
	if err != nil {
		return nil, fmt.Errorf("failed to find active corpus: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*models.CorpusItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode active corpus: %w", err)
	}

	return items, nil
}

func (r *CorpusRepository) PatchCorpusItem(ctx context.Context, id int64, patch *models.CorpusPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	res, err := r.mongoRepo.UpdateOne(ctx, corpusCollection, bson.M{"id_corpus": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to patch corpus item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("corpus item %d not found", id)
	}

	return nil
}

func (r *CorpusRepository) DeleteCorpusItem(ctx context.Context, id int64) error {
	res, err := r.mongoRepo.DeleteOne(ctx, corpusCollection, bson.M{"id_corpus": id})
	if err != nil {
		return fmt.Errorf("failed to delete corpus item: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("corpus item %d not found", id)
	}

	return nil
}
