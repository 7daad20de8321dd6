package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arkandaru/simdoc/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paramsCollection = "params"

// ErrActivationConflict is returned when a concurrent activation already
// replaced the row this activation observed as active.
var ErrActivationConflict = fmt.Errorf("params activation conflict")

type ParamsRepository struct {
	mongoRepo *MongoRepository

	// Serializes activations so exactly one row ends up active. Concurrent
	// losers get ErrActivationConflict instead of racing the close+open pair.
	activateMu sync.Mutex
}

func NewParamsRepository(mongoRepo *MongoRepository) *ParamsRepository {
	return &ParamsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ParamsRepository) InsertParams(ctx context.Context, p *models.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	id, err := r.mongoRepo.NextID(ctx, paramsCollection)
	if err != nil {
		return err
	}
	p.ID = id

	if err := r.mongoRepo.InsertOne(ctx, paramsCollection, p); err != nil {
		return fmt.Errorf("failed to insert params: %w", err)
	}

	return nil
}

func (r *ParamsRepository) GetParamsByID(ctx context.Context, id int64) (*models.Params, error) {
	var p models.Params
	err := r.mongoRepo.FindOne(ctx, paramsCollection, bson.M{"id_params": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find params: %w", err)
	}

	return &p, nil
}

func (r *ParamsRepository) GetActiveParams(ctx context.Context) (*models.Params, error) {
	var p models.Params
	err := r.mongoRepo.FindOne(ctx, paramsCollection, bson.M{"active_to": nil}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active params: %w", err)
	}

	return &p, nil
}

func (r *ParamsRepository) ListParams(ctx context.Context, activeOnly bool) ([]*models.Params, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active_to"] = nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "id_params", Value: -1}})
	cursor, err := r.mongoRepo.FindMany(ctx, paramsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find params: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []*models.Params
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode params: %w", err)
	}

	return rows, nil
}

// ActivateParams closes the currently active row and opens the given one.
// History is append-only: superseded rows only ever gain an active_to.
func (r *ParamsRepository) ActivateParams(ctx context.Context, id int64) (*models.Params, error) {
	r.activateMu.Lock()
	defer r.activateMu.Unlock()

	target, err := r.GetParamsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("params %d not found", id)
	}
	if target.ActiveTo == nil {
		// Already active, nothing to do.
		return target, nil
	}

	now := time.Now()

	// Close the prior active row conditionally on it still being open; the
	// count check below catches any race this update lost.
	_, err = r.mongoRepo.UpdateOne(
		ctx,
		paramsCollection,
		bson.M{"active_to": nil, "id_params": bson.M{"$ne": id}},
		bson.M{"$set": bson.M{"active_to": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate prior params: %w", err)
	}

	_, err = r.mongoRepo.UpdateOne(
		ctx,
		paramsCollection,
		bson.M{"id_params": id},
		bson.M{"$set": bson.M{"active_from": now, "active_to": nil}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to activate params: %w", err)
	}

	// Post-condition check: exactly one active row.
	count, err := r.mongoRepo.CountDocuments(ctx, paramsCollection, bson.M{"active_to": nil})
	if err != nil {
		return nil, fmt.Errorf("failed to verify activation: %w", err)
	}
	if count != 1 {
		return nil, ErrActivationConflict
	}

	return r.GetParamsByID(ctx, id)
}
