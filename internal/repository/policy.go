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

const policyCollection = "policy"

type PolicyRepository struct {
	mongoRepo *MongoRepository
}

func NewPolicyRepository(mongoRepo *MongoRepository) *PolicyRepository {
	return &PolicyRepository{
		mongoRepo: mongoRepo,
	}
}

// GetPolicy returns the single policy row, or a default when none exists yet.
func (r *PolicyRepository) GetPolicy(ctx context.Context) (*models.Policy, error) {
	var policy models.Policy
	err := r.mongoRepo.FindOne(ctx, policyCollection, bson.M{"id_policy": 1}).Decode(&policy)
	if err == mongo.ErrNoDocuments {
		return &models.Policy{
			ID:          1,
			MaxFileSize: 10 << 20,
			AllowedMime: "application/pdf,text/plain",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find policy: %w", err)
	}

	return &policy, nil
}

func (r *PolicyRepository) UpdatePolicy(ctx context.Context, update *models.PolicyUpdate) (*models.Policy, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.MaxFileSize != nil {
		set["max_file_size"] = *update.MaxFileSize
	}
	if update.AllowedMime != nil {
		set["allowed_mime"] = *update.AllowedMime
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.mongoRepo.UpdateOne(
		ctx,
		policyCollection,
		bson.M{"id_policy": 1},
		bson.M{"$set": set, "$setOnInsert": bson.M{"id_policy": 1, "created_at": time.Now()}},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}

	return r.GetPolicy(ctx)
}
