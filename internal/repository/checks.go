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

const checksCollection = "checks"

type ChecksRepository struct {
	mongoRepo *MongoRepository
}

func NewChecksRepository(mongoRepo *MongoRepository) *ChecksRepository {
	return &ChecksRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ChecksRepository) InsertCheck(ctx context.Context, check *models.Check) error {
	id, err := r.mongoRepo.NextID(ctx, checksCollection)
	if err != nil {
		return err
	}
	check.ID = id
	check.Status = models.CheckStatusQueued
	check.QueuedAt = time.Now()

	if err := r.mongoRepo.InsertOne(ctx, checksCollection, check); err != nil {
		return fmt.Errorf("failed to insert check: %w", err)
	}

	return nil
}

func (r *ChecksRepository) GetCheckByID(ctx context.Context, id int64) (*models.Check, error) {
	var check models.Check
	err := r.mongoRepo.FindOne(ctx, checksCollection, bson.M{"id_check": id}).Decode(&check)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find check: %w", err)
	}

	return &check, nil
}

// MarkProcessing transitions queued -> processing. Returns false when the
// check is no longer queued (cancelled or already picked up).
func (r *ChecksRepository) MarkProcessing(ctx context.Context, id int64) (bool, error) {
	res, err := r.mongoRepo.UpdateOne(
		ctx,
		checksCollection,
		bson.M{"id_check": id, "status": models.CheckStatusQueued},
		bson.M{"$set": bson.M{"status": models.CheckStatusProcessing, "started_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark check processing: %w", err)
	}

	return res.ModifiedCount == 1, nil
}

// MarkFinished transitions processing -> done|failed.
func (r *ChecksRepository) MarkFinished(ctx context.Context, id int64, status string) error {
	if status != models.CheckStatusDone && status != models.CheckStatusFailed {
		return fmt.Errorf("invalid terminal status: %s", status)
	}

	res, err := r.mongoRepo.UpdateOne(
		ctx,
		checksCollection,
		bson.M{"id_check": id, "status": models.CheckStatusProcessing},
		bson.M{"$set": bson.M{"status": status, "finished_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to finish check: %w", err)
	}
	if res.ModifiedCount == 0 {
		return fmt.Errorf("check %d is not processing", id)
	}

	return nil
}

// CancelCheck transitions queued -> cancelled. A check that already started
// runs to a terminal state; cancellation then fails.
// staleProcessingFilter matches checks stranded in processing by a crash or
// hard shutdown: started before the cutoff and never finished.
func staleProcessingFilter(cutoff time.Time) bson.M {
	return bson.M{
		"status":     models.CheckStatusProcessing,
		"started_at": bson.M{"$lt": cutoff},
	}
}

func staleProcessingUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{"status": models.CheckStatusFailed, "finished_at": now}}
}

// FailStaleProcessing fails every check stuck in processing since before the
// cutoff. Called at startup; a worker that died mid-run never comes back for
// its check, so anything processing from before boot is orphaned.
func (r *ChecksRepository) FailStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.mongoRepo.UpdateMany(ctx, checksCollection, staleProcessingFilter(cutoff), staleProcessingUpdate(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("failed to fail stale checks: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *ChecksRepository) CancelCheck(ctx context.Context, id int64) (bool, error) {
	res, err := r.mongoRepo.UpdateOne(
		ctx,
		checksCollection,
		bson.M{"id_check": id, "status": models.CheckStatusQueued},
		bson.M{"$set": bson.M{"status": models.CheckStatusCancelled, "finished_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel check: %w", err)
	}

	return res.ModifiedCount == 1, nil
}

// ListChecks returns checks for one requester, or all checks when
// requestedBy is nil.
func (r *ChecksRepository) ListChecks(ctx context.Context, requestedBy *int64, limit, offset int) ([]*models.Check, int64, error) {
	filter := bson.M{}
	if requestedBy != nil {
		filter["requested_by"] = *requestedBy
	}

	total, err := r.mongoRepo.CountDocuments(ctx, checksCollection, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count checks: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id_check", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.mongoRepo.FindMany(ctx, checksCollection, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find checks: %w", err)
	}
	defer cursor.Close(ctx)

	var checks []*models.Check
	if err := cursor.All(ctx, &checks); err != nil {
		return nil, 0, fmt.Errorf("failed to decode checks: %w", err)
	}

	return checks, total, nil
}
