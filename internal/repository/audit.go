package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/arkandaru/simdoc/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditCollection = "audit_logs"

type AuditRepository struct {
	mongoRepo *MongoRepository
}

func NewAuditRepository(mongoRepo *MongoRepository) *AuditRepository {
	return &AuditRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *AuditRepository) InsertLog(ctx context.Context, entry *models.AuditLog) error {
	id, err := r.mongoRepo.NextID(ctx, auditCollection)
	if err != nil {
		return err
	}
	entry.ID = id
	entry.Timestamp = time.Now()

	if err := r.mongoRepo.InsertOne(ctx, auditCollection, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditRepository) ListLogs(ctx context.Context, filter *models.AuditFilter) ([]*models.AuditLog, int64, error) {
	query := bson.M{}
	if filter.Query != "" {
		query["action"] = bson.M{"$regex": filter.Query, "$options": "i"}
	}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.Entity != "" {
		query["entity"] = filter.Entity
	}
	if filter.From != nil || filter.To != nil {
		ts := bson.M{}
		if filter.From != nil {
			ts["$gte"] = *filter.From
		}
		if filter.To != nil {
			ts["$lte"] = *filter.To
		}
		query["timestamp"] = ts
	}

	total, err := r.mongoRepo.CountDocuments(ctx, auditCollection, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id_log", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.mongoRepo.FindMany(ctx, auditCollection, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode audit logs: %w", err)
	}

	return logs, total, nil
}

// DistinctActions powers the action filter dropdown on the audit screen.
func (r *AuditRepository) DistinctActions(ctx context.Context) ([]string, error) {
	values, err := r.mongoRepo.GetCollection(auditCollection).Distinct(ctx, "action", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit actions: %w", err)
	}

	actions := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			actions = append(actions, s)
		}
	}

	return actions, nil
}
