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

const documentsCollection = "documents"

type DocumentsRepository struct {
	mongoRepo *MongoRepository
}

func NewDocumentsRepository(mongoRepo *MongoRepository) *DocumentsRepository {
	return &DocumentsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *DocumentsRepository) InsertDocument(ctx context.Context, doc *models.Document) error {
	id, err := r.mongoRepo.NextID(ctx, documentsCollection)
	if err != nil {
		return err
	}
	doc.ID = id
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	if err := r.mongoRepo.InsertOne(ctx, documentsCollection, doc); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

func (r *DocumentsRepository) GetDocumentByID(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	err := r.mongoRepo.FindOne(ctx, documentsCollection, bson.M{"id_doc": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// ListDocuments returns documents for one owner, or all documents when
// ownerID is nil (admin and dosen views).
func (r *DocumentsRepository) ListDocuments(ctx context.Context, ownerID *int64, limit, offset int) ([]*models.Document, int64, error) {
	filter := bson.M{}
	if ownerID != nil {
		filter["owner_user_id"] = *ownerID
	}

	total, err := r.mongoRepo.CountDocuments(ctx, documentsCollection, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id_doc", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.mongoRepo.FindMany(ctx, documentsCollection, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, total, nil
}

// SetRawPath records where the raw upload was stored.
func (r *DocumentsRepository) SetRawPath(ctx context.Context, id int64, path string) error {
	update := bson.M{"$set": bson.M{
		"path_raw":   path,
		"updated_at": time.Now(),
	}}

	if _, err := r.mongoRepo.UpdateOne(ctx, documentsCollection, bson.M{"id_doc": id}, update); err != nil {
		return fmt.Errorf("failed to update document raw path: %w", err)
	}

	return nil
}

// SetExtractionResult records the outcome of the extraction pipeline for an
// uploaded document.
func (r *DocumentsRepository) SetExtractionResult(ctx context.Context, id int64, status, text string) error {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"text":       text,
		"updated_at": time.Now(),
	}}

	res, err := r.mongoRepo.UpdateOne(ctx, documentsCollection, bson.M{"id_doc": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update document extraction: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document %d not found", id)
	}

	return nil
}

func (r *DocumentsRepository) DeleteDocument(ctx context.Context, id int64) error {
	res, err := r.mongoRepo.DeleteOne(ctx, documentsCollection, bson.M{"id_doc": id})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("document %d not found", id)
	}

	return nil
}
