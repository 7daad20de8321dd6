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

const notesCollection = "verification_notes"

type VerificationRepository struct {
	mongoRepo *MongoRepository
}

func NewVerificationRepository(mongoRepo *MongoRepository) *VerificationRepository {
	return &VerificationRepository{
		mongoRepo: mongoRepo,
	}
}

// InsertNote appends a new note. Prior notes for the same result are kept;
// "current" is the latest by created_at.
func (r *VerificationRepository) InsertNote(ctx context.Context, note *models.VerificationNote) error {
	id, err := r.mongoRepo.NextID(ctx, notesCollection)
	if err != nil {
		return err
	}
	note.ID = id
	note.CreatedAt = time.Now()

	if err := r.mongoRepo.InsertOne(ctx, notesCollection, note); err != nil {
		return fmt.Errorf("failed to insert verification note: %w", err)
	}

	return nil
}

func (r *VerificationRepository) GetCurrentNote(ctx context.Context, resultID int64) (*models.VerificationNote, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id_note", Value: -1}})

	var note models.VerificationNote
	err := r.mongoRepo.FindOne(ctx, notesCollection, bson.M{"result_id": resultID}, opts).Decode(&note)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find verification note: %w", err)
	}

	return &note, nil
}

// verificationRowDoc is the aggregation output shape before mapping onto the
// wire projection.
type verificationRowDoc struct {
	Result    models.CheckResult       `bson:",inline"`
	Check     models.Check             `bson:"check"`
	Doc       *models.Document         `bson:"doc"`
	Requester *models.User             `bson:"requester"`
	Note      *models.VerificationNote `bson:"note"`
	Verifier  *models.User             `bson:"verifier"`
}

// ListVerificationRows runs the reviewer inbox query server-side: results
// joined with their check, document, requester and latest note, filtered and
// paginated inside Mongo so the handler never loads the full results
// collection.
func (r *VerificationRepository) ListVerificationRows(ctx context.Context, filter models.VerificationListFilter) ([]*models.VerificationResultRow, int64, error) {
	pipeline := []bson.M{}

	if filter.MinSimilarity != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"similarity": bson.M{"$gte": *filter.MinSimilarity}}})
	}

	pipeline = append(pipeline,
		bson.M{"$lookup": bson.M{
			"from":         checksCollection,
			"localField":   "check_id",
			"foreignField": "id_check",
			"as":           "check",
		}},
		bson.M{"$unwind": "$check"},
	)

	if filter.RequestedBy != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"check.requested_by": *filter.RequestedBy}})
	}

	pipeline = append(pipeline,
		bson.M{"$lookup": bson.M{
			"from":         documentsCollection,
			"localField":   "check.doc_id",
			"foreignField": "id_doc",
			"as":           "doc",
		}},
		bson.M{"$unwind": bson.M{"path": "$doc", "preserveNullAndEmptyArrays": true}},
		bson.M{"$lookup": bson.M{
			"from":         usersCollection,
			"localField":   "check.requested_by",
			"foreignField": "id",
			"as":           "requester",
		}},
		bson.M{"$unwind": bson.M{"path": "$requester", "preserveNullAndEmptyArrays": true}},
		bson.M{"$lookup": bson.M{
			"from": notesCollection,
			"let":  bson.M{"rid": "$id_result"},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []string{"$result_id", "$$rid"}}}},
				{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "id_note", Value: -1}}},
				{"$limit": 1},
			},
			"as": "note",
		}},
		bson.M{"$unwind": bson.M{"path": "$note", "preserveNullAndEmptyArrays": true}},
		bson.M{"$lookup": bson.M{
			"from":         usersCollection,
			"localField":   "note.verifier_id",
			"foreignField": "id",
			"as":           "verifier",
		}},
		bson.M{"$unwind": bson.M{"path": "$verifier", "preserveNullAndEmptyArrays": true}},
	)

	if filter.OnlyPending {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"note": bson.M{"$exists": false}}})
	} else if filter.Status != "" {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"note.status": filter.Status}})
	}

	pipeline = append(pipeline,
		bson.M{"$sort": bson.D{{Key: "id_result", Value: -1}}},
		bson.M{"$facet": bson.M{
			"rows": []bson.M{
				{"$skip": filter.Offset},
				{"$limit": filter.Limit},
			},
			"total": []bson.M{
				{"$count": "count"},
			},
		}},
	)

	cursor, err := r.mongoRepo.GetCollection(resultsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate verification rows: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []struct {
		Rows  []verificationRowDoc `bson:"rows"`
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode verification rows: %w", err)
	}
	if len(pages) == 0 {
		return nil, 0, nil
	}

	var total int64
	if len(pages[0].Total) > 0 {
		total = pages[0].Total[0].Count
	}

	rows := make([]*models.VerificationResultRow, 0, len(pages[0].Rows))
	for i := range pages[0].Rows {
		rows = append(rows, mapVerificationRow(&pages[0].Rows[i]))
	}

	return rows, total, nil
}

func mapVerificationRow(doc *verificationRowDoc) *models.VerificationResultRow {
	row := &models.VerificationResultRow{
		IDResult:        doc.Result.ID,
		Similarity:      doc.Result.Similarity,
		ResultCreatedAt: doc.Result.CreatedAt,
		IDCheck:         doc.Check.ID,
		DocID:           doc.Check.DocID,
		RequestedBy:     doc.Check.RequestedBy,
		FinishedAt:      doc.Check.FinishedAt,
	}
	if doc.Doc != nil {
		row.DocTitle = doc.Doc.Title
	}
	if doc.Requester != nil {
		row.RequesterName = doc.Requester.Name
		row.RequesterEmail = doc.Requester.Email
	}
	if doc.Note != nil {
		row.IDNote = &doc.Note.ID
		row.Status = &doc.Note.Status
		row.NoteText = &doc.Note.NoteText
		created := doc.Note.CreatedAt
		row.NoteCreatedAt = &created
		if doc.Verifier != nil {
			name := doc.Verifier.Name
			row.VerifierName = &name
			row.VerifierNIDN = doc.Verifier.NIDN
		}
	}
	return row
}

func (r *VerificationRepository) ListNotesByResultID(ctx context.Context, resultID int64) ([]*models.VerificationNote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id_note", Value: -1}})
	cursor, err := r.mongoRepo.FindMany(ctx, notesCollection, bson.M{"result_id": resultID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find verification notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []*models.VerificationNote
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode verification notes: %w", err)
	}

	return notes, nil
}
