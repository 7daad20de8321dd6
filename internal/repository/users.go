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

const usersCollection = "users"

type UsersRepository struct {
	mongoRepo *MongoRepository
}

func NewUsersRepository(mongoRepo *MongoRepository) *UsersRepository {
	return &UsersRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *UsersRepository) InsertUser(ctx context.Context, user *models.User) error {
	id, err := r.mongoRepo.NextID(ctx, usersCollection)
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if err := r.mongoRepo.InsertOne(ctx, usersCollection, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *UsersRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.mongoRepo.FindOne(ctx, usersCollection, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *UsersRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.mongoRepo.FindOne(ctx, usersCollection, bson.M{"id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *UsersRepository) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	total, err := r.mongoRepo.CountDocuments(ctx, usersCollection, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.mongoRepo.FindMany(ctx, usersCollection, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, total, nil
}

func (r *UsersRepository) PatchUser(ctx context.Context, id int64, patch *models.UserPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	res, err := r.mongoRepo.UpdateOne(ctx, usersCollection, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to patch user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}
