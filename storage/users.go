package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telegram-sharebot/models"
)

// UserStore is the Mongo-backed audience store.
type UserStore struct {
	col *mongo.Collection
}

// Upsert records the user on first contact. Existing rows keep their
// joined_at and blocked flag; only the username is refreshed.
func (s *UserStore) Upsert(ctx context.Context, u *models.User) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": u.UserID},
		bson.M{
			"$set":         bson.M{"username": u.Username},
			"$setOnInsert": bson.M{"joined_at": u.JoinedAt},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *UserStore) All(ctx context.Context) ([]models.User, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *UserStore) MarkBlocked(ctx context.Context, userID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"blocked": true}})
	if err != nil {
		return fmt.Errorf("mark blocked: %w", err)
	}
	return nil
}

func (s *UserStore) CountTotal(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *UserStore) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{"blocked": bson.M{"$ne": true}})
}
