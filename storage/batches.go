package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

// BatchStore is the Mongo-backed batch registry store.
type BatchStore struct {
	col *mongo.Collection
}

func (s *BatchStore) Insert(ctx context.Context, b *models.BatchEntry) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (s *BatchStore) FindByCode(ctx context.Context, code string) (*models.BatchEntry, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var b models.BatchEntry
	err := s.col.FindOne(ctx, bson.M{"batch_code": code}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find batch: %w", err)
	}
	return &b, nil
}

func (s *BatchStore) PushFiles(ctx context.Context, code string, files []models.BatchFile) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.UpdateOne(ctx,
		bson.M{"batch_code": code},
		bson.M{"$push": bson.M{"files": bson.M{"$each": files}}})
	if err != nil {
		return fmt.Errorf("push batch files: %w", err)
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *BatchStore) SetFiles(ctx context.Context, code string, files []models.BatchFile) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.UpdateOne(ctx,
		bson.M{"batch_code": code},
		bson.M{"$set": bson.M{"files": files}})
	if err != nil {
		return fmt.Errorf("set batch files: %w", err)
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *BatchStore) DeleteByCode(ctx context.Context, code string) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"batch_code": code})
	if err != nil {
		return false, fmt.Errorf("delete batch: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *BatchStore) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("purge batches: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *BatchStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *BatchStore) All(ctx context.Context) ([]models.BatchEntry, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer cursor.Close(ctx)

	var batches []models.BatchEntry
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	return batches, nil
}
