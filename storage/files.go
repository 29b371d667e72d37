package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

// FileStore is the Mongo-backed single-file registry store.
type FileStore struct {
	col *mongo.Collection
}

func (s *FileStore) Insert(ctx context.Context, f *models.StoredFile) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (s *FileStore) FindByCode(ctx context.Context, code string) (*models.StoredFile, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var f models.StoredFile
	err := s.col.FindOne(ctx, bson.M{"file_code": code}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &f, nil
}

func (s *FileStore) UpdateCaptionByFileID(ctx context.Context, fileID, caption string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.col.UpdateOne(ctx,
		bson.M{"file_id": fileID},
		bson.M{"$set": bson.M{"caption": caption}})
	if err != nil {
		return fmt.Errorf("update caption: %w", err)
	}
	return nil
}

func (s *FileStore) DeleteByCode(ctx context.Context, code string) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"file_code": code})
	if err != nil {
		return false, fmt.Errorf("delete file: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *FileStore) DeleteByFileID(ctx context.Context, fileID string) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"file_id": fileID})
	if err != nil {
		return false, fmt.Errorf("delete file by id: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *FileStore) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("purge files: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *FileStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *FileStore) All(ctx context.Context) ([]models.StoredFile, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer cursor.Close(ctx)

	var files []models.StoredFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	return files, nil
}
