package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

// SettingsStore is the Mongo-backed home of the singleton configuration
// document.
type SettingsStore struct {
	col *mongo.Collection
}

func (s *SettingsStore) Load(ctx context.Context) (*models.Settings, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var doc models.Settings
	err := s.col.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &doc, nil
}

func (s *SettingsStore) Insert(ctx context.Context, doc *models.Settings) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("init settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) SetField(ctx context.Context, key string, value any) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": models.SettingsID},
		bson.M{"$set": bson.M{key: value}})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
