package configs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes the bot relies on. The unique indexes
// on the short codes back the registry's collision guard: a racing
// insert of the same code fails with a duplicate key error.
func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fileIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "file_code", Value: 1}},
			Options: options.Index().SetName("idx_file_code").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "file_id", Value: 1}},
			Options: options.Index().SetName("idx_file_id"),
		},
	}
	if _, err := db.Collection("files").Indexes().CreateMany(ctx, fileIndexes); err != nil {
		return err
	}

	batchIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "batch_code", Value: 1}},
			Options: options.Index().SetName("idx_batch_code").SetUnique(true),
		},
	}
	if _, err := db.Collection("batches").Indexes().CreateMany(ctx, batchIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_id").SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	return nil
}
