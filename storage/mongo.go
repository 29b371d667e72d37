// Package storage implements the persistence interfaces consumed by
// services on top of MongoDB.
package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

// Stores bundles every Mongo-backed store over one database.
type Stores struct {
	Files    *FileStore
	Batches  *BatchStore
	Users    *UserStore
	Settings *SettingsStore
}

func NewStores(db *mongo.Database) *Stores {
	return &Stores{
		Files:    &FileStore{col: db.Collection("files")},
		Batches:  &BatchStore{col: db.Collection("batches")},
		Users:    &UserStore{col: db.Collection("users")},
		Settings: &SettingsStore{col: db.Collection("bot_config")},
	}
}

func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
