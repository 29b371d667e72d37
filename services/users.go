package services

import (
	"context"
	"time"

	"telegram-sharebot/models"
)

// UserStore persists the audience of the bot.
type UserStore interface {
	Upsert(ctx context.Context, u *models.User) error
	All(ctx context.Context) ([]models.User, error)
	MarkBlocked(ctx context.Context, userID int64) error
	CountTotal(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// UserStats summarizes the audience for the /users command.
type UserStats struct {
	Total   int64
	Active  int64
	Blocked int64
}

// Users tracks everyone who ever started the bot.
type Users struct {
	store UserStore
}

func NewUsers(store UserStore) *Users {
	return &Users{store: store}
}

// Ensure records the user on first contact; repeat calls are no-ops at
// the store level.
func (u *Users) Ensure(ctx context.Context, userID int64, username string) error {
	return u.store.Upsert(ctx, &models.User{
		UserID:   userID,
		Username: username,
		JoinedAt: time.Now(),
	})
}

// Stats returns total, active, and blocked user counts.
func (u *Users) Stats(ctx context.Context) (UserStats, error) {
	total, err := u.store.CountTotal(ctx)
	if err != nil {
		return UserStats{}, err
	}
	active, err := u.store.CountActive(ctx)
	if err != nil {
		return UserStats{}, err
	}
	return UserStats{Total: total, Active: active, Blocked: total - active}, nil
}
