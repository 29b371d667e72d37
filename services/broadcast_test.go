package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"telegram-sharebot/models"
)

func TestBroadcastCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	users := newMemUserStore()
	for id := int64(1); id <= 4; id++ {
		require.NoError(t, users.Upsert(ctx, &models.User{UserID: id}))
	}

	sender := newFakeSender()
	sender.failText[2] = errors.New("Forbidden: bot was blocked by the user")
	sender.failText[3] = errors.New("chat not found")

	cast := NewBroadcaster(users, sender, zap.NewNop())
	summary, err := cast.Run(ctx, "hello", nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 2, summary.Failed)

	// Only the "blocked" failure flags the user.
	all, err := users.All(ctx)
	require.NoError(t, err)
	for _, u := range all {
		assert.Equal(t, u.UserID == 2, u.Blocked, "user %d", u.UserID)
	}
}

func TestBroadcastEmptyAudience(t *testing.T) {
	cast := NewBroadcaster(newMemUserStore(), newFakeSender(), zap.NewNop())
	summary, err := cast.Run(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, BroadcastSummary{}, summary)
}

func TestUsersEnsureAndStats(t *testing.T) {
	ctx := context.Background()
	store := newMemUserStore()
	u := NewUsers(store)

	require.NoError(t, u.Ensure(ctx, 1, "alice"))
	require.NoError(t, u.Ensure(ctx, 2, "bob"))
	// Repeat contact is a no-op, not a duplicate.
	require.NoError(t, u.Ensure(ctx, 1, "alice"))

	require.NoError(t, store.MarkBlocked(ctx, 2))

	stats, err := u.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, UserStats{Total: 2, Active: 1, Blocked: 1}, stats)
}
