package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// broadcastProgressEvery is how many sends pass between status updates.
const broadcastProgressEvery = 25

// BroadcastSummary is the final tally of one broadcast run.
type BroadcastSummary struct {
	Total      int
	Successful int
	Failed     int
}

// Broadcaster fans a message out to every known user. Sends are rate
// limited to stay under Telegram's flood control; individual failures
// are counted, never fatal to the loop.
type Broadcaster struct {
	users   UserStore
	sender  FileSender
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewBroadcaster(users UserStore, sender FileSender, log *zap.Logger) *Broadcaster {
	// ~20 messages/second, Telegram's documented bot ceiling.
	return &Broadcaster{
		users:   users,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(20), 5),
		log:     log,
	}
}

// Run sends text to every user, reporting progress through onProgress
// every few sends. Users whose sends bounce with a "blocked" error are
// flagged in the store so future broadcasts can count them.
func (b *Broadcaster) Run(ctx context.Context, text string, onProgress func(sent, total, ok, failed int)) (BroadcastSummary, error) {
	users, err := b.users.All(ctx)
	if err != nil {
		return BroadcastSummary{}, err
	}

	summary := BroadcastSummary{Total: len(users)}
	for _, u := range users {
		if err := b.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		if _, err := b.sender.SendText(u.UserID, text); err != nil {
			summary.Failed++
			if strings.Contains(strings.ToLower(err.Error()), "blocked") {
				if markErr := b.users.MarkBlocked(ctx, u.UserID); markErr != nil {
					b.log.Warn("mark blocked failed", zap.Int64("user_id", u.UserID), zap.Error(markErr))
				}
			}
		} else {
			summary.Successful++
		}

		done := summary.Successful + summary.Failed
		if onProgress != nil && done%broadcastProgressEvery == 0 {
			onProgress(done, summary.Total, summary.Successful, summary.Failed)
		}
	}

	return summary, nil
}
