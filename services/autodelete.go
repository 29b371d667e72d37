package services

import (
	"time"

	"go.uber.org/zap"
)

// AutoDelete schedules delivered messages for deletion after the
// configured delay. The delay is read when Schedule is called, so a
// settings change applies to the next delivery, never retroactively to
// timers already running.
type AutoDelete struct {
	settings *Settings
	sender   FileSender
	log      *zap.Logger

	// after is swappable so tests can drive simulated time.
	after func(time.Duration) <-chan time.Time
}

func NewAutoDelete(settings *Settings, sender FileSender, log *zap.Logger) *AutoDelete {
	return &AutoDelete{settings: settings, sender: sender, log: log, after: time.After}
}

// Schedule arms one independent deletion timer per message. A delay of
// zero disables deletion entirely. Deletion failures (the user removed
// the message first, the chat is gone) are swallowed, not retried.
func (a *AutoDelete) Schedule(msgs []MessageRef) {
	minutes := a.settings.AutoDeleteMinutes()
	if minutes <= 0 {
		return
	}
	delay := time.Duration(minutes) * time.Minute

	for _, msg := range msgs {
		go func(m MessageRef) {
			<-a.after(delay)
			if err := a.sender.DeleteMessage(m); err != nil {
				a.log.Debug("scheduled delete failed",
					zap.Int64("chat_id", m.ChatID),
					zap.Int("message_id", m.MessageID),
					zap.Error(err))
			}
		}(msg)
	}
}
