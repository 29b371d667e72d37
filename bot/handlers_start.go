package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/services"
)

const welcomeText = "👋 Welcome to the file sharing bot!\n\n" +
	"📤 Send me any file and I'll provide you with a shareable link.\n\n" +
	"🌐 আপনাকে স্বাগতম! আমাকে যেকোনো ফাইল পাঠান এবং আমি আপনাকে একটি শেয়ারযোগ্য লিঙ্ক দেব।\n\n" +
	"🔗 Enjoy sharing your files easily!"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.users.Ensure(ctx, msg.From.ID, msg.From.UserName); err != nil {
		b.log.Warn("record user failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
	}

	payload := msg.CommandArguments()
	if payload == "" {
		b.reply(msg.Chat.ID, welcomeText)
		return
	}

	code, isBatch, ok := services.ParsePayload(payload)
	if !ok {
		b.reply(msg.Chat.ID, "File not found!")
		return
	}

	if _, err := b.delivery.Deliver(ctx, msg.Chat.ID, code, isBatch); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			if isBatch {
				b.reply(msg.Chat.ID, "Batch not found!")
			} else {
				b.reply(msg.Chat.ID, "File not found!")
			}
			return
		}
		b.log.Error("delivery failed", zap.String("code", code), zap.Error(err))
		b.reply(msg.Chat.ID, "Sorry, couldn't send the file!")
	}
}
