package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/services"
)

// handleDelete removes the file or batch behind a link: /del <link>
func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	args := msg.CommandArguments()
	if args == "" {
		b.reply(msg.Chat.ID,
			"❌ Please provide a link to delete.\n\nExample:\n"+
				"/del https://t.me/botusername?start=1a2b3c4d\n"+
				"or\n/del https://example.com/1a2b3c4d")
		return
	}

	code, isBatch, ok := services.ExtractCode(args)
	if !ok {
		b.reply(msg.Chat.ID, "❌ Invalid link format!")
		return
	}

	deleted, err := b.registry.Delete(ctx, code, isBatch)
	if err != nil {
		b.log.Error("delete failed", zap.String("code", code), zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Error deleting file/batch!")
		return
	}

	switch {
	case deleted && isBatch:
		b.reply(msg.Chat.ID, "✅ Batch and all its files deleted successfully!")
	case deleted:
		b.reply(msg.Chat.ID, "✅ File deleted successfully!")
	case isBatch:
		b.reply(msg.Chat.ID, "❌ Batch not found!")
	default:
		b.reply(msg.Chat.ID, "❌ File not found!")
	}
}

func (b *Bot) handleUsers(ctx context.Context, msg *tgbotapi.Message) {
	stats, err := b.users.Stats(ctx)
	if err != nil {
		b.log.Error("user stats failed", zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"📊 <b>Bot Statistics</b>\n\nTotal Users: %d\nActive Users: %d\nBlocked Users: %d",
		stats.Total, stats.Active, stats.Blocked))
}

// handleBroadcast sends a message to everyone: the text comes from the
// replied-to message or the command arguments.
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	text := msg.CommandArguments()
	if msg.ReplyToMessage != nil {
		if msg.ReplyToMessage.Text != "" {
			text = msg.ReplyToMessage.Text
		} else if msg.ReplyToMessage.Caption != "" {
			text = msg.ReplyToMessage.Caption
		}
	}
	if text == "" {
		b.reply(msg.Chat.ID,
			"Please either:\n1. Reply to a message with /broadcast\n"+
				"2. Use /broadcast with your message\n\nExample: /broadcast Hello everyone!")
		return
	}

	status, err := b.sender.SendText(msg.Chat.ID, "Broadcasting message...")
	if err != nil {
		b.log.Warn("broadcast status message failed", zap.Error(err))
	}

	summary, err := b.cast.Run(ctx, text, func(sent, total, ok, failed int) {
		_ = b.sender.EditText(status, fmt.Sprintf(
			"Broadcasting...\nProgress: %d/%d\nSuccess: %d\nFailed: %d",
			sent, total, ok, failed))
	})
	if err != nil {
		b.log.Error("broadcast failed", zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}

	if err := b.sender.EditText(status, fmt.Sprintf(
		"✅ Broadcast completed!\n\nTotal users: %d\nSuccessful: %d\nFailed: %d",
		summary.Total, summary.Successful, summary.Failed)); err != nil {
		b.log.Warn("broadcast summary edit failed", zap.Error(err))
	}
}

// handleDirectLink answers /gdirect <drive-link> with a time-limited
// worker direct link.
func (b *Bot) handleDirectLink(msg *tgbotapi.Message) {
	args := msg.CommandArguments()
	if args == "" {
		b.reply(msg.Chat.ID, "❌ Please provide a Google Drive link.")
		return
	}

	link, err := services.BuildDirectLink(b.env.WorkerURL, args)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			b.reply(msg.Chat.ID, "❌ Invalid Google Drive link.")
			return
		}
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Here is your direct link (valid for 6 hours):\n%s", link))
}

// handleRestart re-execs the current binary in place.
func (b *Bot) handleRestart(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, "Restarting the bot...")
	b.log.Info("restart requested", zap.Int64("user_id", msg.From.ID))

	exe, err := os.Executable()
	if err != nil {
		b.log.Error("restart failed", zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		b.log.Error("restart exec failed", zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
	}
}
