package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

var bsetPattern = regexp.MustCompile(`^(\S+)\s+-add\s+(.+)$`)

// handleSetCaption starts the two-step caption-edit flow: wait for the
// file, then wait for the new caption, with a soft expiry on each step.
func (b *Bot) handleSetCaption(_ context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.captions.AwaitFile(msg.From.ID, func() {
		b.reply(chatID, "⏰ Caption update timed out. Please try /setcaption again.")
	})

	b.reply(chatID,
		"📤 Send me the file you want to change the caption of.\n\n"+
			"📤 যে ফাইলের ক্যাপশন পরিবর্তন করতে চান সেই ফাইলটি পাঠান।")
}

// offerCaptionEdit claims an incoming file for a waiting caption-edit
// flow. Returns true when consumed.
func (b *Bot) offerCaptionEdit(msg *tgbotapi.Message, file models.BatchFile) bool {
	chatID := msg.Chat.ID
	claimed := b.captions.OfferFile(msg.From.ID, file, func() {
		b.reply(chatID, "⏰ Caption update timed out. Please try /setcaption again.")
	})
	if !claimed {
		return false
	}

	b.reply(chatID,
		"✏️ Now send me the new caption for this file.\n\n"+
			"✏️ এখন এই ফাইলের জন্য নতুন ক্যাপশন পাঠান।")
	return true
}

// finishCaptionEdit completes the flow with the user's text: the stored
// caption is fully replaced and the file is re-sent to show the result.
// Returns true when the message belonged to the flow.
func (b *Bot) finishCaptionEdit(ctx context.Context, msg *tgbotapi.Message) bool {
	file, ok := b.captions.TakeText(msg.From.ID)
	if !ok {
		return false
	}

	newCaption := msg.Text
	if err := b.registry.UpdateFileCaption(ctx, file.FileID, newCaption); err != nil {
		b.log.Error("caption update failed", zap.String("file_id", file.FileID), zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Failed to update the caption.")
		return true
	}

	file.Caption = newCaption
	if _, err := b.sender.SendFile(msg.Chat.ID, file, "<b>"+newCaption+"</b>"); err != nil {
		b.log.Warn("caption preview failed", zap.String("file_id", file.FileID), zap.Error(err))
		b.reply(msg.Chat.ID,
			"❌ Failed to send file with new caption.\n\n❌ নতুন ক্যাপশন সহ ফাইল পাঠানো যায়নি।")
		return true
	}

	b.reply(msg.Chat.ID,
		"✅ Caption updated successfully!\n\n✅ ক্যাপশন সফলভাবে আপডেট করা হয়েছে!")
	return true
}

// handleBatchSetCaption prepends text to every caption in a batch:
// /bsetcaption <batch-link> -add <text>
func (b *Bot) handleBatchSetCaption(ctx context.Context, msg *tgbotapi.Message) {
	m := bsetPattern.FindStringSubmatch(msg.CommandArguments())
	if m == nil {
		b.reply(msg.Chat.ID,
			"❌ Correct Format:\n/bsetcaption <batch_link> -add <prefix_text>\n\n"+
				"Example:\n/bsetcaption https://example.com/batch_1a2b3c4d -add Drama Name S01")
		return
	}

	code, isBatch, ok := services.ExtractCode(m[1])
	if !ok || !isBatch {
		b.reply(msg.Chat.ID, "❌ Invalid batch link format!")
		return
	}

	updated, err := b.registry.PrependBatchCaptions(ctx, code, m[2])
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			b.reply(msg.Chat.ID, "❌ Batch not found!")
		case errors.Is(err, services.ErrEmptyBatch):
			b.reply(msg.Chat.ID, fmt.Sprintf("❌ No files found in batch %s!", code))
		default:
			b.log.Error("batch caption update failed", zap.String("code", code), zap.Error(err))
			b.reply(msg.Chat.ID, "❌ An error occurred while updating batch captions.")
		}
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Successfully updated captions for %d files!\n\nAdded prefix: %s\nBatch code: %s",
		updated, m[2], code))
}
