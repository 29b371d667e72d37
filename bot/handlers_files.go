package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

// handleIncomingFile routes a media message: the caption-edit flow gets
// first claim, then a collecting batch session, and otherwise the file
// is stored as a new single share.
func (b *Bot) handleIncomingFile(ctx context.Context, msg *tgbotapi.Message) {
	if !b.settings.IsAuthorized(msg.From.ID) {
		b.reply(msg.Chat.ID, "You don't have permission to use this feature!")
		return
	}

	file, ok := extractFile(msg)
	if !ok {
		return
	}
	file.Caption = b.intakeCaption(file.Caption)

	if b.offerCaptionEdit(msg, file) {
		return
	}

	if b.intake.Active(msg.From.ID) {
		b.handleBatchFile(ctx, msg, file)
		return
	}

	b.handleSingleUpload(ctx, msg, file)
}

// intakeCaption applies the configured transforms once, at save time.
func (b *Bot) intakeCaption(caption string) string {
	caption = services.CleanCaption(caption, b.settings.RemoveNames())
	if !b.settings.LinkSavingEnabled() {
		caption = services.StripLinks(caption)
	}
	return caption
}

func (b *Bot) handleBatchFile(ctx context.Context, msg *tgbotapi.Message, file models.BatchFile) {
	res, err := b.intake.ReceiveFile(ctx, msg.From.ID, file)
	if err != nil {
		b.log.Error("batch intake failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.reply(msg.Chat.ID, "Sorry, couldn't create batch link!")
		return
	}
	if !res.Handled {
		b.handleSingleUpload(ctx, msg, file)
		return
	}

	if !res.Done {
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"File %d of %d received.\nSend %d more files.",
			res.Collected, res.Requested, res.Requested-res.Collected))
		return
	}

	link := b.short.Shorten(ctx, b.shareLink(res.Code, true))
	if res.IsAppend {
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"✅ Batch updated successfully!\n\nAdded %d new file(s)\nTotal files in batch: %d\nBatch link: %s",
			res.Collected, res.Total, link))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Batch complete!\n\nHere's your batch shareable link:\n%s", link))
}

func (b *Bot) handleSingleUpload(ctx context.Context, msg *tgbotapi.Message, file models.BatchFile) {
	stored := &models.StoredFile{
		FileID:   file.FileID,
		Kind:     file.Kind,
		FileName: file.FileName,
		MimeType: file.MimeType,
		FileSize: file.FileSize,
		Caption:  file.Caption,
		OwnerID:  msg.From.ID,
	}

	code, err := b.registry.CreateSingle(ctx, stored)
	if err != nil {
		b.log.Error("store file failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.reply(msg.Chat.ID, "Sorry, there was an error processing your file.")
		return
	}

	link := b.short.Shorten(ctx, b.shareLink(code, false))

	name := file.Caption
	if name == "" {
		name = file.FileName
	}
	if name == "" {
		name = "No Name"
	}
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Here's your permanent shareable link:\n%s\n\nFile: %s", link, name))
}
