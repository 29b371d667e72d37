package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"telegram-sharebot/models"
)

// MessageRef identifies a message the bot sent, for later deletion.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// FileSender is the narrow slice of the messaging transport the
// lifecycle core needs. The bot package adapts the Telegram client to
// it; tests substitute fakes.
type FileSender interface {
	SendText(chatID int64, text string) (MessageRef, error)
	SendFile(chatID int64, f models.BatchFile, caption string) (MessageRef, error)
	EditText(ref MessageRef, text string) error
	DeleteMessage(ref MessageRef) error
}

// Delivery resolves a code and re-sends its files with captions
// recomputed from the current configuration. Editing the prefix or the
// remove-names list retroactively changes how old files are redelivered;
// the stored records are never touched.
type Delivery struct {
	registry  *Registry
	settings  *Settings
	sender    FileSender
	scheduler *AutoDelete
	log       *zap.Logger
}

func NewDelivery(registry *Registry, settings *Settings, sender FileSender, scheduler *AutoDelete, log *zap.Logger) *Delivery {
	return &Delivery{registry: registry, settings: settings, sender: sender, scheduler: scheduler, log: log}
}

// Deliver sends the file or batch behind code to the chat, leading with
// the auto-delete notice, and hands every delivered message to the
// scheduler. Individual file sends that fail are logged and skipped;
// the rest of the batch still goes out.
func (d *Delivery) Deliver(ctx context.Context, chatID int64, code string, isBatch bool) ([]MessageRef, error) {
	var files []models.BatchFile
	if isBatch {
		entry, err := d.registry.ResolveBatch(ctx, code)
		if err != nil {
			return nil, err
		}
		files = entry.Files
	} else {
		f, err := d.registry.ResolveFile(ctx, code)
		if err != nil {
			return nil, err
		}
		files = []models.BatchFile{{
			FileID:   f.FileID,
			Kind:     f.Kind,
			FileName: f.FileName,
			MimeType: f.MimeType,
			FileSize: f.FileSize,
			Caption:  f.Caption,
		}}
	}

	var sent []MessageRef
	notice, err := d.sender.SendText(chatID, d.noticeText())
	if err != nil {
		d.log.Warn("auto-delete notice failed", zap.Int64("chat_id", chatID), zap.Error(err))
	} else {
		sent = append(sent, notice)
	}

	prefix := d.settings.Prefix()
	removeNames := d.settings.RemoveNames()
	for i, f := range files {
		caption := DecorateCaption(CleanCaption(f.Caption, removeNames), f.FileName, prefix)
		ref, err := d.sender.SendFile(chatID, f, caption)
		if err != nil {
			d.log.Warn("file delivery failed, skipping",
				zap.String("code", code), zap.Int("index", i),
				zap.String("file_id", f.FileID), zap.Error(err))
			continue
		}
		sent = append(sent, ref)
	}

	d.scheduler.Schedule(sent)
	return sent, nil
}

func (d *Delivery) noticeText() string {
	minutes := d.settings.AutoDeleteMinutes()
	plural := "s"
	if minutes == 1 {
		plural = ""
	}
	return fmt.Sprintf(
		"⚠️ This file will be automatically deleted after %d minute%s!\n"+
			"🔄 Forward this File to save the file.\n\n"+
			"⚠️ এই ফাইলটি %d মিনিট পর স্বয়ংক্রিয়ভাবে মুছে ফেলা হবে!\n"+
			"🔄 ফাইলটি সংরক্ষণ করতে ফাইলগুলি ফরওয়ার্ড করুন।",
		minutes, plural, minutes)
}
