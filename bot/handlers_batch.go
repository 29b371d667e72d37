package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/services"
)

const batchUsage = "Please specify how many files you want to batch.\n" +
	"Example: /batch 4\n\n" +
	"To add files to an existing batch:\n" +
	"/batch <batch-link-or-code> <count>"

// handleBatchCommand covers both entry points: "/batch <n>" starts a
// new batch, "/batch <link-or-code> <n>" appends to an existing one.
func (b *Bot) handleBatchCommand(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	switch len(args) {
	case 1:
		b.startNewBatch(msg, args[0])
	case 2:
		b.startBatchAppend(ctx, msg, args[0], args[1])
	default:
		b.reply(msg.Chat.ID, batchUsage)
	}
}

func (b *Bot) startNewBatch(msg *tgbotapi.Message, countArg string) {
	count, err := strconv.Atoi(countArg)
	if err != nil {
		b.reply(msg.Chat.ID, "Please provide a valid number.\nExample: /batch 4")
		return
	}

	if err := b.intake.Start(msg.From.ID, count, ""); err != nil {
		b.replyIntakeError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Please send %d files one by one.\nFiles received: 0/%d", count, count))
}

func (b *Bot) startBatchAppend(ctx context.Context, msg *tgbotapi.Message, linkArg, countArg string) {
	count, err := strconv.Atoi(countArg)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Please provide a valid number of files!")
		return
	}

	code, _, ok := services.ExtractCode(linkArg)
	if !ok {
		b.reply(msg.Chat.ID, "❌ Invalid batch link format!")
		return
	}

	// The code must already name an existing batch.
	if _, err := b.registry.ResolveBatch(ctx, code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			b.reply(msg.Chat.ID, "❌ Batch not found!")
			return
		}
		b.log.Error("resolve batch failed", zap.String("code", code), zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}

	if err := b.intake.Start(msg.From.ID, count, code); err != nil {
		b.replyIntakeError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Ready to update batch!\n\nPlease send %d file(s) to add to the batch.\nProgress: 0/%d files added",
		count, count))
}

func (b *Bot) replyIntakeError(chatID int64, err error) {
	if services.IsValidation(err) {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	b.reply(chatID, genericErrorReply)
}
