package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/services"
)

var startedAt = time.Now()

// handleStats opens the admin stats panel.
func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	text, err := b.statsBotText(ctx)
	if err != nil {
		b.log.Error("stats failed", zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = statsMenuKeyboard()
	if _, err := b.api.Send(out); err != nil {
		b.log.Warn("stats send failed", zap.Error(err))
	}
}

func (b *Bot) handleStatsCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Debug("callback ack failed", zap.Error(err))
	}
	if query.Message == nil || !b.settings.IsAuthorized(query.From.ID) {
		return
	}

	ref := services.MessageRef{ChatID: query.Message.Chat.ID, MessageID: query.Message.MessageID}

	switch query.Data {
	case "stats_bot", "stats_back":
		text, err := b.statsBotText(ctx)
		if err != nil {
			b.log.Error("stats failed", zap.Error(err))
			return
		}
		b.editWithKeyboard(ref, text, statsMenuKeyboard())

	case "stats_db":
		text, err := b.statsDBText(ctx)
		if err != nil {
			b.log.Error("db stats failed", zap.Error(err))
			return
		}
		b.editWithKeyboard(ref, text, statsDBKeyboard())

	case "stats_db_clean_all":
		b.purgeAndRefresh(ctx, ref, services.PurgeAll, "all files and batches")
	case "stats_db_clean_single":
		b.purgeAndRefresh(ctx, ref, services.PurgeSingles, "single files")
	case "stats_db_clean_batch":
		b.purgeAndRefresh(ctx, ref, services.PurgeBatches, "batches")

	case "stats_close":
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
			b.log.Debug("stats close failed", zap.Error(err))
		}
	}
}

func (b *Bot) purgeAndRefresh(ctx context.Context, ref services.MessageRef, scope services.PurgeScope, label string) {
	removed, err := b.registry.Purge(ctx, scope)
	if err != nil {
		b.log.Error("purge failed", zap.String("scope", label), zap.Error(err))
		b.editWithKeyboard(ref, "❌ Error cleaning database. Please try again.", statsDBKeyboard())
		return
	}
	b.log.Info("database purged", zap.String("scope", label), zap.Int64("removed", removed))

	text, err := b.statsDBText(ctx)
	if err != nil {
		b.log.Error("db stats failed", zap.Error(err))
		return
	}
	b.editWithKeyboard(ref,
		fmt.Sprintf("✅ Removed %d %s.\n\n%s", removed, label, text), statsDBKeyboard())
}

func (b *Bot) statsBotText(ctx context.Context) (string, error) {
	stats, err := b.users.Stats(ctx)
	if err != nil {
		return "", err
	}
	files, batches, err := b.registry.Counts(ctx)
	if err != nil {
		return "", err
	}

	uptime := time.Since(startedAt).Round(time.Second)
	return fmt.Sprintf(
		"🤖 <b>Bot Statistics</b>\n\n"+
			"⏳ Uptime: %s\n\n"+
			"👥 Total Users: %d\n"+
			"✅ Active Users: %d\n"+
			"🚫 Blocked Users: %d\n\n"+
			"📄 Stored Files: %d\n"+
			"📦 Stored Batches: %d",
		uptime, stats.Total, stats.Active, stats.Blocked, files, batches), nil
}

func (b *Bot) statsDBText(ctx context.Context) (string, error) {
	files, batches, err := b.registry.Counts(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"🗄 <b>Database Statistics</b>\n\n"+
			"📄 Single Files: %d\n"+
			"📦 Batches: %d\n\n"+
			"⚠️ Cleaning is permanent and removes the records behind "+
			"existing share links.",
		files, batches), nil
}

func statsMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗄 Database", "stats_db"),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", "stats_bot")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Close", "stats_close")),
	)
}

func statsDBKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clean Singles", "stats_db_clean_single"),
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clean Batches", "stats_db_clean_batch")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Clean Everything", "stats_db_clean_all")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "stats_back"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Close", "stats_close")),
	)
}
