package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/services"
)

// findSession keeps one user's last search results alive for the inline
// pagination and filter buttons.
type findSession struct {
	results *services.SearchResults
	page    int
	mode    services.ViewMode
}

// handleFind runs a fuzzy search over everything stored: /find <query>
func (b *Bot) handleFind(ctx context.Context, msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		b.reply(msg.Chat.ID,
			"🔍 Please provide a search term.\n\nExample: /find Avengers")
		return
	}

	results, err := b.search.Run(ctx, query)
	if err != nil {
		b.log.Error("search failed", zap.String("query", query), zap.Error(err))
		b.reply(msg.Chat.ID, genericErrorReply)
		return
	}
	if results.Empty() {
		b.reply(msg.Chat.ID, fmt.Sprintf("🔍 No results found for: <b>%s</b>", query))
		return
	}

	// Render while holding the lock: the session is shared with callback
	// handlers the moment it lands in the map.
	sess := &findSession{results: results, page: 0, mode: services.ViewAll}
	b.mu.Lock()
	b.findSessions[msg.From.ID] = sess
	text := b.findPageText(sess)
	keyboard := b.findKeyboard(msg.From.ID, sess)
	b.mu.Unlock()

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = keyboard
	if _, err := b.api.Send(out); err != nil {
		b.log.Warn("search results send failed", zap.Error(err))
	}
}

// handleFindCallback drives the result pager. The buttons encode the
// owner's user ID so only the searcher can flip their own pages.
func (b *Bot) handleFindCallback(query *tgbotapi.CallbackQuery) {
	parts := strings.Split(query.Data, "_")
	if len(parts) < 3 || query.Message == nil {
		return
	}
	action := parts[1]
	owner := parts[len(parts)-1]

	if fmt.Sprint(query.From.ID) != owner {
		if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(query.ID, "This is not your search!")); err != nil {
			b.log.Debug("callback alert failed", zap.Error(err))
		}
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Debug("callback ack failed", zap.Error(err))
	}

	ref := services.MessageRef{ChatID: query.Message.Chat.ID, MessageID: query.Message.MessageID}

	if action == "close" {
		b.mu.Lock()
		delete(b.findSessions, query.From.ID)
		b.mu.Unlock()
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
			b.log.Debug("search close failed", zap.Error(err))
		}
		return
	}

	// Mutate and render under the same lock; updates run on their own
	// goroutines, so two rapid callbacks from the same user would
	// otherwise race on page/mode.
	b.mu.Lock()
	sess, ok := b.findSessions[query.From.ID]
	var text string
	var keyboard tgbotapi.InlineKeyboardMarkup
	if ok {
		switch action {
		case "prev":
			if sess.page > 0 {
				sess.page--
			}
		case "next":
			if sess.page < sess.results.TotalPages(sess.mode)-1 {
				sess.page++
			}
		case "filter":
			// find_filter_<mode>_<owner>
			if len(parts) >= 4 {
				sess.mode = services.ViewMode(parts[2])
				sess.page = 0
			}
		}
		text = b.findPageText(sess)
		keyboard = b.findKeyboard(query.From.ID, sess)
	}
	b.mu.Unlock()
	if !ok {
		return
	}

	b.editWithKeyboard(ref, text, keyboard)
}

func (b *Bot) findPageText(sess *findSession) string {
	r := sess.results
	files, batches := r.Page(sess.page, sess.mode)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 <b>Search results for:</b> %s\n", r.Query)
	fmt.Fprintf(&sb, "📄 Page %d of %d\n\n", sess.page+1, r.TotalPages(sess.mode))

	for _, m := range files {
		name := m.File.FileName
		if name == "" {
			name = m.File.Caption
		}
		fmt.Fprintf(&sb, "📄 <b>%s</b> (%d%%)\n🔗 %s\n\n",
			name, m.Score, b.shareLink(m.File.Code, false))
	}
	for _, m := range batches {
		fmt.Fprintf(&sb, "📦 <b>Batch</b> (%d files, best match %d%%)\n🔗 %s\n",
			len(m.Batch.Files), m.Score, b.shareLink(m.Batch.Code, true))
		for i, f := range m.Matching {
			if i == 3 {
				fmt.Fprintf(&sb, "   …and %d more matches\n", len(m.Matching)-i)
				break
			}
			name := f.File.FileName
			if name == "" {
				name = f.File.Caption
			}
			fmt.Fprintf(&sb, "   • %s (%d%%)\n", name, f.Score)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (b *Bot) findKeyboard(userID int64, sess *findSession) tgbotapi.InlineKeyboardMarkup {
	owner := fmt.Sprint(userID)

	var nav []tgbotapi.InlineKeyboardButton
	if sess.page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", "find_prev_"+owner))
	}
	if sess.page < sess.results.TotalPages(sess.mode)-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", "find_next_"+owner))
	}

	filters := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("All", "find_filter_all_"+owner),
		tgbotapi.NewInlineKeyboardButtonData("Files", "find_filter_single_"+owner),
		tgbotapi.NewInlineKeyboardButtonData("Batches", "find_filter_batch_"+owner),
	)
	closeRow := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Close", "find_close_"+owner))

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, filters, closeRow)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
