package bot

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/configs"
	"telegram-sharebot/services"
)

const genericErrorReply = "Sorry, something went wrong. Please try again!"

// Bot wires Telegram updates to the services layer.
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   *TelegramSender
	env      *configs.Env
	log      *zap.Logger
	settings *services.Settings
	registry *services.Registry
	intake   *services.BatchIntake
	captions *services.PromptSessions
	delivery *services.Delivery
	search   *services.Search
	short    *services.Shortener
	cast     *services.Broadcaster
	users    *services.Users

	mu            sync.Mutex
	settingsInput map[int64]*settingsPrompt
	findSessions  map[int64]*findSession
}

// Deps carries everything the bot needs; all fields are required.
type Deps struct {
	API      *tgbotapi.BotAPI
	Env      *configs.Env
	Log      *zap.Logger
	Settings *services.Settings
	Registry *services.Registry
	Intake   *services.BatchIntake
	Captions *services.PromptSessions
	Delivery *services.Delivery
	Search   *services.Search
	Short    *services.Shortener
	Cast     *services.Broadcaster
	Users    *services.Users
}

func New(d Deps) *Bot {
	return &Bot{
		api:           d.API,
		sender:        NewTelegramSender(d.API),
		env:           d.Env,
		log:           d.Log,
		settings:      d.Settings,
		registry:      d.Registry,
		intake:        d.Intake,
		captions:      d.Captions,
		delivery:      d.Delivery,
		search:        d.Search,
		short:         d.Short,
		cast:          d.Cast,
		users:         d.Users,
		settingsInput: make(map[int64]*settingsPrompt),
		findSessions:  make(map[int64]*findSession),
	}
}

// Run consumes long-polling updates until the context is cancelled.
// Each update is handled on its own goroutine; per-user state is
// guarded by the session stores' own locks.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("bot running", zap.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate is the top-level handler boundary: nothing escapes it
// uncaught, unexpected failures turn into a generic reply plus a log
// line.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("handler panic", zap.Any("panic", r))
			if chatID := updateChatID(update); chatID != 0 {
				b.reply(chatID, genericErrorReply)
			}
		}
	}()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if _, ok := extractFile(msg); ok {
		b.handleIncomingFile(ctx, msg)
		return
	}

	if msg.Text != "" {
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "batch":
		b.authorized(msg, func() { b.handleBatchCommand(ctx, msg) })
	case "setcaption":
		b.authorized(msg, func() { b.handleSetCaption(ctx, msg) })
	case "bsetcaption":
		b.authorized(msg, func() { b.handleBatchSetCaption(ctx, msg) })
	case "del":
		b.authorized(msg, func() { b.handleDelete(ctx, msg) })
	case "users":
		b.authorized(msg, func() { b.handleUsers(ctx, msg) })
	case "broadcast":
		b.authorized(msg, func() { b.handleBroadcast(ctx, msg) })
	case "bset":
		b.authorized(msg, func() { b.handleSettingsMenu(msg) })
	case "find":
		b.authorized(msg, func() { b.handleFind(ctx, msg) })
	case "stats":
		b.authorized(msg, func() { b.handleStats(ctx, msg) })
	case "gdirect":
		b.authorized(msg, func() { b.handleDirectLink(msg) })
	case "restart":
		b.authorized(msg, func() { b.handleRestart(msg) })
	}
}

// authorized gates privileged commands. The refusal never says which
// check failed.
func (b *Bot) authorized(msg *tgbotapi.Message, fn func()) {
	if !b.settings.IsAuthorized(msg.From.ID) {
		b.reply(msg.Chat.ID, "You don't have permission to use this command!")
		return
	}
	fn()
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	switch {
	case strings.HasPrefix(query.Data, "find_"):
		b.handleFindCallback(query)
	case strings.HasPrefix(query.Data, "stats_"):
		b.handleStatsCallback(ctx, query)
	case strings.HasPrefix(query.Data, "setting_"), strings.HasPrefix(query.Data, "reset_"):
		b.handleSettingsCallback(ctx, query)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	if b.finishCaptionEdit(ctx, msg) {
		return
	}
	b.handleSettingsInput(ctx, msg)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.sender.SendText(chatID, text); err != nil {
		b.log.Warn("reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) shareLink(code string, isBatch bool) string {
	base := strings.TrimRight(b.env.WorkerURL, "/")
	if isBatch {
		return base + "/batch_" + code
	}
	return base + "/" + code
}

func updateChatID(update tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
