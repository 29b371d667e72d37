package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

// settingsPrompt is one user's pending settings-editor input, armed
// with a soft expiry.
type settingsPrompt struct {
	field string
	ref   services.MessageRef
	timer *time.Timer
}

func (b *Bot) handleSettingsMenu(msg *tgbotapi.Message) {
	out := tgbotapi.NewMessage(msg.Chat.ID, b.settingsMenuText(""))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = settingsMenuKeyboard()
	if _, err := b.api.Send(out); err != nil {
		b.log.Warn("settings menu failed", zap.Error(err))
	}
}

func (b *Bot) settingsMenuText(success string) string {
	shortState := "Disabled"
	if b.settings.Shortener().Enabled {
		shortState = "Enabled"
	}
	linkState := "Disabled"
	if b.settings.LinkSavingEnabled() {
		linkState = "Enabled"
	}
	prefix := b.settings.Prefix()
	if prefix == "" {
		prefix = "Not set"
	}

	text := "🛠 <b>Bot Settings</b>\n\n"
	if success != "" {
		text += success + "\n\n"
	}
	text += fmt.Sprintf("• <b>Auto Delete:</b> %d minutes\n", b.settings.AutoDeleteMinutes())
	text += fmt.Sprintf("• <b>Prefix:</b> %s\n", prefix)
	text += fmt.Sprintf("• <b>Sudo Users:</b> %d\n", len(b.settings.SudoUsers()))
	text += fmt.Sprintf("• <b>Remove Names:</b> %d\n", len(b.settings.RemoveNames()))
	text += fmt.Sprintf("• <b>Link Saving:</b> %s\n", linkState)
	text += fmt.Sprintf("• <b>Shortener:</b> %s\n", shortState)
	return text
}

func settingsMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏱ Auto Delete Time", "setting_auto_delete")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Prefix Name", "setting_prefix")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Sudo Users", "setting_sudo")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Remove Names", "setting_remove_names")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔗 Link Saving", "setting_links")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✂️ Shortener Settings", "setting_shortener")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 View All Settings", "setting_view_all")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Close", "setting_close")),
	)
}

func settingsBackKeyboard(field string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Reset to Default", "reset_"+field)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", "setting_menu")),
	)
}

func (b *Bot) handleSettingsCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Debug("callback ack failed", zap.Error(err))
	}
	if query.Message == nil || !b.settings.IsAuthorized(query.From.ID) {
		return
	}

	ref := services.MessageRef{ChatID: query.Message.Chat.ID, MessageID: query.Message.MessageID}
	data := query.Data

	switch data {
	case "setting_close":
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
			b.log.Debug("settings close failed", zap.Error(err))
		}
		b.cancelSettingsInput(query.From.ID)
		return
	case "setting_menu":
		b.cancelSettingsInput(query.From.ID)
		b.editWithKeyboard(ref, b.settingsMenuText(""), settingsMenuKeyboard())
		return
	case "setting_view_all":
		b.editWithKeyboard(ref, b.settingsViewAllText(), settingsBackOnlyKeyboard())
		return
	}

	if field, ok := strings.CutPrefix(data, "reset_"); ok {
		b.resetSetting(ctx, query.From.ID, ref, field)
		return
	}
	if field, ok := strings.CutPrefix(data, "setting_"); ok {
		b.showSettingEditor(query.From.ID, ref, field)
	}
}

func settingsBackOnlyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "setting_menu")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Close", "setting_close")),
	)
}

func (b *Bot) settingsViewAllText() string {
	cfg := b.settings.Shortener()
	return fmt.Sprintf(
		"📊 <b>Current Settings</b>\n\n"+
			"Auto Delete Time: %d minutes\n"+
			"Prefix Name: %s\n"+
			"Sudo Users: %v\n"+
			"Remove Names: %s\n"+
			"Link Saving: %t\n"+
			"Shortener Enabled: %t\n"+
			"Shortener API URL: %s",
		b.settings.AutoDeleteMinutes(),
		b.settings.Prefix(),
		b.settings.SudoUsers(),
		strings.Join(b.settings.RemoveNames(), ", "),
		b.settings.LinkSavingEnabled(),
		cfg.Enabled,
		cfg.APIURL)
}

// editorText maps the internal callback field to the prompt shown and
// the persisted settings field.
func (b *Bot) editorText(field string) (prompt, settingsField string, ok bool) {
	switch field {
	case "auto_delete":
		return fmt.Sprintf(
			"⏱ <b>Auto Delete Settings</b>\n\nCurrent time: <b>%d minutes</b>\n\n"+
				"Send a new value in minutes (0 disables auto delete).\nExample: <code>30</code>",
			b.settings.AutoDeleteMinutes()), "auto_delete_time", true
	case "prefix":
		current := b.settings.Prefix()
		if current == "" {
			current = "Not set"
		}
		return fmt.Sprintf(
			"📝 <b>Prefix Settings</b>\n\nCurrent prefix: <b>%s</b>\n\n"+
				"Send a new prefix.\nExample: <code>@YourChannel</code>", current), "prefix_name", true
	case "sudo":
		return fmt.Sprintf(
			"👥 <b>Sudo Users Settings</b>\n\nCurrent users: <b>%v</b>\n\n"+
				"Send user IDs separated by commas.\nExample: <code>123456789,987654321</code>",
			b.settings.SudoUsers()), "sudo_users", true
	case "remove_names":
		return fmt.Sprintf(
			"🧹 <b>Remove Names Settings</b>\n\nCurrent names: <b>%s</b>\n\n"+
				"Send names separated by commas; they are stripped from captions.\n"+
				"Example: <code>mkvcinemas,somesite.com</code>",
			strings.Join(b.settings.RemoveNames(), ", ")), "remove_names", true
	case "links":
		return fmt.Sprintf(
			"🔗 <b>Link Saving Settings</b>\n\nCurrently: <b>%t</b>\n\n"+
				"Send <code>on</code> to keep links in captions or <code>off</code> to strip them.",
			b.settings.LinkSavingEnabled()), "link_enabled", true
	case "shortener":
		cfg := b.settings.Shortener()
		state := "Disabled"
		if cfg.Enabled {
			state = "Enabled"
		}
		return fmt.Sprintf(
			"✂️ <b>Shortener Settings</b>\n\nStatus: <b>%s</b>\nAPI URL: <code>%s</code>\n\n"+
				"Send new settings in format:\n<code>enabled/disabled,api_key,api_url</code>",
			state, cfg.APIURL), "shortener", true
	}
	return "", "", false
}

func (b *Bot) showSettingEditor(userID int64, ref services.MessageRef, field string) {
	prompt, _, ok := b.editorText(field)
	if !ok {
		return
	}

	b.editWithKeyboard(ref, prompt, settingsBackKeyboard(field))
	b.armSettingsInput(userID, field, ref)
}

// armSettingsInput registers the user's next text message as input for
// the editor, expiring after PromptTimeout. The timeout and the input
// path race at the deadline; both check the map under the mutex so
// only one wins.
func (b *Bot) armSettingsInput(userID int64, field string, ref services.MessageRef) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.settingsInput[userID]; ok {
		prev.timer.Stop()
	}

	prompt := &settingsPrompt{field: field, ref: ref}
	prompt.timer = time.AfterFunc(services.PromptTimeout, func() {
		b.mu.Lock()
		current, ok := b.settingsInput[userID]
		if !ok || current != prompt {
			b.mu.Unlock()
			return
		}
		delete(b.settingsInput, userID)
		b.mu.Unlock()

		b.editWithKeyboard(ref, "Setting update timeout. Please try again.", settingsBackOnlyKeyboard())
	})
	b.settingsInput[userID] = prompt
}

func (b *Bot) cancelSettingsInput(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.settingsInput[userID]; ok {
		prev.timer.Stop()
		delete(b.settingsInput, userID)
	}
}

// handleSettingsInput consumes a text message for a pending editor.
func (b *Bot) handleSettingsInput(ctx context.Context, msg *tgbotapi.Message) {
	b.mu.Lock()
	prompt, ok := b.settingsInput[msg.From.ID]
	if ok {
		prompt.timer.Stop()
		delete(b.settingsInput, msg.From.ID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}

	// Drop the raw input from the chat; the menu carries the result.
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		b.log.Debug("input cleanup failed", zap.Error(err))
	}

	success, err := b.applySetting(ctx, prompt.field, strings.TrimSpace(msg.Text))
	if err != nil {
		b.editWithKeyboard(prompt.ref,
			fmt.Sprintf("❌ Error: %s\n\nPlease try again", err),
			settingsBackKeyboard(prompt.field))
		return
	}

	b.editWithKeyboard(prompt.ref, b.settingsMenuText(success), settingsMenuKeyboard())
}

func (b *Bot) applySetting(ctx context.Context, field, value string) (string, error) {
	switch field {
	case "auto_delete":
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("please send a whole number of minutes")
		}
		if err := b.settings.SetAutoDeleteMinutes(ctx, minutes); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Auto delete time set to %d minutes", minutes), nil

	case "prefix":
		if err := b.settings.SetPrefix(ctx, value); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Prefix name set to: %s", value), nil

	case "sudo":
		var ids []int64
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return "", fmt.Errorf("invalid user id %q", part)
			}
			ids = append(ids, id)
		}
		if err := b.settings.SetSudoUsers(ctx, ids); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Added %d sudo users", len(ids)), nil

	case "remove_names":
		var names []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
		if err := b.settings.SetRemoveNames(ctx, names); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Stripping %d names from captions", len(names)), nil

	case "links":
		var enabled bool
		switch strings.ToLower(value) {
		case "on", "enabled", "true":
			enabled = true
		case "off", "disabled", "false":
			enabled = false
		default:
			return "", fmt.Errorf("please send on or off")
		}
		if err := b.settings.SetLinkSaving(ctx, enabled); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Link saving set to %t", enabled), nil

	case "shortener":
		parts := strings.SplitN(value, ",", 3)
		if len(parts) != 3 {
			return "", fmt.Errorf("format: enabled/disabled,api_key,api_url")
		}
		cfg := models.ShortenerConfig{
			Enabled: strings.EqualFold(strings.TrimSpace(parts[0]), "enabled"),
			APIKey:  strings.TrimSpace(parts[1]),
			APIURL:  strings.TrimSpace(parts[2]),
		}
		if err := b.settings.SetShortener(ctx, cfg); err != nil {
			return "", err
		}
		return "✅ Shortener settings updated successfully", nil
	}
	return "", fmt.Errorf("unknown setting %q", field)
}

func (b *Bot) resetSetting(ctx context.Context, userID int64, ref services.MessageRef, field string) {
	b.cancelSettingsInput(userID)

	_, settingsField, ok := b.editorText(field)
	if !ok {
		return
	}
	if err := b.settings.Reset(ctx, settingsField); err != nil {
		b.log.Error("settings reset failed", zap.String("field", settingsField), zap.Error(err))
		b.editWithKeyboard(ref, "❌ Error resetting settings. Please try again.", settingsBackOnlyKeyboard())
		return
	}

	b.editWithKeyboard(ref, b.settingsMenuText("✅ Setting reset to default!"), settingsMenuKeyboard())
}

func (b *Bot) editWithKeyboard(ref services.MessageRef, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, text, keyboard)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil && !strings.Contains(err.Error(), "message is not modified") {
		b.log.Warn("settings edit failed", zap.Error(err))
	}
}
