package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-sharebot/models"
	"telegram-sharebot/services"
)

// TelegramSender adapts the Telegram client to the services.FileSender
// interface the lifecycle core depends on.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

func (s *TelegramSender) SendText(chatID int64, text string) (services.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sent, err := s.api.Send(msg)
	if err != nil {
		return services.MessageRef{}, err
	}
	return services.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// SendFile re-sends stored content by its provider token, dispatching
// on the normalized kind. This is the single place that branches on
// transport-specific media shapes.
func (s *TelegramSender) SendFile(chatID int64, f models.BatchFile, caption string) (services.MessageRef, error) {
	var c tgbotapi.Chattable
	switch f.Kind {
	case models.KindPhoto:
		m := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(f.FileID))
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeHTML
		c = m
	case models.KindVideo:
		m := tgbotapi.NewVideo(chatID, tgbotapi.FileID(f.FileID))
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeHTML
		c = m
	case models.KindAudio:
		m := tgbotapi.NewAudio(chatID, tgbotapi.FileID(f.FileID))
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeHTML
		c = m
	case models.KindVoice:
		m := tgbotapi.NewVoice(chatID, tgbotapi.FileID(f.FileID))
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeHTML
		c = m
	case models.KindVideoNote:
		// Video notes carry no caption.
		c = tgbotapi.NewVideoNote(chatID, 0, tgbotapi.FileID(f.FileID))
	default:
		m := tgbotapi.NewDocument(chatID, tgbotapi.FileID(f.FileID))
		m.Caption = caption
		m.ParseMode = tgbotapi.ModeHTML
		c = m
	}

	sent, err := s.api.Send(c)
	if err != nil {
		return services.MessageRef{}, fmt.Errorf("send %s: %w", f.Kind, err)
	}
	return services.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (s *TelegramSender) EditText(ref services.MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := s.api.Send(edit)
	return err
}

func (s *TelegramSender) DeleteMessage(ref services.MessageRef) error {
	_, err := s.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID))
	return err
}
