package bot

import (
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NewClient builds the Telegram API client with an HTTP client tuned
// for large media sends.
func NewClient(token string) (*tgbotapi.BotAPI, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
}
