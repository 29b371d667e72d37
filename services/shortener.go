package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Shortener shortens share links through the configured third-party
// API. Disabled state, missing credentials, and every failure mode all
// return the input URL unchanged; a broken shortener must never break
// sharing.
type Shortener struct {
	settings *Settings
	client   *http.Client
	log      *zap.Logger
}

func NewShortener(settings *Settings, log *zap.Logger) *Shortener {
	return &Shortener{
		settings: settings,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

// Shorten returns the shortened URL, or longURL when shortening is off
// or fails.
func (s *Shortener) Shorten(ctx context.Context, longURL string) string {
	cfg := s.settings.Shortener()
	if !cfg.Enabled || cfg.APIKey == "" || cfg.APIURL == "" {
		return longURL
	}

	params := url.Values{}
	params.Set("api", cfg.APIKey)
	params.Set("url", longURL)
	params.Set("format", "text")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return longURL
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("shorten request failed", zap.Error(err))
		return longURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn("shorten request rejected", zap.Int("status", resp.StatusCode))
		return longURL
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return longURL
	}
	short := strings.TrimSpace(string(body))
	if short == "" {
		return longURL
	}
	return short
}
