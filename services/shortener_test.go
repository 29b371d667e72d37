package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"telegram-sharebot/models"
)

func newTestShortener(t *testing.T, cfg models.ShortenerConfig) *Shortener {
	t.Helper()
	s, err := LoadSettings(context.Background(), newMemSettingsRepo(),
		models.Settings{Shortener: cfg}, 100)
	require.NoError(t, err)
	return NewShortener(s, zap.NewNop())
}

func TestShortenDisabledReturnsInput(t *testing.T) {
	sh := newTestShortener(t, models.ShortenerConfig{Enabled: false})
	assert.Equal(t, "https://example.com/1a2b3c4d",
		sh.Shorten(context.Background(), "https://example.com/1a2b3c4d"))
}

func TestShortenHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api"))
		assert.Equal(t, "https://example.com/1a2b3c4d", r.URL.Query().Get("url"))
		assert.Equal(t, "text", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("https://short.example/xyz\n"))
	}))
	defer srv.Close()

	sh := newTestShortener(t, models.ShortenerConfig{
		Enabled: true, APIKey: "secret", APIURL: srv.URL})

	assert.Equal(t, "https://short.example/xyz",
		sh.Shorten(context.Background(), "https://example.com/1a2b3c4d"))
}

func TestShortenFailuresFallBackToInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sh := newTestShortener(t, models.ShortenerConfig{
		Enabled: true, APIKey: "secret", APIURL: srv.URL})
	assert.Equal(t, "long", sh.Shorten(context.Background(), "long"))

	// Unreachable endpoint.
	sh = newTestShortener(t, models.ShortenerConfig{
		Enabled: true, APIKey: "secret", APIURL: "http://127.0.0.1:1"})
	assert.Equal(t, "long", sh.Shorten(context.Background(), "long"))

	// Missing key means not configured.
	sh = newTestShortener(t, models.ShortenerConfig{Enabled: true, APIURL: srv.URL})
	assert.Equal(t, "long", sh.Shorten(context.Background(), "long"))
}
