package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		code    string
		isBatch bool
		ok      bool
	}{
		{"bare code", "1a2b3c4d", "1a2b3c4d", false, true},
		{"batch code", "batch_1a2b3c4d", "1a2b3c4d", true, true},
		{"worker url", "https://example.com/1a2b3c4d", "1a2b3c4d", false, true},
		{"worker batch url", "https://example.com/batch_1a2b3c4d", "1a2b3c4d", true, true},
		{"deep link", "https://t.me/somebot?start=1a2b3c4d", "1a2b3c4d", false, true},
		{"deep batch link", "https://t.me/somebot?start=batch_1a2b3c4d", "1a2b3c4d", true, true},
		{"uppercase rejected", "1A2B3C4D", "", false, false},
		{"too short", "1a2b3c", "", false, false},
		{"garbage", "not a link", "", false, false},
		{"empty", "", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, isBatch, ok := ExtractCode(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.isBatch, isBatch)
		})
	}
}

func TestParsePayload(t *testing.T) {
	code, isBatch, ok := ParsePayload("1a2b3c4d")
	assert.True(t, ok)
	assert.False(t, isBatch)
	assert.Equal(t, "1a2b3c4d", code)

	code, isBatch, ok = ParsePayload("batch_1a2b3c4d")
	assert.True(t, ok)
	assert.True(t, isBatch)
	assert.Equal(t, "1a2b3c4d", code)

	_, _, ok = ParsePayload("batch_")
	assert.False(t, ok)

	_, _, ok = ParsePayload("")
	assert.False(t, ok)
}
