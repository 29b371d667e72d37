package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCaption(t *testing.T) {
	removeNames := []string{"mkvcinemas", "@CinemazBD"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bracketed name dropped with brackets", "Avengers [mkvcinemas]", "Avengers"},
		{"handle removed mid text", "Avengers @CinemazBD 1080p", "Avengers 1080p"},
		{"case insensitive match", "Avengers [MKVCinemas]", "Avengers"},
		{"no names present", "Avengers Endgame", "Avengers Endgame"},
		{"empty caption", "", ""},
		{"only a removed name", "mkvcinemas", ""},
		{"parens dropped too", "Avengers (mkvcinemas)", "Avengers"},
		{"first occurrence only", "mkvcinemas Avengers mkvcinemas", "Avengers mkvcinemas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCaption(tt.in, removeNames))
		})
	}
}

func TestCleanCaptionIdempotent(t *testing.T) {
	names := []string{"mkvcinemas"}
	once := CleanCaption("Avengers [mkvcinemas] 2019", names)
	assert.Equal(t, once, CleanCaption(once, names))
}

func TestCleanCaptionNilNames(t *testing.T) {
	assert.Equal(t, "Avengers", CleanCaption("  Avengers  ", nil))
}

func TestDecorateCaption(t *testing.T) {
	assert.Equal(t, "<b>@MyChannel - Avengers</b>",
		DecorateCaption("Avengers", "avengers.mkv", "@MyChannel"))

	// Cleaned caption empty: fall back to the file name.
	assert.Equal(t, "<b>@MyChannel - avengers.mkv</b>",
		DecorateCaption("", "avengers.mkv", "@MyChannel"))

	// Nothing at all: stock line.
	assert.Equal(t, "<b>@MyChannel\n<b>Here's your file!</b></b>",
		DecorateCaption("", "", "@MyChannel"))
}

func TestStripLinks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Avengers https://example.com/x 1080p", "Avengers 1080p"},
		{"join t.me/somechannel now", "join now"},
		{"see www.example.com", "see"},
		{"no links here", "no links here"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripLinks(tt.in), "input: %q", tt.in)
	}
}
