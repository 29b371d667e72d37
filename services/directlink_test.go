package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDirectLink(t *testing.T) {
	link, err := BuildDirectLink("https://worker.example.com/",
		"https://drive.google.com/file/d/1AbC_dEf-123/view?usp=sharing")
	require.NoError(t, err)

	parts := strings.Split(link, "/")
	require.Len(t, parts, 6)
	assert.Equal(t, "https:", parts[0])
	assert.Equal(t, "worker.example.com", parts[2])
	assert.Equal(t, "gdirect", parts[3])

	id, err := base64.RawURLEncoding.DecodeString(parts[4])
	require.NoError(t, err)
	assert.Equal(t, "1AbC_dEf-123", string(id))

	ts, err := base64.RawURLEncoding.DecodeString(parts[5])
	require.NoError(t, err)
	assert.Regexp(t, `^\d+$`, string(ts))
}

func TestBuildDirectLinkRejectsNonDriveLinks(t *testing.T) {
	_, err := BuildDirectLink("https://worker.example.com", "https://example.com/whatever")
	assert.True(t, IsValidation(err))

	_, err = BuildDirectLink("https://worker.example.com", "")
	assert.True(t, IsValidation(err))
}
