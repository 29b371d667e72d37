package services

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var driveIDPattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// BuildDirectLink turns a Google Drive share link into a time-limited
// worker direct link: the file id and a millisecond timestamp, each
// base64url-encoded without padding.
func BuildDirectLink(workerURL, driveLink string) (string, error) {
	m := driveIDPattern.FindStringSubmatch(driveLink)
	if m == nil {
		return "", validationf("invalid Google Drive link")
	}
	fileID := m[1]

	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	encodedID := base64.RawURLEncoding.EncodeToString([]byte(fileID))
	encodedTS := base64.RawURLEncoding.EncodeToString([]byte(ts))

	return strings.TrimRight(workerURL, "/") + "/gdirect/" + encodedID + "/" + encodedTS, nil
}
