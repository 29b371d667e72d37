package services

import (
	"regexp"
	"strings"
)

var (
	urlPattern          = regexp.MustCompile(`(?i)\b(?:https?://|www\.|t\.me/)\S+`)
	emptyBracketPattern = regexp.MustCompile(`\[\s*\]|\(\s*\)|\{\s*\}`)
)

// CleanCaption removes each configured name from the caption, in list
// order. Matching is case-insensitive and excises only the first
// occurrence, keeping the casing of the surrounding text. Brackets left
// empty by a removal are dropped, double spaces collapsed, and the
// result trimmed. Single pass: a name re-introduced by an earlier
// removal is not chased to a fixed point.
func CleanCaption(raw string, removeNames []string) string {
	if raw == "" {
		return ""
	}

	caption := raw
	for _, name := range removeNames {
		if name == "" {
			continue
		}
		idx := strings.Index(strings.ToLower(caption), strings.ToLower(name))
		if idx < 0 {
			continue
		}
		caption = caption[:idx] + caption[idx+len(name):]
		caption = collapseSpaces(caption)
	}

	caption = emptyBracketPattern.ReplaceAllString(caption, "")
	return strings.TrimSpace(collapseSpaces(caption))
}

// DecorateCaption builds the HTML caption sent with a redelivered file.
// Falls back to the original file name when the cleaned caption is
// empty, and to a stock line when both are missing. The whole result is
// wrapped in one bold tag.
func DecorateCaption(cleaned, fileName, prefix string) string {
	text := cleaned
	if text == "" {
		text = fileName
	}

	var out string
	if text != "" {
		out = prefix + " - " + text
	} else {
		out = prefix + "\n<b>Here's your file!</b>"
	}
	return "<b>" + out + "</b>"
}

// StripLinks removes URLs from a caption. Applied at intake when link
// saving is disabled.
func StripLinks(caption string) string {
	if caption == "" {
		return ""
	}
	stripped := urlPattern.ReplaceAllString(caption, "")
	return strings.TrimSpace(collapseSpaces(stripped))
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
