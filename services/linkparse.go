package services

import "regexp"

// Accepted link shapes, all resolving to the same internal code:
// bare code, batch_<code>, a URL ending in /<code> or /batch_<code>,
// and a deep-link payload start=<code> or start=batch_<code>.
//
// Bare codes must match the canonical alphabet (lowercase hex,
// CodeLength characters); anything looser would make numeric batch and
// file codes ambiguous.
var (
	codePattern     = regexp.MustCompile(`^[0-9a-f]{8}$`)
	deepLinkPattern = regexp.MustCompile(`start=(batch_)?([0-9a-f]{8})`)
	urlTailPattern  = regexp.MustCompile(`/(batch_)?([0-9a-f]{8})$`)
	batchPattern    = regexp.MustCompile(`^batch_([0-9a-f]{8})$`)
)

// ExtractCode pulls a short code out of any accepted link format.
// Returns the code, whether it addresses a batch, and whether parsing
// succeeded.
func ExtractCode(text string) (code string, isBatch bool, ok bool) {
	if m := deepLinkPattern.FindStringSubmatch(text); m != nil {
		return m[2], m[1] != "", true
	}
	if m := batchPattern.FindStringSubmatch(text); m != nil {
		return m[1], true, true
	}
	if m := urlTailPattern.FindStringSubmatch(text); m != nil {
		return m[2], m[1] != "", true
	}
	if codePattern.MatchString(text) {
		return text, false, true
	}
	return "", false, false
}

// ParsePayload interprets a /start deep-link payload, which is already
// stripped down to "<code>" or "batch_<code>".
func ParsePayload(payload string) (code string, isBatch bool, ok bool) {
	if m := batchPattern.FindStringSubmatch(payload); m != nil {
		return m[1], true, true
	}
	if codePattern.MatchString(payload) {
		return payload, false, true
	}
	return "", false, false
}
