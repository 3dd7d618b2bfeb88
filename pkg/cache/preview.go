package cache

import "regexp"

// previewLength bounds how much of the source text is kept for display.
const previewLength = 30

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern        = regexp.MustCompile(`https?://[^\s]+`)
	longNumberPattern = regexp.MustCompile(`\d{4,}`)
)

// safePreview truncates text for diagnostic display and masks sensitive
// patterns. The full source text must never reach the store file.
func safePreview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return maskSensitive(string(runes))
}

// maskSensitive replaces email addresses, URLs, and 4+ digit number runs
// with fixed placeholders.
func maskSensitive(text string) string {
	text = emailPattern.ReplaceAllString(text, "[EMAIL]")
	text = urlPattern.ReplaceAllString(text, "[URL]")
	text = longNumberPattern.ReplaceAllString(text, "[***]")
	return text
}
