// Package sanitize filters raw input to an allow-listed character set before
// it is sent to the completion endpoint. The allow list covers the two
// supported languages plus code and URLs; everything else (emoji, confusable
// symbols, control characters outside whitespace) is dropped silently.
package sanitize

import (
	"strings"
	"unicode"
)

// Clean returns text with every disallowed code point removed. It is pure
// and idempotent: Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	// ASCII punctuation.
	case r >= '!' && r <= '/', r >= ':' && r <= '@', r >= '[' && r <= '`', r >= '{' && r <= '~':
		return true
	case unicode.IsSpace(r):
		return true
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK unified ideographs
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK punctuation
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // Fullwidth forms
		return true
	}
	return false
}
