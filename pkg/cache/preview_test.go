package cache

import (
	"strings"
	"testing"
)

func TestMaskSensitive(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Contact: user@example.com", "Contact: [EMAIL]"},
		{"See https://example.com/path", "See [URL]"},
		{"Card: 1234567890", "Card: [***]"},
		{"Code: 123", "Code: 123"},
		{"Email user@test.com or call 12345", "Email [EMAIL] or call [***]"},
	}
	for _, tt := range tests {
		if got := maskSensitive(tt.input); got != tt.want {
			t.Errorf("maskSensitive(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSafePreviewTruncates(t *testing.T) {
	long := strings.Repeat("a", 100)
	if got := safePreview(long); len([]rune(got)) != previewLength {
		t.Errorf("expected %d runes, got %d", previewLength, len([]rune(got)))
	}

	// Multibyte input truncates on rune boundaries.
	jp := strings.Repeat("あ", 50)
	if got := safePreview(jp); len([]rune(got)) != previewLength {
		t.Errorf("expected %d runes for multibyte input, got %d", previewLength, len([]rune(got)))
	}
}

func TestSafePreviewMasks(t *testing.T) {
	if got := safePreview("user@example.com"); !strings.Contains(got, "[EMAIL]") {
		t.Errorf("expected masked email, got %q", got)
	}
}
