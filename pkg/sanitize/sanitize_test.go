package sanitize

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"english unchanged", "Hello, World!", "Hello, World!"},
		{"japanese unchanged", "こんにちは、世界！", "こんにちは、世界！"},
		{"symbols removed", "Hello ✨ World 🌍", "Hello  World "},
		{"code preserved", "function foo() { return 42; }", "function foo() { return 42; }"},
		{"url preserved", "see https://example.com/path?q=1", "see https://example.com/path?q=1"},
		{"mixed", "価格は¥500です", "価格は500です"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"こんにちは、世界！",
		"Hello ✨ World 🌍",
		"Card: 1234‮5678",
		"tabs\tand\nnewlines",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
