package security

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello there", "hello there"},
		{"strips tags", "<script>alert(1)</script>hi", "hi"},
		{"strips markup keeps text", "<b>bold</b> words", "bold words"},
		{"trims whitespace", "  padded  ", "padded"},
		{"removes null bytes", "a\x00b", "ab"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeText_CapsLength(t *testing.T) {
	long := strings.Repeat("a", maxTextLength+50)
	if got := SanitizeText(long); len(got) != maxTextLength {
		t.Errorf("len = %d, want %d", len(got), maxTextLength)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+14155551234", true},
		{"14155551234", true},
		{"415-555-1234", true},
		{"415 555 1234", true},
		{"12345", false},
		{"not-a-phone", false},
		{"+1 (415) 555", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestValidImageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"PHOTO.JPG", true},
		{"avatar.png", true},
		{"anim.gif", true},
		{"pic.webp", true},
		{"payload.exe", false},
		{"script.php", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := ValidImageName(tt.name); got != tt.want {
			t.Errorf("ValidImageName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
