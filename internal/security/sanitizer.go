package security

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy = bluemonday.StrictPolicy()
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

const maxTextLength = 2000

// SanitizeText strips HTML and control bytes from user-supplied text.
// Applied to message bodies and free-text profile fields before they
// reach the database.
func SanitizeText(input string) string {
	input = htmlPolicy.Sanitize(input)
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > maxTextLength {
		input = input[:maxTextLength]
	}

	return input
}

// ValidPhone accepts digits with an optional leading plus, separators removed.
func ValidPhone(phone string) bool {
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, " ", "")
	return phoneRegex.MatchString(phone)
}

// ValidImageName checks the extension against the allowed image types.
func ValidImageName(filename string) bool {
	filename = strings.ToLower(filename)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
