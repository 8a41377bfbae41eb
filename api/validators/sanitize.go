package validators

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeString NFC-normalises free text, drops control characters, trims
// it and cuts it to maxLen runes (0 means no cap). Gujarati input typed on
// different keyboards then compares and searches consistently.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, norm.NFC.String(input))
	cleaned = strings.TrimSpace(cleaned)

	if maxLen > 0 {
		if runes := []rune(cleaned); len(runes) > maxLen {
			cleaned = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return cleaned
}

// SanitizeOptional applies SanitizeString to an optional field in place.
func SanitizeOptional(field *string, maxLen int) {
	if field != nil {
		*field = SanitizeString(*field, maxLen)
	}
}
