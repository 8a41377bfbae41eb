package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "Patel", SanitizeString("  Patel  ", 10))
	assert.Equal(t, "તપેલ", SanitizeString("તપેલી", 4))
	assert.Equal(t, "unbounded", SanitizeString(" unbounded ", 0))
}

func TestSanitizeStringNormalisesAndStripsControls(t *testing.T) {
	decomposed := "Cafe\u0301"
	assert.Equal(t, "Caf\u00e9", SanitizeString(decomposed, 0))
	assert.Equal(t, "Ravi\nShah", SanitizeString("Ravi\x00\nShah\x07", 0))
	assert.Equal(t, "ab", SanitizeString("ab cd", 3))
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"9876543210", "+91 98765 43210", "079-2658-1234"} {
		assert.True(t, ValidPhone(ok), ok)
	}
	for _, bad := range []string{"", "12345", "98765x43210", "+91 98765 43210 12345", "-9876543210"} {
		assert.False(t, ValidPhone(bad), bad)
	}
}
