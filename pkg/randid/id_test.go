package randid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"length 0", 0},
		{"length 1", 1},
		{"length 8", 8},
		{"length 16", 16},
	}

	pattern := regexp.MustCompile(`^[a-z0-9]*$`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Generate(tt.length)

			assert.Len(t, result, tt.length)
			assert.True(t, pattern.MatchString(result), "Generate(%d) = %q, want only [a-z0-9]", tt.length, result)
		})
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	// Statistical check - extremely unlikely to fail with proper randomness.
	seen := make(map[string]bool)
	for range 100 {
		seen[Generate(8)] = true
	}
	assert.GreaterOrEqual(t, len(seen), 90, "Generate produced only %d unique values in 100 calls", len(seen))
}
