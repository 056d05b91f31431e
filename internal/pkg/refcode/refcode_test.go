package refcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	code := New()
	assert.Len(t, code, Length)
	for _, r := range code {
		ok := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
		assert.True(t, ok, "unexpected character %q in ref code %s", r, code)
	}
}

func TestNewUniquenessSample(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := New()
		assert.False(t, seen[code], "duplicate ref code %s", code)
		seen[code] = true
	}
}
