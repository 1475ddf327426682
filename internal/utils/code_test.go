package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexCode = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestNewRedemptionCodeFormat(t *testing.T) {
	code, err := NewRedemptionCode()
	require.NoError(t, err)
	assert.Regexp(t, hexCode, code)
}

func TestNewRedemptionCodeUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := NewRedemptionCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}
