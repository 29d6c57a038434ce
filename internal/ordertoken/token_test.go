package ordertoken

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPickupToken(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token := NewPickupToken()

		require.True(t, strings.HasPrefix(token, "PU-"))
		require.Len(t, token, len("PU-")+pickupTokenLength)

		for _, r := range token[3:] {
			require.Contains(t, alphabet, string(r))
		}

		require.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestNewDeliveryCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NewDeliveryCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}
