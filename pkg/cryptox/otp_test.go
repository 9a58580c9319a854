package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTPIsSixDigits(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 200 {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.True(t, IsOTPFormat(code), code)
		seen[code] = struct{}{}
	}
	// 200 draws from a million values should almost never collide much.
	require.Greater(t, len(seen), 190)
}

func TestIsOTPFormat(t *testing.T) {
	t.Parallel()

	require.True(t, IsOTPFormat("000123"))
	require.False(t, IsOTPFormat("12345"))
	require.False(t, IsOTPFormat("1234567"))
	require.False(t, IsOTPFormat("12a456"))
	require.False(t, IsOTPFormat(""))
}
