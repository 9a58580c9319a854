package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		missing  []Requirement
	}{
		{"valid", "Abcd123!", nil},
		{"valid with every symbol class", `Zz9"{}|<>`, nil},
		{"too short", "Ab1!", []Requirement{RequireLength}},
		{"no uppercase", "abcd123!", []Requirement{RequireUpper}},
		{"no lowercase", "ABCD123!", []Requirement{RequireLower}},
		{"no digit", "Abcdefg!", []Requirement{RequireDigit}},
		{"no symbol", "Abcd1234", []Requirement{RequireSymbol}},
		{"symbol outside set", "Abcd123-", []Requirement{RequireSymbol}},
		{"empty", "", []Requirement{RequireLength, RequireUpper, RequireLower, RequireDigit, RequireSymbol}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.missing, ValidatePasswordStrength(tt.password))
		})
	}
}

func TestDescribeRequirements(t *testing.T) {
	t.Parallel()

	require.Empty(t, DescribeRequirements(nil))
	msg := DescribeRequirements([]Requirement{RequireUpper, RequireSymbol})
	require.Equal(t, "Password must contain an uppercase letter, a special character", msg)
}

func TestGenerateStrongPasswordAlwaysValidates(t *testing.T) {
	t.Parallel()

	for i := range 1000 {
		length := 4 + i%20
		pw, err := GenerateStrongPassword(length)
		require.NoError(t, err)
		require.Len(t, pw, max(length, MinPasswordLength))
		require.Empty(t, ValidatePasswordStrength(pw), pw)
	}
}

func TestGenerateStrongPasswordUsesAlphabetOnly(t *testing.T) {
	t.Parallel()

	alphabet := upperChars + lowerChars + digitChars + PasswordSymbols
	pw, err := GenerateStrongPassword(64)
	require.NoError(t, err)
	for _, r := range pw {
		require.True(t, strings.ContainsRune(alphabet, r), string(r))
	}
}
