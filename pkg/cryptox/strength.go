package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted anywhere.
const MinPasswordLength = 8

// PasswordSymbols is the punctuation set that satisfies the symbol rule.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

const (
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars = "0123456789"
)

// Requirement is one rule of the password policy. The value is the phrase
// shown to users.
type Requirement string

const (
	RequireLength Requirement = "at least 8 characters"
	RequireUpper  Requirement = "an uppercase letter"
	RequireLower  Requirement = "a lowercase letter"
	RequireDigit  Requirement = "a number"
	RequireSymbol Requirement = "a special character"
)

// ValidatePasswordStrength returns the requirements password fails, in a
// stable order. An empty result means the password is acceptable.
func ValidatePasswordStrength(password string) []Requirement {
	var missing []Requirement

	if utf8.RuneCountInString(password) < MinPasswordLength {
		missing = append(missing, RequireLength)
	}
	if !strings.ContainsAny(password, upperChars) {
		missing = append(missing, RequireUpper)
	}
	if !strings.ContainsAny(password, lowerChars) {
		missing = append(missing, RequireLower)
	}
	if !strings.ContainsAny(password, digitChars) {
		missing = append(missing, RequireDigit)
	}
	if !strings.ContainsAny(password, PasswordSymbols) {
		missing = append(missing, RequireSymbol)
	}

	return missing
}

// DescribeRequirements renders missing requirements as a single sentence.
func DescribeRequirements(missing []Requirement) string {
	if len(missing) == 0 {
		return ""
	}
	parts := make([]string, len(missing))
	for i, m := range missing {
		parts[i] = string(m)
	}
	return "Password must contain " + strings.Join(parts, ", ")
}

// GenerateStrongPassword returns a random password of the given length that
// always passes ValidatePasswordStrength. Lengths below the minimum are
// raised to it.
func GenerateStrongPassword(length int) (string, error) {
	length = max(length, MinPasswordLength)

	classes := []string{upperChars, lowerChars, digitChars, PasswordSymbols}
	alphabet := strings.Join(classes, "")

	out := make([]byte, 0, length)
	for _, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed characters are not always up front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

func pick(chars string) (byte, error) {
	i, err := randIndex(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("cryptox: random index: %w", err)
	}
	return int(v.Int64()), nil
}
