package customer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// Email Value Object Tests
// ===========================

// Test 1: Email is normalized to lowercase
func TestNewEmail_NormalizesCase(t *testing.T) {
	email, err := NewEmail("Alice@Example.COM")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email.Value())
}

// Test 2: Missing @ rejected
func TestNewEmail_Invalid_ReturnsError(t *testing.T) {
	for _, input := range []string{"", "alice", "alice.example.com", "@example.com", "alice@"} {
		_, err := NewEmail(input)
		assert.ErrorIs(t, err, ErrInvalidEmail, "input=%q", input)
	}
}

// ===========================
// ReferralCode Value Object Tests
// ===========================

// Test 3: Generated codes carry the REF- prefix
func TestGenerateReferralCode_Format(t *testing.T) {
	code := GenerateReferralCode()

	assert.True(t, strings.HasPrefix(code.Value(), "REF-"))
	assert.Len(t, code.Value(), len("REF-")+8)
	assert.Equal(t, strings.ToUpper(code.Value()), code.Value())
}

// Test 4: Generated codes are unique
func TestGenerateReferralCode_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateReferralCode()
		assert.False(t, seen[code.Value()], "duplicate code %s", code.Value())
		seen[code.Value()] = true
	}
}

// Test 5: Parsing round-trips a generated code
func TestReferralCodeFromString_RoundTrip(t *testing.T) {
	code := GenerateReferralCode()

	parsed, err := ReferralCodeFromString(code.Value())

	require.NoError(t, err)
	assert.True(t, parsed.Equals(code))
}

// Test 6: Malformed codes rejected
func TestReferralCodeFromString_Invalid_ReturnsError(t *testing.T) {
	for _, input := range []string{"", "ABC-12345678", "REF-"} {
		_, err := ReferralCodeFromString(input)
		assert.ErrorIs(t, err, ErrInvalidReferralCode, "input=%q", input)
	}
}
