package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// Tier Derivation Tests
// ===========================

func defaultThresholds(t *testing.T) TierThresholds {
	t.Helper()
	thresholds, err := NewTierThresholds(300, 1000, 5000)
	require.NoError(t, err)
	return thresholds
}

// Test 1: Tier boundaries are inclusive
func TestDeriveTier_Boundaries(t *testing.T) {
	thresholds := defaultThresholds(t)

	cases := []struct {
		lifetimePoints int
		expected       Tier
	}{
		{0, TierBronze},
		{299, TierBronze},
		{300, TierSilver},
		{999, TierSilver},
		{1000, TierGold},
		{4999, TierGold},
		{5000, TierPlatinum},
		{100000, TierPlatinum},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, DeriveTier(tc.lifetimePoints, thresholds),
			"lifetime=%d", tc.lifetimePoints)
	}
}

// Test 2: Thresholds must be strictly ascending
func TestNewTierThresholds_NotAscending_ReturnsError(t *testing.T) {
	_, err := NewTierThresholds(1000, 300, 5000)
	assert.ErrorIs(t, err, ErrInvalidThresholds)

	_, err = NewTierThresholds(300, 300, 5000)
	assert.ErrorIs(t, err, ErrInvalidThresholds)
}

// Test 3: Negative silver threshold rejected
func TestNewTierThresholds_Negative_ReturnsError(t *testing.T) {
	_, err := NewTierThresholds(-1, 1000, 5000)

	assert.ErrorIs(t, err, ErrInvalidThresholds)
}
