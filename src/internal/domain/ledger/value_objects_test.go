package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// PointsAmount Value Object Tests
// ===========================

// Test 1: Valid non-negative amounts
func TestNewPointsAmount_NonNegative_Success(t *testing.T) {
	for _, value := range []int{0, 1, 100, 1_000_000} {
		amount, err := NewPointsAmount(value)

		require.NoError(t, err)
		assert.Equal(t, value, amount.Value())
	}
}

// Test 2: Negative amount rejected
func TestNewPointsAmount_Negative_ReturnsError(t *testing.T) {
	_, err := NewPointsAmount(-1)

	assert.ErrorIs(t, err, ErrNegativePointsAmount)
}

// Test 3: Positive constructor rejects zero
func TestNewPositivePointsAmount_Zero_ReturnsError(t *testing.T) {
	_, err := NewPositivePointsAmount(0)

	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// Test 4: Subtract cannot go below zero
func TestPointsAmount_Subtract_Underflow_ReturnsError(t *testing.T) {
	a, _ := NewPointsAmount(10)
	b, _ := NewPointsAmount(20)

	_, err := a.Subtract(b)

	assert.Error(t, err)
}

// Test 5: Subtract and Add round-trip
func TestPointsAmount_AddSubtract(t *testing.T) {
	a, _ := NewPointsAmount(100)
	b, _ := NewPointsAmount(30)

	sum := a.Add(b)
	assert.Equal(t, 130, sum.Value())

	diff, err := sum.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(a))
}

// Test 6: Min picks the smaller amount
func TestPointsAmount_Min(t *testing.T) {
	a, _ := NewPointsAmount(50)
	b, _ := NewPointsAmount(120)

	assert.Equal(t, 50, a.Min(b).Value())
	assert.Equal(t, 50, b.Min(a).Value())
}

// Test 7: Comparison helpers
func TestPointsAmount_Comparisons(t *testing.T) {
	a, _ := NewPointsAmount(10)
	b, _ := NewPointsAmount(25)
	zero, _ := NewPointsAmount(0)

	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThan(b))
	assert.True(t, zero.IsZero())
	assert.False(t, a.IsZero())
}
