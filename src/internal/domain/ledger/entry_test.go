package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// LedgerEntry Tests
// ===========================

// Test 1: Credit entries carry positive delta
func TestNewCreditEntry_PositiveDelta(t *testing.T) {
	customerID := NewCustomerID()
	lotID := NewLotID()
	orderID := "order-42"

	entry, err := NewCreditEntry(customerID, lotID, amountOf(t, 80), ReasonOrderEarn, &orderID)

	require.NoError(t, err)
	assert.Equal(t, 80, entry.Delta())
	assert.True(t, entry.IsCredit())
	assert.Equal(t, ReasonOrderEarn, entry.Reason())
	require.NotNil(t, entry.LotID())
	assert.True(t, entry.LotID().Equals(lotID))
	assert.Equal(t, &orderID, entry.RelatedOrderID())
}

// Test 2: Spend entries carry negative delta and the redemption link
func TestNewSpendEntry_NegativeDelta(t *testing.T) {
	redemptionID := "redemption-1"

	entry, err := NewSpendEntry(NewCustomerID(), NewLotID(), amountOf(t, 30), &redemptionID)

	require.NoError(t, err)
	assert.Equal(t, -30, entry.Delta())
	assert.False(t, entry.IsCredit())
	assert.Equal(t, ReasonRedemptionSpend, entry.Reason())
	assert.Equal(t, &redemptionID, entry.RelatedRedemptionID())
}

// Test 3: Expiration entries carry negative delta
func TestNewExpireEntry_NegativeDelta(t *testing.T) {
	entry, err := NewExpireEntry(NewCustomerID(), NewLotID(), amountOf(t, 45))

	require.NoError(t, err)
	assert.Equal(t, -45, entry.Delta())
	assert.Equal(t, ReasonExpiration, entry.Reason())
}
