package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
)

// ===========================
// GetBalanceUseCase Tests
// ===========================

// Test 1: Snapshot carries balance, lifetime, tier and referral info
func TestGetBalance_Snapshot(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	cust := env.createTestCustomer(t)
	customerID := cust.CustomerID().String()
	grantLot(t, env, customerID, 400, nil)

	_, err := env.spendPoints.Execute(SpendPointsCommand{
		CustomerID: customerID,
		Amount:     100,
	})
	require.NoError(t, err)

	// Act
	result, err := env.getBalance.Execute(GetBalanceQuery{CustomerID: customerID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, customerID, result.CustomerID)
	assert.Equal(t, 300, result.CurrentBalance)
	assert.Equal(t, 400, result.LifetimePoints)
	assert.Equal(t, string(customer.TierSilver), result.Tier)
	assert.Equal(t, cust.ReferralCode().Value(), result.ReferralCode)
	assert.Equal(t, 0, result.ReferralCount)
}

// Test 2: Expiring-soon only counts lots inside the window
func TestGetBalance_ExpiringSoonWindow(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	cust := env.createTestCustomer(t)
	customerID := cust.CustomerID().String()

	inWindow := time.Now().AddDate(0, 0, 10)
	outOfWindow := time.Now().AddDate(0, 0, 90)
	grantLot(t, env, customerID, 80, &inWindow)
	grantLot(t, env, customerID, 40, &outOfWindow)
	grantLot(t, env, customerID, 20, nil)

	// Act: 預設 30 天視窗
	result, err := env.getBalance.Execute(GetBalanceQuery{CustomerID: customerID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 140, result.CurrentBalance)
	assert.Equal(t, 80, result.PointsExpiringSoon)

	// 放大視窗到 120 天
	wide, err := env.getBalance.Execute(GetBalanceQuery{
		CustomerID: customerID,
		WindowDays: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, wide.PointsExpiringSoon)
}

// Test 3: Unknown customer returns ErrCustomerNotFound
func TestGetBalance_UnknownCustomer(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act
	_, err := env.getBalance.Execute(GetBalanceQuery{
		CustomerID: customer.NewCustomerID().String(),
	})

	// Assert
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}
