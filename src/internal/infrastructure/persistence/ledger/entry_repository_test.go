package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
)

// ===========================
// LedgerEntryRepository Integration Tests
// ===========================

// appendCreditEntry 追加一筆入帳條目
func appendCreditEntry(
	t *testing.T,
	repo ledger.LedgerEntryRepository,
	customerID ledger.CustomerID,
	lotID ledger.LotID,
	amount int,
) *ledger.LedgerEntry {
	t.Helper()

	points, err := ledger.NewPositivePointsAmount(amount)
	require.NoError(t, err)

	entry, err := ledger.NewCreditEntry(customerID, lotID, points, ledger.ReasonOrderEarn, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Append(nil, entry))

	return entry
}

// Test 1: Append and read back a credit entry
func TestLedgerEntryRepository_AppendAndFind(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewLedgerEntryRepository(db)
	customerID := ledger.NewCustomerID()
	lotID := ledger.NewLotID()
	orderID := "order-001"

	points, err := ledger.NewPositivePointsAmount(100)
	require.NoError(t, err)
	entry, err := ledger.NewCreditEntry(customerID, lotID, points, ledger.ReasonOrderEarn, &orderID)
	require.NoError(t, err)

	// Act
	err = repo.Append(nil, entry)

	// Assert
	require.NoError(t, err)

	entries, err := repo.FindByCustomer(nil, customerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.EntryID().String(), entries[0].EntryID().String())
	assert.Equal(t, 100, entries[0].Delta())
	assert.Equal(t, ledger.ReasonOrderEarn, entries[0].Reason())
	require.NotNil(t, entries[0].RelatedOrderID())
	assert.Equal(t, orderID, *entries[0].RelatedOrderID())
}

// Test 2: Entries come back in append order
func TestLedgerEntryRepository_FindByCustomer_Ordered(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewLedgerEntryRepository(db)
	customerID := ledger.NewCustomerID()
	lotID := ledger.NewLotID()

	first := appendCreditEntry(t, repo, customerID, lotID, 100)

	spendAmount, err := ledger.NewPositivePointsAmount(30)
	require.NoError(t, err)
	redemptionID := "redemption-001"
	second, err := ledger.NewSpendEntry(customerID, lotID, spendAmount, &redemptionID)
	require.NoError(t, err)
	require.NoError(t, repo.Append(nil, second))

	// Act
	entries, err := repo.FindByCustomer(nil, customerID)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.EntryID().String(), entries[0].EntryID().String())
	assert.Equal(t, second.EntryID().String(), entries[1].EntryID().String())
	assert.Equal(t, -30, entries[1].Delta())
	require.NotNil(t, entries[1].RelatedRedemptionID())
	assert.Equal(t, redemptionID, *entries[1].RelatedRedemptionID())
}

// Test 3: Delta sum nets credits against spends
func TestLedgerEntryRepository_SumDeltaByCustomer(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewLedgerEntryRepository(db)
	customerID := ledger.NewCustomerID()
	lotID := ledger.NewLotID()

	appendCreditEntry(t, repo, customerID, lotID, 100)

	spendAmount, err := ledger.NewPositivePointsAmount(40)
	require.NoError(t, err)
	spend, err := ledger.NewSpendEntry(customerID, lotID, spendAmount, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Append(nil, spend))

	// Act
	total, err := repo.SumDeltaByCustomer(nil, customerID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 60, total)
}

// Test 4: Sum over a customer with no entries is zero
func TestLedgerEntryRepository_SumDelta_Empty(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewLedgerEntryRepository(db)

	// Act
	total, err := repo.SumDeltaByCustomer(nil, ledger.NewCustomerID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
