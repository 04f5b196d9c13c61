package referral

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applledger "github.com/jackyeh168/loyalty_engine/src/internal/application/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence"
	custpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/customer"
	ledgerpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/ledger"
	settingspersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/settings"
)

// ===========================
// ApplyReferralUseCase Integration Tests
// ===========================

// testEnv 推薦測試環境
type testEnv struct {
	customerRepo  customer.CustomerRepository
	lotRepo       ledger.PointLotRepository
	entryRepo     ledger.LedgerEntryRepository
	applyReferral *ApplyReferralUseCase
}

// newTestEnv 建立推薦測試環境（含預設設定：推薦人 100 / 被推薦 50）
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := persistence.SetupTestDB(t)
	t.Cleanup(cleanup)

	env := &testEnv{
		customerRepo: custpersistence.NewCustomerRepository(db),
		lotRepo:      ledgerpersistence.NewPointLotRepository(db),
		entryRepo:    ledgerpersistence.NewLedgerEntryRepository(db),
	}

	settingsRepo := settingspersistence.NewSettingsRepository(db)
	txManager := persistence.NewGORMTransactionManager(db)
	grantPoints := applledger.NewGrantPointsUseCase(
		env.customerRepo, env.lotRepo, env.entryRepo, settingsRepo, txManager,
	)
	env.applyReferral = NewApplyReferralUseCase(
		env.customerRepo, settingsRepo, grantPoints, txManager,
	)

	require.NoError(t, settingsRepo.Save(nil, settings.DefaultSettings()))

	return env
}

// createTestCustomer 建檔並保存測試用顧客
func (env *testEnv) createTestCustomer(t *testing.T) *customer.Customer {
	t.Helper()

	customerID := customer.NewCustomerID()
	email, err := customer.NewEmail(fmt.Sprintf("user-%s@example.com", customerID.String()[:8]))
	require.NoError(t, err)

	cust, err := customer.NewCustomer(customerID, email, customer.GenerateReferralCode())
	require.NoError(t, err)
	require.NoError(t, env.customerRepo.Save(nil, cust))

	return cust
}

// Test 1: Referral credits both sides and links the customers
func TestApplyReferral_CreditsBothSides(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	referrer := env.createTestCustomer(t)
	newbie := env.createTestCustomer(t)

	// Act
	result, err := env.applyReferral.Execute(ApplyReferralCommand{
		CustomerID:   newbie.CustomerID().String(),
		ReferralCode: referrer.ReferralCode().Value(),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, referrer.CustomerID().String(), result.ReferrerID)
	assert.Equal(t, 100, result.BonusToReferrer)
	assert.Equal(t, 50, result.BonusToCustomer)

	// 推薦人側：獎勵入帳 + 計數遞增，獎勵計入終身積分
	foundReferrer, err := env.customerRepo.FindByID(nil, referrer.CustomerID())
	require.NoError(t, err)
	assert.Equal(t, 100, foundReferrer.CurrentBalance())
	assert.Equal(t, 100, foundReferrer.LifetimePoints())
	assert.Equal(t, 1, foundReferrer.ReferralCount())

	// 新顧客側：獎勵入帳 + 推薦關係鎖定
	foundNewbie, err := env.customerRepo.FindByID(nil, newbie.CustomerID())
	require.NoError(t, err)
	assert.Equal(t, 50, foundNewbie.CurrentBalance())
	assert.Equal(t, 50, foundNewbie.LifetimePoints())
	require.NotNil(t, foundNewbie.ReferredBy())
	assert.Equal(t, referrer.CustomerID().String(), foundNewbie.ReferredBy().String())

	// 兩側條目的 reason 各自標示推薦來源
	newbieLedgerID, err := ledger.CustomerIDFromString(newbie.CustomerID().String())
	require.NoError(t, err)
	entries, err := env.entryRepo.FindByCustomer(nil, newbieLedgerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.ReasonReferredBonus, entries[0].Reason())

	referrerLedgerID, err := ledger.CustomerIDFromString(referrer.CustomerID().String())
	require.NoError(t, err)
	referrerEntries, err := env.entryRepo.FindByCustomer(nil, referrerLedgerID)
	require.NoError(t, err)
	require.Len(t, referrerEntries, 1)
	assert.Equal(t, ledger.ReasonReferralBonus, referrerEntries[0].Reason())
}

// Test 2: A customer can only be referred once
func TestApplyReferral_AlreadyReferred(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	referrerA := env.createTestCustomer(t)
	referrerB := env.createTestCustomer(t)
	newbie := env.createTestCustomer(t)

	_, err := env.applyReferral.Execute(ApplyReferralCommand{
		CustomerID:   newbie.CustomerID().String(),
		ReferralCode: referrerA.ReferralCode().Value(),
	})
	require.NoError(t, err)

	// Act: 換另一位推薦人也不行
	_, err = env.applyReferral.Execute(ApplyReferralCommand{
		CustomerID:   newbie.CustomerID().String(),
		ReferralCode: referrerB.ReferralCode().Value(),
	})

	// Assert
	require.ErrorIs(t, err, customer.ErrAlreadyReferred)

	// 第二位推薦人沒有任何獎勵
	foundB, err := env.customerRepo.FindByID(nil, referrerB.CustomerID())
	require.NoError(t, err)
	assert.Equal(t, 0, foundB.CurrentBalance())
	assert.Equal(t, 0, foundB.ReferralCount())
}

// Test 3: Self-referral is rejected
func TestApplyReferral_SelfReferral(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	cust := env.createTestCustomer(t)

	// Act
	_, err := env.applyReferral.Execute(ApplyReferralCommand{
		CustomerID:   cust.CustomerID().String(),
		ReferralCode: cust.ReferralCode().Value(),
	})

	// Assert
	require.ErrorIs(t, err, customer.ErrSelfReferral)

	// 自薦失敗不留下任何入帳
	found, err := env.customerRepo.FindByID(nil, cust.CustomerID())
	require.NoError(t, err)
	assert.Equal(t, 0, found.CurrentBalance())
}

// Test 4: Unknown referral code returns ErrInvalidReferralCode
func TestApplyReferral_UnknownCode(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	newbie := env.createTestCustomer(t)

	// Act
	_, err := env.applyReferral.Execute(ApplyReferralCommand{
		CustomerID:   newbie.CustomerID().String(),
		ReferralCode: customer.GenerateReferralCode().Value(),
	})

	// Assert
	assert.ErrorIs(t, err, customer.ErrInvalidReferralCode)
}

// Test 5: Referral bonuses can push the referrer over a tier threshold
func TestApplyReferral_BonusCountsTowardTier(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	referrer := env.createTestCustomer(t)

	// 三位新顧客接連使用推薦碼（3 × 100 = 300 → SILVER）
	for i := 0; i < 3; i++ {
		newbie := env.createTestCustomer(t)
		_, err := env.applyReferral.Execute(ApplyReferralCommand{
			CustomerID:   newbie.CustomerID().String(),
			ReferralCode: referrer.ReferralCode().Value(),
		})
		require.NoError(t, err)
	}

	// Assert
	found, err := env.customerRepo.FindByID(nil, referrer.CustomerID())
	require.NoError(t, err)
	assert.Equal(t, 300, found.LifetimePoints())
	assert.Equal(t, customer.TierSilver, found.Tier())
	assert.Equal(t, 3, found.ReferralCount())
}
