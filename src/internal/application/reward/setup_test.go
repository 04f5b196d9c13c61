package reward

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	applledger "github.com/jackyeh168/loyalty_engine/src/internal/application/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence"
	custpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/customer"
	ledgerpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/ledger"
	rewardpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/reward"
	settingspersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/settings"
)

// ===========================
// 兌換 Use Case 整合測試環境
// ===========================
//
// 兌換的核心保證（扣分與發券同生共死、並發安全的 maxUses）
// 依賴真實事務語意，用 in-memory SQLite 驗證。

// testEnv 兌換整合測試環境
type testEnv struct {
	customerRepo   customer.CustomerRepository
	lotRepo        ledger.PointLotRepository
	entryRepo      ledger.LedgerEntryRepository
	rewardRepo     reward.RewardRepository
	redemptionRepo reward.RedemptionRepository

	grantPoints      *applledger.GrantPointsUseCase
	redeemReward     *RedeemRewardUseCase
	applyCoupon      *ApplyCouponUseCase
	cancelRedemption *CancelRedemptionUseCase
}

// newTestEnv 建立完整的兌換測試環境（含預設設定）
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := persistence.SetupTestDB(t)
	t.Cleanup(cleanup)

	return newTestEnvWithDB(t, db)
}

// newTestEnvWithDB 在指定資料庫上組裝測試環境（併發測試傳入檔案型 DB）
func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	env := &testEnv{
		customerRepo:   custpersistence.NewCustomerRepository(db),
		lotRepo:        ledgerpersistence.NewPointLotRepository(db),
		entryRepo:      ledgerpersistence.NewLedgerEntryRepository(db),
		rewardRepo:     rewardpersistence.NewRewardRepository(db),
		redemptionRepo: rewardpersistence.NewRedemptionRepository(db),
	}

	settingsRepo := settingspersistence.NewSettingsRepository(db)
	txManager := persistence.NewGORMTransactionManager(db)

	env.grantPoints = applledger.NewGrantPointsUseCase(
		env.customerRepo, env.lotRepo, env.entryRepo, settingsRepo, txManager,
	)
	spendPoints := applledger.NewSpendPointsUseCase(
		env.customerRepo, env.lotRepo, env.entryRepo, txManager,
	)
	env.redeemReward = NewRedeemRewardUseCase(
		env.rewardRepo, env.redemptionRepo, settingsRepo, spendPoints, txManager,
	)
	env.applyCoupon = NewApplyCouponUseCase(env.rewardRepo, env.redemptionRepo, txManager)
	env.cancelRedemption = NewCancelRedemptionUseCase(env.redemptionRepo, txManager)

	require.NoError(t, settingsRepo.Save(nil, settings.DefaultSettings()))

	return env
}

// createCustomerWithBalance 建檔顧客並入帳指定餘額
func (env *testEnv) createCustomerWithBalance(t *testing.T, balance int) *customer.Customer {
	t.Helper()

	customerID := customer.NewCustomerID()
	email, err := customer.NewEmail(fmt.Sprintf("user-%s@example.com", customerID.String()[:8]))
	require.NoError(t, err)

	cust, err := customer.NewCustomer(customerID, email, customer.GenerateReferralCode())
	require.NoError(t, err)
	require.NoError(t, env.customerRepo.Save(nil, cust))

	if balance > 0 {
		_, err = env.grantPoints.Execute(applledger.GrantPointsCommand{
			CustomerID: customerID.String(),
			Amount:     balance,
			SourceType: ledger.SourceEarn,
		})
		require.NoError(t, err)
	}

	return cust
}

// createReward 建立並保存一個上架獎勵
func (env *testEnv) createReward(t *testing.T, pointsCost int, maxUses *int) *reward.Reward {
	t.Helper()

	rw, err := reward.NewReward(
		"折價券",
		reward.RewardDiscount,
		decimal.NewFromInt(100),
		pointsCost,
		nil,
		maxUses,
	)
	require.NoError(t, err)
	require.NoError(t, env.rewardRepo.Save(nil, rw))

	return rw
}

// createPendingRedemption 直接保存一筆 PENDING 兌換（逾期情境用）
func (env *testEnv) createPendingRedemption(t *testing.T, expiresAt time.Time) *reward.Redemption {
	t.Helper()

	redemption, err := reward.NewRedemption(
		reward.NewCustomerID(),
		reward.NewRewardID(),
		500,
		reward.GenerateCouponCode(),
		expiresAt,
	)
	require.NoError(t, err)
	require.NoError(t, env.redemptionRepo.Save(nil, redemption))

	return redemption
}
