package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

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
// 帳務 Use Case 整合測試環境
// ===========================
//
// 帳務行為（FIFO 配置、事務回滾、清掃冪等）依賴真實 SQL
// 語意，這裡用 in-memory SQLite 與真實 Repository 驗證，
// 不用 Mock。

// testEnv 帳務整合測試環境
type testEnv struct {
	db             *gorm.DB
	customerRepo   customer.CustomerRepository
	lotRepo        ledger.PointLotRepository
	entryRepo      ledger.LedgerEntryRepository
	settingsRepo   settings.SettingsRepository
	redemptionRepo reward.RedemptionRepository

	grantPoints   *GrantPointsUseCase
	spendPoints   *SpendPointsUseCase
	earnFromOrder *EarnFromOrderUseCase
	getBalance    *GetBalanceUseCase
	expirePoints  *ExpirePointsUseCase
}

// newTestEnv 建立完整的帳務測試環境（含預設設定）
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := persistence.SetupTestDB(t)
	t.Cleanup(cleanup)

	env := &testEnv{
		db:             db,
		customerRepo:   custpersistence.NewCustomerRepository(db),
		lotRepo:        ledgerpersistence.NewPointLotRepository(db),
		entryRepo:      ledgerpersistence.NewLedgerEntryRepository(db),
		settingsRepo:   settingspersistence.NewSettingsRepository(db),
		redemptionRepo: rewardpersistence.NewRedemptionRepository(db),
	}

	txManager := persistence.NewGORMTransactionManager(db)

	env.grantPoints = NewGrantPointsUseCase(
		env.customerRepo, env.lotRepo, env.entryRepo, env.settingsRepo, txManager,
	)
	env.spendPoints = NewSpendPointsUseCase(
		env.customerRepo, env.lotRepo, env.entryRepo, txManager,
	)
	env.earnFromOrder = NewEarnFromOrderUseCase(
		env.customerRepo, env.settingsRepo, ledger.NewPointsConversionService(),
		env.grantPoints, txManager,
	)
	env.getBalance = NewGetBalanceUseCase(env.customerRepo, env.lotRepo)
	env.expirePoints = NewExpirePointsUseCase(
		env.customerRepo, env.lotRepo, env.entryRepo, env.redemptionRepo, txManager,
	)

	require.NoError(t, env.settingsRepo.Save(nil, settings.DefaultSettings()))

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

// assertLedgerInvariant 驗證核心不變條件：
// 餘額投影 == Σ批次剩餘 == Σ條目 delta
func (env *testEnv) assertLedgerInvariant(t *testing.T, customerID string) {
	t.Helper()

	custID, err := customer.CustomerIDFromString(customerID)
	require.NoError(t, err)
	ledgerCustID, err := ledger.CustomerIDFromString(customerID)
	require.NoError(t, err)

	cust, err := env.customerRepo.FindByID(nil, custID)
	require.NoError(t, err)

	lotSum, err := env.lotRepo.SumRemainingByCustomer(nil, ledgerCustID)
	require.NoError(t, err)

	deltaSum, err := env.entryRepo.SumDeltaByCustomer(nil, ledgerCustID)
	require.NoError(t, err)

	require.Equal(t, cust.CurrentBalance(), lotSum, "balance must equal sum of lot remainders")
	require.Equal(t, cust.CurrentBalance(), deltaSum, "balance must equal sum of entry deltas")
}
