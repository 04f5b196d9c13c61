package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
)

// ===========================
// RedemptionRepository Integration Tests
// ===========================

// setupTestDB 創建測試資料庫（in-memory SQLite）
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")

	err = db.AutoMigrate(&RewardGORM{}, &RedemptionGORM{})
	require.NoError(t, err, "failed to migrate database schema")

	return db
}

// newTestRedemption 創建測試用兌換記錄
func newTestRedemption(t *testing.T, expiresAt time.Time) *reward.Redemption {
	t.Helper()

	redemption, err := reward.NewRedemption(
		reward.NewCustomerID(),
		reward.NewRewardID(),
		500,
		reward.GenerateCouponCode(),
		expiresAt,
	)
	require.NoError(t, err)

	return redemption
}

// Test 1: Save and find a redemption round-trips all fields
func TestRedemptionRepository_SaveAndFindByID(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)
	expiresAt := time.Now().AddDate(0, 0, 30).Truncate(time.Second)
	redemption := newTestRedemption(t, expiresAt)

	// Act
	err := repo.Save(nil, redemption)

	// Assert
	require.NoError(t, err)

	found, err := repo.FindByID(nil, redemption.RedemptionID())
	require.NoError(t, err)
	assert.Equal(t, redemption.RedemptionID().String(), found.RedemptionID().String())
	assert.Equal(t, redemption.CustomerID().String(), found.CustomerID().String())
	assert.Equal(t, redemption.RewardID().String(), found.RewardID().String())
	assert.Equal(t, 500, found.PointsSpent())
	assert.Equal(t, redemption.CouponCode().Value(), found.CouponCode().Value())
	assert.Equal(t, reward.StatusPending, found.Status())
}

// Test 2: FindByID returns ErrRedemptionNotFound for unknown ID
func TestRedemptionRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)

	// Act
	_, err := repo.FindByID(nil, reward.NewRedemptionID())

	// Assert
	assert.ErrorIs(t, err, reward.ErrRedemptionNotFound)
}

// Test 3: Duplicate coupon code maps to ErrCouponCodeTaken
//
// 調用者收到此錯誤後重新生成代碼重試。
func TestRedemptionRepository_Save_DuplicateCouponCode(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)
	expiresAt := time.Now().AddDate(0, 0, 30)
	first := newTestRedemption(t, expiresAt)
	require.NoError(t, repo.Save(nil, first))

	clash, err := reward.NewRedemption(
		reward.NewCustomerID(),
		reward.NewRewardID(),
		300,
		first.CouponCode(),
		expiresAt,
	)
	require.NoError(t, err)

	// Act
	err = repo.Save(nil, clash)

	// Assert
	assert.ErrorIs(t, err, reward.ErrCouponCodeTaken)
}

// Test 4: Coupon lookup resolves the redemption
func TestRedemptionRepository_FindByCouponCode(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)
	redemption := newTestRedemption(t, time.Now().AddDate(0, 0, 30))
	require.NoError(t, repo.Save(nil, redemption))

	// Act
	found, err := repo.FindByCouponCode(nil, redemption.CouponCode())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, redemption.RedemptionID().String(), found.RedemptionID().String())

	// 未知代碼
	_, err = repo.FindByCouponCode(nil, reward.GenerateCouponCode())
	assert.ErrorIs(t, err, reward.ErrRedemptionNotFound)
}

// Test 5: Overdue pending query skips future and terminal redemptions
func TestRedemptionRepository_FindOverduePending(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)
	now := time.Now()

	overdue := newTestRedemption(t, now.Add(-time.Hour))
	future := newTestRedemption(t, now.AddDate(0, 0, 30))
	used := newTestRedemption(t, now.Add(-time.Hour))

	require.NoError(t, repo.Save(nil, overdue))
	require.NoError(t, repo.Save(nil, future))
	require.NoError(t, repo.Save(nil, used))

	// used 在逾期前已核銷
	require.NoError(t, used.MarkUsed(now.Add(-2*time.Hour)))
	require.NoError(t, repo.Update(nil, used))

	// Act
	redemptions, err := repo.FindOverduePending(nil, now)

	// Assert
	require.NoError(t, err)
	require.Len(t, redemptions, 1)
	assert.Equal(t, overdue.RedemptionID().String(), redemptions[0].RedemptionID().String())
}

// Test 6: Status transitions survive a round trip
func TestRedemptionRepository_Update_PersistsStatus(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)
	redemption := newTestRedemption(t, time.Now().AddDate(0, 0, 30))
	require.NoError(t, repo.Save(nil, redemption))

	require.NoError(t, redemption.MarkUsed(time.Now()))

	// Act
	err := repo.Update(nil, redemption)

	// Assert
	require.NoError(t, err)

	found, err := repo.FindByID(nil, redemption.RedemptionID())
	require.NoError(t, err)
	assert.Equal(t, reward.StatusUsed, found.Status())

	// 終態不可再轉移
	assert.ErrorIs(t, found.Cancel(), reward.ErrInvalidTransition)
}

// Test 7: Customer history comes back newest first
func TestRedemptionRepository_FindByCustomer(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRedemptionRepository(db)
	customerID := reward.NewCustomerID()
	expiresAt := time.Now().AddDate(0, 0, 30)

	first, err := reward.NewRedemption(customerID, reward.NewRewardID(), 100, reward.GenerateCouponCode(), expiresAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, first))

	second, err := reward.NewRedemption(customerID, reward.NewRewardID(), 200, reward.GenerateCouponCode(), expiresAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, second))

	// 其他顧客的記錄不應出現
	require.NoError(t, repo.Save(nil, newTestRedemption(t, expiresAt)))

	// Act
	history, err := repo.FindByCustomer(nil, customerID)

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.RedemptionID().String(), history[0].RedemptionID().String())
	assert.Equal(t, first.RedemptionID().String(), history[1].RedemptionID().String())
}
