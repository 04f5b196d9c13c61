package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
)

// ===========================
// SettingsRepository Integration Tests
// ===========================

// setupTestDB 創建測試資料庫（in-memory SQLite）
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")

	err = db.AutoMigrate(&LoyaltySettingsGORM{})
	require.NoError(t, err, "failed to migrate database schema")

	return db
}

// Test 1: Load before seeding returns ErrSettingsNotFound
func TestSettingsRepository_Load_NotSeeded(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	// Act
	_, err := repo.Load(nil)

	// Assert
	assert.ErrorIs(t, err, settings.ErrSettingsNotFound)
}

// Test 2: Save and load round-trips all fields
func TestSettingsRepository_SaveAndLoad(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	s := settings.DefaultSettings()
	s.PointsPerCurrencyUnit = decimal.NewFromFloat(1.5)
	s.ReferralBonus = 200
	s.PointExpirationDays = 180

	// Act
	err := repo.Save(nil, s)

	// Assert
	require.NoError(t, err)

	loaded, err := repo.Load(nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(loaded.PointsPerCurrencyUnit))
	assert.Equal(t, 200, loaded.ReferralBonus)
	assert.Equal(t, 180, loaded.PointExpirationDays)
	assert.Equal(t, s.SilverThreshold, loaded.SilverThreshold)
	assert.Equal(t, s.GoldThreshold, loaded.GoldThreshold)
	assert.Equal(t, s.PlatinumThreshold, loaded.PlatinumThreshold)
	assert.Equal(t, s.CouponValidityDays, loaded.CouponValidityDays)
}

// Test 3: Saving twice overwrites the singleton row
func TestSettingsRepository_Save_OverwritesSingleton(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	first := settings.DefaultSettings()
	require.NoError(t, repo.Save(nil, first))

	second := settings.DefaultSettings()
	second.ReferredBonus = 75
	require.NoError(t, repo.Save(nil, second))

	// Act
	loaded, err := repo.Load(nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 75, loaded.ReferredBonus)

	// 仍然只有一列
	var count int64
	require.NoError(t, db.Model(&LoyaltySettingsGORM{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// Test 4: Save rejects invalid settings before touching the database
func TestSettingsRepository_Save_RejectsInvalid(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	s := settings.DefaultSettings()
	s.GoldThreshold = s.SilverThreshold

	// Act
	err := repo.Save(nil, s)

	// Assert
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)

	_, err = repo.Load(nil)
	assert.ErrorIs(t, err, settings.ErrSettingsNotFound)
}

// Test 5: Load rejects a corrupted row
//
// 管理端寫壞的設定不得流入帳務流程。
func TestSettingsRepository_Load_RejectsCorruptedRow(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	require.NoError(t, repo.Save(nil, settings.DefaultSettings()))

	// 繞過 Save 的驗證直接破壞資料
	err := db.Model(&LoyaltySettingsGORM{}).
		Where("id = ?", singletonRowID).
		Update("referral_bonus", -100).Error
	require.NoError(t, err)

	// Act
	_, err = repo.Load(nil)

	// Assert
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)
}
