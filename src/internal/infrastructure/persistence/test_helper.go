package persistence

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	custpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/customer"
	ledgerpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/ledger"
	rewardpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/reward"
	settingspersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/settings"
)

// ===========================
// 測試輔助函數
// ===========================

// SetupTestDB 創建測試用的 SQLite in-memory 資料庫
//
// 每個測試使用獨立的 in-memory DB，用真實 SQL 引擎
// 驗證 Repository 行為而非 Mock。
//
// 返回 DB 連接與清理函數，測試結束時調用。
func SetupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	return openTestDB(t, ":memory:")
}

// SetupTestFileDB 創建檔案型的測試 SQLite 資料庫
//
// in-memory SQLite 的每條連線各自是一份獨立資料庫，
// 併發測試（多條連線競爭同一份資料）必須用檔案型。
// _txlock=immediate 讓寫事務在 BEGIN 時即取得寫鎖，
// _busy_timeout 讓競爭者排隊等鎖而不是立即失敗。
func SetupTestFileDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "loyalty_test.db")
	dsn := "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

	return openTestDB(t, dsn)
}

func openTestDB(t *testing.T, dsn string) (*gorm.DB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&custpersistence.CustomerGORM{},
		&ledgerpersistence.PointLotGORM{},
		&ledgerpersistence.LedgerEntryGORM{},
		&rewardpersistence.RewardGORM{},
		&rewardpersistence.RedemptionGORM{},
		&settingspersistence.LoyaltySettingsGORM{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}

	return db, cleanup
}
