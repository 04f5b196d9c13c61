package persistence

import (
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionManager 實作
// ===========================

// GORMTransactionManager 以 GORM 實作 shared.TransactionManager
//
// 保證：
// - fn 返回 nil → COMMIT
// - fn 返回錯誤 → ROLLBACK，原始錯誤透傳給調用者
// - fn panic → ROLLBACK 後 panic 繼續往上傳（gorm.DB.Transaction 的行為）
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 創建事務管理器
func NewGORMTransactionManager(db *gorm.DB) shared.TransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
func (m *GORMTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMTransactionContext(tx))
	})
}
