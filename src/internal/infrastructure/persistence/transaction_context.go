package persistence

import (
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文實作
//
// 封裝 *gorm.DB，讓 Domain Layer 只看到 shared.TransactionContext
// 標記介面；GetDB() 不在介面中，只有 Infrastructure Layer
// 透過型別斷言取得連接。
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取事務中的 GORM 連接（僅供 Infrastructure Layer 使用）
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}
