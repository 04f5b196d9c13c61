package ledger

import (
	"gorm.io/gorm"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// LedgerEntryRepositoryImpl
// ===========================

// LedgerEntryRepositoryImpl 流水帳倉儲實現（GORM）
//
// 只實作 Append 與讀取：流水帳是 append-only 審計軌跡。
type LedgerEntryRepositoryImpl struct {
	db *gorm.DB
}

// NewLedgerEntryRepository 創建流水帳倉儲實例
func NewLedgerEntryRepository(db *gorm.DB) ledger.LedgerEntryRepository {
	return &LedgerEntryRepositoryImpl{db: db}
}

// Append 追加一筆條目
func (r *LedgerEntryRepositoryImpl) Append(ctx shared.TransactionContext, entry *ledger.LedgerEntry) error {
	db := r.getDB(ctx)
	return db.Create(entryToGORM(entry)).Error
}

// FindByCustomer 載入顧客的完整流水帳（時間升冪）
func (r *LedgerEntryRepositoryImpl) FindByCustomer(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
) ([]*ledger.LedgerEntry, error) {
	db := r.getDB(ctx)

	var gormModels []LedgerEntryGORM
	result := db.
		Where("customer_id = ?", customerID.String()).
		Order("created_at ASC, entry_id ASC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*ledger.LedgerEntry, 0, len(gormModels))
	for i := range gormModels {
		entry, err := gormModels[i].toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SumDeltaByCustomer 加總顧客所有條目的 delta
func (r *LedgerEntryRepositoryImpl) SumDeltaByCustomer(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
) (int, error) {
	db := r.getDB(ctx)

	var total *int
	result := db.Model(&LedgerEntryGORM{}).
		Where("customer_id = ?", customerID.String()).
		Select("SUM(delta)").
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// getDB 獲取資料庫實例
func (r *LedgerEntryRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}
