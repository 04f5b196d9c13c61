package settings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// gormTransactionContext GORM 事務上下文（來自 persistence package）
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// ===========================
// SettingsRepositoryImpl
// ===========================

// SettingsRepositoryImpl 計畫設定倉儲實現（GORM，單例列）
type SettingsRepositoryImpl struct {
	db *gorm.DB
}

// NewSettingsRepository 創建設定倉儲實例
func NewSettingsRepository(db *gorm.DB) settings.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

// Load 載入計畫設定
//
// 載入後執行 Validate：管理端寫壞的設定在這裡擋下，
// 不會流入帳務流程。
func (r *SettingsRepositoryImpl) Load(ctx shared.TransactionContext) (settings.LoyaltySettings, error) {
	db := r.getDB(ctx)

	var gormModel LoyaltySettingsGORM
	result := db.Where("id = ?", singletonRowID).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return settings.LoyaltySettings{}, settings.ErrSettingsNotFound
		}
		return settings.LoyaltySettings{}, result.Error
	}

	s := gormModel.toDomain()
	if err := s.Validate(); err != nil {
		return settings.LoyaltySettings{}, err
	}
	return s, nil
}

// Save 保存計畫設定（建立或覆寫單例列）
func (r *SettingsRepositoryImpl) Save(ctx shared.TransactionContext, s settings.LoyaltySettings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	db := r.getDB(ctx)
	return db.Save(toGORM(s)).Error
}

// getDB 獲取資料庫實例
func (r *SettingsRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}
