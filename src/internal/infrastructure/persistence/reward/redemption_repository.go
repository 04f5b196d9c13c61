package reward

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// RedemptionRepositoryImpl
// ===========================

// RedemptionRepositoryImpl 兌換記錄倉儲實現（GORM）
type RedemptionRepositoryImpl struct {
	db *gorm.DB
}

// NewRedemptionRepository 創建兌換倉儲實例
func NewRedemptionRepository(db *gorm.DB) reward.RedemptionRepository {
	return &RedemptionRepositoryImpl{db: db}
}

// Save 保存新兌換記錄
//
// 錯誤處理：
// - coupon_code 唯一約束衝突 → ErrCouponCodeTaken（調用者重新生成代碼重試）
func (r *RedemptionRepositoryImpl) Save(ctx shared.TransactionContext, redemption *reward.Redemption) error {
	db := r.getDB(ctx)

	result := db.Create(redemptionToGORM(redemption))
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return reward.ErrCouponCodeTaken.WithContext(
				"coupon_code", redemption.CouponCode().Value(),
			)
		}
		return result.Error
	}
	return nil
}

// FindByID 根據兌換 ID 查找
func (r *RedemptionRepositoryImpl) FindByID(ctx shared.TransactionContext, redemptionID reward.RedemptionID) (*reward.Redemption, error) {
	return r.findOne(ctx, "redemption_id = ?", redemptionID.String())
}

// FindByCouponCode 根據優惠券代碼查找
func (r *RedemptionRepositoryImpl) FindByCouponCode(ctx shared.TransactionContext, code reward.CouponCode) (*reward.Redemption, error) {
	return r.findOne(ctx, "coupon_code = ?", code.Value())
}

// FindByCustomer 載入顧客的兌換歷史（時間降冪）
func (r *RedemptionRepositoryImpl) FindByCustomer(
	ctx shared.TransactionContext,
	customerID reward.CustomerID,
) ([]*reward.Redemption, error) {
	db := r.getDB(ctx)

	var gormModels []RedemptionGORM
	result := db.
		Where("customer_id = ?", customerID.String()).
		Order("created_at DESC, redemption_id DESC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.toDomainSlice(gormModels)
}

// FindOverduePending 找出已逾期但仍為 PENDING 的兌換
func (r *RedemptionRepositoryImpl) FindOverduePending(
	ctx shared.TransactionContext,
	now time.Time,
) ([]*reward.Redemption, error) {
	db := r.getDB(ctx)

	var gormModels []RedemptionGORM
	result := db.
		Where("status = ?", string(reward.StatusPending)).
		Where("expires_at <= ?", now).
		Order("expires_at ASC, redemption_id ASC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.toDomainSlice(gormModels)
}

// Update 更新兌換狀態
func (r *RedemptionRepositoryImpl) Update(ctx shared.TransactionContext, redemption *reward.Redemption) error {
	db := r.getDB(ctx)

	result := db.Model(&RedemptionGORM{}).
		Where("redemption_id = ?", redemption.RedemptionID().String()).
		Select("*").
		Updates(redemptionToGORM(redemption))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reward.ErrRedemptionNotFound.WithContext(
			"redemption_id", redemption.RedemptionID().String(),
		)
	}
	return nil
}

// findOne 以條件查詢單一兌換記錄
func (r *RedemptionRepositoryImpl) findOne(ctx shared.TransactionContext, query string, args ...interface{}) (*reward.Redemption, error) {
	db := r.getDB(ctx)

	var gormModel RedemptionGORM
	result := db.Where(query, args...).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, reward.ErrRedemptionNotFound.WithContext("query", query)
		}
		return nil, result.Error
	}
	return gormModel.toDomain()
}

// toDomainSlice 兌換模型轉換
func (r *RedemptionRepositoryImpl) toDomainSlice(gormModels []RedemptionGORM) ([]*reward.Redemption, error) {
	redemptions := make([]*reward.Redemption, 0, len(gormModels))
	for i := range gormModels {
		redemption, err := gormModels[i].toDomain()
		if err != nil {
			return nil, err
		}
		redemptions = append(redemptions, redemption)
	}
	return redemptions, nil
}

// getDB 獲取資料庫實例
func (r *RedemptionRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}
