package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// gormTransactionContext GORM 事務上下文（來自 persistence package）
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// consumptionOrder 批次消耗優先序
//
// 最早到期優先，永不過期（NULL）最後；同到期時間依建立時間，
// 再依 lot_id 決定，讓配置順序全確定。
const consumptionOrder = "expires_at IS NULL, expires_at ASC, created_at ASC, lot_id ASC"

// ===========================
// PointLotRepositoryImpl
// ===========================

// PointLotRepositoryImpl 積分批次倉儲實現（GORM）
type PointLotRepositoryImpl struct {
	db *gorm.DB
}

// NewPointLotRepository 創建批次倉儲實例
func NewPointLotRepository(db *gorm.DB) ledger.PointLotRepository {
	return &PointLotRepositoryImpl{db: db}
}

// Save 保存新批次
func (r *PointLotRepositoryImpl) Save(ctx shared.TransactionContext, lot *ledger.PointLot) error {
	db := r.getDB(ctx)
	return db.Create(lotToGORM(lot)).Error
}

// FindByID 根據批次 ID 查找
func (r *PointLotRepositoryImpl) FindByID(ctx shared.TransactionContext, lotID ledger.LotID) (*ledger.PointLot, error) {
	db := r.getDB(ctx)

	var gormModel PointLotGORM
	result := db.Where("lot_id = ?", lotID.String()).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrLotNotFound.WithContext("lot_id", lotID.String())
		}
		return nil, result.Error
	}
	return gormModel.toDomain()
}

// FindConsumableByCustomer 載入顧客所有可消耗批次（依消耗優先序）
//
// 可消耗 = remaining > 0 且未標記過期且（無到期時間或尚未到期）。
// 必須在鎖定顧客列的事務中調用。
func (r *PointLotRepositoryImpl) FindConsumableByCustomer(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
	now time.Time,
) ([]*ledger.PointLot, error) {
	db := r.getDB(ctx)

	var gormModels []PointLotGORM
	result := db.
		Where("customer_id = ?", customerID.String()).
		Where("remaining_amount > 0").
		Where("expired = ?", false).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order(consumptionOrder).
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.toDomainSlice(gormModels)
}

// FindExpirableCustomerIDs 找出擁有可過期批次的顧客 ID 清單
func (r *PointLotRepositoryImpl) FindExpirableCustomerIDs(
	ctx shared.TransactionContext,
	now time.Time,
) ([]ledger.CustomerID, error) {
	db := r.getDB(ctx)

	var ids []string
	result := db.Model(&PointLotGORM{}).
		Distinct("customer_id").
		Where("remaining_amount > 0").
		Where("expired = ?", false).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Order("customer_id ASC").
		Pluck("customer_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	customerIDs := make([]ledger.CustomerID, 0, len(ids))
	for _, id := range ids {
		customerID, err := ledger.CustomerIDFromString(id)
		if err != nil {
			return nil, err
		}
		customerIDs = append(customerIDs, customerID)
	}
	return customerIDs, nil
}

// FindExpirableByCustomer 載入單一顧客的可過期批次
func (r *PointLotRepositoryImpl) FindExpirableByCustomer(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
	now time.Time,
) ([]*ledger.PointLot, error) {
	db := r.getDB(ctx)

	var gormModels []PointLotGORM
	result := db.
		Where("customer_id = ?", customerID.String()).
		Where("remaining_amount > 0").
		Where("expired = ?", false).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Order("expires_at ASC, created_at ASC, lot_id ASC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.toDomainSlice(gormModels)
}

// SumRemainingByCustomer 加總顧客所有批次的剩餘量
func (r *PointLotRepositoryImpl) SumRemainingByCustomer(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
) (int, error) {
	return r.sumRemaining(ctx, customerID, nil)
}

// SumExpiringByCustomer 加總顧客在 by 之前到期批次的剩餘量
func (r *PointLotRepositoryImpl) SumExpiringByCustomer(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
	by time.Time,
) (int, error) {
	return r.sumRemaining(ctx, customerID, &by)
}

// Update 更新批次（消耗後的剩餘量、過期標記）
//
// Select("*") 強制寫入全部欄位：remaining 歸零是合法狀態，
// 不能被 GORM 的零值略過規則吃掉。
func (r *PointLotRepositoryImpl) Update(ctx shared.TransactionContext, lot *ledger.PointLot) error {
	db := r.getDB(ctx)

	result := db.Model(&PointLotGORM{}).
		Where("lot_id = ?", lot.LotID().String()).
		Select("*").
		Updates(lotToGORM(lot))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrLotNotFound.WithContext("lot_id", lot.LotID().String())
	}
	return nil
}

// sumRemaining 加總剩餘量，by 非 nil 時僅計入 by 之前到期的批次
func (r *PointLotRepositoryImpl) sumRemaining(
	ctx shared.TransactionContext,
	customerID ledger.CustomerID,
	by *time.Time,
) (int, error) {
	db := r.getDB(ctx)

	query := db.Model(&PointLotGORM{}).
		Where("customer_id = ?", customerID.String()).
		Where("expired = ?", false)
	if by != nil {
		query = query.Where("expires_at IS NOT NULL AND expires_at <= ?", *by)
	}

	var total *int
	result := query.Select("SUM(remaining_amount)").Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}
	// 無符合批次時 SUM 為 NULL
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// toDomainSlice 批次模型轉換
func (r *PointLotRepositoryImpl) toDomainSlice(gormModels []PointLotGORM) ([]*ledger.PointLot, error) {
	lots := make([]*ledger.PointLot, 0, len(gormModels))
	for i := range gormModels {
		lot, err := gormModels[i].toDomain()
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

// getDB 獲取資料庫實例
func (r *PointLotRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}
