package reward

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// gormTransactionContext GORM 事務上下文（來自 persistence package）
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// ===========================
// RewardRepositoryImpl
// ===========================

// RewardRepositoryImpl 獎勵倉儲實現（GORM）
type RewardRepositoryImpl struct {
	db *gorm.DB
}

// NewRewardRepository 創建獎勵倉儲實例
func NewRewardRepository(db *gorm.DB) reward.RewardRepository {
	return &RewardRepositoryImpl{db: db}
}

// Save 保存新獎勵
func (r *RewardRepositoryImpl) Save(ctx shared.TransactionContext, rw *reward.Reward) error {
	db := r.getDB(ctx)
	return db.Create(rewardToGORM(rw)).Error
}

// FindByID 根據獎勵 ID 查找
func (r *RewardRepositoryImpl) FindByID(ctx shared.TransactionContext, rewardID reward.RewardID) (*reward.Reward, error) {
	return r.findByID(r.getDB(ctx), rewardID)
}

// FindByIDForUpdate 查找並鎖定獎勵列（SELECT ... FOR UPDATE）
//
// 兌換流程持此鎖做 maxUses 檢查與 usageCount 遞增，
// 並發兌換不會同時通過上限檢查。
func (r *RewardRepositoryImpl) FindByIDForUpdate(ctx shared.TransactionContext, rewardID reward.RewardID) (*reward.Reward, error) {
	db := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findByID(db, rewardID)
}

// FindActive 載入所有上架中的獎勵
func (r *RewardRepositoryImpl) FindActive(ctx shared.TransactionContext) ([]*reward.Reward, error) {
	db := r.getDB(ctx)

	var gormModels []RewardGORM
	result := db.
		Where("active = ?", true).
		Order("points_cost ASC, reward_id ASC").
		Find(&gormModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rewards := make([]*reward.Reward, 0, len(gormModels))
	for i := range gormModels {
		rw, err := gormModels[i].toDomain()
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, nil
}

// Update 更新獎勵
func (r *RewardRepositoryImpl) Update(ctx shared.TransactionContext, rw *reward.Reward) error {
	db := r.getDB(ctx)

	result := db.Model(&RewardGORM{}).
		Where("reward_id = ?", rw.RewardID().String()).
		Select("*").
		Updates(rewardToGORM(rw))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reward.ErrRewardNotFound.WithContext("reward_id", rw.RewardID().String())
	}
	return nil
}

// findByID 以指定 DB 連接查詢單一獎勵
func (r *RewardRepositoryImpl) findByID(db *gorm.DB, rewardID reward.RewardID) (*reward.Reward, error) {
	var gormModel RewardGORM
	result := db.Where("reward_id = ?", rewardID.String()).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, reward.ErrRewardNotFound.WithContext("reward_id", rewardID.String())
		}
		return nil, result.Error
	}
	return gormModel.toDomain()
}

// getDB 獲取資料庫實例
func (r *RewardRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}

// ===========================
// Helper Functions
// ===========================

// isUniqueConstraintError 檢查是否為唯一約束錯誤
//
// 支援：SQLite / PostgreSQL / MySQL 的錯誤訊息格式
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "violates unique constraint")
}
