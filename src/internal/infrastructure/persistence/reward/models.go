package reward

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
)

// ===========================
// GORM Models
// ===========================

// RewardGORM 獎勵資料表模型
//
// 資料庫約束：
// - reward_id: 主鍵（UUID）
// - reward_value / min_purchase: decimal 精確金額
// - min_purchase / max_uses: 可為空（無門檻 / 無上限）
type RewardGORM struct {
	RewardID   string `gorm:"column:reward_id;type:varchar(36);primaryKey"`
	Name       string `gorm:"column:name;type:varchar(255);not null"`
	RewardType string `gorm:"column:reward_type;type:varchar(32);not null"`

	RewardValue decimal.Decimal  `gorm:"column:reward_value;type:decimal(12,2);not null"`
	PointsCost  int              `gorm:"column:points_cost;not null"`
	MinPurchase *decimal.Decimal `gorm:"column:min_purchase;type:decimal(12,2)"`
	MaxUses     *int             `gorm:"column:max_uses"`
	UsageCount  int              `gorm:"column:usage_count;not null;default:0"`

	Active bool `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (RewardGORM) TableName() string {
	return "rewards"
}

// RedemptionGORM 兌換記錄資料表模型
//
// 資料庫約束：
// - redemption_id: 主鍵（UUID）
// - coupon_code: 唯一索引（優惠券代碼全域唯一的最終把關）
// - status: 索引（清掃查詢 PENDING）
type RedemptionGORM struct {
	RedemptionID string `gorm:"column:redemption_id;type:varchar(36);primaryKey"`
	CustomerID   string `gorm:"column:customer_id;type:varchar(36);index;not null"`
	RewardID     string `gorm:"column:reward_id;type:varchar(36);index;not null"`

	PointsSpent int    `gorm:"column:points_spent;not null"`
	CouponCode  string `gorm:"column:coupon_code;type:varchar(16);uniqueIndex;not null"`
	Status      string `gorm:"column:status;type:varchar(16);index;not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (RedemptionGORM) TableName() string {
	return "redemptions"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將獎勵 GORM 模型轉換為 Domain 模型
func (m *RewardGORM) toDomain() (*reward.Reward, error) {
	rewardID, err := reward.RewardIDFromString(m.RewardID)
	if err != nil {
		return nil, err
	}

	return reward.ReconstructReward(
		rewardID,
		m.Name,
		reward.RewardType(m.RewardType),
		m.RewardValue,
		m.PointsCost,
		m.MinPurchase,
		m.MaxUses,
		m.UsageCount,
		m.Active,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// rewardToGORM 將獎勵 Domain 模型轉換為 GORM 模型
func rewardToGORM(r *reward.Reward) *RewardGORM {
	return &RewardGORM{
		RewardID:    r.RewardID().String(),
		Name:        r.Name(),
		RewardType:  string(r.RewardType()),
		RewardValue: r.RewardValue(),
		PointsCost:  r.PointsCost(),
		MinPurchase: r.MinPurchase(),
		MaxUses:     r.MaxUses(),
		UsageCount:  r.UsageCount(),
		Active:      r.IsActive(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// toDomain 將兌換 GORM 模型轉換為 Domain 模型
func (m *RedemptionGORM) toDomain() (*reward.Redemption, error) {
	redemptionID, err := reward.RedemptionIDFromString(m.RedemptionID)
	if err != nil {
		return nil, err
	}
	customerID, err := reward.CustomerIDFromString(m.CustomerID)
	if err != nil {
		return nil, err
	}
	rewardID, err := reward.RewardIDFromString(m.RewardID)
	if err != nil {
		return nil, err
	}
	couponCode, err := reward.CouponCodeFromString(m.CouponCode)
	if err != nil {
		return nil, err
	}

	return reward.ReconstructRedemption(
		redemptionID,
		customerID,
		rewardID,
		m.PointsSpent,
		couponCode,
		reward.RedemptionStatus(m.Status),
		m.CreatedAt,
		m.ExpiresAt,
		m.UpdatedAt,
	)
}

// redemptionToGORM 將兌換 Domain 模型轉換為 GORM 模型
func redemptionToGORM(r *reward.Redemption) *RedemptionGORM {
	return &RedemptionGORM{
		RedemptionID: r.RedemptionID().String(),
		CustomerID:   r.CustomerID().String(),
		RewardID:     r.RewardID().String(),
		PointsSpent:  r.PointsSpent(),
		CouponCode:   r.CouponCode().Value(),
		Status:       string(r.Status()),
		CreatedAt:    r.CreatedAt(),
		ExpiresAt:    r.ExpiresAt(),
		UpdatedAt:    r.UpdatedAt(),
	}
}
