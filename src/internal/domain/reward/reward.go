package reward

import (
	"time"

	"github.com/shopspring/decimal"
)

// ===========================
// RewardType 獎勵類型
// ===========================

// RewardType 獎勵類型（tagged variant）
//
// rewardValue 的語意依類型而定：
// - DISCOUNT: 固定折抵金額
// - PERCENTAGE: 折扣百分比
// - FREE_SHIPPING: 不使用 rewardValue
// - PRODUCT: 外部商品識別的數值代碼
// 實際折價計算由結帳定價邏輯處理，本引擎不解讀。
type RewardType string

const (
	RewardDiscount     RewardType = "DISCOUNT"
	RewardPercentage   RewardType = "PERCENTAGE"
	RewardFreeShipping RewardType = "FREE_SHIPPING"
	RewardProduct      RewardType = "PRODUCT"
)

// IsValid 判斷是否為合法獎勵類型
func (t RewardType) IsValid() bool {
	switch t {
	case RewardDiscount, RewardPercentage, RewardFreeShipping, RewardProduct:
		return true
	default:
		return false
	}
}

// ===========================
// Reward 獎勵項目
// ===========================

// Reward 可兌換的獎勵項目
//
// 管理端透過 Repository 直接維護獎勵（建立、上下架、改價）；
// 本引擎只讀取獎勵並在成功兌換時累加 usageCount。
//
// 業務不變條件：
// - pointsCost > 0
// - usageCount 單調遞增
type Reward struct {
	rewardID   RewardID
	name       string
	rewardType RewardType

	rewardValue decimal.Decimal
	pointsCost  int

	// minPurchase 套用優惠券的最低消費門檻（nil = 無門檻），由結帳端檢查
	minPurchase *decimal.Decimal
	// maxUses 全域兌換上限（nil = 無上限）
	maxUses    *int
	usageCount int

	active bool

	createdAt time.Time
	updatedAt time.Time
}

// NewReward 建立新的獎勵項目
func NewReward(
	name string,
	rewardType RewardType,
	rewardValue decimal.Decimal,
	pointsCost int,
	minPurchase *decimal.Decimal,
	maxUses *int,
) (*Reward, error) {
	if !rewardType.IsValid() {
		return nil, ErrInvalidRewardType.WithContext("reward_type", string(rewardType))
	}
	if pointsCost <= 0 {
		return nil, ErrInvalidPointsCost.WithContext("points_cost", pointsCost)
	}

	now := time.Now()

	return &Reward{
		rewardID:    NewRewardID(),
		name:        name,
		rewardType:  rewardType,
		rewardValue: rewardValue,
		pointsCost:  pointsCost,
		minPurchase: minPurchase,
		maxUses:     maxUses,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructReward 從持久化存儲重建（僅供 Repository 使用）
func ReconstructReward(
	rewardID RewardID,
	name string,
	rewardType RewardType,
	rewardValue decimal.Decimal,
	pointsCost int,
	minPurchase *decimal.Decimal,
	maxUses *int,
	usageCount int,
	active bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*Reward, error) {
	if rewardID.IsEmpty() {
		return nil, ErrInvalidRewardID.WithContext("reason", "invalid reward ID in database")
	}
	if !rewardType.IsValid() {
		return nil, ErrInvalidRewardType.WithContext("reward_type", string(rewardType))
	}
	if pointsCost <= 0 {
		return nil, ErrInvalidPointsCost.WithContext("points_cost", pointsCost)
	}

	return &Reward{
		rewardID:    rewardID,
		name:        name,
		rewardType:  rewardType,
		rewardValue: rewardValue,
		pointsCost:  pointsCost,
		minPurchase: minPurchase,
		maxUses:     maxUses,
		usageCount:  usageCount,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// RewardID 獲取獎勵 ID
func (r *Reward) RewardID() RewardID { return r.rewardID }

// Name 獲取名稱
func (r *Reward) Name() string { return r.name }

// RewardType 獲取獎勵類型
func (r *Reward) RewardType() RewardType { return r.rewardType }

// RewardValue 獲取獎勵數值
func (r *Reward) RewardValue() decimal.Decimal { return r.rewardValue }

// PointsCost 獲取兌換所需積分
func (r *Reward) PointsCost() int { return r.pointsCost }

// MinPurchase 獲取最低消費門檻（nil = 無門檻）
func (r *Reward) MinPurchase() *decimal.Decimal { return r.minPurchase }

// MaxUses 獲取全域兌換上限（nil = 無上限）
func (r *Reward) MaxUses() *int { return r.maxUses }

// UsageCount 獲取已兌換次數
func (r *Reward) UsageCount() int { return r.usageCount }

// IsActive 獎勵是否上架中
func (r *Reward) IsActive() bool { return r.active }

// CreatedAt 獲取建立時間
func (r *Reward) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt 獲取最後更新時間
func (r *Reward) UpdatedAt() time.Time { return r.updatedAt }

// ===========================
// 命令方法（狀態變更）
// ===========================

// EnsureRedeemable 檢查獎勵目前是否可兌換
//
// 錯誤：
// - ErrRewardInactive: 已下架
// - ErrRewardExhausted: 全域上限用罄
func (r *Reward) EnsureRedeemable() error {
	if !r.active {
		return ErrRewardInactive.WithContext("reward_id", r.rewardID.String())
	}
	if r.maxUses != nil && r.usageCount >= *r.maxUses {
		return ErrRewardExhausted.WithContext(
			"reward_id", r.rewardID.String(),
			"max_uses", *r.maxUses,
		)
	}
	return nil
}

// RecordUse 記錄一次成功兌換（與兌換記錄在同一事務中累加）
func (r *Reward) RecordUse() error {
	if err := r.EnsureRedeemable(); err != nil {
		return err
	}
	r.usageCount++
	r.updatedAt = time.Now()
	return nil
}

// Deactivate 下架獎勵（管理端操作）
func (r *Reward) Deactivate() {
	r.active = false
	r.updatedAt = time.Now()
}

// Activate 上架獎勵（管理端操作）
func (r *Reward) Activate() {
	r.active = true
	r.updatedAt = time.Now()
}
