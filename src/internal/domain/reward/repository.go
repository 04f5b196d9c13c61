package reward

import (
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// Reward Repository 介面
// ===========================

// RewardRepository 獎勵倉儲介面
//
// 管理端透過此介面維護獎勵目錄；兌換引擎只讀取獎勵，
// 唯一的寫入是成功兌換時的 usageCount 累加（Update）。
type RewardRepository interface {
	// Save 保存新獎勵（管理端）
	Save(ctx shared.TransactionContext, r *Reward) error

	// FindByID 根據獎勵 ID 查找
	// 返回：找到的獎勵，或 ErrRewardNotFound
	FindByID(ctx shared.TransactionContext, rewardID RewardID) (*Reward, error)

	// FindByIDForUpdate 查找並鎖定獎勵列（SELECT ... FOR UPDATE）
	// 兌換流程用，防止並發兌換同時通過 maxUses 檢查
	FindByIDForUpdate(ctx shared.TransactionContext, rewardID RewardID) (*Reward, error)

	// FindActive 載入所有上架中的獎勵（店面展示）
	FindActive(ctx shared.TransactionContext) ([]*Reward, error)

	// Update 更新獎勵（usageCount、上下架）
	Update(ctx shared.TransactionContext, r *Reward) error
}

// ===========================
// Redemption Repository 介面
// ===========================

// RedemptionRepository 兌換記錄倉儲介面
type RedemptionRepository interface {
	// Save 保存新兌換記錄
	// 錯誤：ErrCouponCodeTaken（coupon_code 唯一約束衝突 — 重新生成代碼重試）
	Save(ctx shared.TransactionContext, r *Redemption) error

	// FindByID 根據兌換 ID 查找
	// 返回：找到的記錄，或 ErrRedemptionNotFound
	FindByID(ctx shared.TransactionContext, redemptionID RedemptionID) (*Redemption, error)

	// FindByCouponCode 根據優惠券代碼查找（結帳套用路徑）
	// 返回：找到的記錄，或 ErrRedemptionNotFound
	FindByCouponCode(ctx shared.TransactionContext, code CouponCode) (*Redemption, error)

	// FindByCustomer 載入顧客的兌換歷史（時間降冪）
	FindByCustomer(ctx shared.TransactionContext, customerID CustomerID) ([]*Redemption, error)

	// FindOverduePending 找出已超過有效期限但仍為 PENDING 的兌換
	// （過期清掃將其轉為 EXPIRED）
	FindOverduePending(ctx shared.TransactionContext, now time.Time) ([]*Redemption, error)

	// Update 更新兌換狀態
	Update(ctx shared.TransactionContext, r *Redemption) error
}
