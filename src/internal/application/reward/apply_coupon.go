package reward

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// ApplyCoupon Use Case
// ===========================

// ApplyCouponCommand 優惠券套用命令（結帳邊界）
type ApplyCouponCommand struct {
	CouponCode string
	OrderTotal decimal.Decimal
}

// ApplyCouponResult 優惠券套用結果
//
// RewardValue 的折價語意由結帳定價邏輯解讀（見 RewardType）。
type ApplyCouponResult struct {
	RedemptionID string
	RewardID     string
	RewardType   string
	RewardValue  decimal.Decimal
}

// ApplyCouponUseCase 優惠券套用 Use Case
//
// 結帳時憑代碼核銷：PENDING → USED，單向轉移，
// 同一張券第二次套用必然失敗。
//
// 套用時偵測到已逾期的券就地轉為 EXPIRED 並持久化，
// 讓清掃與讀取路徑對狀態的判定一致。
type ApplyCouponUseCase struct {
	rewardRepo     reward.RewardRepository
	redemptionRepo reward.RedemptionRepository
	txManager      shared.TransactionManager
}

// NewApplyCouponUseCase 創建 Use Case 實例
func NewApplyCouponUseCase(
	rewardRepo reward.RewardRepository,
	redemptionRepo reward.RedemptionRepository,
	txManager shared.TransactionManager,
) *ApplyCouponUseCase {
	return &ApplyCouponUseCase{
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		txManager:      txManager,
	}
}

// Execute 套用優惠券
//
// 錯誤處理：
// - ErrRedemptionNotFound: 代碼不存在
// - ErrCouponInvalid: 已用過、已取消、已過期，或未達最低消費
// - ErrCouponExpired: 套用當下偵測到逾期（狀態同步轉為 EXPIRED）
func (uc *ApplyCouponUseCase) Execute(cmd ApplyCouponCommand) (*ApplyCouponResult, error) {
	code, err := reward.CouponCodeFromString(cmd.CouponCode)
	if err != nil {
		return nil, err
	}

	var result *ApplyCouponResult
	var expiredErr error
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		redemption, err := uc.redemptionRepo.FindByCouponCode(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to load redemption: %w", err)
		}

		rw, err := uc.rewardRepo.FindByID(ctx, redemption.RewardID())
		if err != nil {
			return fmt.Errorf("failed to load reward: %w", err)
		}

		// 最低消費門檻
		if min := rw.MinPurchase(); min != nil && cmd.OrderTotal.LessThan(*min) {
			return reward.ErrCouponInvalid.WithContext(
				"reason", "order total below minimum purchase",
				"min_purchase", min.String(),
				"order_total", cmd.OrderTotal.String(),
			)
		}

		now := time.Now()
		if err := redemption.MarkUsed(now); err != nil {
			// 套用時才發現逾期：就地轉為 EXPIRED 並提交，
			// 事務外再回報 ErrCouponExpired
			if errors.Is(err, reward.ErrCouponExpired) {
				if markErr := redemption.MarkExpired(now); markErr != nil {
					return err
				}
				if updateErr := uc.redemptionRepo.Update(ctx, redemption); updateErr != nil {
					return fmt.Errorf("failed to update redemption: %w", updateErr)
				}
				expiredErr = err
				return nil
			}
			return err
		}
		if err := uc.redemptionRepo.Update(ctx, redemption); err != nil {
			return fmt.Errorf("failed to update redemption: %w", err)
		}

		result = &ApplyCouponResult{
			RedemptionID: redemption.RedemptionID().String(),
			RewardID:     rw.RewardID().String(),
			RewardType:   string(rw.RewardType()),
			RewardValue:  rw.RewardValue(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expiredErr != nil {
		return nil, expiredErr
	}
	return result, nil
}
