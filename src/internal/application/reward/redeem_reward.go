package reward

import (
	"errors"
	"fmt"
	"time"

	applledger "github.com/jackyeh168/loyalty_engine/src/internal/application/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// RedeemReward Use Case
// ===========================

// couponGenerationAttempts 優惠券代碼碰撞時的重試上限
const couponGenerationAttempts = 3

// RedeemRewardCommand 兌換命令
type RedeemRewardCommand struct {
	CustomerID string
	RewardID   string
}

// RedeemRewardResult 兌換結果
type RedeemRewardResult struct {
	RedemptionID string
	CouponCode   string
	PointsSpent  int
	NewBalance   int
	ExpiresAt    time.Time
}

// RedeemRewardUseCase 獎勵兌換 Use Case
//
// 單一事務完成扣分與發券：
// 1. 鎖定獎勵列（防止並發兌換同時通過 maxUses 檢查）並驗證可兌換
// 2. 建立 PENDING 兌換記錄並發放唯一優惠券代碼
//    （代碼碰撞時重新生成重試，靠唯一約束把關）
// 3. FIFO 扣分，每筆消耗條目帶上兌換 ID
// 4. 遞增獎勵使用次數
//
// 任何一步失敗整個兌換回滾：不會有扣了分沒發券、
// 或發了券沒扣分的中間狀態。
type RedeemRewardUseCase struct {
	rewardRepo     reward.RewardRepository
	redemptionRepo reward.RedemptionRepository
	settingsRepo   settings.SettingsRepository
	spendPoints    *applledger.SpendPointsUseCase
	txManager      shared.TransactionManager
}

// NewRedeemRewardUseCase 創建 Use Case 實例
func NewRedeemRewardUseCase(
	rewardRepo reward.RewardRepository,
	redemptionRepo reward.RedemptionRepository,
	settingsRepo settings.SettingsRepository,
	spendPoints *applledger.SpendPointsUseCase,
	txManager shared.TransactionManager,
) *RedeemRewardUseCase {
	return &RedeemRewardUseCase{
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		settingsRepo:   settingsRepo,
		spendPoints:    spendPoints,
		txManager:      txManager,
	}
}

// Execute 執行兌換
//
// 錯誤處理：
// - ErrRewardNotFound / ErrRewardInactive / ErrRewardExhausted: 獎勵不可兌換
// - ErrInsufficientPoints: 餘額不足（任何寫入都會回滾）
func (uc *RedeemRewardUseCase) Execute(cmd RedeemRewardCommand) (*RedeemRewardResult, error) {
	var result *RedeemRewardResult
	err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		rewardID, err := reward.RewardIDFromString(cmd.RewardID)
		if err != nil {
			return fmt.Errorf("failed to parse reward ID: %w", err)
		}
		custID, err := reward.CustomerIDFromString(cmd.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to parse customer ID: %w", err)
		}

		// 1. 鎖定獎勵列並驗證可兌換
		rw, err := uc.rewardRepo.FindByIDForUpdate(ctx, rewardID)
		if err != nil {
			return fmt.Errorf("failed to load reward: %w", err)
		}
		if err := rw.EnsureRedeemable(); err != nil {
			return err
		}

		// 2. 建立兌換記錄並發券
		s, err := uc.settingsRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load loyalty settings: %w", err)
		}
		redemption, err := uc.saveWithFreshCoupon(ctx, custID, rw, s.CouponExpiryFrom(time.Now()))
		if err != nil {
			return err
		}

		// 3. FIFO 扣分，消耗條目關聯到本次兌換
		redemptionID := redemption.RedemptionID().String()
		spendResult, err := uc.spendPoints.ExecuteWithContext(ctx, applledger.SpendPointsCommand{
			CustomerID:          cmd.CustomerID,
			Amount:              rw.PointsCost(),
			RelatedRedemptionID: &redemptionID,
		})
		if err != nil {
			return err
		}

		// 4. 遞增使用次數
		if err := rw.RecordUse(); err != nil {
			return err
		}
		if err := uc.rewardRepo.Update(ctx, rw); err != nil {
			return fmt.Errorf("failed to update reward: %w", err)
		}

		result = &RedeemRewardResult{
			RedemptionID: redemptionID,
			CouponCode:   redemption.CouponCode().Value(),
			PointsSpent:  redemption.PointsSpent(),
			NewBalance:   spendResult.NewBalance,
			ExpiresAt:    redemption.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// saveWithFreshCoupon 建立兌換記錄，代碼碰撞時重新生成重試
func (uc *RedeemRewardUseCase) saveWithFreshCoupon(
	ctx shared.TransactionContext,
	custID reward.CustomerID,
	rw *reward.Reward,
	expiresAt time.Time,
) (*reward.Redemption, error) {
	var lastErr error
	for attempt := 0; attempt < couponGenerationAttempts; attempt++ {
		redemption, err := reward.NewRedemption(
			custID,
			rw.RewardID(),
			rw.PointsCost(),
			reward.GenerateCouponCode(),
			expiresAt,
		)
		if err != nil {
			return nil, err
		}
		if err := uc.redemptionRepo.Save(ctx, redemption); err != nil {
			if errors.Is(err, reward.ErrCouponCodeTaken) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("failed to save redemption: %w", err)
		}
		return redemption, nil
	}
	return nil, lastErr
}
