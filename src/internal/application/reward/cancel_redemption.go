package reward

import (
	"fmt"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// CancelRedemption Use Case
// ===========================

// CancelRedemptionCommand 兌換取消命令（管理端）
type CancelRedemptionCommand struct {
	RedemptionID string
}

// CancelRedemptionResult 兌換取消結果
type CancelRedemptionResult struct {
	RedemptionID string
	Status       string
}

// CancelRedemptionUseCase 兌換取消 Use Case
//
// 只允許 PENDING → CANCELLED；已消耗的積分不退還。
type CancelRedemptionUseCase struct {
	redemptionRepo reward.RedemptionRepository
	txManager      shared.TransactionManager
}

// NewCancelRedemptionUseCase 創建 Use Case 實例
func NewCancelRedemptionUseCase(
	redemptionRepo reward.RedemptionRepository,
	txManager shared.TransactionManager,
) *CancelRedemptionUseCase {
	return &CancelRedemptionUseCase{
		redemptionRepo: redemptionRepo,
		txManager:      txManager,
	}
}

// Execute 取消兌換
//
// 錯誤處理：
// - ErrRedemptionNotFound: 兌換記錄不存在
// - ErrInvalidTransition: 非 PENDING 狀態（已用過、已過期、已取消）
func (uc *CancelRedemptionUseCase) Execute(cmd CancelRedemptionCommand) (*CancelRedemptionResult, error) {
	redemptionID, err := reward.RedemptionIDFromString(cmd.RedemptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redemption ID: %w", err)
	}

	var result *CancelRedemptionResult
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		redemption, err := uc.redemptionRepo.FindByID(ctx, redemptionID)
		if err != nil {
			return fmt.Errorf("failed to load redemption: %w", err)
		}
		if err := redemption.Cancel(); err != nil {
			return err
		}
		if err := uc.redemptionRepo.Update(ctx, redemption); err != nil {
			return fmt.Errorf("failed to update redemption: %w", err)
		}

		result = &CancelRedemptionResult{
			RedemptionID: redemption.RedemptionID().String(),
			Status:       string(redemption.Status()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
