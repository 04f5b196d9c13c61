package referral

import (
	"fmt"
	"time"

	applledger "github.com/jackyeh168/loyalty_engine/src/internal/application/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// ApplyReferral Use Case
// ===========================

// ApplyReferralCommand 推薦關係建立命令
type ApplyReferralCommand struct {
	// CustomerID 被推薦的顧客（新顧客側）
	CustomerID string
	// ReferralCode 推薦人的推薦碼
	ReferralCode string
}

// ApplyReferralResult 推薦關係建立結果
type ApplyReferralResult struct {
	ReferrerID      string
	BonusToReferrer int
	BonusToCustomer int
}

// ApplyReferralUseCase 推薦獎勵 Use Case
//
// 單一事務完成關係建立與雙側入帳：
// 1. 以推薦碼解析推薦人
// 2. 鎖定新顧客列並標記推薦關係（每位顧客終生只能被推薦一次）
// 3. 推薦人側：遞增推薦計數、入帳 REFERRAL_BONUS 批次
// 4. 新顧客側：入帳 REFERRED_BONUS 批次
//
// 獎勵批次計入終身積分；推薦獎勵本身可以推動等級升級。
type ApplyReferralUseCase struct {
	customerRepo customer.CustomerRepository
	settingsRepo settings.SettingsRepository
	grantPoints  *applledger.GrantPointsUseCase
	txManager    shared.TransactionManager
}

// NewApplyReferralUseCase 創建 Use Case 實例
func NewApplyReferralUseCase(
	customerRepo customer.CustomerRepository,
	settingsRepo settings.SettingsRepository,
	grantPoints *applledger.GrantPointsUseCase,
	txManager shared.TransactionManager,
) *ApplyReferralUseCase {
	return &ApplyReferralUseCase{
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		grantPoints:  grantPoints,
		txManager:    txManager,
	}
}

// Execute 在獨立事務中建立推薦關係
//
// 錯誤處理：
// - ErrInvalidReferralCode: 推薦碼不存在或格式錯誤
// - ErrSelfReferral: 顧客使用自己的推薦碼
// - ErrAlreadyReferred: 顧客已被推薦過（調用端可視為冪等成功）
func (uc *ApplyReferralUseCase) Execute(cmd ApplyReferralCommand) (*ApplyReferralResult, error) {
	var result *ApplyReferralResult
	err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		r, err := uc.ExecuteWithContext(ctx, cmd)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteWithContext 在調用者的事務中建立推薦關係
//
// 註冊流程在建檔後的同一個事務中套用推薦碼。
func (uc *ApplyReferralUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	cmd ApplyReferralCommand,
) (*ApplyReferralResult, error) {
	custID, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}
	code, err := customer.ReferralCodeFromString(cmd.ReferralCode)
	if err != nil {
		return nil, err
	}

	// 1. 解析推薦人
	referrer, err := uc.customerRepo.FindByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// 2. 鎖定新顧客並標記推薦關係
	cust, err := uc.customerRepo.FindByIDForUpdate(ctx, custID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if err := cust.MarkReferred(referrer.CustomerID()); err != nil {
		return nil, err
	}
	if err := uc.customerRepo.Update(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s, err := uc.settingsRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load loyalty settings: %w", err)
	}
	expiresAt := s.LotExpiryFrom(time.Now())

	// 3. 推薦人側：遞增計數 + 入帳
	refLocked, err := uc.customerRepo.FindByIDForUpdate(ctx, referrer.CustomerID())
	if err != nil {
		return nil, fmt.Errorf("failed to load referrer: %w", err)
	}
	refLocked.IncrementReferralCount()
	if err := uc.customerRepo.Update(ctx, refLocked); err != nil {
		return nil, fmt.Errorf("failed to update referrer: %w", err)
	}
	if s.ReferralBonus > 0 {
		_, err = uc.grantPoints.ExecuteWithContext(ctx, applledger.GrantPointsCommand{
			CustomerID: referrer.CustomerID().String(),
			Amount:     s.ReferralBonus,
			SourceType: ledger.SourceReferralBonus,
			ExpiresAt:  expiresAt,
		})
		if err != nil {
			return nil, err
		}
	}

	// 4. 新顧客側：入帳
	if s.ReferredBonus > 0 {
		_, err = uc.grantPoints.ExecuteWithContext(ctx, applledger.GrantPointsCommand{
			CustomerID: cust.CustomerID().String(),
			Amount:     s.ReferredBonus,
			SourceType: ledger.SourceReferredBonus,
			ExpiresAt:  expiresAt,
		})
		if err != nil {
			return nil, err
		}
	}

	return &ApplyReferralResult{
		ReferrerID:      referrer.CustomerID().String(),
		BonusToReferrer: s.ReferralBonus,
		BonusToCustomer: s.ReferredBonus,
	}, nil
}
