package customer

import (
	"fmt"

	"github.com/jackyeh168/loyalty_engine/src/internal/application/referral"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// RegisterCustomer Use Case
// ===========================

// RegisterCustomerCommand 顧客註冊命令
type RegisterCustomerCommand struct {
	Email string
	// ReferralCode 註冊時附帶的推薦碼（可選）
	ReferralCode string
}

// RegisterCustomerResult 顧客註冊結果
type RegisterCustomerResult struct {
	CustomerID   string
	Email        string
	ReferralCode string
	Tier         string
	// ReferredBy 推薦人 ID（附推薦碼註冊時填入）
	ReferredBy *string
	// ReferralBonus 註冊即入帳的被推薦獎勵
	ReferralBonus int
}

// RegisterCustomerUseCase 顧客註冊 Use Case
//
// 建檔並發放專屬推薦碼；附推薦碼註冊時在同一個事務中
// 建立推薦關係與雙側獎勵入帳，推薦碼無效則整個註冊回滾。
type RegisterCustomerUseCase struct {
	customerRepo  customer.CustomerRepository
	applyReferral *referral.ApplyReferralUseCase
	txManager     shared.TransactionManager
}

// NewRegisterCustomerUseCase 創建 Use Case 實例
func NewRegisterCustomerUseCase(
	customerRepo customer.CustomerRepository,
	applyReferral *referral.ApplyReferralUseCase,
	txManager shared.TransactionManager,
) *RegisterCustomerUseCase {
	return &RegisterCustomerUseCase{
		customerRepo:  customerRepo,
		applyReferral: applyReferral,
		txManager:     txManager,
	}
}

// Execute 執行註冊
//
// 錯誤處理：
// - ErrInvalidEmail: Email 格式錯誤
// - ErrCustomerAlreadyExists: Email 已註冊
// - ErrInvalidReferralCode / ErrSelfReferral: 推薦碼問題（整個註冊回滾）
func (uc *RegisterCustomerUseCase) Execute(cmd RegisterCustomerCommand) (*RegisterCustomerResult, error) {
	email, err := customer.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	var result *RegisterCustomerResult
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		cust, err := customer.NewCustomer(customer.NewCustomerID(), email, customer.GenerateReferralCode())
		if err != nil {
			return err
		}
		if err := uc.customerRepo.Save(ctx, cust); err != nil {
			return fmt.Errorf("failed to save customer: %w", err)
		}

		result = &RegisterCustomerResult{
			CustomerID:   cust.CustomerID().String(),
			Email:        cust.Email().Value(),
			ReferralCode: cust.ReferralCode().Value(),
			Tier:         string(cust.Tier()),
		}

		if cmd.ReferralCode == "" {
			return nil
		}

		referralResult, err := uc.applyReferral.ExecuteWithContext(ctx, referral.ApplyReferralCommand{
			CustomerID:   cust.CustomerID().String(),
			ReferralCode: cmd.ReferralCode,
		})
		if err != nil {
			return err
		}
		result.ReferredBy = &referralResult.ReferrerID
		result.ReferralBonus = referralResult.BonusToCustomer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
