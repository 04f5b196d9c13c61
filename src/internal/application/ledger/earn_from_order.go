package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// EarnFromOrder Use Case
// ===========================

// EarnFromOrderCommand 訂單付款入帳命令
//
// Email 供首次消費的顧客自動建檔；顧客已存在時忽略。
type EarnFromOrderCommand struct {
	CustomerID string
	Email      string
	OrderID    string
	OrderTotal decimal.Decimal
}

// EarnFromOrderResult 訂單入帳結果
type EarnFromOrderResult struct {
	CustomerID      string
	PointsEarned    int
	LotID           *string
	NewBalance      int
	LifetimePoints  int
	Tier            string
	TierChanged     bool
	CustomerCreated bool
}

// EarnFromOrderUseCase 訂單付款入帳 Use Case（訂單系統的進入點）
//
// 積分 = floor(訂單金額 × pointsPerCurrencyUnit)；
// 算得 0 點時不建立批次、不追加條目，直接返回成功。
//
// 首次消費且顧客不存在時自動建檔（附 Email 才建，
// 否則返回 ErrCustomerNotFound）。
type EarnFromOrderUseCase struct {
	customerRepo  customer.CustomerRepository
	settingsRepo  settings.SettingsRepository
	conversionSvc *ledger.PointsConversionService
	grantPoints   *GrantPointsUseCase
	txManager     shared.TransactionManager
}

// NewEarnFromOrderUseCase 創建 Use Case 實例
func NewEarnFromOrderUseCase(
	customerRepo customer.CustomerRepository,
	settingsRepo settings.SettingsRepository,
	conversionSvc *ledger.PointsConversionService,
	grantPoints *GrantPointsUseCase,
	txManager shared.TransactionManager,
) *EarnFromOrderUseCase {
	return &EarnFromOrderUseCase{
		customerRepo:  customerRepo,
		settingsRepo:  settingsRepo,
		conversionSvc: conversionSvc,
		grantPoints:   grantPoints,
		txManager:     txManager,
	}
}

// Execute 執行訂單入帳
//
// 流程（單一事務）：
// 1. 查找顧客；不存在且附 Email 時自動建檔
// 2. 依設定匯率換算積分（floor）
// 3. 零積分：不入帳，返回成功
// 4. 入帳：建批次（expires_at = now + pointExpirationDays，0 = 永不過期）、
//    追加條目、更新餘額與終身積分、重算等級
func (uc *EarnFromOrderUseCase) Execute(cmd EarnFromOrderCommand) (*EarnFromOrderResult, error) {
	var result *EarnFromOrderResult
	err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		custID, err := customer.CustomerIDFromString(cmd.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to parse customer ID: %w", err)
		}

		// 1. 解析顧客，必要時自動建檔
		created := false
		cust, err := uc.customerRepo.FindByID(ctx, custID)
		if err != nil {
			if !errors.Is(err, customer.ErrCustomerNotFound) || cmd.Email == "" {
				return fmt.Errorf("failed to load customer: %w", err)
			}
			cust, err = uc.registerOnFirstOrder(ctx, custID, cmd.Email)
			if err != nil {
				return err
			}
			created = true
		}

		// 2. 換算積分
		s, err := uc.settingsRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load loyalty settings: %w", err)
		}
		points, err := uc.conversionSvc.PointsForOrderTotal(cmd.OrderTotal, s.PointsPerCurrencyUnit)
		if err != nil {
			return err
		}

		// 3. 零積分訂單：不入帳
		if points.IsZero() {
			result = &EarnFromOrderResult{
				CustomerID:      cust.CustomerID().String(),
				PointsEarned:    0,
				NewBalance:      cust.CurrentBalance(),
				LifetimePoints:  cust.LifetimePoints(),
				Tier:            string(cust.Tier()),
				CustomerCreated: created,
			}
			return nil
		}

		// 4. 入帳
		orderID := cmd.OrderID
		grantResult, err := uc.grantPoints.ExecuteWithContext(ctx, GrantPointsCommand{
			CustomerID:     cust.CustomerID().String(),
			Amount:         points.Value(),
			SourceType:     ledger.SourceEarn,
			ExpiresAt:      s.LotExpiryFrom(time.Now()),
			RelatedOrderID: &orderID,
		})
		if err != nil {
			return err
		}

		lotID := grantResult.LotID
		result = &EarnFromOrderResult{
			CustomerID:      cust.CustomerID().String(),
			PointsEarned:    points.Value(),
			LotID:           &lotID,
			NewBalance:      grantResult.NewBalance,
			LifetimePoints:  grantResult.LifetimePoints,
			Tier:            grantResult.Tier,
			TierChanged:     grantResult.TierChanged,
			CustomerCreated: created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// registerOnFirstOrder 首次消費自動建檔
func (uc *EarnFromOrderUseCase) registerOnFirstOrder(
	ctx shared.TransactionContext,
	custID customer.CustomerID,
	email string,
) (*customer.Customer, error) {
	emailVO, err := customer.NewEmail(email)
	if err != nil {
		return nil, err
	}
	cust, err := customer.NewCustomer(custID, emailVO, customer.GenerateReferralCode())
	if err != nil {
		return nil, err
	}
	if err := uc.customerRepo.Save(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return cust, nil
}
