package ledger

import (
	"fmt"
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
)

// ===========================
// GetBalance Use Case
// ===========================

// defaultExpiringWindowDays 「即將過期」統計的預設視窗
const defaultExpiringWindowDays = 30

// GetBalanceQuery 餘額查詢
type GetBalanceQuery struct {
	CustomerID string
	// WindowDays 即將過期統計視窗（<= 0 時用預設 30 天）
	WindowDays int
}

// GetBalanceResult 餘額查詢結果
type GetBalanceResult struct {
	CustomerID         string
	CurrentBalance     int
	LifetimePoints     int
	Tier               string
	ReferralCode       string
	ReferralCount      int
	PointsExpiringSoon int
}

// GetBalanceUseCase 餘額查詢 Use Case（唯讀，不開事務）
type GetBalanceUseCase struct {
	customerRepo customer.CustomerRepository
	lotRepo      ledger.PointLotRepository
}

// NewGetBalanceUseCase 創建 Use Case 實例
func NewGetBalanceUseCase(
	customerRepo customer.CustomerRepository,
	lotRepo ledger.PointLotRepository,
) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		customerRepo: customerRepo,
		lotRepo:      lotRepo,
	}
}

// Execute 查詢顧客餘額快照
func (uc *GetBalanceUseCase) Execute(query GetBalanceQuery) (*GetBalanceResult, error) {
	custID, err := customer.CustomerIDFromString(query.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}
	ledgerCustID, err := ledger.CustomerIDFromString(query.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}

	cust, err := uc.customerRepo.FindByID(nil, custID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	windowDays := query.WindowDays
	if windowDays <= 0 {
		windowDays = defaultExpiringWindowDays
	}
	expiringBy := time.Now().AddDate(0, 0, windowDays)
	expiringSoon, err := uc.lotRepo.SumExpiringByCustomer(nil, ledgerCustID, expiringBy)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expiring points: %w", err)
	}

	return &GetBalanceResult{
		CustomerID:         cust.CustomerID().String(),
		CurrentBalance:     cust.CurrentBalance(),
		LifetimePoints:     cust.LifetimePoints(),
		Tier:               string(cust.Tier()),
		ReferralCode:       cust.ReferralCode().Value(),
		ReferralCount:      cust.ReferralCount(),
		PointsExpiringSoon: expiringSoon,
	}, nil
}
