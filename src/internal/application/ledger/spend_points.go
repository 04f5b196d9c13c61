package ledger

import (
	"fmt"
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// SpendPoints Use Case
// ===========================

// SpendPointsCommand 積分消耗命令
type SpendPointsCommand struct {
	CustomerID          string
	Amount              int
	RelatedRedemptionID *string
}

// SpentAllocation 單一批次的實際消耗
type SpentAllocation struct {
	LotID  string
	Amount int
}

// SpendPointsResult 積分消耗結果
type SpendPointsResult struct {
	NewBalance  int
	Allocations []SpentAllocation
}

// SpendPointsUseCase 積分消耗 Use Case（FIFO 配置）
//
// 消耗順序：最早到期的批次優先（expires_at 升冪、NULL 最後），
// 同到期時間依 created_at、再依 lot_id 決定，順序全確定。
//
// 餘額不足時整個操作失敗，任何批次都不會被部分消耗。
// 部分消耗一個批次時只遞減 remaining，origin 保持不變。
type SpendPointsUseCase struct {
	customerRepo customer.CustomerRepository
	lotRepo      ledger.PointLotRepository
	entryRepo    ledger.LedgerEntryRepository
	txManager    shared.TransactionManager
}

// NewSpendPointsUseCase 創建 Use Case 實例
func NewSpendPointsUseCase(
	customerRepo customer.CustomerRepository,
	lotRepo ledger.PointLotRepository,
	entryRepo ledger.LedgerEntryRepository,
	txManager shared.TransactionManager,
) *SpendPointsUseCase {
	return &SpendPointsUseCase{
		customerRepo: customerRepo,
		lotRepo:      lotRepo,
		entryRepo:    entryRepo,
		txManager:    txManager,
	}
}

// Execute 在獨立事務中執行消耗
func (uc *SpendPointsUseCase) Execute(cmd SpendPointsCommand) (*SpendPointsResult, error) {
	var result *SpendPointsResult
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

// ExecuteWithContext 在調用者的事務中執行消耗
//
// 兌換流程在同一個事務中先扣分、再建立兌換記錄，
// 任何一步失敗都讓整個兌換回滾。
//
// 錯誤處理：
// - ErrInvalidAmount: 非正數消耗量
// - ErrInsufficientPoints: 可消耗批次總和不足（預檢與配置雙重把關）
func (uc *SpendPointsUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	cmd SpendPointsCommand,
) (*SpendPointsResult, error) {
	amount, err := ledger.NewPositivePointsAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}

	custID, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}
	ledgerCustID, err := ledger.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}

	// 1. 鎖定顧客列（序列化點）
	cust, err := uc.customerRepo.FindByIDForUpdate(ctx, custID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	// 2. 投影餘額預檢（快速失敗；權威檢查在配置階段）
	if cust.CurrentBalance() < amount.Value() {
		return nil, ledger.ErrInsufficientPoints.WithContext(
			"required", amount.Value(),
			"available", cust.CurrentBalance(),
		)
	}

	// 3. 載入可消耗批次（倉儲已按消耗優先序排列）並規劃配置
	now := time.Now()
	lots, err := uc.lotRepo.FindConsumableByCustomer(ctx, ledgerCustID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load consumable lots: %w", err)
	}
	allocations, err := ledger.PlanAllocation(lots, amount)
	if err != nil {
		return nil, err
	}

	// 4. 執行配置：遞減各批次剩餘量，每批次追加一筆 -delta 條目
	lotsByID := make(map[string]*ledger.PointLot, len(lots))
	for _, lot := range lots {
		lotsByID[lot.LotID().String()] = lot
	}

	spent := make([]SpentAllocation, 0, len(allocations))
	for _, alloc := range allocations {
		lot := lotsByID[alloc.LotID.String()]
		if err := lot.Consume(alloc.Amount); err != nil {
			return nil, err
		}
		if err := uc.lotRepo.Update(ctx, lot); err != nil {
			return nil, fmt.Errorf("failed to update point lot: %w", err)
		}

		entry, err := ledger.NewSpendEntry(ledgerCustID, alloc.LotID, alloc.Amount, cmd.RelatedRedemptionID)
		if err != nil {
			return nil, err
		}
		if err := uc.entryRepo.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to append ledger entry: %w", err)
		}

		spent = append(spent, SpentAllocation{
			LotID:  alloc.LotID.String(),
			Amount: alloc.Amount.Value(),
		})
	}

	// 5. 更新餘額投影（終身積分不受消耗影響）
	if err := cust.Debit(amount.Value()); err != nil {
		return nil, err
	}
	if err := uc.customerRepo.Update(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return &SpendPointsResult{
		NewBalance:  cust.CurrentBalance(),
		Allocations: spent,
	}, nil
}
