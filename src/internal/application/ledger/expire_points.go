package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// ExpirePoints Use Case（過期清掃）
// ===========================

// ExpirePointsCommand 過期清掃命令
type ExpirePointsCommand struct {
	// Now 清掃基準時間（零值時用當下時間；排程器與測試可注入）
	Now time.Time
}

// ExpirePointsResult 過期清掃結果
type ExpirePointsResult struct {
	CustomersSwept     int
	LotsExpired        int
	PointsExpired      int
	RedemptionsExpired int
	CustomersFailed    int
}

// ExpirePointsUseCase 過期清掃 Use Case
//
// 兩階段清掃，全程冪等：
// 1. 批次過期：先蒐集擁有可過期批次的顧客 ID，再逐一顧客開事務處理。
//    事務內重新查詢該顧客的可過期批次，與並發消耗互斥後仍然正確；
//    已標記過期的批次直接略過，重跑不會重複扣分。
// 2. 兌換過期：將已超過有效期限的 PENDING 兌換轉為 EXPIRED。
//    積分不退還。
//
// 單一顧客失敗不中斷整體清掃，失敗計數隨結果返回，
// 下一輪清掃會重新處理。
type ExpirePointsUseCase struct {
	customerRepo   customer.CustomerRepository
	lotRepo        ledger.PointLotRepository
	entryRepo      ledger.LedgerEntryRepository
	redemptionRepo reward.RedemptionRepository
	txManager      shared.TransactionManager
}

// NewExpirePointsUseCase 創建 Use Case 實例
func NewExpirePointsUseCase(
	customerRepo customer.CustomerRepository,
	lotRepo ledger.PointLotRepository,
	entryRepo ledger.LedgerEntryRepository,
	redemptionRepo reward.RedemptionRepository,
	txManager shared.TransactionManager,
) *ExpirePointsUseCase {
	return &ExpirePointsUseCase{
		customerRepo:   customerRepo,
		lotRepo:        lotRepo,
		entryRepo:      entryRepo,
		redemptionRepo: redemptionRepo,
		txManager:      txManager,
	}
}

// Execute 執行一輪完整清掃
func (uc *ExpirePointsUseCase) Execute(cmd ExpirePointsCommand) (*ExpirePointsResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := &ExpirePointsResult{}

	// 第一階段：批次過期（每位顧客一個事務）
	customerIDs, err := uc.lotRepo.FindExpirableCustomerIDs(nil, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expirable customers: %w", err)
	}
	for _, ledgerCustID := range customerIDs {
		lotsExpired, pointsExpired, err := uc.sweepCustomer(ledgerCustID, now)
		if err != nil {
			result.CustomersFailed++
			continue
		}
		if lotsExpired > 0 {
			result.CustomersSwept++
			result.LotsExpired += lotsExpired
			result.PointsExpired += pointsExpired
		}
	}

	// 第二階段：逾期 PENDING 兌換轉 EXPIRED
	expiredRedemptions, err := uc.expireOverdueRedemptions(now)
	if err != nil {
		return nil, err
	}
	result.RedemptionsExpired = expiredRedemptions

	return result, nil
}

// sweepCustomer 在單一事務內過期單一顧客的所有到期批次
func (uc *ExpirePointsUseCase) sweepCustomer(
	ledgerCustID ledger.CustomerID,
	now time.Time,
) (lotsExpired int, pointsExpired int, err error) {
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		custID, err := customer.CustomerIDFromString(ledgerCustID.String())
		if err != nil {
			return fmt.Errorf("failed to parse customer ID: %w", err)
		}

		// 鎖定顧客列，與消耗 / 入帳互斥
		cust, err := uc.customerRepo.FindByIDForUpdate(ctx, custID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		// 持鎖後重新查詢，前次清掃或並發消耗處理過的批次不會再出現
		lots, err := uc.lotRepo.FindExpirableByCustomer(ctx, ledgerCustID, now)
		if err != nil {
			return fmt.Errorf("failed to load expirable lots: %w", err)
		}

		total := 0
		for _, lot := range lots {
			forfeited, err := lot.Expire(now)
			if err != nil {
				// 已標記過期的批次略過（冪等）
				if errors.Is(err, ledger.ErrLotNotExpirable) {
					continue
				}
				return err
			}
			if err := uc.lotRepo.Update(ctx, lot); err != nil {
				return fmt.Errorf("failed to update point lot: %w", err)
			}

			entry, err := ledger.NewExpireEntry(ledgerCustID, lot.LotID(), forfeited)
			if err != nil {
				return err
			}
			if err := uc.entryRepo.Append(ctx, entry); err != nil {
				return fmt.Errorf("failed to append ledger entry: %w", err)
			}

			lotsExpired++
			total += forfeited.Value()
		}

		if total == 0 {
			return nil
		}

		// 終身積分與等級不受過期影響，只扣餘額投影
		if err := cust.Debit(total); err != nil {
			return err
		}
		if err := uc.customerRepo.Update(ctx, cust); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		pointsExpired = total
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return lotsExpired, pointsExpired, nil
}

// expireOverdueRedemptions 將逾期的 PENDING 兌換轉為 EXPIRED
func (uc *ExpirePointsUseCase) expireOverdueRedemptions(now time.Time) (int, error) {
	overdue, err := uc.redemptionRepo.FindOverduePending(nil, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue redemptions: %w", err)
	}

	expired := 0
	for _, r := range overdue {
		err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
			// 事務內重新載入，與並發套用互斥
			current, err := uc.redemptionRepo.FindByID(ctx, r.RedemptionID())
			if err != nil {
				return err
			}
			if err := current.MarkExpired(now); err != nil {
				// 已被套用或已過期的兌換略過（冪等）
				return nil
			}
			if err := uc.redemptionRepo.Update(ctx, current); err != nil {
				return fmt.Errorf("failed to update redemption: %w", err)
			}
			expired++
			return nil
		})
		if err != nil {
			continue
		}
	}
	return expired, nil
}
