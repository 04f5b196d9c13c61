package ledger

// ===========================
// FIFO 配置（Lot Allocation）
// ===========================

// Allocation 單一批次的配置結果（供審計串接流水帳條目與兌換記錄）
type Allocation struct {
	LotID  LotID
	Amount PointsAmount
}

// PlanAllocation 規劃 FIFO 消耗（純函數，不修改批次）
//
// 前置條件：lots 已依消耗優先序排列 —
// (expiresAt 升冪、NULL 最後, createdAt 升冪, lotID 升冪)，
// 即最接近過期的先扣，其次最早建立的，批次 ID 為決定性 tie-break。
// 排序由 Repository 查詢保證。
//
// 演算法：依序走訪批次，每批取 min(剩餘量, 尚需量)，直到需求全數涵蓋。
// 批次走完仍未涵蓋（只會發生在餘額讀取過期時）返回 ErrInsufficientPoints，
// 調用者必須放棄整個事務 — 永不留下部分消耗。
func PlanAllocation(lots []*PointLot, amount PointsAmount) ([]Allocation, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount.WithContext("amount", 0)
	}

	needed := amount
	allocations := make([]Allocation, 0, len(lots))

	for _, lot := range lots {
		if needed.IsZero() {
			break
		}
		if lot.RemainingAmount().IsZero() {
			continue
		}

		take := lot.RemainingAmount().Min(needed)
		allocations = append(allocations, Allocation{
			LotID:  lot.LotID(),
			Amount: take,
		})

		remaining, err := needed.Subtract(take)
		if err != nil {
			return nil, err
		}
		needed = remaining
	}

	if !needed.IsZero() {
		return nil, ErrInsufficientPoints.WithContext(
			"requested", amount.Value(),
			"uncovered", needed.Value(),
		)
	}

	return allocations, nil
}
