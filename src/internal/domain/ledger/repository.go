package ledger

import (
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// PointLot Repository 介面
// ===========================

// PointLotRepository 積分批次倉儲介面
//
// 設計原則：
// 1. 依賴倒置原則（DIP）：Domain Layer 定義介面，Infrastructure Layer 實作
// 2. 事務支持：寫操作 ctx 必須 non-nil；讀操作可為 nil
// 3. 批次永不刪除：只有 Save（建立）與 Update（消耗 / 過期）
type PointLotRepository interface {
	// Save 保存新批次
	Save(ctx shared.TransactionContext, lot *PointLot) error

	// FindByID 根據批次 ID 查找
	// 返回：找到的批次，或 ErrLotNotFound
	FindByID(ctx shared.TransactionContext, lotID LotID) (*PointLot, error)

	// FindConsumableByCustomer 載入顧客所有可消耗批次，依消耗優先序排列：
	// (expires_at 升冪、NULL 最後, created_at 升冪, lot_id 升冪)。
	// 配置器（PlanAllocation）依賴此排序；必須在鎖定顧客列的事務中調用。
	FindConsumableByCustomer(ctx shared.TransactionContext, customerID CustomerID, now time.Time) ([]*PointLot, error)

	// FindExpirableCustomerIDs 找出擁有可過期批次
	// （remaining > 0、未標記過期、expires_at <= now）的顧客 ID 清單。
	// 過期清掃以此分批，每位顧客一個事務。
	FindExpirableCustomerIDs(ctx shared.TransactionContext, now time.Time) ([]CustomerID, error)

	// FindExpirableByCustomer 載入單一顧客的可過期批次。
	// 清掃在顧客事務內重新查詢，保證與並發消耗 / 前次清掃互斥後的冪等性。
	FindExpirableByCustomer(ctx shared.TransactionContext, customerID CustomerID, now time.Time) ([]*PointLot, error)

	// SumRemainingByCustomer 加總顧客所有批次的剩餘量（不變條件驗證、審計）
	SumRemainingByCustomer(ctx shared.TransactionContext, customerID CustomerID) (int, error)

	// SumExpiringByCustomer 加總顧客在 by 之前到期批次的剩餘量
	// （「即將過期積分」統計）
	SumExpiringByCustomer(ctx shared.TransactionContext, customerID CustomerID, by time.Time) (int, error)

	// Update 更新批次（消耗後的剩餘量、過期標記）
	Update(ctx shared.TransactionContext, lot *PointLot) error
}

// ===========================
// LedgerEntry Repository 介面
// ===========================

// LedgerEntryRepository 流水帳倉儲介面
//
// APPEND-ONLY：介面刻意不提供 Update / Delete，
// 條目一經寫入即為不可變的審計事實。
type LedgerEntryRepository interface {
	// Append 追加一筆條目（唯一的寫操作；ctx 必須 non-nil）
	Append(ctx shared.TransactionContext, entry *LedgerEntry) error

	// FindByCustomer 載入顧客的完整流水帳（時間升冪）
	FindByCustomer(ctx shared.TransactionContext, customerID CustomerID) ([]*LedgerEntry, error)

	// SumDeltaByCustomer 加總顧客所有條目的 delta
	// 核心不變條件：結果必須等於顧客餘額與批次剩餘量總和
	SumDeltaByCustomer(ctx shared.TransactionContext, customerID CustomerID) (int, error)
}
