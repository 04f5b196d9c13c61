package ledger

import (
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// LotMarker 是 LotID 的標記類型
type LotMarker struct{}

// LotID 積分批次的唯一標識符
//
// 批次依 (expiresAt, createdAt, lotID) 排序消耗，
// lotID 是最後的決定性 tie-break。
type LotID = shared.EntityID[LotMarker]

// NewLotID 生成新的批次 ID（UUID v4）
func NewLotID() LotID {
	return shared.NewEntityID[LotMarker]()
}

// LotIDFromString 從字串解析批次 ID
func LotIDFromString(s string) (LotID, error) {
	return shared.EntityIDFromString[LotMarker](s, ErrInvalidLotID)
}

// EntryMarker 是 EntryID 的標記類型
type EntryMarker struct{}

// EntryID 流水帳條目的唯一標識符
type EntryID = shared.EntityID[EntryMarker]

// NewEntryID 生成新的條目 ID（UUID v4）
func NewEntryID() EntryID {
	return shared.NewEntityID[EntryMarker]()
}

// EntryIDFromString 從字串解析條目 ID
func EntryIDFromString(s string) (EntryID, error) {
	return shared.EntityIDFromString[EntryMarker](s, ErrInvalidEntryID)
}

// CustomerMarker 是 CustomerID 的標記類型
//
// ledger context 擁有自己的 CustomerID 類型（與 customer context 的
// 同名類型底層 UUID 相同），維持 bounded context 之間零依賴；
// Application Layer 以字串橋接兩者。
type CustomerMarker struct{}

// CustomerID 顧客的唯一標識符（ledger context 視角）
type CustomerID = shared.EntityID[CustomerMarker]

// NewCustomerID 生成新的顧客 ID（僅測試用途）
func NewCustomerID() CustomerID {
	return shared.NewEntityID[CustomerMarker]()
}

// CustomerIDFromString 從字串解析顧客 ID
func CustomerIDFromString(s string) (CustomerID, error) {
	return shared.EntityIDFromString[CustomerMarker](s, ErrInvalidLedgerCustomerID)
}
