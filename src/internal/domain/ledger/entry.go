package ledger

import (
	"time"
)

// ===========================
// EntryReason 條目原因
// ===========================

// EntryReason 流水帳條目的原因分類
type EntryReason string

const (
	ReasonOrderEarn       EntryReason = "ORDER_EARN"       // 訂單消費入帳
	ReasonReferralBonus   EntryReason = "REFERRAL_BONUS"   // 推薦獎勵入帳（推薦人側）
	ReasonReferredBonus   EntryReason = "REFERRED_BONUS"   // 被推薦獎勵入帳
	ReasonAdjustment      EntryReason = "ADJUSTMENT"       // 管理調整入帳
	ReasonRedemptionSpend EntryReason = "REDEMPTION_SPEND" // 兌換消耗
	ReasonExpiration      EntryReason = "EXPIRATION"       // 批次過期清除
)

// ===========================
// LedgerEntry 流水帳條目
// ===========================

// LedgerEntry 流水帳條目（append-only 審計軌跡）
//
// 設計原則：
// 1. APPEND-ONLY：永不更新、永不刪除
// 2. 不可變：建立後所有欄位固定（實體無命令方法）
// 3. 可審計：每筆餘額變動都可追溯到來源（訂單 / 兌換 / 過期）
//
// 核心不變條件（每次操作後必須成立）：
// 對每位顧客，currentBalance == Σ 批次剩餘量 == Σ 條目 delta。
// 跨多個批次的消耗以「每觸及一個批次一筆條目」記錄，
// 由 relatedRedemptionID 串起同一次兌換。
type LedgerEntry struct {
	entryID    EntryID
	customerID CustomerID

	// lotID 為觸及的批次；彙總層級的條目理論上可為 nil，
	// 但本引擎所有寫入路徑都以批次為單位記帳
	lotID *LotID

	// delta 帶符號的積分變動：入帳為正，消耗 / 過期為負
	delta  int
	reason EntryReason

	// 審計關聯（擇一）
	relatedOrderID      *string
	relatedRedemptionID *string

	createdAt time.Time
}

// newLedgerEntry 內部建構函數（各具名建構函數共用）
func newLedgerEntry(
	customerID CustomerID,
	lotID *LotID,
	delta int,
	reason EntryReason,
	relatedOrderID *string,
	relatedRedemptionID *string,
) (*LedgerEntry, error) {
	if customerID.IsEmpty() {
		return nil, ErrInvalidLedgerCustomerID.WithContext("reason", "customerID cannot be empty")
	}
	if delta == 0 {
		return nil, ErrInvalidDelta.WithContext("reason", string(reason))
	}

	return &LedgerEntry{
		entryID:             NewEntryID(),
		customerID:          customerID,
		lotID:               lotID,
		delta:               delta,
		reason:              reason,
		relatedOrderID:      relatedOrderID,
		relatedRedemptionID: relatedRedemptionID,
		createdAt:           time.Now(),
	}, nil
}

// NewCreditEntry 建立入帳條目（delta = +amount）
//
// reason 依來源決定（ORDER_EARN / REFERRAL_BONUS / REFERRED_BONUS / ADJUSTMENT），
// relatedOrderID 僅訂單入帳時提供。
func NewCreditEntry(
	customerID CustomerID,
	lotID LotID,
	amount PointsAmount,
	reason EntryReason,
	relatedOrderID *string,
) (*LedgerEntry, error) {
	return newLedgerEntry(customerID, &lotID, amount.Value(), reason, relatedOrderID, nil)
}

// NewSpendEntry 建立消耗條目（delta = -amount，每觸及一個批次一筆）
func NewSpendEntry(
	customerID CustomerID,
	lotID LotID,
	amount PointsAmount,
	relatedRedemptionID *string,
) (*LedgerEntry, error) {
	return newLedgerEntry(customerID, &lotID, -amount.Value(), ReasonRedemptionSpend, nil, relatedRedemptionID)
}

// NewExpireEntry 建立過期條目（delta = -批次剩餘量）
func NewExpireEntry(
	customerID CustomerID,
	lotID LotID,
	amount PointsAmount,
) (*LedgerEntry, error) {
	return newLedgerEntry(customerID, &lotID, -amount.Value(), ReasonExpiration, nil, nil)
}

// ReconstructLedgerEntry 從持久化存儲重建條目（僅供 Repository 使用）
func ReconstructLedgerEntry(
	entryID EntryID,
	customerID CustomerID,
	lotID *LotID,
	delta int,
	reason EntryReason,
	relatedOrderID *string,
	relatedRedemptionID *string,
	createdAt time.Time,
) (*LedgerEntry, error) {
	if entryID.IsEmpty() {
		return nil, ErrInvalidEntryID.WithContext("reason", "invalid entry ID in database")
	}
	if customerID.IsEmpty() {
		return nil, ErrInvalidLedgerCustomerID.WithContext("reason", "invalid customer ID in database")
	}
	if delta == 0 {
		return nil, ErrInvalidDelta.WithContext("entry_id", entryID.String())
	}

	return &LedgerEntry{
		entryID:             entryID,
		customerID:          customerID,
		lotID:               lotID,
		delta:               delta,
		reason:              reason,
		relatedOrderID:      relatedOrderID,
		relatedRedemptionID: relatedRedemptionID,
		createdAt:           createdAt,
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// EntryID 獲取條目 ID
func (e *LedgerEntry) EntryID() EntryID {
	return e.entryID
}

// CustomerID 獲取顧客 ID
func (e *LedgerEntry) CustomerID() CustomerID {
	return e.customerID
}

// LotID 獲取關聯批次 ID
func (e *LedgerEntry) LotID() *LotID {
	return e.lotID
}

// Delta 獲取帶符號的積分變動
func (e *LedgerEntry) Delta() int {
	return e.delta
}

// Reason 獲取條目原因
func (e *LedgerEntry) Reason() EntryReason {
	return e.reason
}

// RelatedOrderID 獲取關聯訂單 ID
func (e *LedgerEntry) RelatedOrderID() *string {
	return e.relatedOrderID
}

// RelatedRedemptionID 獲取關聯兌換 ID
func (e *LedgerEntry) RelatedRedemptionID() *string {
	return e.relatedRedemptionID
}

// CreatedAt 獲取建立時間
func (e *LedgerEntry) CreatedAt() time.Time {
	return e.createdAt
}

// IsCredit 是否為入帳條目
func (e *LedgerEntry) IsCredit() bool {
	return e.delta > 0
}
