package ledger

import (
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// SourceType 積分來源
// ===========================

// SourceType 積分批次的來源類型
type SourceType string

const (
	SourceEarn          SourceType = "EARN"           // 訂單消費獲得
	SourceReferralBonus SourceType = "REFERRAL_BONUS" // 推薦他人獎勵（推薦人側）
	SourceReferredBonus SourceType = "REFERRED_BONUS" // 被推薦獎勵（新顧客側）
	SourceAdjustment    SourceType = "ADJUSTMENT"     // 管理調整
)

// IsValid 判斷是否為合法來源類型
func (s SourceType) IsValid() bool {
	switch s {
	case SourceEarn, SourceReferralBonus, SourceReferredBonus, SourceAdjustment:
		return true
	default:
		return false
	}
}

// CountsTowardLifetime 是否計入終身積分
//
// 業務規則：EARN 類來源（消費、推薦兩側）計入終身積分並影響等級；
// ADJUSTMENT 只影響可用餘額，不影響等級資格。
func (s SourceType) CountsTowardLifetime() bool {
	return s == SourceEarn || s == SourceReferralBonus || s == SourceReferredBonus
}

// ===========================
// PointLot 積分批次
// ===========================

// PointLot 積分批次（FIFO 記帳的最小單位）
//
// 生命週期：
// - 由入帳事件（訂單、推薦、調整）建立，remainingAmount = originAmount
// - 只被消耗（spend）或過期（sweep）減少剩餘量
// - 永不物理刪除：耗盡 / 過期的批次保留供審計
//
// 業務不變條件：
// - originAmount > 0
// - 0 <= remainingAmount <= originAmount
// - expired == true 蘊含 remainingAmount == 0
type PointLot struct {
	lotID      LotID
	customerID CustomerID

	sourceType      SourceType
	originAmount    PointsAmount
	remainingAmount PointsAmount

	// expiresAt 為 nil 表示本計畫不設過期
	expiresAt *time.Time
	expired   bool

	createdAt time.Time
	updatedAt time.Time

	// 待發布的領域事件
	events []shared.DomainEvent
}

// NewPointLot 建立新的積分批次
//
// 參數：
//   - customerID: 顧客 ID
//   - amount: 入帳積分（必須 > 0，否則返回 ErrInvalidAmount）
//   - sourceType: 積分來源
//   - expiresAt: 過期時間（計畫不設過期時為 nil）
//
// 行為：
// - 發布 PointsCreditedEvent
func NewPointLot(
	customerID CustomerID,
	amount int,
	sourceType SourceType,
	expiresAt *time.Time,
) (*PointLot, error) {
	if customerID.IsEmpty() {
		return nil, ErrInvalidLedgerCustomerID.WithContext("reason", "customerID cannot be empty")
	}
	if !sourceType.IsValid() {
		return nil, ErrInvalidSourceType.WithContext("source_type", string(sourceType))
	}

	origin, err := NewPositivePointsAmount(amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	lot := &PointLot{
		lotID:           NewLotID(),
		customerID:      customerID,
		sourceType:      sourceType,
		originAmount:    origin,
		remainingAmount: origin,
		expiresAt:       expiresAt,
		createdAt:       now,
		updatedAt:       now,
		events:          make([]shared.DomainEvent, 0),
	}

	lot.addEvent(NewPointsCreditedEvent(lot.customerID, lot.lotID, origin, sourceType))

	return lot, nil
}

// ReconstructPointLot 從持久化存儲重建批次（僅供 Repository 使用）
//
// 即使是從資料庫重建，也必須驗證不變條件，防止損壞資料污染領域層。
func ReconstructPointLot(
	lotID LotID,
	customerID CustomerID,
	sourceType SourceType,
	originAmount int,
	remainingAmount int,
	expiresAt *time.Time,
	expired bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*PointLot, error) {
	if lotID.IsEmpty() {
		return nil, ErrInvalidLotID.WithContext("reason", "invalid lot ID in database")
	}
	if customerID.IsEmpty() {
		return nil, ErrInvalidLedgerCustomerID.WithContext("reason", "invalid customer ID in database")
	}
	if !sourceType.IsValid() {
		return nil, ErrInvalidSourceType.WithContext("source_type", string(sourceType))
	}

	origin, err := NewPositivePointsAmount(originAmount)
	if err != nil {
		return nil, err
	}
	remaining, err := NewPointsAmount(remainingAmount)
	if err != nil {
		return nil, err
	}
	if remaining.GreaterThan(origin) {
		return nil, ErrInsufficientLotBalance.WithContext(
			"origin", originAmount,
			"remaining", remainingAmount,
		)
	}

	return &PointLot{
		lotID:           lotID,
		customerID:      customerID,
		sourceType:      sourceType,
		originAmount:    origin,
		remainingAmount: remaining,
		expiresAt:       expiresAt,
		expired:         expired,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		events:          make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// LotID 獲取批次 ID
func (l *PointLot) LotID() LotID {
	return l.lotID
}

// CustomerID 獲取顧客 ID
func (l *PointLot) CustomerID() CustomerID {
	return l.customerID
}

// SourceType 獲取來源類型
func (l *PointLot) SourceType() SourceType {
	return l.sourceType
}

// OriginAmount 獲取原始入帳量
func (l *PointLot) OriginAmount() PointsAmount {
	return l.originAmount
}

// RemainingAmount 獲取剩餘量
func (l *PointLot) RemainingAmount() PointsAmount {
	return l.remainingAmount
}

// ExpiresAt 獲取過期時間（nil 表示永不過期）
func (l *PointLot) ExpiresAt() *time.Time {
	return l.expiresAt
}

// IsExpired 批次是否已被過期清掃標記
func (l *PointLot) IsExpired() bool {
	return l.expired
}

// CreatedAt 獲取建立時間
func (l *PointLot) CreatedAt() time.Time {
	return l.createdAt
}

// UpdatedAt 獲取最後更新時間
func (l *PointLot) UpdatedAt() time.Time {
	return l.updatedAt
}

// IsConsumable 批次在指定時點是否可供消耗（有剩餘、未標記過期、未到期）
func (l *PointLot) IsConsumable(now time.Time) bool {
	if l.expired || l.remainingAmount.IsZero() {
		return false
	}
	if l.expiresAt != nil && !l.expiresAt.After(now) {
		return false
	}
	return true
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// Consume 從批次扣減指定量
//
// 僅供配置器（FIFO spend）與過期清掃調用，其他調用者一律
// 透過配置器走完整的餘額檢查路徑。
//
// 錯誤：ErrInsufficientLotBalance（扣減超過剩餘量 — 內部不變條件違反）
func (l *PointLot) Consume(amount PointsAmount) error {
	if amount.IsZero() {
		return ErrInvalidAmount.WithContext("amount", 0)
	}
	if amount.GreaterThan(l.remainingAmount) {
		return ErrInsufficientLotBalance.WithContext(
			"lot_id", l.lotID.String(),
			"requested", amount.Value(),
			"remaining", l.remainingAmount.Value(),
		)
	}

	remaining, err := l.remainingAmount.Subtract(amount)
	if err != nil {
		return err
	}
	l.remainingAmount = remaining
	l.updatedAt = time.Now()

	return nil
}

// Expire 將批次標記為過期並清空剩餘量
//
// 返回被清除的剩餘量，供過期清掃寫入對應的負向流水帳條目。
//
// 冪等保護：已標記過期、已耗盡或尚未到期的批次返回 ErrLotNotExpirable，
// 清掃據此跳過，重跑不會產生重複條目。
//
// 過期只減少可花費餘額，永不觸及終身積分。
//
// 行為：
// - 發布 PointsExpiredEvent（由外部通知器消費）
func (l *PointLot) Expire(now time.Time) (PointsAmount, error) {
	if l.expired || l.remainingAmount.IsZero() {
		return PointsAmount{}, ErrLotNotExpirable.WithContext(
			"lot_id", l.lotID.String(),
			"expired", l.expired,
			"remaining", l.remainingAmount.Value(),
		)
	}
	if l.expiresAt == nil || l.expiresAt.After(now) {
		return PointsAmount{}, ErrLotNotExpirable.WithContext(
			"lot_id", l.lotID.String(),
			"reason", "not yet due",
		)
	}

	forfeited := l.remainingAmount
	l.remainingAmount = newPointsAmountUnchecked(0)
	l.expired = true
	l.updatedAt = time.Now()

	l.addEvent(NewPointsExpiredEvent(l.customerID, l.lotID, forfeited))

	return forfeited, nil
}

// ===========================
// 領域事件管理
// ===========================

// addEvent 添加領域事件到待發布列表
func (l *PointLot) addEvent(event shared.DomainEvent) {
	l.events = append(l.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表（Pull 模式，只讀取一次）
func (l *PointLot) PullEvents() []shared.DomainEvent {
	events := l.events
	l.events = make([]shared.DomainEvent, 0)
	return events
}
