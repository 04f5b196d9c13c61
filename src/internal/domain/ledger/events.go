package ledger

import (
	"time"

	"github.com/google/uuid"
)

// ===========================
// PointsCredited 領域事件
// ===========================

// PointsCreditedEvent 積分入帳事件
type PointsCreditedEvent struct {
	eventID    string
	customerID CustomerID
	lotID      LotID
	amount     PointsAmount
	sourceType SourceType
	occurredAt time.Time
}

// NewPointsCreditedEvent 創建積分入帳事件
func NewPointsCreditedEvent(
	customerID CustomerID,
	lotID LotID,
	amount PointsAmount,
	sourceType SourceType,
) *PointsCreditedEvent {
	return &PointsCreditedEvent{
		eventID:    uuid.New().String(),
		customerID: customerID,
		lotID:      lotID,
		amount:     amount,
		sourceType: sourceType,
		occurredAt: time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *PointsCreditedEvent) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e *PointsCreditedEvent) EventType() string { return "ledger.points_credited" }

// OccurredAt 實現 DomainEvent 介面
func (e *PointsCreditedEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e *PointsCreditedEvent) AggregateID() string { return e.lotID.String() }

// CustomerID 獲取顧客 ID
func (e *PointsCreditedEvent) CustomerID() CustomerID { return e.customerID }

// Amount 獲取入帳量
func (e *PointsCreditedEvent) Amount() PointsAmount { return e.amount }

// SourceType 獲取來源類型
func (e *PointsCreditedEvent) SourceType() SourceType { return e.sourceType }

// ===========================
// PointsExpired 領域事件
// ===========================

// PointsExpiredEvent 積分過期事件（每清除一個批次一筆）
type PointsExpiredEvent struct {
	eventID    string
	customerID CustomerID
	lotID      LotID
	forfeited  PointsAmount
	occurredAt time.Time
}

// NewPointsExpiredEvent 創建積分過期事件
func NewPointsExpiredEvent(
	customerID CustomerID,
	lotID LotID,
	forfeited PointsAmount,
) *PointsExpiredEvent {
	return &PointsExpiredEvent{
		eventID:    uuid.New().String(),
		customerID: customerID,
		lotID:      lotID,
		forfeited:  forfeited,
		occurredAt: time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *PointsExpiredEvent) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e *PointsExpiredEvent) EventType() string { return "ledger.points_expired" }

// OccurredAt 實現 DomainEvent 介面
func (e *PointsExpiredEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e *PointsExpiredEvent) AggregateID() string { return e.lotID.String() }

// CustomerID 獲取顧客 ID
func (e *PointsExpiredEvent) CustomerID() CustomerID { return e.customerID }

// Forfeited 獲取被清除的積分量
func (e *PointsExpiredEvent) Forfeited() PointsAmount { return e.forfeited }
