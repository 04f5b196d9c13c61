package customer

import (
	"time"

	"github.com/google/uuid"
)

// ===========================
// CustomerRegistered 領域事件
// ===========================

// CustomerRegisteredEvent 顧客註冊事件
type CustomerRegisteredEvent struct {
	eventID    string
	customerID CustomerID
	email      Email
	occurredAt time.Time
}

// NewCustomerRegisteredEvent 創建顧客註冊事件
func NewCustomerRegisteredEvent(customerID CustomerID, email Email) *CustomerRegisteredEvent {
	return &CustomerRegisteredEvent{
		eventID:    uuid.New().String(),
		customerID: customerID,
		email:      email,
		occurredAt: time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *CustomerRegisteredEvent) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e *CustomerRegisteredEvent) EventType() string { return "customer.registered" }

// OccurredAt 實現 DomainEvent 介面
func (e *CustomerRegisteredEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e *CustomerRegisteredEvent) AggregateID() string { return e.customerID.String() }

// CustomerID 獲取顧客 ID
func (e *CustomerRegisteredEvent) CustomerID() CustomerID { return e.customerID }

// Email 獲取電子郵件
func (e *CustomerRegisteredEvent) Email() Email { return e.email }

// ===========================
// TierChanged 領域事件
// ===========================

// TierChangedEvent 等級變更事件
//
// 由外部通知器消費（如升級通知信）；本引擎只負責發布。
type TierChangedEvent struct {
	eventID        string
	customerID     CustomerID
	previousTier   Tier
	newTier        Tier
	lifetimePoints int
	occurredAt     time.Time
}

// NewTierChangedEvent 創建等級變更事件
func NewTierChangedEvent(
	customerID CustomerID,
	previousTier Tier,
	newTier Tier,
	lifetimePoints int,
) *TierChangedEvent {
	return &TierChangedEvent{
		eventID:        uuid.New().String(),
		customerID:     customerID,
		previousTier:   previousTier,
		newTier:        newTier,
		lifetimePoints: lifetimePoints,
		occurredAt:     time.Now(),
	}
}

// EventID 實現 DomainEvent 介面
func (e *TierChangedEvent) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e *TierChangedEvent) EventType() string { return "customer.tier_changed" }

// OccurredAt 實現 DomainEvent 介面
func (e *TierChangedEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e *TierChangedEvent) AggregateID() string { return e.customerID.String() }

// CustomerID 獲取顧客 ID
func (e *TierChangedEvent) CustomerID() CustomerID { return e.customerID }

// PreviousTier 獲取變更前等級
func (e *TierChangedEvent) PreviousTier() Tier { return e.previousTier }

// NewTier 獲取變更後等級
func (e *TierChangedEvent) NewTier() Tier { return e.newTier }

// LifetimePoints 獲取觸發變更時的終身積分
func (e *TierChangedEvent) LifetimePoints() int { return e.lifetimePoints }
