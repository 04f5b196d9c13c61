package reward

import (
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// RewardMarker 是 RewardID 的標記類型
type RewardMarker struct{}

// RewardID 獎勵項目的唯一標識符
type RewardID = shared.EntityID[RewardMarker]

// NewRewardID 生成新的獎勵 ID（UUID v4）
func NewRewardID() RewardID {
	return shared.NewEntityID[RewardMarker]()
}

// RewardIDFromString 從字串解析獎勵 ID
func RewardIDFromString(s string) (RewardID, error) {
	return shared.EntityIDFromString[RewardMarker](s, ErrInvalidRewardID)
}

// RedemptionMarker 是 RedemptionID 的標記類型
type RedemptionMarker struct{}

// RedemptionID 兌換記錄的唯一標識符
type RedemptionID = shared.EntityID[RedemptionMarker]

// NewRedemptionID 生成新的兌換 ID（UUID v4）
func NewRedemptionID() RedemptionID {
	return shared.NewEntityID[RedemptionMarker]()
}

// RedemptionIDFromString 從字串解析兌換 ID
func RedemptionIDFromString(s string) (RedemptionID, error) {
	return shared.EntityIDFromString[RedemptionMarker](s, ErrInvalidRedemptionID)
}

// CustomerMarker 是 CustomerID 的標記類型（reward context 視角）
type CustomerMarker struct{}

// CustomerID 顧客的唯一標識符（reward context 視角）
type CustomerID = shared.EntityID[CustomerMarker]

// NewCustomerID 生成新的顧客 ID（UUID v4）
func NewCustomerID() CustomerID {
	return shared.NewEntityID[CustomerMarker]()
}

// CustomerIDFromString 從字串解析顧客 ID
func CustomerIDFromString(s string) (CustomerID, error) {
	return shared.EntityIDFromString[CustomerMarker](s, ErrInvalidRewardCustomerID)
}
