package customer

import (
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// CustomerMarker 是 CustomerID 的標記類型
type CustomerMarker struct{}

// CustomerID 顧客的唯一標識符
//
// 顧客 ID 由外部身份系統提供（UUID 字串），本引擎不產生新顧客身份，
// 只在首筆合格訂單或明確註冊時建立對應的忠誠度檔案。
type CustomerID = shared.EntityID[CustomerMarker]

// NewCustomerID 生成新的顧客 ID（UUID v4，僅測試與工具用途）
func NewCustomerID() CustomerID {
	return shared.NewEntityID[CustomerMarker]()
}

// CustomerIDFromString 從字串解析顧客 ID
func CustomerIDFromString(s string) (CustomerID, error) {
	return shared.EntityIDFromString[CustomerMarker](s, ErrInvalidCustomerID)
}
