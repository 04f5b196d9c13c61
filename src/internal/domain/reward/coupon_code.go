package reward

import (
	"strings"

	"github.com/google/uuid"
)

// ===========================
// CouponCode 值對象
// ===========================

// couponCodePrefix 優惠券代碼前綴
const couponCodePrefix = "LP-"

// couponCodeLength 優惠券代碼總長度（前綴 + 12 碼）
const couponCodeLength = len(couponCodePrefix) + 12

// CouponCode 單次使用的優惠券代碼值對象
//
// 業務規則：
// - 每筆兌換對應一組全域唯一代碼（唯一性由資料庫唯一約束保證）
// - 格式：LP-XXXXXXXXXXXX（大寫十六進制，取自 UUID 前 12 碼）
// - 碰撞不是業務失敗：Save 觸發唯一約束時重新生成並重試
type CouponCode struct {
	value string
}

// GenerateCouponCode 生成新的優惠券代碼
func GenerateCouponCode() CouponCode {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return CouponCode{value: couponCodePrefix + strings.ToUpper(raw[:12])}
}

// CouponCodeFromString 從字串解析優惠券代碼
func CouponCodeFromString(s string) (CouponCode, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if len(trimmed) != couponCodeLength || !strings.HasPrefix(trimmed, couponCodePrefix) {
		return CouponCode{}, ErrInvalidCouponCode.WithContext("input", s)
	}
	return CouponCode{value: trimmed}, nil
}

// Value 獲取代碼字串
func (c CouponCode) Value() string {
	return c.value
}

// IsEmpty 判斷是否為零值
func (c CouponCode) IsEmpty() bool {
	return c.value == ""
}

// Equals 比較兩個代碼是否相等
func (c CouponCode) Equals(other CouponCode) bool {
	return c.value == other.value
}
