package customer

import (
	"strings"

	"github.com/google/uuid"
)

// ===========================
// Email 值對象
// ===========================

// Email 電子郵件值對象
// 設計原則：值對象不可變、自我驗證
//
// 電子郵件由外部身份系統提供，這裡只做最低限度的結構檢查，
// 不做完整 RFC 驗證（那是身份系統的職責）。
type Email struct {
	value string
}

// NewEmail 建構函數
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Email{}, ErrInvalidEmail.WithContext("reason", "email cannot be empty")
	}

	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return Email{}, ErrInvalidEmail.WithContext("input", trimmed)
	}

	return Email{value: strings.ToLower(trimmed)}, nil
}

// Value 獲取電子郵件字串
func (e Email) Value() string {
	return e.value
}

// Equals 比較兩個 Email 是否相等
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// ===========================
// ReferralCode 值對象
// ===========================

// referralCodePrefix 推薦碼前綴
const referralCodePrefix = "REF-"

// referralCodeLength 推薦碼總長度（前綴 + 8 碼）
const referralCodeLength = len(referralCodePrefix) + 8

// ReferralCode 推薦碼值對象
//
// 業務規則：
// - 每位顧客擁有一組唯一推薦碼（唯一性由資料庫唯一約束保證）
// - 格式：REF-XXXXXXXX（大寫十六進制，取自 UUID 前 8 碼）
type ReferralCode struct {
	value string
}

// GenerateReferralCode 生成新的推薦碼
//
// 碰撞由資料庫唯一約束攔截，調用者收到衝突時重新生成即可；
// 碰撞不是業務錯誤，只是重試觸發條件。
func GenerateReferralCode() ReferralCode {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return ReferralCode{value: referralCodePrefix + strings.ToUpper(raw[:8])}
}

// ReferralCodeFromString 從字串解析推薦碼
func ReferralCodeFromString(s string) (ReferralCode, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) != referralCodeLength || !strings.HasPrefix(trimmed, referralCodePrefix) {
		return ReferralCode{}, ErrInvalidReferralCode.WithContext("input", s)
	}
	return ReferralCode{value: trimmed}, nil
}

// Value 獲取推薦碼字串
func (r ReferralCode) Value() string {
	return r.value
}

// IsEmpty 判斷是否為零值
func (r ReferralCode) IsEmpty() bool {
	return r.value == ""
}

// Equals 比較兩個推薦碼是否相等
func (r ReferralCode) Equals(other ReferralCode) bool {
	return r.value == other.value
}
