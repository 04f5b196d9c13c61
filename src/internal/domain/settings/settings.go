package settings

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ===========================
// 錯誤定義
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

const (
	ErrCodeInvalidSettings  ErrorCode = "SETTINGS_INVALID"
	ErrCodeSettingsNotFound ErrorCode = "SETTINGS_NOT_FOUND"
)

// DomainError 領域錯誤（與其他 bounded context 的結構對稱）
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實現 error 介面
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// WithContext 添加上下文信息（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}
	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}
	return &DomainError{Code: e.Code, Message: e.Message, Context: ctx}
}

// Is 實現 errors.Is 介面
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInvalidSettings = &DomainError{
		Code:    ErrCodeInvalidSettings,
		Message: "無效的忠誠度計畫設定",
	}

	ErrSettingsNotFound = &DomainError{
		Code:    ErrCodeSettingsNotFound,
		Message: "忠誠度計畫設定不存在",
	}
)

// ===========================
// LoyaltySettings 計畫設定
// ===========================

// LoyaltySettings 忠誠度計畫設定（單例，由管理端維護）
//
// 本引擎只讀取設定；所有欄位在載入時驗證，
// 防止管理端寫入的損壞資料污染帳務流程。
type LoyaltySettings struct {
	// PointsPerCurrencyUnit 每貨幣單位獲得的積分（floor 計算）
	PointsPerCurrencyUnit decimal.Decimal

	// CurrencyUnitsPerPoint 每積分的折抵價值（結帳定價端使用）
	CurrencyUnitsPerPoint decimal.Decimal

	// 等級門檻（BRONZE 隱含為 0，其餘必須遞增）
	SilverThreshold   int
	GoldThreshold     int
	PlatinumThreshold int

	// 推薦獎勵（兩側）
	ReferralBonus int // 推薦人獲得
	ReferredBonus int // 被推薦人獲得

	// PointExpirationDays 積分有效天數（0 = 永不過期）
	PointExpirationDays int

	// CouponValidityDays 兌換出的優惠券有效天數
	CouponValidityDays int
}

// DefaultSettings 預設計畫設定（首次啟動時播種）
func DefaultSettings() LoyaltySettings {
	return LoyaltySettings{
		PointsPerCurrencyUnit: decimal.NewFromInt(1),
		CurrencyUnitsPerPoint: decimal.NewFromFloat(0.01),
		SilverThreshold:       300,
		GoldThreshold:         1000,
		PlatinumThreshold:     5000,
		ReferralBonus:         100,
		ReferredBonus:         50,
		PointExpirationDays:   365,
		CouponValidityDays:    30,
	}
}

// Validate 驗證設定的完整性
func (s LoyaltySettings) Validate() error {
	if s.PointsPerCurrencyUnit.IsNegative() {
		return ErrInvalidSettings.WithContext("field", "pointsPerCurrencyUnit")
	}
	if s.CurrencyUnitsPerPoint.IsNegative() {
		return ErrInvalidSettings.WithContext("field", "currencyUnitsPerPoint")
	}
	if s.SilverThreshold <= 0 || s.GoldThreshold <= s.SilverThreshold || s.PlatinumThreshold <= s.GoldThreshold {
		return ErrInvalidSettings.WithContext(
			"field", "tierThresholds",
			"silver", s.SilverThreshold,
			"gold", s.GoldThreshold,
			"platinum", s.PlatinumThreshold,
		)
	}
	if s.ReferralBonus <= 0 || s.ReferredBonus <= 0 {
		return ErrInvalidSettings.WithContext("field", "referralBonus")
	}
	if s.PointExpirationDays < 0 {
		return ErrInvalidSettings.WithContext("field", "pointExpirationDays")
	}
	if s.CouponValidityDays <= 0 {
		return ErrInvalidSettings.WithContext("field", "couponValidityDays")
	}
	return nil
}

// LotExpiryFrom 由入帳時間推導批次過期時間（計畫不設過期時返回 nil）
func (s LoyaltySettings) LotExpiryFrom(now time.Time) *time.Time {
	if s.PointExpirationDays <= 0 {
		return nil
	}
	expiry := now.AddDate(0, 0, s.PointExpirationDays)
	return &expiry
}

// CouponExpiryFrom 由兌換時間推導優惠券有效期限
func (s LoyaltySettings) CouponExpiryFrom(now time.Time) time.Time {
	return now.AddDate(0, 0, s.CouponValidityDays)
}
