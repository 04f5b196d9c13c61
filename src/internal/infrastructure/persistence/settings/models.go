package settings

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
)

// ===========================
// GORM Models
// ===========================

// singletonRowID 設定表固定只有一列
const singletonRowID = 1

// LoyaltySettingsGORM 計畫設定資料表模型（單例列）
type LoyaltySettingsGORM struct {
	ID int `gorm:"column:id;primaryKey"`

	PointsPerCurrencyUnit decimal.Decimal `gorm:"column:points_per_currency_unit;type:decimal(12,4);not null"`
	CurrencyUnitsPerPoint decimal.Decimal `gorm:"column:currency_units_per_point;type:decimal(12,4);not null"`

	SilverThreshold   int `gorm:"column:silver_threshold;not null"`
	GoldThreshold     int `gorm:"column:gold_threshold;not null"`
	PlatinumThreshold int `gorm:"column:platinum_threshold;not null"`

	ReferralBonus int `gorm:"column:referral_bonus;not null"`
	ReferredBonus int `gorm:"column:referred_bonus;not null"`

	PointExpirationDays int `gorm:"column:point_expiration_days;not null"`
	CouponValidityDays  int `gorm:"column:coupon_validity_days;not null"`

	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (LoyaltySettingsGORM) TableName() string {
	return "loyalty_settings"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 設定
func (m *LoyaltySettingsGORM) toDomain() settings.LoyaltySettings {
	return settings.LoyaltySettings{
		PointsPerCurrencyUnit: m.PointsPerCurrencyUnit,
		CurrencyUnitsPerPoint: m.CurrencyUnitsPerPoint,
		SilverThreshold:       m.SilverThreshold,
		GoldThreshold:         m.GoldThreshold,
		PlatinumThreshold:     m.PlatinumThreshold,
		ReferralBonus:         m.ReferralBonus,
		ReferredBonus:         m.ReferredBonus,
		PointExpirationDays:   m.PointExpirationDays,
		CouponValidityDays:    m.CouponValidityDays,
	}
}

// toGORM 將 Domain 設定轉換為 GORM 模型
func toGORM(s settings.LoyaltySettings) *LoyaltySettingsGORM {
	return &LoyaltySettingsGORM{
		ID:                    singletonRowID,
		PointsPerCurrencyUnit: s.PointsPerCurrencyUnit,
		CurrencyUnitsPerPoint: s.CurrencyUnitsPerPoint,
		SilverThreshold:       s.SilverThreshold,
		GoldThreshold:         s.GoldThreshold,
		PlatinumThreshold:     s.PlatinumThreshold,
		ReferralBonus:         s.ReferralBonus,
		ReferredBonus:         s.ReferredBonus,
		PointExpirationDays:   s.PointExpirationDays,
		CouponValidityDays:    s.CouponValidityDays,
		UpdatedAt:             time.Now(),
	}
}
