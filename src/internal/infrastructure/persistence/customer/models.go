package customer

import (
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
)

// ===========================
// GORM Models
// ===========================

// CustomerGORM 顧客資料表模型
//
// 資料庫約束：
// - customer_id: 主鍵（UUID）
// - email: 唯一索引（防止重複註冊）
// - referral_code: 唯一索引（推薦碼全域唯一）
// - referred_by: 可為空（未被推薦的顧客）
type CustomerGORM struct {
	CustomerID   string `gorm:"column:customer_id;type:varchar(36);primaryKey"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	ReferralCode string `gorm:"column:referral_code;type:varchar(16);uniqueIndex;not null"`

	// 積分投影（帳務真相在 point_lots / ledger_entries）
	LifetimePoints int    `gorm:"column:lifetime_points;not null;default:0"`
	CurrentBalance int    `gorm:"column:current_balance;not null;default:0"`
	Tier           string `gorm:"column:tier;type:varchar(16);not null"`

	// 推薦關係
	ReferralCount int     `gorm:"column:referral_count;not null;default:0"`
	ReferredBy    *string `gorm:"column:referred_by;type:varchar(36)"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (CustomerGORM) TableName() string {
	return "customers"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 聚合
func (m *CustomerGORM) toDomain() (*customer.Customer, error) {
	customerID, err := customer.CustomerIDFromString(m.CustomerID)
	if err != nil {
		return nil, err
	}
	email, err := customer.NewEmail(m.Email)
	if err != nil {
		return nil, err
	}
	referralCode, err := customer.ReferralCodeFromString(m.ReferralCode)
	if err != nil {
		return nil, err
	}

	var referredBy *customer.CustomerID
	if m.ReferredBy != nil {
		id, err := customer.CustomerIDFromString(*m.ReferredBy)
		if err != nil {
			return nil, err
		}
		referredBy = &id
	}

	return customer.ReconstructCustomer(
		customerID,
		email,
		referralCode,
		m.LifetimePoints,
		m.CurrentBalance,
		customer.Tier(m.Tier),
		m.ReferralCount,
		referredBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// toGORM 將 Domain 聚合轉換為 GORM 模型
func toGORM(c *customer.Customer) *CustomerGORM {
	var referredBy *string
	if c.ReferredBy() != nil {
		id := c.ReferredBy().String()
		referredBy = &id
	}

	return &CustomerGORM{
		CustomerID:     c.CustomerID().String(),
		Email:          c.Email().Value(),
		ReferralCode:   c.ReferralCode().Value(),
		LifetimePoints: c.LifetimePoints(),
		CurrentBalance: c.CurrentBalance(),
		Tier:           string(c.Tier()),
		ReferralCount:  c.ReferralCount(),
		ReferredBy:     referredBy,
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
}
