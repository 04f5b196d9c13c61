package customer

import (
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// Customer 聚合根
// ===========================

// Customer 忠誠度顧客聚合根
//
// 設計原則：
// 1. 輕量級聚合：不包含無界集合（積分批次與流水帳儲存在獨立表）
// 2. Tell, Don't Ask：封裝業務邏輯，不暴露內部狀態供外部判斷
// 3. 事件驅動：等級變更等狀態變化發布領域事件
//
// 業務不變條件：
// - lifetimePoints >= 0 且單調遞增（只透過 Credit 增加，永不減少）
// - currentBalance >= 0（餘額為物化投影，與批次剩餘量、流水帳差額一致，
//   由同一事務中的寫入維護）
// - referredBy 一經設定不可變更（一位顧客只能被推薦一次）
type Customer struct {
	// 識別欄位
	customerID   CustomerID
	email        Email
	referralCode ReferralCode

	// 積分投影
	lifetimePoints int
	currentBalance int
	tier           Tier

	// 推薦關係
	referralCount int
	referredBy    *CustomerID

	// 審計欄位
	createdAt time.Time
	updatedAt time.Time

	// 待發布的領域事件
	events []shared.DomainEvent
}

// NewCustomer 建立新的忠誠度檔案
//
// 參數：
//   - customerID: 外部身份系統提供的顧客 ID
//   - email: 顧客電子郵件
//   - referralCode: 該顧客的專屬推薦碼
//
// 業務規則：
// - 初始餘額與終身積分為 0，等級為 BRONZE
// - 發布 CustomerRegisteredEvent
func NewCustomer(customerID CustomerID, email Email, referralCode ReferralCode) (*Customer, error) {
	if customerID.IsEmpty() {
		return nil, ErrInvalidCustomerID.WithContext("reason", "customerID cannot be empty")
	}
	if referralCode.IsEmpty() {
		return nil, ErrInvalidReferralCode.WithContext("reason", "referralCode cannot be empty")
	}

	now := time.Now()

	c := &Customer{
		customerID:   customerID,
		email:        email,
		referralCode: referralCode,
		tier:         TierBronze,
		createdAt:    now,
		updatedAt:    now,
		events:       make([]shared.DomainEvent, 0),
	}

	c.addEvent(NewCustomerRegisteredEvent(customerID, email))

	return c, nil
}

// ReconstructCustomer 從持久化存儲重建聚合根（僅供 Repository 使用）
//
// 與 NewCustomer 的區別：重建不發布事件（事件已發生過）。
// 即使是從資料庫重建，也必須驗證不變條件，防止損壞資料污染領域層。
func ReconstructCustomer(
	customerID CustomerID,
	email Email,
	referralCode ReferralCode,
	lifetimePoints int,
	currentBalance int,
	tier Tier,
	referralCount int,
	referredBy *CustomerID,
	createdAt time.Time,
	updatedAt time.Time,
) (*Customer, error) {
	if customerID.IsEmpty() {
		return nil, ErrInvalidCustomerID.WithContext("reason", "invalid customer ID in database")
	}
	if lifetimePoints < 0 || currentBalance < 0 {
		return nil, ErrNegativePoints.WithContext(
			"lifetimePoints", lifetimePoints,
			"currentBalance", currentBalance,
		)
	}
	if !tier.IsValid() {
		tier = TierBronze
	}

	return &Customer{
		customerID:     customerID,
		email:          email,
		referralCode:   referralCode,
		lifetimePoints: lifetimePoints,
		currentBalance: currentBalance,
		tier:           tier,
		referralCount:  referralCount,
		referredBy:     referredBy,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		events:         make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================
//
// 供 Repository 持久化與 Application Layer DTO 轉換使用，
// 不應在業務邏輯中用這些 getter 做判斷。

// CustomerID 獲取顧客 ID
func (c *Customer) CustomerID() CustomerID {
	return c.customerID
}

// Email 獲取電子郵件
func (c *Customer) Email() Email {
	return c.email
}

// ReferralCode 獲取推薦碼
func (c *Customer) ReferralCode() ReferralCode {
	return c.referralCode
}

// LifetimePoints 獲取終身累積獲得積分
func (c *Customer) LifetimePoints() int {
	return c.lifetimePoints
}

// CurrentBalance 獲取目前可用餘額
func (c *Customer) CurrentBalance() int {
	return c.currentBalance
}

// Tier 獲取目前等級
func (c *Customer) Tier() Tier {
	return c.tier
}

// ReferralCount 獲取成功推薦人數
func (c *Customer) ReferralCount() int {
	return c.referralCount
}

// ReferredBy 獲取推薦人 ID（未被推薦時為 nil）
func (c *Customer) ReferredBy() *CustomerID {
	return c.referredBy
}

// CreatedAt 獲取建立時間
func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt 獲取最後更新時間
func (c *Customer) UpdatedAt() time.Time {
	return c.updatedAt
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// Credit 入帳積分
//
// 參數：
//   - amount: 入帳積分（必須 > 0）
//   - countsTowardLifetime: 是否計入終身積分
//     （EARN / REFERRAL_BONUS / REFERRED_BONUS 計入；ADJUSTMENT 不計入）
//
// 不變條件維護：lifetimePoints 只在此方法增加，永不減少
func (c *Customer) Credit(amount int, countsTowardLifetime bool) error {
	if amount <= 0 {
		return ErrNegativePoints.WithContext("amount", amount)
	}

	c.currentBalance += amount
	if countsTowardLifetime {
		c.lifetimePoints += amount
	}
	c.updatedAt = time.Now()

	return nil
}

// Debit 扣減餘額（消耗或過期）
//
// 前置條件：調用者（配置器 / 過期清掃）已確認批次足以涵蓋扣減量。
// 餘額不足在這裡屬於不變條件違反（投影與批次不一致），不是業務失敗。
func (c *Customer) Debit(amount int) error {
	if amount <= 0 {
		return ErrNegativePoints.WithContext("amount", amount)
	}
	if amount > c.currentBalance {
		return ErrInsufficientBalance.WithContext(
			"requested", amount,
			"balance", c.currentBalance,
		)
	}

	c.currentBalance -= amount
	c.updatedAt = time.Now()

	return nil
}

// RecalculateTier 重新推導等級
//
// 業務規則：
// - 每次 EARN 類入帳後調用
// - 等級只由 lifetimePoints 推導；正常獲得流程下只升不降
// - 等級變更時發布 TierChangedEvent（由外部通知器消費）
//
// 返回：等級是否變更
func (c *Customer) RecalculateTier(thresholds TierThresholds) bool {
	derived := DeriveTier(c.lifetimePoints, thresholds)
	if derived == c.tier {
		return false
	}

	previous := c.tier
	c.tier = derived
	c.updatedAt = time.Now()

	c.addEvent(NewTierChangedEvent(c.customerID, previous, derived, c.lifetimePoints))

	return true
}

// MarkReferred 標記此顧客由某推薦人推薦
//
// 冪等保護：一位顧客只能被推薦一次。重複套用（重送的事件）
// 返回 ErrAlreadyReferred，調用者應視為 no-op 成功，不得重複入帳獎勵。
func (c *Customer) MarkReferred(referrerID CustomerID) error {
	if referrerID.IsEmpty() {
		return ErrInvalidCustomerID.WithContext("reason", "referrerID cannot be empty")
	}
	if referrerID.Equals(c.customerID) {
		return ErrSelfReferral.WithContext("customer_id", c.customerID.String())
	}
	if c.referredBy != nil {
		return ErrAlreadyReferred.WithContext(
			"customer_id", c.customerID.String(),
			"referred_by", c.referredBy.String(),
		)
	}

	c.referredBy = &referrerID
	c.updatedAt = time.Now()

	return nil
}

// IncrementReferralCount 累加成功推薦人數（推薦獎勵入帳時調用）
func (c *Customer) IncrementReferralCount() {
	c.referralCount++
	c.updatedAt = time.Now()
}

// ===========================
// 事件管理
// ===========================

// addEvent 添加領域事件到待發布列表
func (c *Customer) addEvent(event shared.DomainEvent) {
	c.events = append(c.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表（Pull 模式，只讀取一次）
func (c *Customer) PullEvents() []shared.DomainEvent {
	events := c.events
	c.events = make([]shared.DomainEvent, 0)
	return events
}
