package reward

import (
	"time"
)

// ===========================
// RedemptionStatus 兌換狀態
// ===========================

// RedemptionStatus 兌換狀態機的狀態
//
// 狀態機：
//
//	PENDING --(結帳套用優惠券)--> USED
//	PENDING --(超過 expiresAt，清掃或讀取時偵測)--> EXPIRED
//	PENDING --(管理端操作)--> CANCELLED
//
// USED / EXPIRED / CANCELLED 為終止狀態，不允許任何離開終止狀態的轉移。
type RedemptionStatus string

const (
	StatusPending   RedemptionStatus = "PENDING"
	StatusUsed      RedemptionStatus = "USED"
	StatusExpired   RedemptionStatus = "EXPIRED"
	StatusCancelled RedemptionStatus = "CANCELLED"
)

// IsValid 判斷是否為合法狀態
func (s RedemptionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusUsed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal 是否為終止狀態
func (s RedemptionStatus) IsTerminal() bool {
	return s != StatusPending
}

// ===========================
// Redemption 兌換記錄
// ===========================

// Redemption 兌換記錄（積分換獎勵的審計事實，攜帶單次使用的優惠券）
//
// 業務不變條件：
// - pointsSpent 凍結為兌換當下的 reward.pointsCost，之後改價不影響
// - couponCode 全域唯一、單次使用
// - 取消 / 過期 PENDING 兌換不自動退還積分（政策選擇：
//   退點若要支援，應是透過正常帳務路徑的 ADJUSTMENT 入帳，而非回溯）
type Redemption struct {
	redemptionID RedemptionID
	customerID   CustomerID
	rewardID     RewardID

	pointsSpent int
	couponCode  CouponCode
	status      RedemptionStatus

	createdAt time.Time
	expiresAt time.Time
	updatedAt time.Time
}

// NewRedemption 建立新的兌換記錄（PENDING）
//
// 參數：
//   - pointsSpent: 兌換當下凍結的積分成本
//   - couponCode: 新生成的優惠券代碼（唯一性由資料庫約束把關）
//   - expiresAt: 優惠券有效期限（now + couponValidityDays）
func NewRedemption(
	customerID CustomerID,
	rewardID RewardID,
	pointsSpent int,
	couponCode CouponCode,
	expiresAt time.Time,
) (*Redemption, error) {
	if customerID.IsEmpty() {
		return nil, ErrInvalidRewardCustomerID.WithContext("reason", "customerID cannot be empty")
	}
	if rewardID.IsEmpty() {
		return nil, ErrInvalidRewardID.WithContext("reason", "rewardID cannot be empty")
	}
	if pointsSpent <= 0 {
		return nil, ErrInvalidPointsCost.WithContext("points_spent", pointsSpent)
	}
	if couponCode.IsEmpty() {
		return nil, ErrInvalidCouponCode.WithContext("reason", "couponCode cannot be empty")
	}

	now := time.Now()

	return &Redemption{
		redemptionID: NewRedemptionID(),
		customerID:   customerID,
		rewardID:     rewardID,
		pointsSpent:  pointsSpent,
		couponCode:   couponCode,
		status:       StatusPending,
		createdAt:    now,
		expiresAt:    expiresAt,
		updatedAt:    now,
	}, nil
}

// ReconstructRedemption 從持久化存儲重建（僅供 Repository 使用）
func ReconstructRedemption(
	redemptionID RedemptionID,
	customerID CustomerID,
	rewardID RewardID,
	pointsSpent int,
	couponCode CouponCode,
	status RedemptionStatus,
	createdAt time.Time,
	expiresAt time.Time,
	updatedAt time.Time,
) (*Redemption, error) {
	if redemptionID.IsEmpty() {
		return nil, ErrInvalidRedemptionID.WithContext("reason", "invalid redemption ID in database")
	}
	if !status.IsValid() {
		return nil, ErrInvalidTransition.WithContext("status", string(status))
	}

	return &Redemption{
		redemptionID: redemptionID,
		customerID:   customerID,
		rewardID:     rewardID,
		pointsSpent:  pointsSpent,
		couponCode:   couponCode,
		status:       status,
		createdAt:    createdAt,
		expiresAt:    expiresAt,
		updatedAt:    updatedAt,
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// RedemptionID 獲取兌換 ID
func (r *Redemption) RedemptionID() RedemptionID { return r.redemptionID }

// CustomerID 獲取顧客 ID
func (r *Redemption) CustomerID() CustomerID { return r.customerID }

// RewardID 獲取獎勵 ID
func (r *Redemption) RewardID() RewardID { return r.rewardID }

// PointsSpent 獲取兌換當下凍結的積分成本
func (r *Redemption) PointsSpent() int { return r.pointsSpent }

// CouponCode 獲取優惠券代碼
func (r *Redemption) CouponCode() CouponCode { return r.couponCode }

// Status 獲取目前狀態
func (r *Redemption) Status() RedemptionStatus { return r.status }

// CreatedAt 獲取建立時間
func (r *Redemption) CreatedAt() time.Time { return r.createdAt }

// ExpiresAt 獲取優惠券有效期限
func (r *Redemption) ExpiresAt() time.Time { return r.expiresAt }

// UpdatedAt 獲取最後更新時間
func (r *Redemption) UpdatedAt() time.Time { return r.updatedAt }

// IsOverdue 是否已超過有效期限（不論狀態）
func (r *Redemption) IsOverdue(now time.Time) bool {
	return !r.expiresAt.After(now)
}

// ===========================
// 命令方法（狀態轉移）
// ===========================

// MarkUsed 結帳套用優惠券：PENDING → USED
//
// 錯誤：
// - ErrCouponInvalid: 非 PENDING 狀態（已用過、已取消、已過期）
// - ErrCouponExpired: PENDING 但已超過有效期限（調用者應改走 MarkExpired）
func (r *Redemption) MarkUsed(now time.Time) error {
	if r.status != StatusPending {
		return ErrCouponInvalid.WithContext(
			"redemption_id", r.redemptionID.String(),
			"status", string(r.status),
		)
	}
	if r.IsOverdue(now) {
		return ErrCouponExpired.WithContext(
			"redemption_id", r.redemptionID.String(),
			"expires_at", r.expiresAt,
		)
	}

	r.status = StatusUsed
	r.updatedAt = time.Now()
	return nil
}

// MarkExpired 過期偵測（清掃或讀取時）：PENDING → EXPIRED
//
// 錯誤：ErrInvalidTransition（非 PENDING、或尚未到期）
func (r *Redemption) MarkExpired(now time.Time) error {
	if r.status != StatusPending {
		return ErrInvalidTransition.WithContext(
			"redemption_id", r.redemptionID.String(),
			"status", string(r.status),
		)
	}
	if !r.IsOverdue(now) {
		return ErrInvalidTransition.WithContext(
			"redemption_id", r.redemptionID.String(),
			"reason", "not yet overdue",
		)
	}

	r.status = StatusExpired
	r.updatedAt = time.Now()
	return nil
}

// Cancel 管理端取消：PENDING → CANCELLED
//
// 已消耗的積分不退還（見聚合註解的政策選擇）。
func (r *Redemption) Cancel() error {
	if r.status != StatusPending {
		return ErrInvalidTransition.WithContext(
			"redemption_id", r.redemptionID.String(),
			"status", string(r.status),
		)
	}

	r.status = StatusCancelled
	r.updatedAt = time.Now()
	return nil
}
