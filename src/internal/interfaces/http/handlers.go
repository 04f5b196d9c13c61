package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	applcustomer "github.com/jackyeh168/loyalty_engine/src/internal/application/customer"
	applledger "github.com/jackyeh168/loyalty_engine/src/internal/application/ledger"
	applreferral "github.com/jackyeh168/loyalty_engine/src/internal/application/referral"
	applreward "github.com/jackyeh168/loyalty_engine/src/internal/application/reward"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/reward"
)

// ===========================
// HTTP Handlers
// ===========================

// Handlers 聚合所有 Use Case 的 HTTP 入口
type Handlers struct {
	registerCustomer *applcustomer.RegisterCustomerUseCase
	getBalance       *applledger.GetBalanceUseCase
	earnFromOrder    *applledger.EarnFromOrderUseCase
	expirePoints     *applledger.ExpirePointsUseCase
	applyReferral    *applreferral.ApplyReferralUseCase
	redeemReward     *applreward.RedeemRewardUseCase
	applyCoupon      *applreward.ApplyCouponUseCase
	cancelRedemption *applreward.CancelRedemptionUseCase
}

// NewHandlers 創建 HTTP handler 集合
func NewHandlers(
	registerCustomer *applcustomer.RegisterCustomerUseCase,
	getBalance *applledger.GetBalanceUseCase,
	earnFromOrder *applledger.EarnFromOrderUseCase,
	expirePoints *applledger.ExpirePointsUseCase,
	applyReferral *applreferral.ApplyReferralUseCase,
	redeemReward *applreward.RedeemRewardUseCase,
	applyCoupon *applreward.ApplyCouponUseCase,
	cancelRedemption *applreward.CancelRedemptionUseCase,
) *Handlers {
	return &Handlers{
		registerCustomer: registerCustomer,
		getBalance:       getBalance,
		earnFromOrder:    earnFromOrder,
		expirePoints:     expirePoints,
		applyReferral:    applyReferral,
		redeemReward:     redeemReward,
		applyCoupon:      applyCoupon,
		cancelRedemption: cancelRedemption,
	}
}

// RegisterCustomer POST /api/v1/customers
func (h *Handlers) RegisterCustomer(c *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required"`
		ReferralCode string `json:"referral_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.registerCustomer.Execute(applcustomer.RegisterCustomerCommand{
		Email:        req.Email,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer_id":    result.CustomerID,
		"email":          result.Email,
		"referral_code":  result.ReferralCode,
		"tier":           result.Tier,
		"referred_by":    result.ReferredBy,
		"referral_bonus": result.ReferralBonus,
	})
}

// GetBalance GET /api/v1/customers/:id/balance
func (h *Handlers) GetBalance(c *gin.Context) {
	result, err := h.getBalance.Execute(applledger.GetBalanceQuery{
		CustomerID: c.Param("id"),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id":          result.CustomerID,
		"current_balance":      result.CurrentBalance,
		"lifetime_points":      result.LifetimePoints,
		"tier":                 result.Tier,
		"referral_code":        result.ReferralCode,
		"referral_count":       result.ReferralCount,
		"points_expiring_soon": result.PointsExpiringSoon,
	})
}

// OrderPaid POST /api/v1/orders/paid
func (h *Handlers) OrderPaid(c *gin.Context) {
	var req struct {
		CustomerID string          `json:"customer_id" binding:"required"`
		Email      string          `json:"email"`
		OrderID    string          `json:"order_id" binding:"required"`
		OrderTotal decimal.Decimal `json:"order_total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.earnFromOrder.Execute(applledger.EarnFromOrderCommand{
		CustomerID: req.CustomerID,
		Email:      req.Email,
		OrderID:    req.OrderID,
		OrderTotal: req.OrderTotal,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id":      result.CustomerID,
		"points_earned":    result.PointsEarned,
		"lot_id":           result.LotID,
		"new_balance":      result.NewBalance,
		"lifetime_points":  result.LifetimePoints,
		"tier":             result.Tier,
		"tier_changed":     result.TierChanged,
		"customer_created": result.CustomerCreated,
	})
}

// ApplyReferral POST /api/v1/referrals
//
// 已被推薦的顧客重複提交視為冪等成功（200 + already_referred）。
func (h *Handlers) ApplyReferral(c *gin.Context) {
	var req struct {
		CustomerID   string `json:"customer_id" binding:"required"`
		ReferralCode string `json:"referral_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.applyReferral.Execute(applreferral.ApplyReferralCommand{
		CustomerID:   req.CustomerID,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		if errors.Is(err, customer.ErrAlreadyReferred) {
			c.JSON(http.StatusOK, gin.H{"already_referred": true})
			return
		}
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrer_id":       result.ReferrerID,
		"bonus_to_referrer": result.BonusToReferrer,
		"bonus_to_customer": result.BonusToCustomer,
	})
}

// RedeemReward POST /api/v1/redemptions
func (h *Handlers) RedeemReward(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customer_id" binding:"required"`
		RewardID   string `json:"reward_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.redeemReward.Execute(applreward.RedeemRewardCommand{
		CustomerID: req.CustomerID,
		RewardID:   req.RewardID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"redemption_id": result.RedemptionID,
		"coupon_code":   result.CouponCode,
		"points_spent":  result.PointsSpent,
		"new_balance":   result.NewBalance,
		"expires_at":    result.ExpiresAt,
	})
}

// ApplyCoupon POST /api/v1/coupons/:code/apply
func (h *Handlers) ApplyCoupon(c *gin.Context) {
	var req struct {
		OrderTotal decimal.Decimal `json:"order_total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.applyCoupon.Execute(applreward.ApplyCouponCommand{
		CouponCode: c.Param("code"),
		OrderTotal: req.OrderTotal,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemption_id": result.RedemptionID,
		"reward_id":     result.RewardID,
		"reward_type":   result.RewardType,
		"reward_value":  result.RewardValue,
	})
}

// CancelRedemption POST /api/v1/redemptions/:id/cancel
func (h *Handlers) CancelRedemption(c *gin.Context) {
	result, err := h.cancelRedemption.Execute(applreward.CancelRedemptionCommand{
		RedemptionID: c.Param("id"),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemption_id": result.RedemptionID,
		"status":        result.Status,
	})
}

// Sweep POST /api/v1/sweep
//
// 排程器或管理端觸發的過期清掃，重複調用安全。
func (h *Handlers) Sweep(c *gin.Context) {
	result, err := h.expirePoints.Execute(applledger.ExpirePointsCommand{})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers_swept":     result.CustomersSwept,
		"lots_expired":        result.LotsExpired,
		"points_expired":      result.PointsExpired,
		"redemptions_expired": result.RedemptionsExpired,
		"customers_failed":    result.CustomersFailed,
	})
}

// Health GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ===========================
// 錯誤轉換
// ===========================

// respondDomainError 將 Domain 錯誤轉換為 HTTP 回應
func respondDomainError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor 決定 Domain 錯誤對應的 HTTP 狀態碼
func statusFor(err error) int {
	switch {
	// 404 資源不存在
	case errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, ledger.ErrLotNotFound),
		errors.Is(err, reward.ErrRewardNotFound),
		errors.Is(err, reward.ErrRedemptionNotFound):
		return http.StatusNotFound

	// 409 狀態衝突
	case errors.Is(err, customer.ErrCustomerAlreadyExists),
		errors.Is(err, customer.ErrAlreadyReferred),
		errors.Is(err, reward.ErrRewardInactive),
		errors.Is(err, reward.ErrRewardExhausted),
		errors.Is(err, reward.ErrCouponInvalid),
		errors.Is(err, reward.ErrCouponExpired),
		errors.Is(err, reward.ErrInvalidTransition),
		errors.Is(err, reward.ErrCouponCodeTaken):
		return http.StatusConflict

	// 422 商業規則拒絕
	case errors.Is(err, ledger.ErrInsufficientPoints),
		errors.Is(err, customer.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity

	// 400 輸入問題
	case errors.Is(err, customer.ErrInvalidCustomerID),
		errors.Is(err, customer.ErrInvalidEmail),
		errors.Is(err, customer.ErrInvalidReferralCode),
		errors.Is(err, customer.ErrSelfReferral),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativePointsAmount),
		errors.Is(err, reward.ErrInvalidCouponCode),
		errors.Is(err, reward.ErrInvalidRewardID),
		errors.Is(err, reward.ErrInvalidRedemptionID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
