package http

import (
	"github.com/gin-gonic/gin"
)

// ===========================
// Router
// ===========================

// NewRouter 建立 gin 路由
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.Default()

	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/customers", h.RegisterCustomer)
		v1.GET("/customers/:id/balance", h.GetBalance)

		v1.POST("/orders/paid", h.OrderPaid)
		v1.POST("/referrals", h.ApplyReferral)

		v1.POST("/redemptions", h.RedeemReward)
		v1.POST("/redemptions/:id/cancel", h.CancelRedemption)
		v1.POST("/coupons/:code/apply", h.ApplyCoupon)

		v1.POST("/sweep", h.Sweep)
	}

	return router
}
