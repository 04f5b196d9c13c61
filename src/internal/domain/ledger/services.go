package ledger

import (
	"github.com/shopspring/decimal"
)

// ===========================
// PointsConversionService 領域服務
// ===========================

// PointsConversionService 消費金額 → 積分轉換領域服務
//
// 設計原則：
// 1. Domain Service 封裝不屬於任何單一實體/值對象的業務邏輯
// 2. 無狀態（stateless）：所有數據通過參數傳入，可安全共享
type PointsConversionService struct{}

// NewPointsConversionService 建構函數
func NewPointsConversionService() *PointsConversionService {
	return &PointsConversionService{}
}

// PointsForOrderTotal 計算一筆已付款訂單應入帳的積分
//
// 業務規則：
// - 積分 = floor(訂單金額 × pointsPerCurrencyUnit)
// - 向下取整：消費 99.99 元、匯率 1 時得 99 點，不是 100
// - 非正數金額返回 0 積分（不入帳，不報錯 — 零金額訂單不是異常）
//
// 使用 decimal 確保金額乘法精確，避免浮點誤差。
func (s *PointsConversionService) PointsForOrderTotal(
	orderTotal decimal.Decimal,
	pointsPerCurrencyUnit decimal.Decimal,
) (PointsAmount, error) {
	points := orderTotal.Mul(pointsPerCurrencyUnit).Floor().IntPart()
	if points < 0 {
		points = 0
	}
	return NewPointsAmount(int(points))
}
