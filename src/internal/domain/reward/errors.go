package reward

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

const (
	// 獎勵相關
	ErrCodeInvalidRewardID   ErrorCode = "REWARD_ID_INVALID"
	ErrCodeInvalidRewardType ErrorCode = "REWARD_TYPE_INVALID"
	ErrCodeInvalidPointsCost ErrorCode = "REWARD_POINTS_COST_INVALID"
	ErrCodeRewardNotFound    ErrorCode = "REWARD_NOT_FOUND"
	ErrCodeRewardInactive    ErrorCode = "REWARD_INACTIVE"
	ErrCodeRewardExhausted   ErrorCode = "REWARD_EXHAUSTED"

	// 兌換相關
	ErrCodeInvalidRedemptionID ErrorCode = "REDEMPTION_ID_INVALID"
	ErrCodeRedemptionNotFound  ErrorCode = "REDEMPTION_NOT_FOUND"
	ErrCodeInvalidTransition   ErrorCode = "REDEMPTION_INVALID_TRANSITION"

	// 優惠券相關
	ErrCodeInvalidCouponCode ErrorCode = "COUPON_CODE_INVALID"
	ErrCodeCouponCodeTaken   ErrorCode = "COUPON_CODE_TAKEN"
	ErrCodeCouponInvalid     ErrorCode = "COUPON_INVALID"
	ErrCodeCouponExpired     ErrorCode = "COUPON_EXPIRED"

	// 顧客相關（reward context 視角）
	ErrCodeInvalidCustomerID ErrorCode = "REWARD_CUSTOMER_ID_INVALID"
)

// ===========================
// DomainError 結構
// ===========================

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

// WithContext 添加上下文信息（返回新的錯誤實例，保持不可變性）
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

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 介面（以錯誤代碼判斷同類錯誤）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ===========================
// 預定義錯誤
// ===========================

var (
	ErrInvalidRewardID = &DomainError{
		Code:    ErrCodeInvalidRewardID,
		Message: "無效的獎勵 ID",
	}

	ErrInvalidRewardType = &DomainError{
		Code:    ErrCodeInvalidRewardType,
		Message: "無效的獎勵類型",
	}

	ErrInvalidPointsCost = &DomainError{
		Code:    ErrCodeInvalidPointsCost,
		Message: "獎勵積分成本必須為正數",
	}

	ErrRewardNotFound = &DomainError{
		Code:    ErrCodeRewardNotFound,
		Message: "獎勵不存在",
	}

	ErrRewardInactive = &DomainError{
		Code:    ErrCodeRewardInactive,
		Message: "獎勵已停用",
	}

	// ErrRewardExhausted 全域兌換上限已用罄
	ErrRewardExhausted = &DomainError{
		Code:    ErrCodeRewardExhausted,
		Message: "獎勵兌換次數已達上限",
	}
)

var (
	ErrInvalidRedemptionID = &DomainError{
		Code:    ErrCodeInvalidRedemptionID,
		Message: "無效的兌換 ID",
	}

	ErrRedemptionNotFound = &DomainError{
		Code:    ErrCodeRedemptionNotFound,
		Message: "兌換記錄不存在",
	}

	// ErrInvalidTransition 兌換狀態機違規
	// USED / EXPIRED / CANCELLED 為終止狀態，不允許任何離開終止狀態的轉移
	ErrInvalidTransition = &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: "不允許的兌換狀態轉移",
	}
)

var (
	ErrInvalidCouponCode = &DomainError{
		Code:    ErrCodeInvalidCouponCode,
		Message: "無效的優惠券代碼格式",
	}

	// ErrCouponCodeTaken 優惠券代碼唯一約束衝突
	// 不是業務失敗，只是重新生成代碼的重試觸發條件
	ErrCouponCodeTaken = &DomainError{
		Code:    ErrCodeCouponCodeTaken,
		Message: "優惠券代碼已被使用",
	}

	// ErrCouponInvalid 結帳時套用失敗（不存在、已用過、已取消）
	ErrCouponInvalid = &DomainError{
		Code:    ErrCodeCouponInvalid,
		Message: "優惠券無效",
	}

	// ErrCouponExpired 結帳時套用失敗（已過有效期限）
	ErrCouponExpired = &DomainError{
		Code:    ErrCodeCouponExpired,
		Message: "優惠券已過期",
	}
)

var (
	ErrInvalidRewardCustomerID = &DomainError{
		Code:    ErrCodeInvalidCustomerID,
		Message: "無效的顧客 ID",
	}
)
