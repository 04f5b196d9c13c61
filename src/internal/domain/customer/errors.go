package customer

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

const (
	ErrCodeInvalidCustomerID    ErrorCode = "CUSTOMER_ID_INVALID"
	ErrCodeInvalidEmail         ErrorCode = "CUSTOMER_EMAIL_INVALID"
	ErrCodeInvalidReferralCode  ErrorCode = "REFERRAL_CODE_INVALID"
	ErrCodeInvalidThresholds    ErrorCode = "TIER_THRESHOLDS_INVALID"
	ErrCodeNegativePoints       ErrorCode = "CUSTOMER_POINTS_NEGATIVE"
	ErrCodeInsufficientBalance  ErrorCode = "CUSTOMER_BALANCE_INSUFFICIENT"
	ErrCodeAlreadyReferred      ErrorCode = "CUSTOMER_ALREADY_REFERRED"
	ErrCodeSelfReferral         ErrorCode = "CUSTOMER_SELF_REFERRAL"
	ErrCodeCustomerNotFound     ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeCustomerAlreadyExist ErrorCode = "CUSTOMER_ALREADY_EXISTS"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// 設計原則：
// 1. 結構化錯誤代碼（用於 HTTP 狀態碼映射）
// 2. 支持上下文信息（用於調試和日誌）
// 3. 不可變性（WithContext 返回新實例）
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
	ErrInvalidCustomerID = &DomainError{
		Code:    ErrCodeInvalidCustomerID,
		Message: "無效的顧客 ID",
	}

	ErrInvalidEmail = &DomainError{
		Code:    ErrCodeInvalidEmail,
		Message: "無效的電子郵件",
	}

	ErrInvalidReferralCode = &DomainError{
		Code:    ErrCodeInvalidReferralCode,
		Message: "無效的推薦碼",
	}

	ErrInvalidThresholds = &DomainError{
		Code:    ErrCodeInvalidThresholds,
		Message: "等級門檻必須遞增",
	}

	ErrNegativePoints = &DomainError{
		Code:    ErrCodeNegativePoints,
		Message: "積分數量不能為負數",
	}

	// ErrInsufficientBalance 扣減超過目前餘額
	// 配置器應在扣減前檢查餘額；此錯誤出現即表示流程有 bug
	ErrInsufficientBalance = &DomainError{
		Code:    ErrCodeInsufficientBalance,
		Message: "顧客餘額不足以扣減",
	}

	// ErrAlreadyReferred 一位顧客只能被推薦一次（冪等保護）
	ErrAlreadyReferred = &DomainError{
		Code:    ErrCodeAlreadyReferred,
		Message: "顧客已被推薦過",
	}

	ErrSelfReferral = &DomainError{
		Code:    ErrCodeSelfReferral,
		Message: "顧客不能推薦自己",
	}
)

// Repository 錯誤實例
var (
	ErrCustomerNotFound = &DomainError{
		Code:    ErrCodeCustomerNotFound,
		Message: "顧客不存在",
	}

	ErrCustomerAlreadyExists = &DomainError{
		Code:    ErrCodeCustomerAlreadyExist,
		Message: "顧客已存在",
	}
)
