package ledger

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

const (
	// 積分數量相關
	ErrCodeNegativePointsAmount ErrorCode = "POINTS_NEGATIVE"
	ErrCodeInvalidAmount        ErrorCode = "POINTS_AMOUNT_INVALID"
	ErrCodeInsufficientPoints   ErrorCode = "POINTS_INSUFFICIENT"

	// 批次相關
	ErrCodeInvalidLotID           ErrorCode = "LOT_ID_INVALID"
	ErrCodeInvalidSourceType      ErrorCode = "LOT_SOURCE_TYPE_INVALID"
	ErrCodeInsufficientLotBalance ErrorCode = "LOT_BALANCE_INSUFFICIENT"
	ErrCodeLotNotExpirable        ErrorCode = "LOT_NOT_EXPIRABLE"
	ErrCodeLotNotFound            ErrorCode = "LOT_NOT_FOUND"

	// 流水帳相關
	ErrCodeInvalidEntryID ErrorCode = "ENTRY_ID_INVALID"
	ErrCodeInvalidDelta   ErrorCode = "ENTRY_DELTA_INVALID"

	// 顧客相關（ledger context 視角）
	ErrCodeInvalidCustomerID ErrorCode = "LEDGER_CUSTOMER_ID_INVALID"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
// 設計與 customer context 的 DomainError 對稱：
// 結構化代碼、上下文信息、不可變性。
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
	ErrNegativePointsAmount = &DomainError{
		Code:    ErrCodeNegativePointsAmount,
		Message: "積分數量不能為負數",
	}

	// ErrInvalidAmount 非正數的積分請求（入帳量必須 > 0）
	// 在任何寫入發生前就被拒絕
	ErrInvalidAmount = &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: "積分數量必須為正數",
	}

	// ErrInsufficientPoints 消耗超過可用餘額
	// 面向使用者的業務失敗，不重試
	ErrInsufficientPoints = &DomainError{
		Code:    ErrCodeInsufficientPoints,
		Message: "積分餘額不足",
	}
)

var (
	ErrInvalidLotID = &DomainError{
		Code:    ErrCodeInvalidLotID,
		Message: "無效的批次 ID",
	}

	ErrInvalidSourceType = &DomainError{
		Code:    ErrCodeInvalidSourceType,
		Message: "無效的積分來源類型",
	}

	// ErrInsufficientLotBalance 單一批次扣減超過剩餘量
	// 內部不變條件違反：配置器保證不會超扣，出現即表示 bug，必須記錄
	ErrInsufficientLotBalance = &DomainError{
		Code:    ErrCodeInsufficientLotBalance,
		Message: "批次剩餘量不足以扣減",
	}

	// ErrLotNotExpirable 批次不符合過期條件（已過期、已耗盡或未到期）
	// 過期清掃據此跳過，保證重跑冪等
	ErrLotNotExpirable = &DomainError{
		Code:    ErrCodeLotNotExpirable,
		Message: "批次不符合過期條件",
	}

	ErrLotNotFound = &DomainError{
		Code:    ErrCodeLotNotFound,
		Message: "積分批次不存在",
	}
)

var (
	ErrInvalidEntryID = &DomainError{
		Code:    ErrCodeInvalidEntryID,
		Message: "無效的流水帳條目 ID",
	}

	ErrInvalidDelta = &DomainError{
		Code:    ErrCodeInvalidDelta,
		Message: "流水帳條目的變動量不能為零",
	}

	ErrInvalidLedgerCustomerID = &DomainError{
		Code:    ErrCodeInvalidCustomerID,
		Message: "無效的顧客 ID",
	}
)
