package customer

import "github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"

// ===========================
// Customer Repository 介面
// ===========================

// CustomerRepository 顧客倉儲介面
//
// 設計原則：
// 1. 依賴倒置原則（DIP）：Domain Layer 定義介面，Infrastructure Layer 實作
// 2. 事務支持：使用 TransactionContext 封裝事務，避免基礎設施洩漏
//
// 事務管理策略：
// - 寫操作（Save / Update）：ctx 必須 non-nil
// - 讀操作（FindByXXX）：ctx 可為 nil（獨立查詢，auto-commit）
//
// 並發模型：
// - FindByIDForUpdate 是每位顧客的序列化點（row-level lock）。
//   所有要改變該顧客餘額的事務都必須先透過它取得顧客列，
//   使同一顧客的兩個並發 spend / redeem 不可能都讀到過期餘額。
// - 不同顧客之間完全獨立，可並行。
type CustomerRepository interface {
	// Save 保存新顧客
	// 錯誤：ErrCustomerAlreadyExists（customer_id / email / referral_code 唯一約束）
	Save(ctx shared.TransactionContext, c *Customer) error

	// FindByID 根據顧客 ID 查找
	// 返回：找到的顧客，或 ErrCustomerNotFound
	FindByID(ctx shared.TransactionContext, customerID CustomerID) (*Customer, error)

	// FindByIDForUpdate 根據顧客 ID 查找並鎖定該列（SELECT ... FOR UPDATE）
	// 必須在事務中調用（ctx non-nil）；這是每位顧客的序列化點
	FindByIDForUpdate(ctx shared.TransactionContext, customerID CustomerID) (*Customer, error)

	// FindByReferralCode 根據推薦碼查找（註冊流程解析推薦人）
	// 返回：持有該推薦碼的顧客，或 ErrInvalidReferralCode
	FindByReferralCode(ctx shared.TransactionContext, code ReferralCode) (*Customer, error)

	// Update 更新顧客投影（餘額、終身積分、等級、推薦關係）
	Update(ctx shared.TransactionContext, c *Customer) error
}
