package customer

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// gormTransactionContext GORM 事務上下文（來自 persistence package）
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// ===========================
// CustomerRepositoryImpl
// ===========================

// CustomerRepositoryImpl 顧客倉儲實現（GORM）
//
// - 處理 Domain 與 GORM 模型轉換
// - 將 GORM 錯誤轉換為 Domain 錯誤
type CustomerRepositoryImpl struct {
	db *gorm.DB
}

// NewCustomerRepository 創建顧客倉儲實例
func NewCustomerRepository(db *gorm.DB) customer.CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

// Save 保存新顧客
//
// 錯誤處理：
// - UNIQUE constraint 違反 → ErrCustomerAlreadyExists
func (r *CustomerRepositoryImpl) Save(ctx shared.TransactionContext, c *customer.Customer) error {
	db := r.getDB(ctx)

	result := db.Create(toGORM(c))
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return customer.ErrCustomerAlreadyExists.WithContext(
				"customer_id", c.CustomerID().String(),
				"email", c.Email().Value(),
			)
		}
		return result.Error
	}
	return nil
}

// FindByID 根據顧客 ID 查找
func (r *CustomerRepositoryImpl) FindByID(ctx shared.TransactionContext, customerID customer.CustomerID) (*customer.Customer, error) {
	return r.findOne(r.getDB(ctx), "customer_id = ?", customerID.String())
}

// FindByIDForUpdate 查找並鎖定顧客列（SELECT ... FOR UPDATE）
//
// 每位顧客的序列化點：所有改變餘額的流程先取得此鎖，
// 並發的消耗 / 入帳 / 清掃在這裡排隊。
func (r *CustomerRepositoryImpl) FindByIDForUpdate(ctx shared.TransactionContext, customerID customer.CustomerID) (*customer.Customer, error) {
	db := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findOne(db, "customer_id = ?", customerID.String())
}

// FindByReferralCode 根據推薦碼查找
//
// 錯誤處理：
// - gorm.ErrRecordNotFound → ErrInvalidReferralCode（推薦碼無人持有）
func (r *CustomerRepositoryImpl) FindByReferralCode(ctx shared.TransactionContext, code customer.ReferralCode) (*customer.Customer, error) {
	db := r.getDB(ctx)

	var gormModel CustomerGORM
	result := db.Where("referral_code = ?", code.Value()).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, customer.ErrInvalidReferralCode.WithContext(
				"referral_code", code.Value(),
			)
		}
		return nil, result.Error
	}
	return gormModel.toDomain()
}

// Update 更新顧客投影
//
// Select("*") 強制寫入全部欄位：餘額歸零這類零值更新
// 不能被 GORM 的零值略過規則吃掉。
func (r *CustomerRepositoryImpl) Update(ctx shared.TransactionContext, c *customer.Customer) error {
	db := r.getDB(ctx)

	result := db.Model(&CustomerGORM{}).
		Where("customer_id = ?", c.CustomerID().String()).
		Select("*").
		Updates(toGORM(c))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound.WithContext(
			"customer_id", c.CustomerID().String(),
		)
	}
	return nil
}

// findOne 以條件查詢單一顧客
func (r *CustomerRepositoryImpl) findOne(db *gorm.DB, query string, args ...interface{}) (*customer.Customer, error) {
	var gormModel CustomerGORM
	result := db.Where(query, args...).First(&gormModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound.WithContext("query", query)
		}
		return nil, result.Error
	}
	return gormModel.toDomain()
}

// getDB 獲取資料庫實例
//
// ctx 是 gormTransactionContext 時返回事務中的 DB，
// 否則使用預設連接（auto-commit 模式，僅限讀操作）。
func (r *CustomerRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}

// ===========================
// Helper Functions
// ===========================

// isUniqueConstraintError 檢查是否為唯一約束錯誤
//
// 支援：SQLite / PostgreSQL / MySQL 的錯誤訊息格式
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "violates unique constraint")
}
