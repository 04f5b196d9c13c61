package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
	custpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/customer"
	ledgerpersistence "github.com/jackyeh168/loyalty_engine/src/internal/infrastructure/persistence/ledger"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 這些測試驗證 TransactionManager 的核心保證：
// 1. 事務隔離：錯誤時回滾，成功時提交
// 2. Panic 處理：panic 時自動回滾
// 3. 多操作原子性：多個操作在同一事務中成功或失敗

// newTestCustomer 創建測試用顧客
func newTestCustomer(t *testing.T) *customer.Customer {
	t.Helper()

	email, err := customer.NewEmail(fmt.Sprintf("tx-%s@example.com", customer.NewCustomerID().String()[:8]))
	require.NoError(t, err)

	c, err := customer.NewCustomer(customer.NewCustomerID(), email, customer.GenerateReferralCode())
	require.NoError(t, err)

	return c
}

// TestRollbackOnError 驗證事務回滾機制
//
// 場景：
// 1. 開啟事務
// 2. 執行操作（Save customer）
// 3. 返回錯誤（模擬失敗）
// 4. 驗證事務已回滾（顧客未保存）
func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := custpersistence.NewCustomerRepository(db)

	cust := newTestCustomer(t)

	// Act: 執行一個會失敗的事務
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		err := repo.Save(ctx, cust)
		require.NoError(t, err, "Save should succeed within transaction")

		// 模擬錯誤，事務應該回滾
		return errors.New("simulated error - trigger rollback")
	})

	// Assert: 驗證事務返回錯誤
	require.Error(t, err)
	assert.Equal(t, "simulated error - trigger rollback", err.Error())

	// Assert: 驗證顧客未保存（回滾成功）
	_, err = repo.FindByID(nil, cust.CustomerID())
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound, "customer should not exist after rollback")
}

// TestCommitOnSuccess_SavesData 驗證事務提交機制
func TestCommitOnSuccess_SavesData(t *testing.T) {
	// Arrange
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := custpersistence.NewCustomerRepository(db)

	cust := newTestCustomer(t)

	// Act: 執行一個成功的事務
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return repo.Save(ctx, cust)
	})

	// Assert: 驗證事務成功
	require.NoError(t, err)

	// Assert: 驗證顧客已保存（提交成功）
	found, err := repo.FindByID(nil, cust.CustomerID())
	require.NoError(t, err, "customer should exist after commit")
	assert.Equal(t, cust.CustomerID().String(), found.CustomerID().String())
	assert.Equal(t, cust.Email().Value(), found.Email().Value())
}

// TestPanicRecovery_RollsBackAndRepanics 驗證 panic 處理
//
// 預期結果：
// - 事務應該回滾
// - 顧客不應該存在於資料庫中
// - panic 應該被重新拋出（由調用者處理）
func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	// Arrange
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := custpersistence.NewCustomerRepository(db)

	cust := newTestCustomer(t)

	// Act & Assert: 執行會 panic 的事務，並捕獲 panic
	assert.Panics(t, func() {
		_ = txManager.InTransaction(func(ctx shared.TransactionContext) error {
			err := repo.Save(ctx, cust)
			require.NoError(t, err, "Save should succeed within transaction")

			panic("simulated panic - should rollback")
		})
	}, "panic should be re-thrown")

	// Assert: 驗證顧客未保存（回滾成功）
	_, err := repo.FindByID(nil, cust.CustomerID())
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound, "customer should not exist after panic rollback")
}

// TestMultipleOperations_AtomicCommit 驗證多操作原子性
//
// 場景：同一事務中保存顧客與其積分批次，提交後兩者都應該存在。
func TestMultipleOperations_AtomicCommit(t *testing.T) {
	// Arrange
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	customerRepo := custpersistence.NewCustomerRepository(db)
	lotRepo := ledgerpersistence.NewPointLotRepository(db)

	cust := newTestCustomer(t)
	ledgerCustomerID, err := ledger.CustomerIDFromString(cust.CustomerID().String())
	require.NoError(t, err)

	var lotID ledger.LotID

	// Act: 在同一事務中保存顧客與批次
	err = txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := customerRepo.Save(ctx, cust); err != nil {
			return err
		}

		lot, err := ledger.NewPointLot(ledgerCustomerID, 100, ledger.SourceEarn, nil)
		if err != nil {
			return err
		}
		lotID = lot.LotID()

		return lotRepo.Save(ctx, lot)
	})

	// Assert: 驗證事務成功，兩者都存在
	require.NoError(t, err)

	_, err = customerRepo.FindByID(nil, cust.CustomerID())
	require.NoError(t, err, "customer should exist")

	lot, err := lotRepo.FindByID(nil, lotID)
	require.NoError(t, err, "lot should exist")
	assert.Equal(t, 100, lot.RemainingAmount().Value())
}

// TestMultipleOperations_AtomicRollback 驗證多操作原子回滾
//
// 場景：第一個操作成功，第二個操作失敗，兩者都應該被回滾。
func TestMultipleOperations_AtomicRollback(t *testing.T) {
	// Arrange
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	customerRepo := custpersistence.NewCustomerRepository(db)
	lotRepo := ledgerpersistence.NewPointLotRepository(db)

	cust := newTestCustomer(t)
	ledgerCustomerID, err := ledger.CustomerIDFromString(cust.CustomerID().String())
	require.NoError(t, err)

	var lotID ledger.LotID

	// Act: 第二個操作之後返回錯誤
	err = txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := customerRepo.Save(ctx, cust); err != nil {
			return err
		}

		lot, err := ledger.NewPointLot(ledgerCustomerID, 100, ledger.SourceEarn, nil)
		if err != nil {
			return err
		}
		lotID = lot.LotID()

		if err := lotRepo.Save(ctx, lot); err != nil {
			return err
		}

		return errors.New("fail after both saves")
	})

	// Assert: 兩個操作都被回滾
	require.Error(t, err)

	_, err = customerRepo.FindByID(nil, cust.CustomerID())
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)

	_, err = lotRepo.FindByID(nil, lotID)
	assert.ErrorIs(t, err, ledger.ErrLotNotFound)
}

// TestTransactionContext_SharesConnection 驗證事務內讀取可見尚未提交的寫入
func TestTransactionContext_SharesConnection(t *testing.T) {
	// Arrange
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := custpersistence.NewCustomerRepository(db)

	cust := newTestCustomer(t)

	// Act & Assert: 事務內 Save 後立即 FindByID 應該成功
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := repo.Save(ctx, cust); err != nil {
			return err
		}

		found, err := repo.FindByID(ctx, cust.CustomerID())
		if err != nil {
			return err
		}

		assert.Equal(t, cust.CustomerID().String(), found.CustomerID().String())
		return nil
	})

	require.NoError(t, err)

	// 提交後再驗證一次
	_, err = repo.FindByID(nil, cust.CustomerID())
	require.NoError(t, err)
}
