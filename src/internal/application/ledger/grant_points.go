package ledger

import (
	"fmt"
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/customer"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/settings"
	"github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"
)

// ===========================
// GrantPoints Use Case
// ===========================

// GrantPointsCommand 積分入帳命令
//
// 輸入：
// - CustomerID: 顧客 ID（UUID 字串）
// - Amount: 入帳積分（必須 > 0）
// - SourceType: 積分來源（EARN / REFERRAL_BONUS / REFERRED_BONUS / ADJUSTMENT）
// - ExpiresAt: 批次過期時間（nil = 永不過期）
// - RelatedOrderID: 關聯訂單 ID（僅訂單入帳）
type GrantPointsCommand struct {
	CustomerID     string
	Amount         int
	SourceType     ledger.SourceType
	ExpiresAt      *time.Time
	RelatedOrderID *string
}

// GrantPointsResult 積分入帳結果
type GrantPointsResult struct {
	LotID          string
	NewBalance     int
	LifetimePoints int
	Tier           string
	TierChanged    bool
}

// GrantPointsUseCase 積分入帳 Use Case（帳務存放的 createLot 路徑）
//
// 職責（單一事務內）：
// 1. 鎖定顧客列（每位顧客的序列化點）
// 2. 建立積分批次（remaining = origin）
// 3. 追加一筆 +delta 流水帳條目
// 4. 更新顧客餘額投影；EARN 類來源同時累加終身積分
// 5. 終身積分變動時重新推導等級，變更則發布 TierChangedEvent
//
// 批次建立、條目追加與投影更新要麼一起生效、要麼一起回滾，
// 核心不變條件（餘額 == Σ批次剩餘 == Σ條目 delta）在提交後必然成立。
type GrantPointsUseCase struct {
	customerRepo customer.CustomerRepository
	lotRepo      ledger.PointLotRepository
	entryRepo    ledger.LedgerEntryRepository
	settingsRepo settings.SettingsRepository
	txManager    shared.TransactionManager
}

// NewGrantPointsUseCase 創建 Use Case 實例
func NewGrantPointsUseCase(
	customerRepo customer.CustomerRepository,
	lotRepo ledger.PointLotRepository,
	entryRepo ledger.LedgerEntryRepository,
	settingsRepo settings.SettingsRepository,
	txManager shared.TransactionManager,
) *GrantPointsUseCase {
	return &GrantPointsUseCase{
		customerRepo: customerRepo,
		lotRepo:      lotRepo,
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
	}
}

// Execute 在獨立事務中執行入帳
func (uc *GrantPointsUseCase) Execute(cmd GrantPointsCommand) (*GrantPointsResult, error) {
	var result *GrantPointsResult
	err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		r, err := uc.ExecuteWithContext(ctx, cmd)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteWithContext 在調用者的事務中執行入帳
//
// 使用場景：訂單入帳與推薦獎勵把入帳與各自的前置檢查
// 組合在同一個事務中。
//
// 錯誤處理：
// - ErrInvalidAmount: 非正數入帳量（任何寫入前拒絕）
// - ErrCustomerNotFound: 顧客不存在
func (uc *GrantPointsUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	cmd GrantPointsCommand,
) (*GrantPointsResult, error) {
	// 1. 驗證並轉換 ID（customer / ledger 兩個 context 以字串橋接）
	custID, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}
	ledgerCustID, err := ledger.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}

	// 2. 鎖定顧客列（序列化點）
	cust, err := uc.customerRepo.FindByIDForUpdate(ctx, custID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	// 3. 建立批次（ErrInvalidAmount 在這裡攔截，尚未發生任何寫入）
	lot, err := ledger.NewPointLot(ledgerCustID, cmd.Amount, cmd.SourceType, cmd.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := uc.lotRepo.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to save point lot: %w", err)
	}

	// 4. 追加流水帳條目（+delta）
	entry, err := ledger.NewCreditEntry(
		ledgerCustID,
		lot.LotID(),
		lot.OriginAmount(),
		entryReasonFor(cmd.SourceType),
		cmd.RelatedOrderID,
	)
	if err != nil {
		return nil, err
	}
	if err := uc.entryRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	// 5. 更新投影
	if err := cust.Credit(cmd.Amount, cmd.SourceType.CountsTowardLifetime()); err != nil {
		return nil, err
	}

	// 6. EARN 類入帳後重新推導等級
	tierChanged := false
	if cmd.SourceType.CountsTowardLifetime() {
		s, err := uc.settingsRepo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load loyalty settings: %w", err)
		}
		thresholds, err := customer.NewTierThresholds(
			s.SilverThreshold,
			s.GoldThreshold,
			s.PlatinumThreshold,
		)
		if err != nil {
			return nil, err
		}
		tierChanged = cust.RecalculateTier(thresholds)
	}

	if err := uc.customerRepo.Update(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return &GrantPointsResult{
		LotID:          lot.LotID().String(),
		NewBalance:     cust.CurrentBalance(),
		LifetimePoints: cust.LifetimePoints(),
		Tier:           string(cust.Tier()),
		TierChanged:    tierChanged,
	}, nil
}

// entryReasonFor 由來源類型決定流水帳條目原因
func entryReasonFor(sourceType ledger.SourceType) ledger.EntryReason {
	switch sourceType {
	case ledger.SourceReferralBonus:
		return ledger.ReasonReferralBonus
	case ledger.SourceReferredBonus:
		return ledger.ReasonReferredBonus
	case ledger.SourceAdjustment:
		return ledger.ReasonAdjustment
	default:
		return ledger.ReasonOrderEarn
	}
}
