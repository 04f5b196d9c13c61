package ledger

import (
	"time"

	"github.com/jackyeh168/loyalty_engine/src/internal/domain/ledger"
)

// ===========================
// GORM Models
// ===========================

// PointLotGORM 積分批次資料表模型
//
// 資料庫約束：
// - lot_id: 主鍵（UUID）
// - customer_id: 索引（FIFO 查詢、清掃分組）
// - expires_at: 可為空（永不過期的批次）
// - 批次永不物理刪除，耗盡 / 過期後保留供審計
type PointLotGORM struct {
	LotID      string `gorm:"column:lot_id;type:varchar(36);primaryKey"`
	CustomerID string `gorm:"column:customer_id;type:varchar(36);index;not null"`
	SourceType string `gorm:"column:source_type;type:varchar(32);not null"`

	OriginAmount    int `gorm:"column:origin_amount;not null"`
	RemainingAmount int `gorm:"column:remaining_amount;not null"`

	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	Expired   bool       `gorm:"column:expired;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (PointLotGORM) TableName() string {
	return "point_lots"
}

// LedgerEntryGORM 流水帳條目資料表模型
//
// APPEND-ONLY：沒有任何程式路徑更新或刪除此表的列。
type LedgerEntryGORM struct {
	EntryID    string  `gorm:"column:entry_id;type:varchar(36);primaryKey"`
	CustomerID string  `gorm:"column:customer_id;type:varchar(36);index;not null"`
	LotID      *string `gorm:"column:lot_id;type:varchar(36);index"`

	Delta  int    `gorm:"column:delta;not null"`
	Reason string `gorm:"column:reason;type:varchar(32);not null"`

	RelatedOrderID      *string `gorm:"column:related_order_id;type:varchar(64)"`
	RelatedRedemptionID *string `gorm:"column:related_redemption_id;type:varchar(36)"`

	CreatedAt time.Time `gorm:"column:created_at;index;not null"`
}

// TableName 指定資料表名稱
func (LedgerEntryGORM) TableName() string {
	return "ledger_entries"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將批次 GORM 模型轉換為 Domain 聚合
func (m *PointLotGORM) toDomain() (*ledger.PointLot, error) {
	lotID, err := ledger.LotIDFromString(m.LotID)
	if err != nil {
		return nil, err
	}
	customerID, err := ledger.CustomerIDFromString(m.CustomerID)
	if err != nil {
		return nil, err
	}

	return ledger.ReconstructPointLot(
		lotID,
		customerID,
		ledger.SourceType(m.SourceType),
		m.OriginAmount,
		m.RemainingAmount,
		m.ExpiresAt,
		m.Expired,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// lotToGORM 將批次 Domain 聚合轉換為 GORM 模型
func lotToGORM(l *ledger.PointLot) *PointLotGORM {
	return &PointLotGORM{
		LotID:           l.LotID().String(),
		CustomerID:      l.CustomerID().String(),
		SourceType:      string(l.SourceType()),
		OriginAmount:    l.OriginAmount().Value(),
		RemainingAmount: l.RemainingAmount().Value(),
		ExpiresAt:       l.ExpiresAt(),
		Expired:         l.IsExpired(),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}
}

// toDomain 將條目 GORM 模型轉換為 Domain 模型
func (m *LedgerEntryGORM) toDomain() (*ledger.LedgerEntry, error) {
	entryID, err := ledger.EntryIDFromString(m.EntryID)
	if err != nil {
		return nil, err
	}
	customerID, err := ledger.CustomerIDFromString(m.CustomerID)
	if err != nil {
		return nil, err
	}

	var lotID *ledger.LotID
	if m.LotID != nil {
		id, err := ledger.LotIDFromString(*m.LotID)
		if err != nil {
			return nil, err
		}
		lotID = &id
	}

	return ledger.ReconstructLedgerEntry(
		entryID,
		customerID,
		lotID,
		m.Delta,
		ledger.EntryReason(m.Reason),
		m.RelatedOrderID,
		m.RelatedRedemptionID,
		m.CreatedAt,
	)
}

// entryToGORM 將條目 Domain 模型轉換為 GORM 模型
func entryToGORM(e *ledger.LedgerEntry) *LedgerEntryGORM {
	var lotID *string
	if e.LotID() != nil {
		id := e.LotID().String()
		lotID = &id
	}

	return &LedgerEntryGORM{
		EntryID:             e.EntryID().String(),
		CustomerID:          e.CustomerID().String(),
		LotID:               lotID,
		Delta:               e.Delta(),
		Reason:              string(e.Reason()),
		RelatedOrderID:      e.RelatedOrderID(),
		RelatedRedemptionID: e.RelatedRedemptionID(),
		CreatedAt:           e.CreatedAt(),
	}
}
