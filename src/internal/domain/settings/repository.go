package settings

import "github.com/jackyeh168/loyalty_engine/src/internal/domain/shared"

// SettingsRepository 計畫設定倉儲介面（單例列）
//
// 管理端寫入、引擎讀取。Load 對成功載入的設定執行 Validate，
// 帳務流程不會拿到不合法的設定。
type SettingsRepository interface {
	// Load 載入計畫設定
	// 返回：設定，或 ErrSettingsNotFound（尚未播種）
	Load(ctx shared.TransactionContext) (LoyaltySettings, error)

	// Save 保存計畫設定（建立或覆寫單例列；管理端）
	Save(ctx shared.TransactionContext, s LoyaltySettings) error
}
