package shared

// TransactionContext 事務上下文介面
//
// 行為約定（可選事務參與模式）：
// - ctx != nil: 在調用者的事務中執行（事務傳播）
// - ctx == nil: 使用 auto-commit 模式（僅限單一讀操作）
//
// Repository 方法約束：
// - 寫操作（Save / Update / Append）：ctx 必須 non-nil，保證原子性與回滾
// - 讀操作（FindByXXX / SumXXX）：ctx 可為 nil（獨立查詢），
//   傳入 ctx 則參與當前事務以保證一致性
//
// 所有改變帳務狀態的操作（建立積分批次、消耗、過期、兌換、推薦獎勵）
// 都必須在單一事務中完成：批次扣減與流水帳追加要麼一起生效，要麼一起回滾。
//
// 架構原則：
// - 標記介面（Marker Interface），不暴露任何方法
// - Infrastructure Layer 負責實作具體的事務封裝（GORM）
// - Domain / Application Layer 只依賴此介面，保持依賴方向正確
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回 error 時整個事務回滾；panic 時回滾後重新拋出。
type TransactionManager interface {
	InTransaction(fn func(ctx TransactionContext) error) error
}
