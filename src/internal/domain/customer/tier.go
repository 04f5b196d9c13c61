package customer

// ===========================
// Tier 等級
// ===========================

// Tier 顧客等級
//
// 等級完全由 lifetimePoints（終身累積獲得積分）推導，
// 永遠不看 currentBalance：花掉積分不會讓顧客降級。
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// IsValid 判斷是否為合法等級
func (t Tier) IsValid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	default:
		return false
	}
}

// ===========================
// TierThresholds 等級門檻表
// ===========================

// TierThresholds 等級門檻表（BRONZE 固定為 0，其餘遞增）
type TierThresholds struct {
	Silver   int
	Gold     int
	Platinum int
}

// NewTierThresholds 建構函數
//
// 建構約束：0 < Silver < Gold < Platinum（BRONZE 隱含為 0）
func NewTierThresholds(silver, gold, platinum int) (TierThresholds, error) {
	if silver <= 0 || gold <= silver || platinum <= gold {
		return TierThresholds{}, ErrInvalidThresholds.WithContext(
			"silver", silver,
			"gold", gold,
			"platinum", platinum,
		)
	}
	return TierThresholds{Silver: silver, Gold: gold, Platinum: platinum}, nil
}

// DeriveTier 由終身積分推導等級（純函數）
//
// 業務規則：
// - 返回門檻 <= lifetimePoints 的最高等級
// - 只依賴 lifetimePoints，與可用餘額無關
func DeriveTier(lifetimePoints int, thresholds TierThresholds) Tier {
	switch {
	case lifetimePoints >= thresholds.Platinum:
		return TierPlatinum
	case lifetimePoints >= thresholds.Gold:
		return TierGold
	case lifetimePoints >= thresholds.Silver:
		return TierSilver
	default:
		return TierBronze
	}
}
