package loyalty

import (
	"github.com/vetpoint/vetpoint/internal/types"

	"github.com/shopspring/decimal"
)

// TierThresholds is the ordered tier threshold table of a loyalty program.
// Expected invariant: 0 <= Silver <= Gold <= Platinum. A misordered table is a
// tenant configuration error; evaluation stays deterministic regardless because
// thresholds are checked from highest to lowest.
type TierThresholds struct {
	Bronze   int64 `dynamodbav:"bronze" json:"bronze"`
	Silver   int64 `dynamodbav:"silver" json:"silver"`
	Gold     int64 `dynamodbav:"gold" json:"gold"`
	Platinum int64 `dynamodbav:"platinum" json:"platinum"`
}

// TierForEarned maps lifetime earned points to a tier. Pure and total:
// the tier is derived from TotalEarned, never from the spendable balance,
// so redemptions cannot regress a client's tier.
func TierForEarned(totalEarned int64, tiers TierThresholds) types.LoyaltyTier {
	if totalEarned >= tiers.Platinum {
		return types.LoyaltyTierPlatinum
	}
	if totalEarned >= tiers.Gold {
		return types.LoyaltyTierGold
	}
	if totalEarned >= tiers.Silver {
		return types.LoyaltyTierSilver
	}
	return types.LoyaltyTierBronze
}

// NextTier describes the next reachable tier for progress display
type NextTier struct {
	Tier         types.LoyaltyTier `json:"tier"`
	PointsNeeded int64             `json:"points_needed"`
}

// NextTierInfo returns the next tier and the points needed to reach it,
// or nil when the client is already at platinum.
func NextTierInfo(totalEarned int64, tiers TierThresholds) *NextTier {
	if totalEarned < tiers.Silver {
		return &NextTier{Tier: types.LoyaltyTierSilver, PointsNeeded: tiers.Silver - totalEarned}
	}
	if totalEarned < tiers.Gold {
		return &NextTier{Tier: types.LoyaltyTierGold, PointsNeeded: tiers.Gold - totalEarned}
	}
	if totalEarned < tiers.Platinum {
		return &NextTier{Tier: types.LoyaltyTierPlatinum, PointsNeeded: tiers.Platinum - totalEarned}
	}
	return nil
}

// PointsToCurrency converts points to a currency amount using the program's
// redemption rate (points per currency unit).
func PointsToCurrency(points int64, redemptionRate int64) decimal.Decimal {
	if redemptionRate <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(points).Div(decimal.NewFromInt(redemptionRate))
}
