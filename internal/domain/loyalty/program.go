package loyalty

import (
	ierr "github.com/vetpoint/vetpoint/internal/errors"
)

// Program is the tenant-level loyalty program configuration. It lives on the
// tenant record and is consumed read-only by the ledger and the appointment
// completion hook.
type Program struct {
	Enabled               bool           `dynamodbav:"enabled" json:"enabled"`
	PointsPerVisit        int64          `dynamodbav:"points_per_visit" json:"points_per_visit"`
	PointsPerGrooming     int64          `dynamodbav:"points_per_grooming" json:"points_per_grooming"`
	PointsPerPurchasePeso int64          `dynamodbav:"points_per_purchase_peso" json:"points_per_purchase_peso"`
	RedemptionRate        int64          `dynamodbav:"redemption_rate" json:"redemption_rate"`
	Tiers                 TierThresholds `dynamodbav:"tiers" json:"tiers"`
}

// DefaultProgram returns the program applied to tenants without an explicit
// configuration: 10 points per visit, 15 per grooming, 1 per peso spent,
// 100 points per currency unit redeemed, tiers at 0/200/500/1000.
func DefaultProgram() *Program {
	return &Program{
		Enabled:               true,
		PointsPerVisit:        10,
		PointsPerGrooming:     15,
		PointsPerPurchasePeso: 1,
		RedemptionRate:        100,
		Tiers: TierThresholds{
			Bronze:   0,
			Silver:   200,
			Gold:     500,
			Platinum: 1000,
		},
	}
}

// Validate rejects malformed program configuration before any ledger write.
// A misordered (but non-negative) threshold table is accepted; tier
// evaluation stays deterministic for it.
func (p *Program) Validate() error {
	if p == nil {
		return ierr.NewError("loyalty program config is required").
			WithHint("Loyalty program configuration is missing").
			Mark(ierr.ErrValidation)
	}

	if p.Tiers.Bronze < 0 || p.Tiers.Silver < 0 || p.Tiers.Gold < 0 || p.Tiers.Platinum < 0 {
		return ierr.NewError("tier thresholds must be non-negative").
			WithHint("Loyalty tier thresholds cannot be negative").
			WithReportableDetails(map[string]any{
				"tiers": p.Tiers,
			}).
			Mark(ierr.ErrValidation)
	}

	if p.RedemptionRate < 0 {
		return ierr.NewError("redemption rate must be non-negative").
			WithHint("Redemption rate cannot be negative").
			WithReportableDetails(map[string]any{
				"redemption_rate": p.RedemptionRate,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
