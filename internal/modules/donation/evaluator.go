// Package donation decides whether an item qualifies for charitable donation
// and what recovery a donation yields (tax benefit net of handling).
package donation

import (
	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
)

// Recovery model presets. TaxBenefit is the authoritative default; Flat is
// the simpler legacy model (30% of cost basis) kept as a selectable preset.
// A deployment uses exactly one.
const (
	ModelTaxBenefit = "tax_benefit"
	ModelFlat       = "flat"
)

// Fair-market-value bases for the tax-benefit model.
const (
	BasisSellingPrice = "selling_price"
	BasisCostBasis    = "cost_basis"
)

// Config drives donation eligibility and the recovery formula.
type Config struct {
	Model                 string          `yaml:"model"`
	FMVBasis              string          `yaml:"fmv_basis"`
	MinDaysRemaining      float64         `yaml:"min_days_remaining"`
	MinAggregateValue     decimal.Decimal `yaml:"min_aggregate_value"`
	MinQuantity           int             `yaml:"min_quantity"`
	CorporateTaxRate      float64         `yaml:"corporate_tax_rate"`
	ProcessingCostPerUnit decimal.Decimal `yaml:"processing_cost_per_unit"`
	FlatRecoveryRate      float64         `yaml:"flat_recovery_rate"`
}

// Facts are externally supplied booleans the evaluator consumes but never
// derives: food-safety compliance and donation-center availability come from
// the compliance and logistics collaborators.
type Facts struct {
	FoodSafetyCompliant      bool `json:"food_safety_compliant"`
	DonationCenterAvailable  bool `json:"donation_center_available"`
}

// Evaluator applies the donation eligibility predicate and recovery formula.
type Evaluator struct {
	cfg Config
}

func NewEvaluator(cfg Config) *Evaluator { return &Evaluator{cfg: cfg} }

// Viable applies the static eligibility gates. The enhanced
// donation-beats-liquidation comparison is not made here; the decision
// engine compares valuations after computing all candidates.
func (e *Evaluator) Viable(item *inventory.Item, facts Facts) bool {
	if item.Category != inventory.CategoryFreshFood && item.Category != inventory.CategoryPerishable {
		return false
	}
	if item.DaysRemaining < e.cfg.MinDaysRemaining {
		return false
	}
	if !facts.FoodSafetyCompliant || !facts.DonationCenterAvailable {
		return false
	}
	if e.cfg.MinQuantity > 0 {
		return item.Quantity > e.cfg.MinQuantity
	}
	return item.AggregateCost().GreaterThan(e.cfg.MinAggregateValue)
}

// Recovery computes the donation recovery under the configured model.
// It never returns a negative amount.
func (e *Evaluator) Recovery(item *inventory.Item) decimal.Decimal {
	qty := decimal.NewFromInt(int64(item.Quantity))

	if e.cfg.Model == ModelFlat {
		return item.CostBasis.Mul(qty).Mul(decimal.NewFromFloat(e.cfg.FlatRecoveryRate))
	}

	unit := item.SellingPrice
	if e.cfg.FMVBasis == BasisCostBasis {
		unit = item.CostBasis
	}
	fairMarketValue := unit.Mul(qty)
	taxBenefit := fairMarketValue.Mul(decimal.NewFromFloat(e.cfg.CorporateTaxRate))
	processing := e.cfg.ProcessingCostPerUnit.Mul(qty)

	recovery := taxBenefit.Sub(processing)
	if recovery.IsNegative() {
		return decimal.Zero
	}
	return recovery
}
