package decision

import (
	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/donation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

// Requirement gates a decision-table rule on a viability predicate.
type Requirement string

const (
	RequireNone         Requirement = ""
	RequireDonation     Requirement = "donation"
	RequireReallocation Requirement = "reallocation"
	RequireCombo        Requirement = "combo"
)

// Rule is one candidate in a decision-table cell: pick Strategy when its
// Requirement holds. Cells end with an unconditional fallback so every
// (level, category) pair resolves.
type Rule struct {
	Strategy valuation.StrategyType `yaml:"strategy"`
	Requires Requirement            `yaml:"requires,omitempty"`
}

// Table maps (risk level, category) to an ordered rule list. Modeling the
// strategy selection as data keeps new categories and rules additive
// configuration rather than code changes.
type Table map[risk.Level]map[inventory.Category][]Rule

// Config drives the decision engine.
type Config struct {
	Table Table `yaml:"table"`

	// Facts are the externally supplied compliance and logistics booleans
	// applied to every item in a batch unless the request overrides them.
	Facts donation.Facts `yaml:"facts"`
}

// DefaultTable returns the documented strategy selection: Critical donates
// when it can and liquidates otherwise; High reaches for the combo, then
// reallocation (general merchandise) or a deep markdown; Medium reallocates
// general merchandise or takes a moderate markdown; Low leaves stock alone.
func DefaultTable() Table {
	critical := []Rule{
		{Strategy: valuation.StrategyDonate, Requires: RequireDonation},
		{Strategy: valuation.StrategyLiquidate},
	}
	highFood := []Rule{
		{Strategy: valuation.StrategyReallocateMarkdown, Requires: RequireCombo},
		{Strategy: valuation.StrategyMarkdown},
	}
	highGeneral := []Rule{
		{Strategy: valuation.StrategyReallocateMarkdown, Requires: RequireCombo},
		{Strategy: valuation.StrategyReallocate, Requires: RequireReallocation},
		{Strategy: valuation.StrategyMarkdown},
	}
	mediumFood := []Rule{
		{Strategy: valuation.StrategyMarkdown},
	}
	mediumGeneral := []Rule{
		{Strategy: valuation.StrategyReallocate, Requires: RequireReallocation},
		{Strategy: valuation.StrategyMarkdown},
	}
	low := []Rule{
		{Strategy: valuation.StrategyNoAction},
	}

	return Table{
		risk.LevelCritical: {
			inventory.CategoryFreshFood:          critical,
			inventory.CategoryPerishable:         critical,
			inventory.CategoryGeneralMerchandise: {{Strategy: valuation.StrategyLiquidate}},
		},
		risk.LevelHigh: {
			inventory.CategoryFreshFood:          highFood,
			inventory.CategoryPerishable:         highFood,
			inventory.CategoryGeneralMerchandise: highGeneral,
		},
		risk.LevelMedium: {
			inventory.CategoryFreshFood:          mediumFood,
			inventory.CategoryPerishable:         mediumFood,
			inventory.CategoryGeneralMerchandise: mediumGeneral,
		},
		risk.LevelLow: {
			inventory.CategoryFreshFood:          low,
			inventory.CategoryPerishable:         low,
			inventory.CategoryGeneralMerchandise: low,
		},
	}
}

// Recommendation is the engine's full output for one item.
type Recommendation struct {
	SKU       string             `json:"sku"`
	Name      string             `json:"name,omitempty"`
	Category  inventory.Category `json:"category"`
	StoreCode string             `json:"store_code"`

	Risk risk.Assessment `json:"risk"`

	Primary   valuation.Result   `json:"primary"`
	Secondary []valuation.Result `json:"secondary_options"`

	// Baseline is the no-action valuation the primary is measured against.
	Baseline valuation.Result `json:"baseline"`

	PotentialLoss decimal.Decimal `json:"potential_loss"`

	// AvoidedLoss is the recovery the primary unlocks beyond the baseline.
	AvoidedLoss decimal.Decimal `json:"avoided_loss"`

	// Rationale tags are for display only; nothing downstream branches on them.
	Rationale []string `json:"rationale,omitempty"`
}

// Record pairs one input item with its outcome so a batch response preserves
// input order. Exactly one of Recommendation and Error is set.
type Record struct {
	Recommendation *Recommendation            `json:"recommendation,omitempty"`
	Error          *inventory.ValidationError `json:"error,omitempty"`
}

// BatchResult is the order-preserving outcome of one evaluation run.
type BatchResult struct {
	Records   []Record `json:"records"`
	Evaluated int      `json:"evaluated"`
	Rejected  int      `json:"rejected"`
}
