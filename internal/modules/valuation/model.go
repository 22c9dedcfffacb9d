package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/reallocation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
)

// StrategyType names a disposition strategy for an at-risk item.
type StrategyType string

const (
	StrategyNoAction           StrategyType = "NO_ACTION"
	StrategyMarkdown           StrategyType = "MARKDOWN"
	StrategyReallocate         StrategyType = "REALLOCATE"
	StrategyReallocateMarkdown StrategyType = "REALLOCATE_MARKDOWN"
	StrategyDonate             StrategyType = "DONATE"
	StrategyLiquidate          StrategyType = "LIQUIDATE"
)

// Strategy is a disposition with its parameters. MarkdownPct is in percent
// points (15 means 15% off). DestinationCode is set for the move strategies.
type Strategy struct {
	Type            StrategyType `json:"type"`
	MarkdownPct     float64      `json:"markdown_pct,omitempty"`
	DestinationCode string       `json:"destination_code,omitempty"`
}

// Label renders the strategy for display ("MARKDOWN(25%)").
func (s Strategy) Label() string {
	switch s.Type {
	case StrategyMarkdown:
		return fmt.Sprintf("MARKDOWN(%.0f%%)", s.MarkdownPct)
	case StrategyReallocateMarkdown:
		return fmt.Sprintf("REALLOCATE_MARKDOWN(%.0f%%)", s.MarkdownPct)
	default:
		return string(s.Type)
	}
}

// Combo model presets. Split (70/30) is the authoritative default and matches
// the original recovery model; Boosted moves the whole quantity at the
// markdown price with an uplifted sell-through. The two are not equivalent
// and a deployment uses exactly one.
const (
	ComboModelSplit   = "split"
	ComboModelBoosted = "boosted"
)

// Config drives every strategy formula. Tables are immutable after startup.
type Config struct {
	SalvageFraction    float64 `yaml:"salvage_fraction"`
	LiquidationRate    float64 `yaml:"liquidation_rate"`
	ReallocPriceFactor float64 `yaml:"realloc_price_factor"`

	ComboModel          string          `yaml:"combo_model"`
	ComboSplit          float64         `yaml:"combo_split"`
	ComboBoostFactor    float64         `yaml:"combo_boost_factor"`
	ComboBoostCap       float64         `yaml:"combo_boost_cap"`
	TransferCostPerUnit decimal.Decimal `yaml:"transfer_cost_per_unit"`

	// MarkdownTiers maps risk level to the markdown percentage applied when
	// a markdown-bearing strategy is recommended at that level.
	MarkdownTiers map[risk.Level]float64 `yaml:"markdown_tiers"`

	// ClearanceRates maps category and markdown tier (percent points) to the
	// fraction of quantity expected to clear at the marked-down price.
	ClearanceRates map[inventory.Category]map[int]float64 `yaml:"clearance_rates"`
}

// Context carries the per-item inputs a strategy formula needs beyond the
// item itself, precomputed by the evaluators so valuation stays a pure
// function with no calls back into them.
type Context struct {
	Realloc          reallocation.Option
	DonationRecovery decimal.Decimal
}

// Result is the projected financial outcome of one strategy for one item.
type Result struct {
	Strategy         Strategy        `json:"strategy"`
	ExpectedRecovery decimal.Decimal `json:"expected_recovery"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	MarginImpact     decimal.Decimal `json:"margin_impact"`
	ProfitMarginPct  float64         `json:"profit_margin_pct"`
}
