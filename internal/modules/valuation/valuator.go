// Package valuation projects the financial outcome of applying a disposition
// strategy to an inventory item: expected recovery, total cost, margin
// impact, and profit margin.
package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
)

// Valuator computes per-strategy financial projections. Pure and stateless:
// the same item, strategy, and context always produce the same result.
type Valuator struct {
	cfg Config
}

func NewValuator(cfg Config) *Valuator { return &Valuator{cfg: cfg} }

// Valuate prices one strategy for one item. Negative margin impact is a
// valid, reportable outcome for every strategy; only donation recovery is
// floored at zero (inside the donation recovery the context carries).
func (v *Valuator) Valuate(item *inventory.Item, strategy Strategy, ctx Context) Result {
	qty := decimal.NewFromInt(int64(item.Quantity))
	baseCost := item.CostBasis.Mul(qty)

	var recovery, totalCost decimal.Decimal

	switch strategy.Type {
	case StrategyNoAction:
		sold := qty.Mul(decimal.NewFromFloat(item.SaleThroughRate))
		unsold := qty.Sub(sold)
		revenue := sold.Mul(item.SellingPrice)
		salvage := unsold.Mul(item.SellingPrice).Mul(decimal.NewFromFloat(v.cfg.SalvageFraction))
		recovery = revenue.Add(salvage)
		totalCost = baseCost

	case StrategyMarkdown:
		markdownPrice := markdownUnitPrice(item.SellingPrice, strategy.MarkdownPct)
		clearance := v.ClearanceRate(item.Category, strategy.MarkdownPct)
		recovery = qty.Mul(markdownPrice).Mul(decimal.NewFromFloat(clearance))
		totalCost = baseCost

	case StrategyReallocate:
		gross := item.SellingPrice.
			Mul(decimal.NewFromFloat(v.cfg.ReallocPriceFactor)).
			Mul(decimal.NewFromFloat(ctx.Realloc.DestinationSellThrough)).
			Mul(qty)
		recovery = gross.Sub(ctx.Realloc.TransportCost)
		totalCost = baseCost.Add(ctx.Realloc.TransportCost)

	case StrategyReallocateMarkdown:
		recovery, totalCost = v.comboOutcome(item, strategy, ctx, qty, baseCost)

	case StrategyDonate:
		recovery = ctx.DonationRecovery
		totalCost = baseCost

	case StrategyLiquidate:
		recovery = qty.Mul(item.SellingPrice).Mul(decimal.NewFromFloat(v.cfg.LiquidationRate))
		totalCost = baseCost
	}

	margin := recovery.Sub(totalCost)
	profitPct := 0.0
	if !recovery.IsZero() {
		profitPct, _ = margin.Div(recovery).Mul(decimal.NewFromInt(100)).Float64()
	}
	return Result{
		Strategy:         strategy,
		ExpectedRecovery: recovery,
		TotalCost:        totalCost,
		MarginImpact:     margin,
		ProfitMarginPct:  profitPct,
	}
}

// comboOutcome prices the reallocate+markdown strategy under the configured
// combo model.
func (v *Valuator) comboOutcome(item *inventory.Item, strategy Strategy, ctx Context, qty, baseCost decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if v.cfg.ComboModel == ComboModelBoosted {
		// Whole quantity moves and sells at the markdown price with an
		// uplifted destination sell-through, capped; unsold remainder
		// salvages; transfer is a flat per-unit cost.
		boosted := ctx.Realloc.DestinationSellThrough * v.cfg.ComboBoostFactor
		if boosted > v.cfg.ComboBoostCap {
			boosted = v.cfg.ComboBoostCap
		}
		markdownPrice := markdownUnitPrice(item.SellingPrice, strategy.MarkdownPct)
		sold := qty.Mul(decimal.NewFromFloat(boosted))
		unsold := qty.Sub(sold)
		transfer := v.cfg.TransferCostPerUnit.Mul(qty)
		recovery := sold.Mul(markdownPrice).
			Add(unsold.Mul(item.SellingPrice).Mul(decimal.NewFromFloat(v.cfg.SalvageFraction))).
			Sub(transfer)
		return recovery, baseCost.Add(transfer)
	}

	// Split model: reallocate the configured share, mark down the rest.
	// Transport cost applies only to the moved share.
	split := decimal.NewFromFloat(v.cfg.ComboSplit)
	movedQty := qty.Mul(split)
	markdownQty := qty.Sub(movedQty)
	movedTransport := ctx.Realloc.TransportCost.Mul(split)

	moveRecovery := item.SellingPrice.
		Mul(decimal.NewFromFloat(v.cfg.ReallocPriceFactor)).
		Mul(decimal.NewFromFloat(ctx.Realloc.DestinationSellThrough)).
		Mul(movedQty).
		Sub(movedTransport)
	markdownRecovery := markdownUnitPrice(item.SellingPrice, strategy.MarkdownPct).Mul(markdownQty)

	return moveRecovery.Add(markdownRecovery), baseCost.Add(movedTransport)
}

// MarkdownPctFor returns the markdown percentage the tier table assigns to a
// risk level (percent points; 0 means markdown is pointless at that level).
func (v *Valuator) MarkdownPctFor(level risk.Level) float64 {
	return v.cfg.MarkdownTiers[level]
}

// ClearanceRate looks up the expected clearance fraction for a category at a
// markdown percentage. Percentages between documented tiers resolve to the
// smallest tier at or above them; anything above the top tier uses the top
// tier.
func (v *Valuator) ClearanceRate(category inventory.Category, markdownPct float64) float64 {
	table, ok := v.cfg.ClearanceRates[category]
	if !ok || len(table) == 0 {
		return 0
	}
	tiers := make([]int, 0, len(table))
	for t := range table {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)
	for _, t := range tiers {
		if markdownPct <= float64(t) {
			return table[t]
		}
	}
	return table[tiers[len(tiers)-1]]
}

// PotentialLoss is the informational no-action downside: the cost basis of
// the share expected not to sell.
func PotentialLoss(item *inventory.Item) decimal.Decimal {
	unsoldFraction := decimal.NewFromFloat(1 - item.SaleThroughRate)
	return item.AggregateCost().Mul(unsoldFraction)
}

func markdownUnitPrice(sellingPrice decimal.Decimal, pct float64) decimal.Decimal {
	return sellingPrice.Mul(decimal.NewFromFloat(1 - pct/100))
}
