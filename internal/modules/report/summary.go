// Package report aggregates evaluation runs into summary metrics and
// spreadsheet exports for the dashboards that sit in front of this service.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/decision"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

// Summary is the portfolio-level view of one evaluation run.
type Summary struct {
	TotalItems int `json:"total_items"`
	Evaluated  int `json:"evaluated"`
	Rejected   int `json:"rejected"`

	ByRiskLevel map[risk.Level]int             `json:"by_risk_level"`
	ByStrategy  map[valuation.StrategyType]int `json:"by_strategy"`

	TotalPotentialLoss    decimal.Decimal `json:"total_potential_loss"`
	TotalExpectedRecovery decimal.Decimal `json:"total_expected_recovery"`
	TotalMarginImpact     decimal.Decimal `json:"total_margin_impact"`

	// TotalAvoidedLoss is the recovery the recommended strategies unlock
	// beyond leaving every item alone.
	TotalAvoidedLoss decimal.Decimal `json:"total_avoided_loss"`
}

// BuildSummary folds a batch result into portfolio metrics. Rejected records
// count toward totals but contribute no financials.
func BuildSummary(batch *decision.BatchResult) *Summary {
	s := &Summary{
		TotalItems:  len(batch.Records),
		Evaluated:   batch.Evaluated,
		Rejected:    batch.Rejected,
		ByRiskLevel: make(map[risk.Level]int),
		ByStrategy:  make(map[valuation.StrategyType]int),
	}
	for _, record := range batch.Records {
		rec := record.Recommendation
		if rec == nil {
			continue
		}
		s.ByRiskLevel[rec.Risk.Level]++
		s.ByStrategy[rec.Primary.Strategy.Type]++
		s.TotalPotentialLoss = s.TotalPotentialLoss.Add(rec.PotentialLoss)
		s.TotalExpectedRecovery = s.TotalExpectedRecovery.Add(rec.Primary.ExpectedRecovery)
		s.TotalMarginImpact = s.TotalMarginImpact.Add(rec.Primary.MarginImpact)
		s.TotalAvoidedLoss = s.TotalAvoidedLoss.Add(rec.AvoidedLoss)
	}
	return s
}
