package decision

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shrinksense/shrinksense-backend/internal/modules/donation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/reallocation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

func testService() Service {
	riskCfg := risk.Config{
		Weights:    risk.WeightsBalanced,
		Thresholds: risk.Thresholds{Low: 40, Medium: 60, High: 80},
	}
	donationCfg := donation.Config{
		Model:                 donation.ModelTaxBenefit,
		FMVBasis:              donation.BasisSellingPrice,
		MinDaysRemaining:      1,
		MinAggregateValue:     decimal.NewFromInt(1),
		CorporateTaxRate:      0.25,
		ProcessingCostPerUnit: decimal.NewFromFloat(0.50),
		FlatRecoveryRate:      0.30,
	}
	reallocCfg := reallocation.Config{
		MinDaysRemaining:      3,
		FreshFoodMinDays:      2,
		MinQuantity:           5,
		ComboMinDaysRemaining: 5,
		ComboMinQuantity:      20,
		BaseCostPerUnit:       decimal.NewFromFloat(0.50),
		Compatibility: map[inventory.StoreZone][]inventory.Category{
			inventory.ZoneUrban:    {inventory.CategoryFreshFood, inventory.CategoryPerishable, inventory.CategoryGeneralMerchandise},
			inventory.ZoneSuburban: {inventory.CategoryPerishable, inventory.CategoryGeneralMerchandise},
			inventory.ZoneRural:    {inventory.CategoryGeneralMerchandise},
		},
		Priority: []inventory.StoreZone{inventory.ZoneUrban, inventory.ZoneSuburban, inventory.ZoneRural},
		DistanceFactors: map[inventory.StoreZone]map[inventory.StoreZone]float64{
			inventory.ZoneUrban:    {inventory.ZoneSuburban: 1.2, inventory.ZoneRural: 1.5},
			inventory.ZoneSuburban: {inventory.ZoneUrban: 1.2, inventory.ZoneRural: 1.3},
			inventory.ZoneRural:    {inventory.ZoneUrban: 1.5, inventory.ZoneSuburban: 1.3},
		},
		CategoryFactors: map[inventory.Category]float64{
			inventory.CategoryFreshFood:          1.5,
			inventory.CategoryPerishable:         1.2,
			inventory.CategoryGeneralMerchandise: 1.0,
		},
		SellThrough: map[inventory.StoreZone]map[inventory.Category]float64{
			inventory.ZoneUrban: {
				inventory.CategoryFreshFood:          0.85,
				inventory.CategoryPerishable:         0.80,
				inventory.CategoryGeneralMerchandise: 0.75,
			},
			inventory.ZoneSuburban: {
				inventory.CategoryFreshFood:          0.70,
				inventory.CategoryPerishable:         0.75,
				inventory.CategoryGeneralMerchandise: 0.80,
			},
			inventory.ZoneRural: {
				inventory.CategoryFreshFood:          0.60,
				inventory.CategoryPerishable:         0.65,
				inventory.CategoryGeneralMerchandise: 0.85,
			},
		},
	}
	valuationCfg := valuation.Config{
		SalvageFraction:     0.10,
		LiquidationRate:     0.30,
		ReallocPriceFactor:  0.95,
		ComboModel:          valuation.ComboModelSplit,
		ComboSplit:          0.70,
		ComboBoostFactor:    1.2,
		ComboBoostCap:       0.95,
		TransferCostPerUnit: decimal.NewFromFloat(0.50),
		MarkdownTiers: map[risk.Level]float64{
			risk.LevelLow:      0,
			risk.LevelMedium:   15,
			risk.LevelHigh:     25,
			risk.LevelCritical: 30,
		},
		ClearanceRates: map[inventory.Category]map[int]float64{
			inventory.CategoryFreshFood:          {15: 0.50, 25: 0.60, 35: 0.75},
			inventory.CategoryPerishable:         {15: 0.45, 25: 0.55, 35: 0.65},
			inventory.CategoryGeneralMerchandise: {15: 0.40, 25: 0.48, 35: 0.58},
		},
	}
	decisionCfg := Config{
		Table: DefaultTable(),
		Facts: donation.Facts{FoodSafetyCompliant: true, DonationCenterAvailable: true},
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewService(
		decisionCfg,
		risk.NewScorer(riskCfg),
		donation.NewEvaluator(donationCfg),
		reallocation.NewEvaluator(reallocCfg),
		valuation.NewValuator(valuationCfg),
		nil,
		nil,
		log,
	)
}

func testStores() []*inventory.Store {
	return []*inventory.Store{
		{Code: "STORE-A", Zone: inventory.ZoneUrban, AvailableCapacity: 600, IsActive: true},
		{Code: "STORE-B", Zone: inventory.ZoneSuburban, AvailableCapacity: 450, IsActive: true},
		{Code: "STORE-C", Zone: inventory.ZoneRural, AvailableCapacity: 300, IsActive: true},
	}
}

func testFacts() donation.Facts {
	return donation.Facts{FoodSafetyCompliant: true, DonationCenterAvailable: true}
}

func TestEvaluateHighRiskFreshFoodTakesMarkdown(t *testing.T) {
	s := testService()

	// 2 of 7 days left and 30% sell-through scores ~70.9 (High). The combo
	// is gated out at 2 days remaining, so the table falls to the markdown.
	item := &inventory.Item{
		SKU:             "FRSH-001",
		Category:        inventory.CategoryFreshFood,
		StoreCode:       "STORE-B",
		Quantity:        50,
		CostBasis:       decimal.NewFromFloat(1.00),
		SellingPrice:    decimal.NewFromFloat(3.00),
		DaysRemaining:   2,
		TotalShelfLife:  7,
		SaleThroughRate: 0.30,
	}

	rec, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Risk.Level != risk.LevelHigh {
		t.Fatalf("level = %v, want HIGH (score %v)", rec.Risk.Level, rec.Risk.Score)
	}
	if rec.Primary.Strategy.Type != valuation.StrategyMarkdown {
		t.Fatalf("primary = %v, want MARKDOWN", rec.Primary.Strategy.Type)
	}
	if rec.Primary.Strategy.MarkdownPct != 25 {
		t.Fatalf("markdown pct = %v, want 25", rec.Primary.Strategy.MarkdownPct)
	}
}

func TestEvaluateLowRiskLeavesStockAlone(t *testing.T) {
	s := testService()

	item := &inventory.Item{
		SKU:             "GENM-001",
		Category:        inventory.CategoryGeneralMerchandise,
		StoreCode:       "STORE-A",
		Quantity:        10,
		CostBasis:       decimal.NewFromFloat(3.00),
		SellingPrice:    decimal.NewFromFloat(6.00),
		DaysRemaining:   200,
		TotalShelfLife:  300,
		SaleThroughRate: 0.90,
	}

	rec, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Risk.Level != risk.LevelLow {
		t.Fatalf("level = %v, want LOW", rec.Risk.Level)
	}
	if rec.Primary.Strategy.Type != valuation.StrategyNoAction {
		t.Fatalf("primary = %v, want NO_ACTION", rec.Primary.Strategy.Type)
	}
	if !rec.AvoidedLoss.IsZero() {
		t.Fatalf("avoided loss = %s, want 0 against the no-action baseline", rec.AvoidedLoss)
	}
}

func TestEvaluateCriticalPerishableLiquidatesWhenDonationLoses(t *testing.T) {
	s := testService()

	// Donation recovery: FMV 240 x 0.25 - 30 processing = 30.
	// Liquidation: 60 x 4.00 x 0.30 = 72. Donation is off the table.
	item := &inventory.Item{
		SKU:             "PERI-001",
		Category:        inventory.CategoryPerishable,
		StoreCode:       "STORE-A",
		Quantity:        60,
		CostBasis:       decimal.NewFromFloat(2.00),
		SellingPrice:    decimal.NewFromFloat(4.00),
		DaysRemaining:   1,
		TotalShelfLife:  10,
		SaleThroughRate: 0.10,
	}

	rec, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Risk.Level != risk.LevelCritical {
		t.Fatalf("level = %v, want CRITICAL (score %v)", rec.Risk.Level, rec.Risk.Score)
	}
	if rec.Primary.Strategy.Type != valuation.StrategyLiquidate {
		t.Fatalf("primary = %v, want LIQUIDATE", rec.Primary.Strategy.Type)
	}
	for _, tag := range rec.Rationale {
		if tag == "donation-viable" {
			t.Fatal("donation should have been dropped below liquidation")
		}
	}
	for _, opt := range rec.Secondary {
		if opt.Strategy.Type == valuation.StrategyDonate {
			t.Fatal("dropped donation must not reappear as a secondary option")
		}
	}
}

func TestMissingFactsCloseDonation(t *testing.T) {
	s := testService()

	// Without the compliance and logistics facts, critical perishable stock
	// must fall through to the liquidate rule.
	item := &inventory.Item{
		SKU:             "PERI-002",
		Category:        inventory.CategoryPerishable,
		StoreCode:       "STORE-A",
		Quantity:        50,
		CostBasis:       decimal.NewFromFloat(1.00),
		SellingPrice:    decimal.NewFromFloat(10.00),
		DaysRemaining:   0.5,
		TotalShelfLife:  10,
		SaleThroughRate: 0.05,
	}

	rec, err := s.Evaluate(item, testStores(), donation.Facts{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Primary.Strategy.Type != valuation.StrategyLiquidate {
		t.Fatalf("primary = %v, want LIQUIDATE with donation facts absent", rec.Primary.Strategy.Type)
	}
}

func TestDonationNeverOfferedForGeneralMerchandise(t *testing.T) {
	s := testService()

	item := &inventory.Item{
		SKU:             "GENM-002",
		Category:        inventory.CategoryGeneralMerchandise,
		StoreCode:       "STORE-A",
		Quantity:        100,
		CostBasis:       decimal.NewFromFloat(1.00),
		SellingPrice:    decimal.NewFromFloat(2.00),
		DaysRemaining:   0.5,
		TotalShelfLife:  100,
		SaleThroughRate: 0.05,
	}

	rec, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Primary.Strategy.Type == valuation.StrategyDonate {
		t.Fatal("general merchandise must never donate")
	}
	for _, opt := range rec.Secondary {
		if opt.Strategy.Type == valuation.StrategyDonate {
			t.Fatal("general merchandise must never list donation as an option")
		}
	}
}

func TestComboOnlySurvivesWhenItDominates(t *testing.T) {
	s := testService()

	// Statically combo-eligible (30 units, 6 days) high-risk stock moving
	// suburban to urban. Whether the combo wins is decided by comparing
	// projected recoveries, so assert consistency between the tag and the
	// primary rather than assuming an outcome.
	item := &inventory.Item{
		SKU:             "PERI-003",
		Category:        inventory.CategoryPerishable,
		StoreCode:       "STORE-B",
		Quantity:        30,
		CostBasis:       decimal.NewFromFloat(2.00),
		SellingPrice:    decimal.NewFromFloat(5.00),
		DaysRemaining:   6,
		TotalShelfLife:  30,
		SaleThroughRate: 0.20,
	}

	rec, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Risk.Level != risk.LevelHigh {
		t.Fatalf("level = %v, want HIGH (score %v)", rec.Risk.Level, rec.Risk.Score)
	}

	dominates := false
	for _, tag := range rec.Rationale {
		if tag == "combo-dominates" {
			dominates = true
		}
	}
	if dominates && rec.Primary.Strategy.Type != valuation.StrategyReallocateMarkdown {
		t.Fatalf("combo dominates but primary = %v", rec.Primary.Strategy.Type)
	}
	if !dominates && rec.Primary.Strategy.Type == valuation.StrategyReallocateMarkdown {
		t.Fatal("combo recommended without dominance")
	}

	// The primary must carry the best margin among itself and all listed
	// secondaries or have been selected by an explicit table rule.
	for _, opt := range rec.Secondary {
		if opt.Strategy.Type == valuation.StrategyReallocateMarkdown && !dominates {
			t.Fatal("dominated combo must not appear among the options")
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	s := testService()
	item := &inventory.Item{
		SKU:             "FRSH-002",
		Category:        inventory.CategoryFreshFood,
		StoreCode:       "STORE-B",
		Quantity:        25,
		CostBasis:       decimal.NewFromFloat(2.50),
		SellingPrice:    decimal.NewFromFloat(6.00),
		DaysRemaining:   3,
		TotalShelfLife:  7,
		SaleThroughRate: 0.35,
	}

	first, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if first.Primary.Strategy != second.Primary.Strategy {
		t.Fatalf("primary changed between runs: %+v vs %+v", first.Primary.Strategy, second.Primary.Strategy)
	}
	if !first.Primary.ExpectedRecovery.Equal(second.Primary.ExpectedRecovery) {
		t.Fatal("recovery changed between runs")
	}
	if len(first.Secondary) != len(second.Secondary) {
		t.Fatal("secondary option count changed between runs")
	}
	for i := range first.Secondary {
		if first.Secondary[i].Strategy != second.Secondary[i].Strategy {
			t.Fatalf("secondary order changed at %d", i)
		}
	}
}

func TestEvaluateRejectsInvalidItem(t *testing.T) {
	s := testService()
	item := &inventory.Item{
		SKU:            "",
		Category:       inventory.CategoryFreshFood,
		StoreCode:      "STORE-A",
		Quantity:       10,
		TotalShelfLife: 7,
	}

	_, err := s.Evaluate(item, testStores(), testFacts())
	if err == nil {
		t.Fatal("expected a validation error for the missing SKU")
	}
	if _, ok := err.(*inventory.ValidationError); !ok {
		t.Fatalf("error type = %T, want *inventory.ValidationError", err)
	}
}

func TestEvaluateBatchPreservesOrderAndCollectsErrors(t *testing.T) {
	s := testService()

	good := &inventory.Item{
		SKU:             "GENM-003",
		Category:        inventory.CategoryGeneralMerchandise,
		StoreCode:       "STORE-A",
		Quantity:        10,
		CostBasis:       decimal.NewFromFloat(3.00),
		SellingPrice:    decimal.NewFromFloat(6.00),
		DaysRemaining:   100,
		TotalShelfLife:  300,
		SaleThroughRate: 0.90,
	}
	bad := &inventory.Item{
		SKU:            "",
		Category:       inventory.CategoryFreshFood,
		StoreCode:      "STORE-A",
		TotalShelfLife: 7,
	}

	batch := s.EvaluateBatch([]*inventory.Item{good, bad, good}, testStores(), testFacts())
	if batch.Evaluated != 2 || batch.Rejected != 1 {
		t.Fatalf("evaluated/rejected = %d/%d, want 2/1", batch.Evaluated, batch.Rejected)
	}
	if len(batch.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(batch.Records))
	}
	if batch.Records[0].Recommendation == nil || batch.Records[2].Recommendation == nil {
		t.Fatal("valid items must produce recommendations in place")
	}
	if batch.Records[1].Error == nil {
		t.Fatal("invalid item must produce an in-place error record")
	}
}

func TestNoDestinationExcludesMoveStrategies(t *testing.T) {
	s := testService()

	// Fresh food can only move to the urban store; originate it there so no
	// destination remains.
	item := &inventory.Item{
		SKU:             "FRSH-003",
		Category:        inventory.CategoryFreshFood,
		StoreCode:       "STORE-A",
		Quantity:        30,
		CostBasis:       decimal.NewFromFloat(2.00),
		SellingPrice:    decimal.NewFromFloat(5.00),
		DaysRemaining:   6,
		TotalShelfLife:  30,
		SaleThroughRate: 0.20,
	}

	rec, err := s.Evaluate(item, testStores(), testFacts())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Primary.Strategy.Type == valuation.StrategyReallocate ||
		rec.Primary.Strategy.Type == valuation.StrategyReallocateMarkdown {
		t.Fatalf("primary = %v despite no destination", rec.Primary.Strategy.Type)
	}
	for _, opt := range rec.Secondary {
		if opt.Strategy.Type == valuation.StrategyReallocate ||
			opt.Strategy.Type == valuation.StrategyReallocateMarkdown {
			t.Fatalf("secondary %v offered despite no destination", opt.Strategy.Type)
		}
	}
	found := false
	for _, tag := range rec.Rationale {
		if tag == "no-destination" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing no-destination tag in %v", rec.Rationale)
	}
}
