package donation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
)

func defaultConfig() Config {
	return Config{
		Model:                 ModelTaxBenefit,
		FMVBasis:              BasisSellingPrice,
		MinDaysRemaining:      1,
		MinAggregateValue:     decimal.NewFromInt(1),
		CorporateTaxRate:      0.25,
		ProcessingCostPerUnit: decimal.NewFromFloat(0.50),
		FlatRecoveryRate:      0.30,
	}
}

func donatableItem() *inventory.Item {
	return &inventory.Item{
		SKU:           "PERI-001",
		Category:      inventory.CategoryPerishable,
		Quantity:      40,
		CostBasis:     decimal.NewFromFloat(2.00),
		SellingPrice:  decimal.NewFromFloat(4.00),
		DaysRemaining: 2,
	}
}

func allFacts() Facts {
	return Facts{FoodSafetyCompliant: true, DonationCenterAvailable: true}
}

func TestViableGates(t *testing.T) {
	e := NewEvaluator(defaultConfig())

	tests := []struct {
		name   string
		mutate func(*inventory.Item)
		facts  Facts
		want   bool
	}{
		{"eligible perishable", func(i *inventory.Item) {}, allFacts(), true},
		{"fresh food eligible", func(i *inventory.Item) { i.Category = inventory.CategoryFreshFood }, allFacts(), true},
		{"general merchandise never donates", func(i *inventory.Item) { i.Category = inventory.CategoryGeneralMerchandise }, allFacts(), false},
		{"too close to expiry", func(i *inventory.Item) { i.DaysRemaining = 0.5 }, allFacts(), false},
		{"not food safe", func(i *inventory.Item) {}, Facts{FoodSafetyCompliant: false, DonationCenterAvailable: true}, false},
		{"no donation center", func(i *inventory.Item) {}, Facts{FoodSafetyCompliant: true, DonationCenterAvailable: false}, false},
		{"aggregate value too small", func(i *inventory.Item) { i.Quantity = 0 }, allFacts(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := donatableItem()
			tt.mutate(item)
			if got := e.Viable(item, tt.facts); got != tt.want {
				t.Fatalf("Viable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViableQuantityGateReplacesValueGate(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinQuantity = 50
	e := NewEvaluator(cfg)

	item := donatableItem()
	item.Quantity = 50 // strict: must exceed, not equal
	if e.Viable(item, allFacts()) {
		t.Fatal("quantity equal to minimum should not pass")
	}
	item.Quantity = 51
	if !e.Viable(item, allFacts()) {
		t.Fatal("quantity above minimum should pass")
	}
}

func TestRecoveryTaxBenefit(t *testing.T) {
	e := NewEvaluator(defaultConfig())
	item := donatableItem()

	// FMV 40 x 4.00 = 160; tax benefit 40; processing 20; net 20.
	got := e.Recovery(item)
	if want := decimal.NewFromInt(20); !got.Equal(want) {
		t.Fatalf("recovery = %s, want %s", got, want)
	}
}

func TestRecoveryCostBasisFMV(t *testing.T) {
	cfg := defaultConfig()
	cfg.FMVBasis = BasisCostBasis
	e := NewEvaluator(cfg)

	// FMV 40 x 2.00 = 80; tax benefit 20; processing 20; net 0.
	got := e.Recovery(donatableItem())
	if !got.IsZero() {
		t.Fatalf("recovery = %s, want 0", got)
	}
}

func TestRecoveryFlooredAtZero(t *testing.T) {
	e := NewEvaluator(defaultConfig())
	item := donatableItem()
	item.SellingPrice = decimal.NewFromFloat(0.10)

	// Tax benefit 1.00 against 20 of processing cost.
	got := e.Recovery(item)
	if got.IsNegative() || !got.IsZero() {
		t.Fatalf("recovery = %s, want 0", got)
	}
}

func TestRecoveryFlatModel(t *testing.T) {
	cfg := defaultConfig()
	cfg.Model = ModelFlat
	e := NewEvaluator(cfg)

	// 40 x 2.00 x 0.30 = 24.
	got := e.Recovery(donatableItem())
	if want := decimal.NewFromInt(24); !got.Equal(want) {
		t.Fatalf("flat recovery = %s, want %s", got, want)
	}
}
