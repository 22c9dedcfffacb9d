package inventory

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixture generation for demos and tests: a fixed three-store network and a
// seeded, risk-stratified item set so every risk band and category shows up
// in roughly equal measure.

type categoryProfile struct {
	shelfLifeMin, shelfLifeMax int
	costMin, costMax           float64
	marginMin, marginMax       float64
	products                   []string
}

var fixtureProfiles = map[Category]categoryProfile{
	CategoryFreshFood: {
		shelfLifeMin: 1, shelfLifeMax: 7,
		costMin: 2, costMax: 12,
		marginMin: 1.4, marginMax: 2.2,
		products: []string{"Organic Milk 1L", "Fresh Bread", "Bananas 1kg", "Lettuce Head", "Chicken Breast 1kg"},
	},
	CategoryPerishable: {
		shelfLifeMin: 5, shelfLifeMax: 30,
		costMin: 2, costMax: 18,
		marginMin: 1.5, marginMax: 2.5,
		products: []string{"Yogurt 500g", "Cheese Block", "Deli Ham 500g", "Muffins 6pk", "Fresh Pasta"},
	},
	CategoryGeneralMerchandise: {
		shelfLifeMin: 30, shelfLifeMax: 365,
		costMin: 3, costMax: 50,
		marginMin: 1.3, marginMax: 2.0,
		products: []string{"Canned Beans", "Pasta Sauce", "Breakfast Cereal", "Shampoo 400ml", "Laundry Detergent"},
	},
}

// FixtureStores returns the demo three-store network, one store per zone.
func FixtureStores() []*Store {
	return []*Store{
		{ID: uuid.New(), Code: "STORE-A", Name: "Central Urban", Zone: ZoneUrban, Capacity: 2000, AvailableCapacity: 600, IsActive: true},
		{ID: uuid.New(), Code: "STORE-B", Name: "Westside Suburban", Zone: ZoneSuburban, Capacity: 1500, AvailableCapacity: 450, IsActive: true},
		{ID: uuid.New(), Code: "STORE-C", Name: "Valley Rural", Zone: ZoneRural, Capacity: 800, AvailableCapacity: 300, IsActive: true},
	}
}

// FixtureItems generates count items spread evenly across categories, stores,
// and target risk bands. The same seed always yields the same items.
func FixtureItems(count int, seed int64) []*Item {
	rng := rand.New(rand.NewSource(seed))
	stores := []string{"STORE-A", "STORE-B", "STORE-C"}
	categories := Categories()

	items := make([]*Item, 0, count)
	for i := 0; i < count; i++ {
		category := categories[i%len(categories)]
		profile := fixtureProfiles[category]
		band := (i / len(categories)) % 4 // 0=low .. 3=critical

		shelfLife := profile.shelfLifeMin + rng.Intn(profile.shelfLifeMax-profile.shelfLifeMin+1)
		daysRemaining, rate := bandTargets(rng, band, shelfLife)

		costBasis := profile.costMin + rng.Float64()*(profile.costMax-profile.costMin)
		margin := profile.marginMin + rng.Float64()*(profile.marginMax-profile.marginMin)

		items = append(items, &Item{
			ID:              uuid.New(),
			SKU:             fmt.Sprintf("%s-%03d", skuPrefix(category), i+1),
			Name:            profile.products[rng.Intn(len(profile.products))],
			Category:        category,
			StoreCode:       stores[rng.Intn(len(stores))],
			Quantity:        5 + rng.Intn(96),
			CostBasis:       decimal.NewFromFloat(costBasis).Round(2),
			SellingPrice:    decimal.NewFromFloat(costBasis * margin).Round(2),
			DaysRemaining:   daysRemaining,
			TotalShelfLife:  float64(shelfLife),
			SaleThroughRate: rate,
		})
	}
	return items
}

// bandTargets picks days-remaining and sell-through values that land an item
// inside the requested risk band under the balanced weights.
func bandTargets(rng *rand.Rand, band, shelfLife int) (float64, float64) {
	life := float64(shelfLife)
	switch band {
	case 0: // low: young stock selling well
		return life * (0.7 + rng.Float64()*0.3), 0.65 + rng.Float64()*0.30
	case 1: // medium
		return life * (0.4 + rng.Float64()*0.3), 0.45 + rng.Float64()*0.20
	case 2: // high
		return life * (0.2 + rng.Float64()*0.2), 0.25 + rng.Float64()*0.20
	default: // critical: nearly expired, barely selling
		return life * (rng.Float64() * 0.2), 0.05 + rng.Float64()*0.20
	}
}

func skuPrefix(category Category) string {
	switch category {
	case CategoryFreshFood:
		return "FRSH"
	case CategoryPerishable:
		return "PERI"
	default:
		return "GENM"
	}
}
