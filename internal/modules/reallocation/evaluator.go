// Package reallocation decides whether stock can be moved to a sister store,
// which store receives it, and what the move costs.
package reallocation

import (
	"github.com/shopspring/decimal"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
)

// Config drives reallocation viability and transport costing. All tables are
// immutable after startup.
type Config struct {
	MinDaysRemaining      float64 `yaml:"min_days_remaining"`
	FreshFoodMinDays      float64 `yaml:"fresh_food_min_days"`
	MinQuantity           int     `yaml:"min_quantity"`
	ComboMinDaysRemaining float64 `yaml:"combo_min_days_remaining"`
	ComboMinQuantity      int     `yaml:"combo_min_quantity"`

	BaseCostPerUnit decimal.Decimal `yaml:"base_cost_per_unit"`

	// Compatibility maps a destination zone to the categories it accepts.
	Compatibility map[inventory.StoreZone][]inventory.Category `yaml:"compatibility"`

	// Priority is the fixed destination preference order; the first
	// compatible, capacity-available store wins. No scoring across stores.
	Priority []inventory.StoreZone `yaml:"priority"`

	// DistanceFactors is a symmetric zone-pair multiplier table.
	DistanceFactors map[inventory.StoreZone]map[inventory.StoreZone]float64 `yaml:"distance_factors"`

	// CategoryFactors scales transport cost by how demanding the stock is to move.
	CategoryFactors map[inventory.Category]float64 `yaml:"category_factors"`

	// SellThrough is the expected sell-through fraction per (zone, category).
	SellThrough map[inventory.StoreZone]map[inventory.Category]float64 `yaml:"sell_through"`
}

// Option is the reallocation view of one item against a store snapshot.
// ComboEligible covers only the static combo gates; the recovery-dominance
// condition is applied by the decision engine after valuation.
type Option struct {
	Viable                 bool             `json:"viable"`
	Destination            *inventory.Store `json:"destination,omitempty"`
	TransportCost          decimal.Decimal  `json:"transport_cost"`
	DestinationSellThrough float64          `json:"destination_sell_through"`
	ComboEligible          bool             `json:"combo_eligible"`
}

// Evaluator applies the reallocation predicates over a read-only store snapshot.
type Evaluator struct {
	cfg Config
}

func NewEvaluator(cfg Config) *Evaluator { return &Evaluator{cfg: cfg} }

// Evaluate determines reallocation viability for an item given the current
// store snapshot. Capacity on each store is an externally supplied fact.
// With no compatible destination the option is not viable and has no
// destination; callers must then exclude both the plain and combo moves.
func (e *Evaluator) Evaluate(item *inventory.Item, stores []*inventory.Store) Option {
	minDays := e.cfg.MinDaysRemaining
	if item.Category == inventory.CategoryFreshFood {
		minDays = e.cfg.FreshFoodMinDays
	}
	if item.DaysRemaining < minDays {
		return Option{}
	}
	if item.Quantity < e.cfg.MinQuantity {
		return Option{}
	}

	origin := findStore(stores, item.StoreCode)
	if origin == nil {
		// Without an origin on record the move cannot be costed.
		return Option{}
	}

	dest := e.bestDestination(item, origin, stores)
	if dest == nil {
		return Option{}
	}

	transport := e.TransportCost(item, origin, dest)
	sellThrough := e.ExpectedSellThrough(item.Category, dest.Zone)

	// The move must unlock more value at the destination than it costs:
	// gross destination recovery over what the stock is already expected to
	// earn where it sits.
	qty := decimal.NewFromInt(int64(item.Quantity))
	gross := item.SellingPrice.Mul(decimal.NewFromFloat(sellThrough)).Mul(qty)
	baseline := item.SellingPrice.Mul(decimal.NewFromFloat(item.SaleThroughRate)).Mul(qty)
	if !transport.LessThan(gross.Sub(baseline)) {
		return Option{}
	}

	return Option{
		Viable:                 true,
		Destination:            dest,
		TransportCost:          transport,
		DestinationSellThrough: sellThrough,
		ComboEligible: item.DaysRemaining >= e.cfg.ComboMinDaysRemaining &&
			item.Quantity >= e.cfg.ComboMinQuantity,
	}
}

// bestDestination walks the fixed zone priority order and returns the first
// active store, other than the origin, that accepts the category and has
// spare capacity for the full quantity.
func (e *Evaluator) bestDestination(item *inventory.Item, origin *inventory.Store, stores []*inventory.Store) *inventory.Store {
	for _, zone := range e.cfg.Priority {
		if !e.accepts(zone, item.Category) {
			continue
		}
		for _, st := range stores {
			if st.Zone != zone || !st.IsActive || st.Code == origin.Code {
				continue
			}
			if st.AvailableCapacity >= item.Quantity {
				return st
			}
		}
	}
	return nil
}

func (e *Evaluator) accepts(zone inventory.StoreZone, category inventory.Category) bool {
	for _, c := range e.cfg.Compatibility[zone] {
		if c == category {
			return true
		}
	}
	return false
}

// TransportCost prices the move: base per-unit cost scaled by zone-pair
// distance, category handling, and quantity.
func (e *Evaluator) TransportCost(item *inventory.Item, origin, dest *inventory.Store) decimal.Decimal {
	distance := 1.0
	if row, ok := e.cfg.DistanceFactors[origin.Zone]; ok {
		if f, ok := row[dest.Zone]; ok {
			distance = f
		}
	}
	categoryFactor := 1.0
	if f, ok := e.cfg.CategoryFactors[item.Category]; ok {
		categoryFactor = f
	}
	return e.cfg.BaseCostPerUnit.
		Mul(decimal.NewFromFloat(distance)).
		Mul(decimal.NewFromFloat(categoryFactor)).
		Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// ExpectedSellThrough looks up the destination sell-through for the category,
// returned unmodified for a plain reallocation.
func (e *Evaluator) ExpectedSellThrough(category inventory.Category, zone inventory.StoreZone) float64 {
	if row, ok := e.cfg.SellThrough[zone]; ok {
		if rate, ok := row[category]; ok {
			return rate
		}
	}
	return 0
}

func findStore(stores []*inventory.Store, code string) *inventory.Store {
	for _, st := range stores {
		if st.Code == code {
			return st
		}
	}
	return nil
}
