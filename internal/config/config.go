// Package config assembles the engine's configuration tables: risk weights
// and thresholds, markdown and clearance tiers, donation rules, the store
// compatibility matrix, transport cost factors, and sell-through tables.
// Everything is loaded once at startup and treated as immutable afterwards;
// components receive their slice of the config explicitly.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shrinksense/shrinksense-backend/internal/modules/decision"
	"github.com/shrinksense/shrinksense-backend/internal/modules/donation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/reallocation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

// ConfigurationError marks a missing or inconsistent configuration entry.
// It is fatal for the process: silently defaulting a financial table would
// produce incorrect recommendations.
type ConfigurationError struct {
	Section string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
}

// Sweep schedules the periodic re-evaluation of stored inventory.
type Sweep struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Engine is the complete immutable configuration surface.
type Engine struct {
	Risk         risk.Config         `yaml:"risk"`
	Donation     donation.Config     `yaml:"donation"`
	Reallocation reallocation.Config `yaml:"reallocation"`
	Valuation    valuation.Config    `yaml:"valuation"`
	Decision     decision.Config     `yaml:"decision"`
	Sweep        Sweep               `yaml:"sweep"`
}

// Default returns the documented baseline tables.
func Default() Engine {
	return Engine{
		Risk: risk.Config{
			WeightPreset: "balanced",
			Weights:      risk.WeightsBalanced,
			Thresholds:   risk.Thresholds{Low: 40, Medium: 60, High: 80},
			// Per-category overrides (e.g. the stricter fresh-food bands)
			// are opt-in via the config file; the universal scheme is the
			// documented default.
			CategoryThresholds: map[inventory.Category]risk.Thresholds{},
		},
		Donation: donation.Config{
			Model:                 donation.ModelTaxBenefit,
			FMVBasis:              donation.BasisSellingPrice,
			MinDaysRemaining:      1,
			MinAggregateValue:     decimal.NewFromInt(1),
			CorporateTaxRate:      0.25,
			ProcessingCostPerUnit: decimal.NewFromFloat(0.50),
			FlatRecoveryRate:      0.30,
		},
		Reallocation: reallocation.Config{
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
		},
		Valuation: valuation.Config{
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
		},
		Decision: decision.Config{
			Table: decision.DefaultTable(),
			Facts: donation.Facts{FoodSafetyCompliant: true, DonationCenterAvailable: true},
		},
		Sweep: Sweep{Enabled: true, Schedule: "0 2 * * *"},
	}
}

// Load builds the engine config: defaults, then the YAML file at path if it
// exists, then environment overrides, then validation. Any validation
// failure is a *ConfigurationError and should abort startup.
func Load(path string) (Engine, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	envOverride(&cfg.Risk.WeightPreset, "RISK_WEIGHT_PRESET")
	envOverride(&cfg.Donation.Model, "DONATION_MODEL")
	envOverride(&cfg.Valuation.ComboModel, "COMBO_MODEL")
	envOverride(&cfg.Sweep.Schedule, "SWEEP_SCHEDULE")

	switch cfg.Risk.WeightPreset {
	case "balanced", "":
		cfg.Risk.Weights = risk.WeightsBalanced
	case "time_weighted":
		cfg.Risk.Weights = risk.WeightsTimeWeighted
	default:
		return cfg, &ConfigurationError{Section: "risk", Message: fmt.Sprintf("unknown weight preset %q", cfg.Risk.WeightPreset)}
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envOverride(field *string, key string) {
	if val := os.Getenv(key); val != "" {
		*field = val
	}
}

// Validate checks every table for the holes and inconsistencies that would
// make recommendations financially wrong.
func Validate(cfg Engine) error {
	if err := validateRisk(cfg.Risk); err != nil {
		return err
	}
	if err := validateDonation(cfg.Donation); err != nil {
		return err
	}
	if err := validateReallocation(cfg.Reallocation); err != nil {
		return err
	}
	if err := validateValuation(cfg.Valuation); err != nil {
		return err
	}
	return validateDecision(cfg.Decision)
}

func validateRisk(cfg risk.Config) error {
	if math.Abs(cfg.Weights.Time+cfg.Weights.Sales-1) > 1e-9 {
		return &ConfigurationError{Section: "risk", Message: "weights must sum to 1"}
	}
	if cfg.Weights.Time < 0 || cfg.Weights.Sales < 0 {
		return &ConfigurationError{Section: "risk", Message: "weights must not be negative"}
	}
	check := func(name string, th risk.Thresholds) error {
		if !(0 < th.Low && th.Low < th.Medium && th.Medium < th.High && th.High < 100) {
			return &ConfigurationError{Section: "risk", Message: fmt.Sprintf("%s thresholds must satisfy 0 < low < medium < high < 100", name)}
		}
		return nil
	}
	if err := check("universal", cfg.Thresholds); err != nil {
		return err
	}
	for category, th := range cfg.CategoryThresholds {
		if !category.Valid() {
			return &ConfigurationError{Section: "risk", Message: fmt.Sprintf("threshold override for unknown category %q", category)}
		}
		if err := check(string(category), th); err != nil {
			return err
		}
	}
	return nil
}

func validateDonation(cfg donation.Config) error {
	if cfg.Model != donation.ModelTaxBenefit && cfg.Model != donation.ModelFlat {
		return &ConfigurationError{Section: "donation", Message: fmt.Sprintf("unknown recovery model %q", cfg.Model)}
	}
	if cfg.FMVBasis != donation.BasisSellingPrice && cfg.FMVBasis != donation.BasisCostBasis {
		return &ConfigurationError{Section: "donation", Message: fmt.Sprintf("unknown fair-market-value basis %q", cfg.FMVBasis)}
	}
	if cfg.CorporateTaxRate < 0 || cfg.CorporateTaxRate > 1 {
		return &ConfigurationError{Section: "donation", Message: "corporate tax rate must be in [0,1]"}
	}
	if cfg.FlatRecoveryRate < 0 || cfg.FlatRecoveryRate > 1 {
		return &ConfigurationError{Section: "donation", Message: "flat recovery rate must be in [0,1]"}
	}
	if cfg.MinDaysRemaining < 0 {
		return &ConfigurationError{Section: "donation", Message: "minimum days remaining must not be negative"}
	}
	return nil
}

func validateReallocation(cfg reallocation.Config) error {
	if len(cfg.Priority) == 0 {
		return &ConfigurationError{Section: "reallocation", Message: "destination priority order is empty"}
	}
	for _, zone := range cfg.Priority {
		if !zone.Valid() {
			return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("unknown zone %q in priority order", zone)}
		}
	}
	for zone, categories := range cfg.Compatibility {
		if !zone.Valid() {
			return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("compatibility entry for unknown zone %q", zone)}
		}
		for _, c := range categories {
			if !c.Valid() {
				return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("zone %s accepts unknown category %q", zone, c)}
			}
		}
	}
	zones := []inventory.StoreZone{inventory.ZoneUrban, inventory.ZoneSuburban, inventory.ZoneRural}
	for _, from := range zones {
		for _, to := range zones {
			if from == to {
				continue
			}
			forward, ok := lookupDistance(cfg, from, to)
			if !ok {
				return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("missing distance factor for %s -> %s", from, to)}
			}
			back, ok := lookupDistance(cfg, to, from)
			if !ok || forward != back {
				return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("distance factors must be symmetric for %s <-> %s", from, to)}
			}
		}
		for _, category := range inventory.Categories() {
			rate, ok := lookupSellThrough(cfg, from, category)
			if !ok {
				return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("missing sell-through for %s / %s", from, category)}
			}
			if rate < 0 || rate > 1 {
				return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("sell-through for %s / %s must be in [0,1]", from, category)}
			}
		}
	}
	for _, category := range inventory.Categories() {
		if _, ok := cfg.CategoryFactors[category]; !ok {
			return &ConfigurationError{Section: "reallocation", Message: fmt.Sprintf("missing category cost factor for %s", category)}
		}
	}
	if cfg.BaseCostPerUnit.IsNegative() {
		return &ConfigurationError{Section: "reallocation", Message: "base cost per unit must not be negative"}
	}
	return nil
}

func lookupDistance(cfg reallocation.Config, from, to inventory.StoreZone) (float64, bool) {
	row, ok := cfg.DistanceFactors[from]
	if !ok {
		return 0, false
	}
	f, ok := row[to]
	return f, ok
}

func lookupSellThrough(cfg reallocation.Config, zone inventory.StoreZone, category inventory.Category) (float64, bool) {
	row, ok := cfg.SellThrough[zone]
	if !ok {
		return 0, false
	}
	rate, ok := row[category]
	return rate, ok
}

func validateValuation(cfg valuation.Config) error {
	inUnit := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return &ConfigurationError{Section: "valuation", Message: name + " must be in [0,1]"}
		}
		return nil
	}
	if err := inUnit("salvage fraction", cfg.SalvageFraction); err != nil {
		return err
	}
	if err := inUnit("liquidation rate", cfg.LiquidationRate); err != nil {
		return err
	}
	if cfg.ReallocPriceFactor <= 0 || cfg.ReallocPriceFactor > 1 {
		return &ConfigurationError{Section: "valuation", Message: "realloc price factor must be in (0,1]"}
	}
	if cfg.ComboModel != valuation.ComboModelSplit && cfg.ComboModel != valuation.ComboModelBoosted {
		return &ConfigurationError{Section: "valuation", Message: fmt.Sprintf("unknown combo model %q", cfg.ComboModel)}
	}
	if cfg.ComboSplit <= 0 || cfg.ComboSplit >= 1 {
		return &ConfigurationError{Section: "valuation", Message: "combo split must be in (0,1)"}
	}
	if err := inUnit("combo boost cap", cfg.ComboBoostCap); err != nil {
		return err
	}
	for _, level := range risk.Levels() {
		pct, ok := cfg.MarkdownTiers[level]
		if !ok {
			return &ConfigurationError{Section: "valuation", Message: fmt.Sprintf("missing markdown tier for risk level %s", level)}
		}
		if pct < 0 || pct >= 100 {
			return &ConfigurationError{Section: "valuation", Message: fmt.Sprintf("markdown tier for %s must be in [0,100)", level)}
		}
	}
	for _, category := range inventory.Categories() {
		table, ok := cfg.ClearanceRates[category]
		if !ok || len(table) == 0 {
			return &ConfigurationError{Section: "valuation", Message: fmt.Sprintf("missing clearance table for %s", category)}
		}
		prevTier := -1
		prevNet := 0.0
		for _, tier := range sortedTiers(table) {
			rate := table[tier]
			if rate <= 0 || rate > 1 {
				return &ConfigurationError{Section: "valuation", Message: fmt.Sprintf("clearance rate for %s tier %d must be in (0,1]", category, tier)}
			}
			// A deeper markdown must never recover less than a shallower
			// one, so the clearance uplift has to dominate the price cut.
			net := (1 - float64(tier)/100) * rate
			if prevTier >= 0 && net < prevNet {
				return &ConfigurationError{Section: "valuation", Message: fmt.Sprintf("clearance table for %s: tier %d recovers less than tier %d", category, tier, prevTier)}
			}
			prevTier, prevNet = tier, net
		}
	}
	return nil
}

func sortedTiers(table map[int]float64) []int {
	tiers := make([]int, 0, len(table))
	for t := range table {
		tiers = append(tiers, t)
	}
	for i := 1; i < len(tiers); i++ {
		for j := i; j > 0 && tiers[j] < tiers[j-1]; j-- {
			tiers[j], tiers[j-1] = tiers[j-1], tiers[j]
		}
	}
	return tiers
}

func validateDecision(cfg decision.Config) error {
	for _, level := range risk.Levels() {
		cells, ok := cfg.Table[level]
		if !ok {
			return &ConfigurationError{Section: "decision", Message: fmt.Sprintf("no decision rules for risk level %s", level)}
		}
		for _, category := range inventory.Categories() {
			rules, ok := cells[category]
			if !ok || len(rules) == 0 {
				return &ConfigurationError{Section: "decision", Message: fmt.Sprintf("no decision rules for %s / %s", level, category)}
			}
			last := rules[len(rules)-1]
			if last.Requires != decision.RequireNone {
				return &ConfigurationError{Section: "decision", Message: fmt.Sprintf("decision rules for %s / %s must end in an unconditional strategy", level, category)}
			}
		}
	}
	return nil
}
