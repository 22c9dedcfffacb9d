package risk

import "github.com/shrinksense/shrinksense-backend/internal/modules/inventory"

// Level buckets a risk score into an action urgency class.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Levels lists the levels from least to most urgent.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh, LevelCritical}
}

// Weights is a named pair applied to the two risk factors. Time and Sales
// should sum to 1.
type Weights struct {
	Time  float64 `yaml:"time"`
	Sales float64 `yaml:"sales"`
}

// Weight presets documented for the scoring model. Balanced is the
// authoritative default; TimeWeighted is kept as a selectable alternative.
var (
	WeightsBalanced     = Weights{Time: 0.6, Sales: 0.4}
	WeightsTimeWeighted = Weights{Time: 0.7, Sales: 0.3}
)

// Thresholds are the upper bounds of the Low/Medium/High bands on the 0-100
// scale. A band is lower-exclusive and upper-inclusive: Medium = (Low, Medium].
// Scores above High are Critical.
type Thresholds struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// Config drives the scorer. CategoryThresholds overrides the universal
// thresholds for specific categories; absent categories use Thresholds.
type Config struct {
	WeightPreset       string                            `yaml:"weight_preset"`
	Weights            Weights                           `yaml:"-"`
	Thresholds         Thresholds                        `yaml:"thresholds"`
	CategoryThresholds map[inventory.Category]Thresholds `yaml:"category_thresholds"`
}

// Assessment is the derived risk view of one item, valid for one evaluation.
type Assessment struct {
	TimeUrgency  float64 `json:"time_urgency"`
	SalesProblem float64 `json:"sales_problem"`
	Score        float64 `json:"risk_score"`
	Level        Level   `json:"risk_level"`
	TimeToAction string  `json:"time_to_action"`
}
