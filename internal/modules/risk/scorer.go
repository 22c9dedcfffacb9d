package risk

import "github.com/shrinksense/shrinksense-backend/internal/modules/inventory"

// Scorer computes a bounded 0-100 risk score and level for one item.
// It is stateless; the config tables it reads are immutable after startup.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer over an immutable config.
func NewScorer(cfg Config) *Scorer { return &Scorer{cfg: cfg} }

// Score assesses a single item. It always succeeds: out-of-range raw inputs
// (daysRemaining > totalShelfLife, negative values) are clamped rather than
// rejected, so the score stays inside [0,100].
func (s *Scorer) Score(item *inventory.Item) Assessment {
	timeUrgency := 1.0
	if item.TotalShelfLife > 0 {
		timeUrgency = clamp01(1 - item.DaysRemaining/item.TotalShelfLife)
	}
	salesProblem := clamp01(1 - item.SaleThroughRate)

	score := (s.cfg.Weights.Time*timeUrgency + s.cfg.Weights.Sales*salesProblem) * 100
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	th := s.thresholdsFor(item.Category)
	return Assessment{
		TimeUrgency:  timeUrgency,
		SalesProblem: salesProblem,
		Score:        score,
		Level:        levelFor(score, th),
		TimeToAction: timeToAction(score, th),
	}
}

func (s *Scorer) thresholdsFor(category inventory.Category) Thresholds {
	if th, ok := s.cfg.CategoryThresholds[category]; ok {
		return th
	}
	return s.cfg.Thresholds
}

// levelFor maps a score to its band. Bands are lower-exclusive and
// upper-inclusive, so a score sitting exactly on a threshold belongs to the
// band below it.
func levelFor(score float64, th Thresholds) Level {
	switch {
	case score <= th.Low:
		return LevelLow
	case score <= th.Medium:
		return LevelMedium
	case score <= th.High:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// timeToAction buckets the score into the recommended reaction window shown
// to operators alongside the level.
func timeToAction(score float64, th Thresholds) string {
	switch {
	case score <= th.Low:
		return "7+ days"
	case score <= th.Medium:
		return "3-7 days"
	case score <= th.High:
		return "1-3 days"
	default:
		return "0-24 hours"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
