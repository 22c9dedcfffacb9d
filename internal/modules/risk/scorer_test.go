package risk

import (
	"math"
	"testing"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
)

func testItem(daysRemaining, shelfLife, rate float64) *inventory.Item {
	return &inventory.Item{
		SKU:             "SKU-001",
		Category:        inventory.CategoryGeneralMerchandise,
		DaysRemaining:   daysRemaining,
		TotalShelfLife:  shelfLife,
		SaleThroughRate: rate,
	}
}

func defaultScorer() *Scorer {
	return NewScorer(Config{
		Weights:            WeightsBalanced,
		Thresholds:         Thresholds{Low: 40, Medium: 60, High: 80},
		CategoryThresholds: map[inventory.Category]Thresholds{},
	})
}

func TestScoreBalancedWeights(t *testing.T) {
	s := defaultScorer()

	// 2 of 7 days left, selling 30%: urgency 5/7, sales problem 0.7.
	a := s.Score(testItem(2, 7, 0.30))
	want := (0.6*(5.0/7.0) + 0.4*0.7) * 100
	if math.Abs(a.Score-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", a.Score, want)
	}
	if a.Level != LevelHigh {
		t.Fatalf("level = %v, want %v", a.Level, LevelHigh)
	}
	if a.TimeToAction != "1-3 days" {
		t.Fatalf("time to action = %q", a.TimeToAction)
	}
}

func TestScoreClampsOutOfRangeInputs(t *testing.T) {
	s := defaultScorer()

	tests := []struct {
		name string
		item *inventory.Item
		want float64
	}{
		{"days exceed shelf life", testItem(10, 7, 0.5), 0.4 * 0.5 * 100},
		{"negative days remaining", testItem(-1, 7, 0.5), (0.6 + 0.4*0.5) * 100},
		{"zero shelf life is max urgency", testItem(3, 0, 0.5), (0.6 + 0.4*0.5) * 100},
		{"fully sold fresh stock", testItem(7, 7, 1.0), 0},
		{"expired unsold stock", testItem(0, 7, 0.0), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.Score(tt.item)
			if math.Abs(a.Score-tt.want) > 1e-9 {
				t.Fatalf("score = %v, want %v", a.Score, tt.want)
			}
			if a.Score < 0 || a.Score > 100 {
				t.Fatalf("score %v out of bounds", a.Score)
			}
		})
	}
}

func TestLevelBoundariesAreUpperInclusive(t *testing.T) {
	th := Thresholds{Low: 40, Medium: 60, High: 80}
	tests := []struct {
		score float64
		want  Level
	}{
		{0, LevelLow},
		{40, LevelLow},
		{40.01, LevelMedium},
		{60, LevelMedium},
		{60.01, LevelHigh},
		{80, LevelHigh},
		{80.01, LevelCritical},
		{100, LevelCritical},
	}
	for _, tt := range tests {
		if got := levelFor(tt.score, th); got != tt.want {
			t.Fatalf("levelFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestScoreMonotonicInUrgency(t *testing.T) {
	s := defaultScorer()
	prev := -1.0
	for days := 7.0; days >= 0; days-- {
		a := s.Score(testItem(days, 7, 0.5))
		if a.Score < prev {
			t.Fatalf("score dropped from %v to %v at days=%v", prev, a.Score, days)
		}
		prev = a.Score
	}
}

func TestCategoryThresholdOverride(t *testing.T) {
	s := NewScorer(Config{
		Weights:    WeightsBalanced,
		Thresholds: Thresholds{Low: 40, Medium: 60, High: 80},
		CategoryThresholds: map[inventory.Category]Thresholds{
			inventory.CategoryFreshFood: {Low: 20, Medium: 40, High: 60},
		},
	})

	item := testItem(2, 7, 0.30) // scores ~71.4
	item.Category = inventory.CategoryFreshFood
	if a := s.Score(item); a.Level != LevelCritical {
		t.Fatalf("fresh food level = %v, want %v under stricter bands", a.Level, LevelCritical)
	}

	item.Category = inventory.CategoryGeneralMerchandise
	if a := s.Score(item); a.Level != LevelHigh {
		t.Fatalf("general merchandise level = %v, want %v", a.Level, LevelHigh)
	}
}

func TestTimeWeightedPresetShiftsScore(t *testing.T) {
	balanced := defaultScorer()
	timeWeighted := NewScorer(Config{
		Weights:    WeightsTimeWeighted,
		Thresholds: Thresholds{Low: 40, Medium: 60, High: 80},
	})

	// Urgency dominates sales problem here, so the time-weighted preset
	// must score it higher.
	item := testItem(1, 10, 0.8)
	b := balanced.Score(item)
	tw := timeWeighted.Score(item)
	if tw.Score <= b.Score {
		t.Fatalf("time-weighted score %v not above balanced %v", tw.Score, b.Score)
	}
}
