package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/models"
)

func richInputs() Inputs {
	asOf := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	return Inputs{
		AsOf: asOf,
		Snapshot: models.MarketSnapshot{
			Symbol:        "ACME",
			Price:         144,
			PreviousClose: 140,
			Volume:        3000,
			AverageVolume: 1000,
			High52W:       160,
			Low52W:        50,
			MarketCap:     1000,
		},
		History: history(concat(linear(50, 160, 219), []float64{144})),
		Fundamentals: models.FundamentalProfile{
			PEG:           models.Float(1.1),
			FreeCashFlow:  models.Float(90),
			EVToEBITDA:    models.Float(7),
			ProfitMargin:  models.Float(0.25),
			ROE:           models.Float(0.28),
			DebtToEquity:  models.Float(0.1),
			CurrentRatio:  models.Float(2.5),
			RevenueGrowth: models.Float(0.35),
		},
		Analyst: models.AnalystProfile{
			TargetMean: models.Float(200),
			Recommendations: []models.RecommendationPeriod{
				{Period: "0m", StrongBuy: 8, Buy: 4, Hold: 1},
			},
			RatingChanges: []models.RatingChange{
				{Date: asOf.AddDate(0, 0, -10), Action: models.ActionUpgrade},
				{Date: asOf.AddDate(0, 0, -20), Action: models.ActionUpgrade},
			},
			EPSRevisions: models.EPSRevisions{Up30: 6, Down30: 0},
			EPSTrend:     models.EPSTrend{Current: models.Float(3.3), DaysAgo90: models.Float(3.0)},
		},
	}
}

func TestScorer_Bounds(t *testing.T) {
	scorer := NewScorer(DefaultThresholds())
	card := scorer.Score("", richInputs())

	assert.Equal(t, "ACME", card.Symbol)
	assert.LessOrEqual(t, card.Technical.Total, 50.0)
	assert.LessOrEqual(t, card.Fundamental.Total, 30.0)
	assert.LessOrEqual(t, card.Analyst.Total, 20.0)
	assert.GreaterOrEqual(t, card.Composite, 0.0)
	assert.LessOrEqual(t, card.Composite, 100.0)

	// Fundamentals and analyst evidence overflow their ceilings.
	assert.Equal(t, 30.0, card.Fundamental.Total)
	assert.Equal(t, 20.0, card.Analyst.Total)
	assert.Greater(t, card.Fundamental.Discarded, 0.0)
	assert.Equal(t, "strong", card.Rating)

	require.NotEmpty(t, card.CategorySignals(CategoryTechnical))
	for _, s := range card.Signals {
		assert.GreaterOrEqual(t, s.Points, 0.0, s.Name)
		assert.NotEmpty(t, s.Description, s.Name)
	}
}

func TestScorer_Idempotent(t *testing.T) {
	scorer := NewScorer(Defaults())
	in := richInputs()

	first := scorer.Score("ACME", in)
	second := scorer.Score("ACME", in)
	assert.Equal(t, first, second)
}

func TestScorer_EmptyInputs(t *testing.T) {
	card := NewScorer(DefaultThresholds()).Score("NONE", Inputs{})

	assert.Equal(t, 0.0, card.Composite)
	assert.Empty(t, card.Signals)
	assert.Equal(t, "weak", card.Rating)
}

func TestScorer_CustomGroups(t *testing.T) {
	groups := []GroupCap{{Name: "everything", Keywords: []string{"a", "e", "i", "o", "u"}, MaxPoints: 1}}
	card := NewScorerWithGroups(DefaultThresholds(), groups).Score("ACME", richInputs())
	assert.LessOrEqual(t, card.Technical.Total, 1.0+card.Technical.Ungrouped)
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{85, "strong"},
		{70, "strong"},
		{55, "favourable"},
		{30, "neutral"},
		{10, "weak"},
	}
	for _, tt := range tests {
		if got := RatingFor(tt.score); got != tt.want {
			t.Errorf("RatingFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
