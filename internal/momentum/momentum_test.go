package momentum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/models"
	"github.com/ternarybob/screener/internal/signals"
)

var asOf = time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

// priceHistory builds 51 closes whose 20- and 50-bar returns match r20 and
// r50 exactly.
func priceHistory(r20, r50 float64) models.PriceHistory {
	last := 100.0
	closes := make([]float64, 51)
	for i := range closes {
		closes[i] = last / (1 + r20)
	}
	closes[0] = last / (1 + r50)
	closes[50] = last

	h := make(models.PriceHistory, len(closes))
	for i, c := range closes {
		h[i] = models.Bar{Date: asOf.AddDate(0, 0, i-50), Close: c}
	}
	return h
}

func TestPriceMomentum(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	tests := []struct {
		name     string
		r20, r50 float64
		want     Direction
	}{
		{"both up", 0.08, 0.03, Improving},
		{"short up long down", 0.08, -0.02, Stable},
		{"small move", 0.03, 0.10, Stable},
		{"both down", -0.08, -0.03, Deteriorating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Analyze(signals.Inputs{History: priceHistory(tt.r20, tt.r50)})
			sig, ok := result.Signal(CheckPriceMomentum)
			require.True(t, ok)
			assert.Equal(t, tt.want, sig.Direction)
			require.NotNil(t, sig.Value)
			assert.InDelta(t, tt.r20, *sig.Value, 1e-4)
		})
	}
}

func TestPriceMomentum_ShortHistory(t *testing.T) {
	h := priceHistory(0.08, 0.03)[1:]
	result := NewAnalyzer(DefaultConfig()).Analyze(signals.Inputs{History: h})
	_, ok := result.Signal(CheckPriceMomentum)
	assert.False(t, ok)
}

func improvingFundamentals() signals.Inputs {
	return signals.Inputs{
		AsOf: asOf,
		Analyst: models.AnalystProfile{
			Recommendations: []models.RecommendationPeriod{
				{Period: "0m", StrongBuy: 6, Buy: 4, Hold: 2},
				{Period: "-3m", StrongBuy: 2, Buy: 3, Hold: 5, Sell: 2},
			},
			EPSRevisions: models.EPSRevisions{Up30: 5, Down30: 1},
			EPSTrend:     models.EPSTrend{Current: models.Float(2.2), DaysAgo90: models.Float(2.0)},
			EarningsHistory: []models.EarningsSurprise{
				{Period: "Q1", Actual: 1.1, Estimate: 1.0},
				{Period: "Q2", Actual: 1.2, Estimate: 1.1},
				{Period: "Q3", Actual: 1.3, Estimate: 1.2},
				{Period: "Q4", Actual: 1.3, Estimate: 1.3},
			},
		},
	}
}

func TestAnalyze_RollUp(t *testing.T) {
	result := NewAnalyzer(DefaultConfig()).Analyze(improvingFundamentals())

	assert.Equal(t, Improving, result.Overall)
	assert.Equal(t, 4, result.Improving)
	assert.Equal(t, 0, result.Deteriorating)
	assert.False(t, result.Overridden)
	assert.Contains(t, result.Summary, "improving")
}

func TestAnalyze_CollapseOverride(t *testing.T) {
	in := improvingFundamentals()
	in.History = priceHistory(-0.25, -0.30)

	result := NewAnalyzer(DefaultConfig()).Analyze(in)

	assert.True(t, result.Overridden)
	assert.Equal(t, Mixed, result.Overall, "improving overall is downgraded to mixed")

	bare := NewAnalyzer(DefaultConfig()).Analyze(signals.Inputs{History: priceHistory(-0.25, -0.30)})
	assert.Equal(t, Deteriorating, bare.Overall)
}

func TestAnalyze_NoData(t *testing.T) {
	result := NewAnalyzer(DefaultConfig()).Analyze(signals.Inputs{})

	assert.Empty(t, result.Signals)
	assert.Equal(t, Stable, result.Overall)
	assert.Equal(t, "No momentum data available", result.Summary)
}

func TestRollUp(t *testing.T) {
	tests := []struct {
		improving, deteriorating int
		want                     Direction
	}{
		{3, 1, Improving},
		{2, 0, Improving},
		{1, 0, Stable},
		{2, 1, Mixed},
		{0, 2, Deteriorating},
		{1, 3, Deteriorating},
		{0, 0, Stable},
	}
	for _, tt := range tests {
		if got := rollUp(tt.improving, tt.deteriorating); got != tt.want {
			t.Errorf("rollUp(%d, %d) = %v, want %v", tt.improving, tt.deteriorating, got, tt.want)
		}
	}
}

func TestInsiderActivity(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	tx := func(daysAgo int, shares float64) models.InsiderTransaction {
		return models.InsiderTransaction{Date: asOf.AddDate(0, 0, -daysAgo), Shares: shares}
	}

	tests := []struct {
		name string
		txs  []models.InsiderTransaction
		want Direction
	}{
		{"net buying", []models.InsiderTransaction{tx(10, 5000), tx(20, 3000), tx(30, -1000)}, Improving},
		{"heavy selling", []models.InsiderTransaction{tx(10, 1000), tx(20, -3000), tx(30, -4000)}, Deteriorating},
		{"balanced", []models.InsiderTransaction{tx(10, 1000), tx(20, -3000)}, Stable},
		{"more buys but net sold", []models.InsiderTransaction{tx(10, 100), tx(11, 100), tx(20, -9000)}, Stable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := signals.Inputs{AsOf: asOf, Fundamentals: models.FundamentalProfile{InsiderTransactions: tt.txs}}
			sig := a.insiderActivity(in)
			require.NotNil(t, sig)
			assert.Equal(t, tt.want, sig.Direction)
		})
	}

	old := signals.Inputs{AsOf: asOf, Fundamentals: models.FundamentalProfile{
		InsiderTransactions: []models.InsiderTransaction{tx(400, 5000)},
	}}
	assert.Nil(t, a.insiderActivity(old))
}

func TestQuarterlyTrends(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	q := func(period string, revenue, income, eps float64) models.QuarterResult {
		return models.QuarterResult{Period: period, Revenue: models.Float(revenue), NetIncome: models.Float(income), Earnings: models.Float(eps)}
	}
	in := signals.Inputs{Fundamentals: models.FundamentalProfile{Quarters: []models.QuarterResult{
		q("2024Q2", 100, -50, -0.50),
		q("2024Q3", 105, -45, -0.45),
		q("2024Q4", 110, -40, -0.40),
		q("2025Q1", 115, -35, -0.35),
		q("2025Q2", 120, -30, -0.30),
	}}}

	profit := a.profitabilityTrend(in)
	require.NotNil(t, profit)
	assert.Equal(t, Improving, profit.Direction)

	revenue := a.revenueTrend(in)
	require.NotNil(t, revenue)
	assert.Equal(t, Improving, revenue.Direction)

	earnings := a.earningsTrend(in)
	require.NotNil(t, earnings)
	assert.Equal(t, Improving, earnings.Direction)

	in.Fundamentals.Quarters = in.Fundamentals.Quarters[1:]
	assert.Nil(t, a.revenueTrend(in), "needs a year-ago quarter")
}

func TestProfitabilityTrend_ProfitableSkipped(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	quarters := make([]models.QuarterResult, 5)
	for i := range quarters {
		quarters[i] = models.QuarterResult{NetIncome: models.Float(10)}
	}
	assert.Nil(t, a.profitabilityTrend(signals.Inputs{Fundamentals: models.FundamentalProfile{Quarters: quarters}}))
}

func TestAnalystSentiment_NeedsBothPeriods(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	current := models.RecommendationPeriod{Period: "0m", StrongBuy: 6, Buy: 4, Hold: 2}
	prior := models.RecommendationPeriod{Period: "-3m", StrongBuy: 2, Buy: 3, Hold: 5, Sell: 2}

	tests := []struct {
		name    string
		periods []models.RecommendationPeriod
		want    Direction
		wantNil bool
	}{
		{"current only", []models.RecommendationPeriod{current}, "", true},
		{"prior only", []models.RecommendationPeriod{prior}, "", true},
		{"intermediate period is not a baseline", []models.RecommendationPeriod{current, {Period: "-1m", Buy: 1, Sell: 4}}, "", true},
		{"prior with no analysts", []models.RecommendationPeriod{current, {Period: "-3m"}}, "", true},
		{"both periods", []models.RecommendationPeriod{current, prior}, Improving, false},
		{"unchanged", []models.RecommendationPeriod{current, {Period: "-3m", StrongBuy: 6, Buy: 4, Hold: 2}}, Stable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := a.analystSentiment(signals.Inputs{Analyst: models.AnalystProfile{Recommendations: tt.periods}})
			if tt.wantNil {
				assert.Nil(t, sig)
				return
			}
			require.NotNil(t, sig)
			assert.Equal(t, tt.want, sig.Direction)
		})
	}
}

func TestInstitutionalOwnership_BandEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OwnershipBand = 0.25
	a := NewAnalyzer(cfg)

	tests := []struct {
		name           string
		current, prior *float64
		want           Direction
		wantNil        bool
	}{
		{"no prior", models.Float(0.5), nil, "", true},
		{"no current", nil, models.Float(0.5), "", true},
		{"rise exactly at band", models.Float(0.75), models.Float(0.5), Stable, false},
		{"fall exactly at band", models.Float(0.25), models.Float(0.5), Stable, false},
		{"rise beyond band", models.Float(0.875), models.Float(0.5), Improving, false},
		{"fall beyond band", models.Float(0.125), models.Float(0.5), Deteriorating, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := signals.Inputs{Fundamentals: models.FundamentalProfile{
				InstitutionalOwnership:      tt.current,
				InstitutionalOwnershipPrior: tt.prior,
			}}
			sig := a.institutionalOwnership(in)
			if tt.wantNil {
				assert.Nil(t, sig)
				return
			}
			require.NotNil(t, sig)
			assert.Equal(t, tt.want, sig.Direction)
		})
	}
}

func TestBand_StrictThreshold(t *testing.T) {
	assert.Equal(t, Stable, bandInt(2, 2))
	assert.Equal(t, Improving, bandInt(3, 2))
	assert.Equal(t, Stable, bandInt(-2, 2))
	assert.Equal(t, Deteriorating, bandInt(-3, 2))
}

func TestEarningsSurprises_NonPositiveQuarters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SurpriseQuarters = -1
	in := improvingFundamentals()

	var sig *Signal
	require.NotPanics(t, func() { sig = NewAnalyzer(cfg).earningsSurprises(in) })
	assert.Nil(t, sig)
	assert.Error(t, cfg.Validate())
	assert.NoError(t, DefaultConfig().Validate())
}
