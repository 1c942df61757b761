package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/models"
)

func TestDetectPEG(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name       string
		peg        *float64
		wantName   string
		wantPoints float64
	}{
		{"attractive", models.Float(1.2), "Attractive PEG", 10},
		{"at max", models.Float(1.5), "Attractive PEG", 10},
		{"reasonable", models.Float(1.8), "PEG Reasonable", 5},
		{"expensive", models.Float(2.5), "", 0},
		{"negative growth", models.Float(-0.8), "", 0},
		{"zero", models.Float(0), "", 0},
		{"missing", nil, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := DetectPEG(Inputs{Fundamentals: models.FundamentalProfile{PEG: tt.peg}}, th)
			if tt.wantName == "" {
				assert.Nil(t, sig)
				return
			}
			require.NotNil(t, sig)
			assert.Equal(t, tt.wantName, sig.Name)
			assert.Equal(t, tt.wantPoints, sig.Points)
			assert.Equal(t, CategoryFundamental, sig.Category)
		})
	}
}

func TestDetectPEG_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.PEG = PEGConfig{Max: 1.0, Good: 1.5, Weight: 8}

	sig := DetectPEG(Inputs{Fundamentals: models.FundamentalProfile{PEG: models.Float(1.2)}}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "PEG Reasonable", sig.Name)
	assert.Equal(t, 4.0, sig.Points)

	// The override is a copy; process defaults are untouched.
	assert.Equal(t, 10.0, Defaults().PEG.Weight)
}

func TestDetectFCFYield(t *testing.T) {
	th := DefaultThresholds()
	in := func(fcf, cap float64) Inputs {
		return Inputs{Fundamentals: models.FundamentalProfile{
			FreeCashFlow: models.Float(fcf),
			MarketCap:    models.Float(cap),
		}}
	}

	tests := []struct {
		fcf, cap float64
		want     string
	}{
		{10, 100, "High FCF Yield"},
		{6, 100, "Solid FCF Yield"},
		{3, 100, "Positive FCF Yield"},
		{1, 100, ""},
		{-5, 100, ""},
		{10, 0, ""},
	}
	for _, tt := range tests {
		sig := DetectFCFYield(in(tt.fcf, tt.cap), th)
		if tt.want == "" {
			assert.Nil(t, sig, "fcf=%v cap=%v", tt.fcf, tt.cap)
			continue
		}
		require.NotNil(t, sig, "fcf=%v cap=%v", tt.fcf, tt.cap)
		assert.Equal(t, tt.want, sig.Name)
	}

	// Market cap falls back to the snapshot.
	fallback := Inputs{
		Snapshot:     models.MarketSnapshot{Symbol: "T", Price: 1, MarketCap: 100},
		Fundamentals: models.FundamentalProfile{FreeCashFlow: models.Float(9)},
	}
	sig := DetectFCFYield(fallback, th)
	require.NotNil(t, sig)
	assert.Equal(t, "High FCF Yield", sig.Name)
}

func TestRatioDetectors(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name    string
		detect  func(Inputs, Thresholds) *Signal
		profile models.FundamentalProfile
		want    string
	}{
		{"low ev", DetectEVToEBITDA, models.FundamentalProfile{EVToEBITDA: models.Float(6)}, "Low EV/EBITDA"},
		{"mid ev", DetectEVToEBITDA, models.FundamentalProfile{EVToEBITDA: models.Float(10)}, "Reasonable EV/EBITDA"},
		{"high ev", DetectEVToEBITDA, models.FundamentalProfile{EVToEBITDA: models.Float(20)}, ""},
		{"negative ebitda", DetectEVToEBITDA, models.FundamentalProfile{EVToEBITDA: models.Float(-4)}, ""},
		{"high margin", DetectProfitMargin, models.FundamentalProfile{ProfitMargin: models.Float(0.25)}, "High Profit Margin"},
		{"healthy margin", DetectProfitMargin, models.FundamentalProfile{ProfitMargin: models.Float(0.12)}, "Healthy Profit Margin"},
		{"thin margin", DetectProfitMargin, models.FundamentalProfile{ProfitMargin: models.Float(0.02)}, ""},
		{"strong roe", DetectROE, models.FundamentalProfile{ROE: models.Float(0.22)}, "Strong ROE"},
		{"good roe", DetectROE, models.FundamentalProfile{ROE: models.Float(0.16)}, "Good ROE"},
		{"no debt", DetectDebtToEquity, models.FundamentalProfile{DebtToEquity: models.Float(0)}, "Low Debt"},
		{"moderate debt", DetectDebtToEquity, models.FundamentalProfile{DebtToEquity: models.Float(0.45)}, "Moderate Debt"},
		{"heavy debt", DetectDebtToEquity, models.FundamentalProfile{DebtToEquity: models.Float(1.8)}, ""},
		{"negative equity", DetectDebtToEquity, models.FundamentalProfile{DebtToEquity: models.Float(-2)}, ""},
		{"liquid", DetectCurrentRatio, models.FundamentalProfile{CurrentRatio: models.Float(2.4)}, "Strong Liquidity"},
		{"adequate", DetectCurrentRatio, models.FundamentalProfile{CurrentRatio: models.Float(1.6)}, "Adequate Liquidity"},
		{"strong growth", DetectRevenueGrowth, models.FundamentalProfile{RevenueGrowth: models.Float(0.3)}, "Strong Revenue Growth"},
		{"growth", DetectRevenueGrowth, models.FundamentalProfile{RevenueGrowth: models.Float(0.1)}, "Revenue Growth"},
		{"shrinking", DetectRevenueGrowth, models.FundamentalProfile{RevenueGrowth: models.Float(-0.1)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.detect(Inputs{Fundamentals: tt.profile}, th)
			if tt.want == "" {
				assert.Nil(t, sig)
				return
			}
			require.NotNil(t, sig)
			assert.Equal(t, tt.want, sig.Name)
			assert.GreaterOrEqual(t, sig.Points, 0.0)
		})
	}
}

func TestFundamentalDetectors_MissingData(t *testing.T) {
	th := DefaultThresholds()
	for _, d := range FundamentalDetectors() {
		assert.Nil(t, d.Detect(Inputs{}, th), d.Name)
	}
}
