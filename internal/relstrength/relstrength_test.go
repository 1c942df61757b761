package relstrength

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/models"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func bars(closes []float64, dated bool) models.PriceHistory {
	h := make(models.PriceHistory, len(closes))
	for i, c := range closes {
		h[i] = models.Bar{Close: c}
		if dated {
			h[i].Date = start.AddDate(0, 0, i)
		}
	}
	return h
}

// growth returns n closes compounding at rate per bar from 100.
func growth(rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 * math.Pow(1+rate, float64(i))
	}
	return out
}

func TestReturn(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		bars   int
		want   float64
	}{
		{"gain", []float64{100, 105, 110}, 2, 0.10},
		{"loss", []float64{100, 90}, 1, -0.10},
		{"short series", []float64{100}, 1, 0},
		{"zero start", []float64{0, 100}, 1, 0},
		{"negative end", []float64{100, -5}, 1, 0},
		{"implausible gain", []float64{1, 12}, 1, 0},
		{"implausible loss", []float64{100, 0.5}, 1, 0},
		{"nan", []float64{math.NaN(), 100}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Return(tt.prices, tt.bars)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Greater(t, got, MinReturn)
			assert.Less(t, got, MaxReturn)
		})
	}
}

func TestAnalyze_Strong(t *testing.T) {
	stock := bars(growth(0.003, 260), true)
	bench := bars(growth(0.001, 260), true)

	result := NewAnalyzer(DefaultConfig()).Analyze("SPY", stock, bench)

	assert.Equal(t, Strong, result.Classification)
	assert.Equal(t, 3, result.Outperforming)
	require.Len(t, result.Windows, 3)
	for _, w := range result.Windows {
		assert.True(t, w.Available)
		assert.Greater(t, w.Excess, 0.0)
	}
	require.NotNil(t, result.Line)
	assert.Equal(t, TrendUp, result.Line.Direction)
	assert.Contains(t, result.Summary, "strong")
}

func TestAnalyze_Underperforming(t *testing.T) {
	stock := bars(growth(-0.002, 260), true)
	bench := bars(growth(0.001, 260), true)

	result := NewAnalyzer(DefaultConfig()).Analyze("SPY", stock, bench)

	assert.Equal(t, Underperforming, result.Classification)
	require.NotNil(t, result.Line)
	assert.Equal(t, TrendDown, result.Line.Direction)
	assert.Greater(t, result.Line.Strength, 0.0)
	assert.LessOrEqual(t, result.Line.Strength, 100.0)
}

func TestAnalyze_ShortHistory(t *testing.T) {
	stock := bars(growth(0.003, 60), true)
	bench := bars(growth(0.001, 60), true)

	result := NewAnalyzer(DefaultConfig()).Analyze("SPY", stock, bench)

	assert.Equal(t, Moderate, result.Classification, "only the 20 and 50 bar windows are available")
	assert.False(t, result.Windows[2].Available)
}

func TestAnalyze_FlatLine(t *testing.T) {
	same := growth(0.001, 100)
	result := NewAnalyzer(DefaultConfig()).Analyze("SPY", bars(same, false), bars(same, false))

	require.NotNil(t, result.Line)
	assert.Equal(t, TrendFlat, result.Line.Direction)
	assert.Equal(t, 0.0, result.Line.Strength)
	assert.Equal(t, Underperforming, result.Classification)
}

func TestAlign_ByDate(t *testing.T) {
	stock := bars([]float64{10, 11, 12, 13}, true)
	bench := bars([]float64{100, 101, 102, 103}, true)
	// Benchmark missing the second day.
	bench = append(bench[:1], bench[2:]...)

	s, b := Align(stock, bench)
	assert.Equal(t, []float64{10, 12, 13}, s)
	assert.Equal(t, []float64{100, 102, 103}, b)
}

func TestAlign_ByPosition(t *testing.T) {
	stock := bars([]float64{10, 11, 12, 13}, false)
	bench := bars([]float64{101, 102}, true)

	s, b := Align(stock, bench)
	assert.Equal(t, []float64{12, 13}, s)
	assert.Equal(t, []float64{101, 102}, b)
}

func TestAnalyze_Empty(t *testing.T) {
	result := NewAnalyzer(DefaultConfig()).Analyze("SPY", nil, nil)
	assert.Equal(t, Underperforming, result.Classification)
	assert.Nil(t, result.Line)
	assert.NotEmpty(t, result.Summary)
}
