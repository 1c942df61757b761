package signals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/models"
)

func TestRSISignal_Tiers(t *testing.T) {
	cfg := DefaultThresholds().RSI

	tests := []struct {
		rsi        float64
		wantName   string
		wantPoints float64
	}{
		{25, "RSI Oversold", 10},
		{29.9, "RSI Oversold", 10},
		{35, "RSI Approaching Oversold", 6},
		{45, "RSI Neutral-Bearish", 2},
		{55, "", 0},
		{80, "", 0},
	}

	for _, tt := range tests {
		sig := RSISignal(tt.rsi, cfg)
		if tt.wantName == "" {
			if sig != nil {
				t.Errorf("RSISignal(%v) = %v, want nil", tt.rsi, sig.Name)
			}
			continue
		}
		if sig == nil {
			t.Fatalf("RSISignal(%v) = nil, want %s", tt.rsi, tt.wantName)
		}
		if sig.Name != tt.wantName {
			t.Errorf("RSISignal(%v).Name = %v, want %v", tt.rsi, sig.Name, tt.wantName)
		}
		if sig.Points != tt.wantPoints {
			t.Errorf("RSISignal(%v).Points = %v, want %v", tt.rsi, sig.Points, tt.wantPoints)
		}
	}
}

func TestRSISignal_Monotonic(t *testing.T) {
	cfg := DefaultThresholds().RSI
	points := func(rsi float64) float64 {
		if sig := RSISignal(rsi, cfg); sig != nil {
			return sig.Points
		}
		return 0
	}

	prev := points(0)
	for rsi := 0.5; rsi <= 100; rsi += 0.5 {
		cur := points(rsi)
		if cur > prev {
			t.Fatalf("points rose from %v to %v as RSI eased to %v", prev, cur, rsi)
		}
		prev = cur
	}
}

func TestRSI(t *testing.T) {
	_, ok := RSI(linear(10, 20, 14), 14)
	assert.False(t, ok, "14 closes cannot seed a 14-period RSI")

	v, ok := RSI(linear(10, 20, 30), 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)

	v, ok = RSI(linear(20, 10, 30), 14)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = RSI(flat(10, 30), 14)
	require.True(t, ok)
	assert.Equal(t, 50.0, v)
}

func TestDetectRSI_FallingPrices(t *testing.T) {
	sig := DetectRSI(Inputs{History: history(linear(100, 60, 40))}, DefaultThresholds())
	require.NotNil(t, sig)
	assert.Equal(t, "RSI Oversold", sig.Name)
	assert.Equal(t, 10.0, sig.Points)
}

func TestDetectGoldenCross(t *testing.T) {
	th := DefaultThresholds()

	// Flat for 200 bars, then a jump lifts SMA50 over SMA200 on bar 200.
	base := flat(100, 200)

	fresh := history(concat(base, flat(110, 1)))
	sig := DetectGoldenCross(Inputs{History: fresh}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Golden Cross", sig.Name)
	assert.Equal(t, 10.0, sig.Points)

	stale := history(concat(base, flat(110, 15)))
	sig = DetectGoldenCross(Inputs{History: stale}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Golden Cross Active", sig.Name)
	assert.Equal(t, 6.0, sig.Points)

	falling := history(linear(200, 100, 260))
	assert.Nil(t, DetectGoldenCross(Inputs{History: falling}, th))

	short := history(linear(50, 100, 150))
	assert.Nil(t, DetectGoldenCross(Inputs{History: short}, th))
}

func TestDetectMovingAverage(t *testing.T) {
	th := DefaultThresholds()

	sig := DetectMovingAverage(Inputs{History: history(linear(50, 150, 250))}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Above MA200", sig.Name)

	sig = DetectMovingAverage(Inputs{History: history(linear(50, 80, 60))}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Above MA50", sig.Name)
	assert.Equal(t, 3.0, sig.Points)

	assert.Nil(t, DetectMovingAverage(Inputs{History: history(linear(50, 80, 30))}, th))
	assert.Nil(t, DetectMovingAverage(Inputs{History: history(linear(150, 50, 250))}, th))
}

func TestDetectMACD(t *testing.T) {
	th := DefaultThresholds()

	assert.Nil(t, DetectMACD(Inputs{History: history(linear(100, 90, 30))}, th), "too short")
	accelerating := make([]float64, 80)
	for i := range accelerating {
		accelerating[i] = 100 - 0.01*float64(i*i)
	}
	assert.Nil(t, DetectMACD(Inputs{History: history(accelerating)}, th), "accelerating decline")

	turn := concat(linear(100, 70, 60), []float64{74, 78, 82, 86, 90})
	sig := DetectMACD(Inputs{History: history(turn)}, th)
	require.NotNil(t, sig)
	assert.True(t, strings.HasPrefix(sig.Name, "MACD Bullish"), sig.Name)
}

func TestDetectStochastic(t *testing.T) {
	th := DefaultThresholds()

	sig := DetectStochastic(Inputs{History: history(linear(100, 80, 20))}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Stochastic Oversold", sig.Name)

	assert.Nil(t, DetectStochastic(Inputs{History: history(linear(80, 100, 20))}, th))
	assert.Nil(t, DetectStochastic(Inputs{History: history(linear(80, 100, 10))}, th))
}

func TestDetectBollinger(t *testing.T) {
	th := DefaultThresholds()

	closes := make([]float64, 0, 20)
	for i := 0; i < 19; i++ {
		closes = append(closes, 100+float64(i%2)*2-1)
	}
	sig := DetectBollinger(Inputs{History: history(append(closes, 90))}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Bollinger Lower Band Touch", sig.Name)

	assert.Nil(t, DetectBollinger(Inputs{History: history(append(closes, 100))}, th))
	assert.Nil(t, DetectBollinger(Inputs{History: history(closes[:10])}, th))
}

func TestDetect52WeekRange(t *testing.T) {
	th := DefaultThresholds()
	snap := func(price float64) Inputs {
		return Inputs{Snapshot: models.MarketSnapshot{Symbol: "T", Price: price, Low52W: 50, High52W: 100}}
	}

	tests := []struct {
		price float64
		want  string
	}{
		{45, "Near 52-Week Low"},
		{50, "Near 52-Week Low"},
		{52, "Near 52-Week Low"},
		{60, "Lower 52-Week Range"},
		{90, ""},
	}
	for _, tt := range tests {
		sig := Detect52WeekRange(snap(tt.price), th)
		if tt.want == "" {
			assert.Nil(t, sig, "price %v", tt.price)
			continue
		}
		require.NotNil(t, sig, "price %v", tt.price)
		assert.Equal(t, tt.want, sig.Name)
	}

	assert.Nil(t, Detect52WeekRange(Inputs{Snapshot: models.MarketSnapshot{Price: 10}}, th))

	below := Detect52WeekRange(snap(45), th)
	require.NotNil(t, below)
	assert.Equal(t, th.Range52W.NearLowPoints, below.Points)
	assert.Contains(t, below.Description, "below the 52-week low")
}

func TestDetectPullback(t *testing.T) {
	th := DefaultThresholds()

	rising := linear(50, 160, 219)
	deep := concat(rising, []float64{160 * 0.90})
	sig := DetectPullback(Inputs{History: history(deep)}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Pullback in Uptrend", sig.Name)
	assert.Equal(t, 8.0, sig.Points)

	shallow := concat(rising, []float64{160 * 0.96})
	sig = DetectPullback(Inputs{History: history(shallow)}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Shallow Pullback", sig.Name)

	assert.Nil(t, DetectPullback(Inputs{History: history(linear(50, 160, 220))}, th), "at the high")
	assert.Nil(t, DetectPullback(Inputs{History: history(linear(50, 160, 120))}, th), "too short")
}

func TestDetectRecovery(t *testing.T) {
	th := DefaultThresholds()

	bounce := concat(flat(100, 40), linear(95, 70, 10), linear(72, 80, 10))
	sig := DetectRecovery(Inputs{History: history(bounce)}, th)
	require.NotNil(t, sig)
	assert.Equal(t, "Recovery from Low", sig.Name)

	assert.Nil(t, DetectRecovery(Inputs{History: history(flat(100, 30))}, th), "too short")
	assert.Nil(t, DetectRecovery(Inputs{History: history(linear(50, 100, 60))}, th), "above SMA50")
}

func TestDetectVolume(t *testing.T) {
	th := DefaultThresholds()
	snap := func(vol, price float64) Inputs {
		return Inputs{Snapshot: models.MarketSnapshot{
			Symbol: "T", Price: price, PreviousClose: 100, Volume: vol, AverageVolume: 1000,
		}}
	}

	sig := DetectVolume(snap(2500, 102), th)
	require.NotNil(t, sig)
	assert.Equal(t, "Volume Surge", sig.Name)

	sig = DetectVolume(snap(2500, 98), th)
	require.NotNil(t, sig)
	assert.Equal(t, "Above Average Volume", sig.Name)

	assert.Nil(t, DetectVolume(snap(1200, 102), th))

	noAvg := snap(2500, 102)
	noAvg.Snapshot.AverageVolume = 0
	assert.Nil(t, DetectVolume(noAvg, th))
}

func TestTechnicalDetectors_EmptyInputs(t *testing.T) {
	th := DefaultThresholds()
	for _, d := range TechnicalDetectors() {
		assert.NotPanics(t, func() {
			assert.Nil(t, d.Detect(Inputs{}, th), d.Name)
		})
		assert.Equal(t, CategoryTechnical, d.Category)
	}
}
