package regime

import (
	"math"
	"time"

	"github.com/ternarybob/screener/internal/models"
)

// VolatilityBucket buckets the volatility index reading.
type VolatilityBucket string

const (
	VolatilityCalm     VolatilityBucket = "CALM"
	VolatilityElevated VolatilityBucket = "ELEVATED"
	VolatilityHigh     VolatilityBucket = "HIGH"
)

// rank orders buckets from calm to high.
func (b VolatilityBucket) rank() int {
	switch b {
	case VolatilityCalm:
		return 1
	case VolatilityElevated:
		return 2
	case VolatilityHigh:
		return 3
	}
	return 0
}

// TrendStrength classifies ADX.
type TrendStrength string

const (
	TrendStrong   TrendStrength = "STRONG"
	TrendModerate TrendStrength = "MODERATE"
	TrendWeak     TrendStrength = "WEAK"
)

// Bias is a bullish / bearish / neutral reading, used for breadth and for
// the benchmark trend.
type Bias string

const (
	Bullish Bias = "BULLISH"
	Bearish Bias = "BEARISH"
	Neutral Bias = "NEUTRAL"
)

// Metric names reported in MissingMetrics.
const (
	MetricChoppiness    = "choppiness"
	MetricTrendConflict = "trend_conflict"
	MetricADX           = "adx"
	MetricBreadth       = "breadth"
	MetricVolatility    = "volatility"
	MetricBenchmark     = "benchmark_trend"
)

// AllMetrics lists every metric the classifier can use.
var AllMetrics = []string{
	MetricChoppiness, MetricTrendConflict, MetricADX, MetricBreadth, MetricVolatility, MetricBenchmark,
}

// Metrics is the market-wide snapshot the classifier works from. Every
// field is optional; nil or empty means the input was unavailable.
type Metrics struct {
	AsOf             time.Time        `json:"as_of"`
	Choppiness       *float64         `json:"choppiness,omitempty"`
	TrendConflict    *float64         `json:"trend_conflict,omitempty"`
	ADX              *float64         `json:"adx,omitempty"`
	TrendStrength    TrendStrength    `json:"trend_strength,omitempty"`
	Breadth          *float64         `json:"breadth,omitempty"`
	BreadthSignal    Bias             `json:"breadth_signal,omitempty"`
	Volatility       *float64         `json:"volatility,omitempty"`
	VolatilityBucket VolatilityBucket `json:"volatility_bucket,omitempty"`
	BenchmarkTrend   Bias             `json:"benchmark_trend,omitempty"`
}

// Missing lists the metrics that are unavailable. A class field supplied
// without its numeric reading counts as available.
func (m Metrics) Missing() []string {
	var out []string
	if m.Choppiness == nil {
		out = append(out, MetricChoppiness)
	}
	if m.TrendConflict == nil {
		out = append(out, MetricTrendConflict)
	}
	if m.ADX == nil && m.TrendStrength == "" {
		out = append(out, MetricADX)
	}
	if m.Breadth == nil && m.BreadthSignal == "" {
		out = append(out, MetricBreadth)
	}
	if m.Volatility == nil && m.VolatilityBucket == "" {
		out = append(out, MetricVolatility)
	}
	if m.BenchmarkTrend == "" {
		out = append(out, MetricBenchmark)
	}
	return out
}

// Available counts the metrics that are present.
func (m Metrics) Available() int {
	return len(AllMetrics) - len(m.Missing())
}

// Inputs are the raw market readings ComputeMetrics derives metrics from.
type Inputs struct {
	AsOf       time.Time
	Benchmark  models.PriceHistory
	Volatility *float64 // volatility index level, e.g. 18.5
	// Breadth as percent of the universe above its 50-day average. When nil
	// it is derived from Universe.
	Breadth  *float64
	Universe []models.PriceHistory
}

// ComputeMetrics derives every metric it has data for and classifies the
// readings with cfg.
func ComputeMetrics(in Inputs, cfg Config) Metrics {
	m := Metrics{AsOf: in.AsOf}
	if m.AsOf.IsZero() {
		if last, ok := in.Benchmark.Last(); ok {
			m.AsOf = last.Date
		}
	}

	highs, lows, closes := barSeries(in.Benchmark)

	if ci, ok := Choppiness(highs, lows, closes, cfg.ChopPeriod); ok {
		m.Choppiness = ptr(round(ci, 2))
	}
	if c, ok := TrendConflict(closes, cfg.ConflictWindows); ok {
		m.TrendConflict = ptr(round(c, 2))
	}
	if adx, ok := ADX(highs, lows, closes, cfg.ADXPeriod); ok {
		m.ADX = ptr(round(adx, 2))
	}
	m.BenchmarkTrend = BenchmarkTrend(closes, cfg.TrendFast, cfg.TrendSlow)

	breadth := in.Breadth
	if breadth == nil {
		if b, ok := UniverseBreadth(in.Universe, cfg.BreadthAverage); ok {
			breadth = &b
		}
	}
	if breadth != nil && finite(*breadth) {
		m.Breadth = ptr(round(clamp(*breadth, 0, 100), 2))
	}

	if in.Volatility != nil && finite(*in.Volatility) && *in.Volatility >= 0 {
		m.Volatility = ptr(*in.Volatility)
	}

	return Classified(m, cfg)
}

// Classified fills the class fields (trend strength, breadth signal,
// volatility bucket) from the numeric readings. Class fields that are
// already set and have no numeric reading are kept.
func Classified(m Metrics, cfg Config) Metrics {
	if m.ADX != nil {
		switch {
		case *m.ADX >= cfg.ADXStrong:
			m.TrendStrength = TrendStrong
		case *m.ADX >= cfg.ADXModerate:
			m.TrendStrength = TrendModerate
		default:
			m.TrendStrength = TrendWeak
		}
	}
	if m.Breadth != nil {
		switch {
		case *m.Breadth >= cfg.BreadthBullish:
			m.BreadthSignal = Bullish
		case *m.Breadth <= cfg.BreadthBearish:
			m.BreadthSignal = Bearish
		default:
			m.BreadthSignal = Neutral
		}
	}
	if m.Volatility != nil {
		switch {
		case *m.Volatility < cfg.VolElevated:
			m.VolatilityBucket = VolatilityCalm
		case *m.Volatility < cfg.VolHigh:
			m.VolatilityBucket = VolatilityElevated
		default:
			m.VolatilityBucket = VolatilityHigh
		}
	}
	return m
}

// barSeries splits bars into series, using the close where a feed has no
// high or low.
func barSeries(h models.PriceHistory) (highs, lows, closes []float64) {
	highs, lows, closes = h.Highs(), h.Lows(), h.Closes()
	for i := range closes {
		if highs[i] <= 0 {
			highs[i] = closes[i]
		}
		if lows[i] <= 0 {
			lows[i] = closes[i]
		}
	}
	return highs, lows, closes
}

// Choppiness computes the choppiness index over the last period bars:
// 100 * log10(sum(true range) / (highest high - lowest low)) / log10(period).
// High values mean sideways, low values mean trending.
func Choppiness(highs, lows, closes []float64, period int) (float64, bool) {
	n := len(closes)
	if period < 2 || n < period+1 {
		return 0, false
	}
	sumTR := 0.0
	hi, lo := math.Inf(-1), math.Inf(1)
	for i := n - period; i < n; i++ {
		sumTR += trueRange(highs[i], lows[i], closes[i-1])
		hi = math.Max(hi, highs[i])
		lo = math.Min(lo, lows[i])
	}
	rng := hi - lo
	if rng <= 0 || sumTR <= 0 {
		return 100, true
	}
	ci := 100 * math.Log10(sumTR/rng) / math.Log10(float64(period))
	return clamp(ci, 0, 100), true
}

// TrendConflict measures disagreement between the signs of returns over
// several lookbacks: 0 when all agree, 1 when split evenly.
func TrendConflict(closes []float64, windows []int) (float64, bool) {
	n := len(closes)
	if len(windows) == 0 {
		return 0, false
	}
	up, down := 0, 0
	for _, w := range windows {
		if w <= 0 || n < w+1 {
			return 0, false
		}
		switch change := closes[n-1] - closes[n-1-w]; {
		case change > 0:
			up++
		case change < 0:
			down++
		}
	}
	hi, lo := up, down
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == 0 {
		return 0, true
	}
	return float64(lo) / float64(hi), true
}

// ADX computes Wilder's average directional index.
func ADX(highs, lows, closes []float64, period int) (float64, bool) {
	n := len(closes)
	if period <= 0 || n < 2*period+1 {
		return 0, false
	}

	var tr14, plus14, minus14 float64
	dx := make([]float64, 0, n)
	for i := 1; i < n; i++ {
		tr := trueRange(highs[i], lows[i], closes[i-1])
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		plusDM, minusDM := 0.0, 0.0
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}

		if i <= period {
			tr14 += tr
			plus14 += plusDM
			minus14 += minusDM
			if i < period {
				continue
			}
		} else {
			p := float64(period)
			tr14 = tr14 - tr14/p + tr
			plus14 = plus14 - plus14/p + plusDM
			minus14 = minus14 - minus14/p + minusDM
		}

		if tr14 <= 0 {
			dx = append(dx, 0)
			continue
		}
		plusDI := 100 * plus14 / tr14
		minusDI := 100 * minus14 / tr14
		if plusDI+minusDI == 0 {
			dx = append(dx, 0)
			continue
		}
		dx = append(dx, 100*math.Abs(plusDI-minusDI)/(plusDI+minusDI))
	}

	if len(dx) < period {
		return 0, false
	}
	adx := 0.0
	for _, v := range dx[:period] {
		adx += v
	}
	adx /= float64(period)
	for _, v := range dx[period:] {
		adx = (adx*float64(period-1) + v) / float64(period)
	}
	return adx, true
}

// BenchmarkTrend reads the benchmark's trend from the close and its fast
// and slow simple averages. Empty when there is too little history.
func BenchmarkTrend(closes []float64, fast, slow int) Bias {
	n := len(closes)
	if fast <= 0 || slow <= fast || n < slow {
		return ""
	}
	last := closes[n-1]
	fastMA := sma(closes, fast)
	slowMA := sma(closes, slow)
	switch {
	case last > fastMA && fastMA > slowMA:
		return Bullish
	case last < fastMA && fastMA < slowMA:
		return Bearish
	default:
		return Neutral
	}
}

// UniverseBreadth returns the percentage of symbols closing above their
// period-bar average. Symbols with too little history are skipped.
func UniverseBreadth(universe []models.PriceHistory, period int) (float64, bool) {
	above, counted := 0, 0
	for _, h := range universe {
		closes := h.Closes()
		if period <= 0 || len(closes) < period {
			continue
		}
		counted++
		if closes[len(closes)-1] > sma(closes, period) {
			above++
		}
	}
	if counted == 0 {
		return 0, false
	}
	return 100 * float64(above) / float64(counted), true
}

func trueRange(high, low, prevClose float64) float64 {
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}

func sma(values []float64, n int) float64 {
	if n <= 0 || len(values) < n {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

func ptr(v float64) *float64 {
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func round(value float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(value*mult) / mult
}
