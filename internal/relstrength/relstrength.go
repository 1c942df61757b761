// Package relstrength compares a symbol's price performance with a
// benchmark over several trailing windows and tracks the slope of the
// relative-strength line.
package relstrength

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/screener/internal/models"
)

// Classification is the overall relative-strength verdict.
type Classification string

const (
	Strong          Classification = "strong"
	Moderate        Classification = "moderate"
	Weak            Classification = "weak"
	Underperforming Classification = "underperforming"
)

// Trend is the direction of the relative-strength line.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Returns outside (MinReturn, MaxReturn) are treated as bad data.
const (
	MaxReturn = 10.0
	MinReturn = -0.99
)

// Config holds the windows and line-trend parameters.
type Config struct {
	Windows       []int   `toml:"windows" json:"windows"`
	RecentBars    int     `toml:"recent_bars" json:"recent_bars"`
	BaseFrom      int     `toml:"base_from" json:"base_from"`
	BaseTo        int     `toml:"base_to" json:"base_to"`
	TrendBand     float64 `toml:"trend_band" json:"trend_band"`
	StrengthScale float64 `toml:"strength_scale" json:"strength_scale"`
}

// DefaultConfig returns 20/50/200-bar windows and a line trend comparing
// the last 5 bars with bars 10 to 20 ago.
func DefaultConfig() Config {
	return Config{
		Windows:       []int{20, 50, 200},
		RecentBars:    5,
		BaseFrom:      10,
		BaseTo:        20,
		TrendBand:     0.02,
		StrengthScale: 0.10,
	}
}

// Validate rejects windows and line-trend offsets that select no bars.
func (c Config) Validate() error {
	if len(c.Windows) == 0 {
		return fmt.Errorf("windows must not be empty")
	}
	for _, w := range c.Windows {
		if w <= 0 {
			return fmt.Errorf("windows must be positive, got %d", w)
		}
	}
	if c.RecentBars <= 0 {
		return fmt.Errorf("recent_bars must be positive, got %d", c.RecentBars)
	}
	if c.BaseFrom < 0 {
		return fmt.Errorf("base_from must not be negative, got %d", c.BaseFrom)
	}
	if c.BaseTo <= c.BaseFrom {
		return fmt.Errorf("base_to (%d) must be greater than base_from (%d)", c.BaseTo, c.BaseFrom)
	}
	if c.StrengthScale <= 0 {
		return fmt.Errorf("strength_scale must be positive, got %g", c.StrengthScale)
	}
	return nil
}

// WindowResult compares returns over one window.
type WindowResult struct {
	Bars            int     `json:"bars"`
	Available       bool    `json:"available"`
	StockReturn     float64 `json:"stock_return"`
	BenchmarkReturn float64 `json:"benchmark_return"`
	Excess          float64 `json:"excess"`
	Outperforming   bool    `json:"outperforming"`
}

// LineTrend describes the slope of the stock/benchmark price ratio.
type LineTrend struct {
	Direction Trend   `json:"direction"`
	Change    float64 `json:"change"`
	Strength  float64 `json:"strength"` // 0-100
}

// Analysis is the relative-strength result for one symbol.
type Analysis struct {
	Benchmark      string         `json:"benchmark,omitempty"`
	Windows        []WindowResult `json:"windows"`
	Line           *LineTrend     `json:"line,omitempty"`
	Outperforming  int            `json:"outperforming"`
	Classification Classification `json:"classification"`
	Summary        string         `json:"summary"`
}

// Analyzer computes relative strength against a benchmark.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates a new relative-strength analyzer
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze aligns the two histories and compares them.
func (a *Analyzer) Analyze(benchmark string, stock, bench models.PriceHistory) Analysis {
	s, b := Align(stock, bench)
	result := Analysis{Benchmark: benchmark}

	for _, bars := range a.config.Windows {
		w := WindowResult{Bars: bars}
		if bars > 0 && len(s) > bars {
			w.Available = true
			w.StockReturn = round(Return(s, bars), 4)
			w.BenchmarkReturn = round(Return(b, bars), 4)
			w.Excess = round(w.StockReturn-w.BenchmarkReturn, 4)
			w.Outperforming = w.StockReturn > w.BenchmarkReturn
			if w.Outperforming {
				result.Outperforming++
			}
		}
		result.Windows = append(result.Windows, w)
	}

	if line, ok := a.lineTrend(s, b); ok {
		result.Line = &line
	}
	result.Classification = classify(result.Outperforming)
	result.Summary = summarize(result)
	return result
}

func classify(outperforming int) Classification {
	switch {
	case outperforming >= 3:
		return Strong
	case outperforming == 2:
		return Moderate
	case outperforming == 1:
		return Weak
	default:
		return Underperforming
	}
}

// Return is the simple return over the last bars. Non-positive prices,
// short series and implausible results all yield 0.
func Return(prices []float64, bars int) float64 {
	n := len(prices)
	if bars <= 0 || n < bars+1 {
		return 0
	}
	start, end := prices[n-1-bars], prices[n-1]
	if !finite(start) || !finite(end) || start <= 0 || end <= 0 {
		return 0
	}
	r := (end - start) / start
	if !finite(r) || r >= MaxReturn || r <= MinReturn {
		return 0
	}
	return r
}

// Align pairs closes from the two histories. When every bar carries a
// date the series are joined on calendar day; otherwise the trailing bars
// of each are paired by position.
func Align(stock, bench models.PriceHistory) ([]float64, []float64) {
	if dated(stock) && dated(bench) {
		byDay := make(map[string]float64, len(bench))
		for _, bar := range bench {
			byDay[bar.Date.Format("2006-01-02")] = bar.Close
		}
		var s, b []float64
		for _, bar := range stock {
			if c, ok := byDay[bar.Date.Format("2006-01-02")]; ok {
				s = append(s, bar.Close)
				b = append(b, c)
			}
		}
		return s, b
	}

	n := len(stock)
	if len(bench) < n {
		n = len(bench)
	}
	return stock.Closes()[len(stock)-n:], bench.Closes()[len(bench)-n:]
}

func dated(h models.PriceHistory) bool {
	if len(h) == 0 {
		return false
	}
	for _, bar := range h {
		if bar.Date.IsZero() {
			return false
		}
	}
	return true
}

// lineTrend compares the average price ratio over the most recent bars
// with its average over an earlier base period.
func (a *Analyzer) lineTrend(s, b []float64) (LineTrend, bool) {
	cfg := a.config
	n := len(s)
	if cfg.RecentBars <= 0 || cfg.BaseTo <= cfg.BaseFrom || n < cfg.BaseTo+1 || n < cfg.RecentBars {
		return LineTrend{}, false
	}

	recent, ok := meanRatio(s, b, n-cfg.RecentBars, n-1)
	if !ok {
		return LineTrend{}, false
	}
	base, ok := meanRatio(s, b, n-1-cfg.BaseTo, n-1-cfg.BaseFrom)
	if !ok || base <= 0 {
		return LineTrend{}, false
	}

	change := recent/base - 1
	trend := LineTrend{Direction: TrendFlat, Change: round(change, 4)}
	switch {
	case change > cfg.TrendBand:
		trend.Direction = TrendUp
	case change < -cfg.TrendBand:
		trend.Direction = TrendDown
	}
	if cfg.StrengthScale > 0 {
		trend.Strength = round(math.Min(100, math.Abs(change)/cfg.StrengthScale*100), 1)
	}
	return trend, true
}

// meanRatio averages s[i]/b[i] over [from, to], skipping bad benchmark bars.
func meanRatio(s, b []float64, from, to int) (float64, bool) {
	sum, count := 0.0, 0
	for i := from; i <= to; i++ {
		if b[i] <= 0 || s[i] <= 0 {
			continue
		}
		sum += s[i] / b[i]
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func summarize(a Analysis) string {
	var parts []string
	for _, w := range a.Windows {
		if !w.Available {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d-bar %+.1f%% vs %+.1f%%", w.Bars, w.StockReturn*100, w.BenchmarkReturn*100))
	}
	if len(parts) == 0 {
		return "Not enough aligned history to compare with the benchmark"
	}
	summary := fmt.Sprintf("Relative strength %s (%s)", a.Classification, strings.Join(parts, ", "))
	if a.Line != nil {
		summary += fmt.Sprintf("; RS line %s", a.Line.Direction)
	}
	return summary
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round(value float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(value*mult) / mult
}
