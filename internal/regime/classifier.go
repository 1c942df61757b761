// Package regime classifies whole-market conditions into a tradeability
// regime (GO, CAUTION, NO_TRADE) and estimates the likelihood of moving
// to a different regime.
package regime

import (
	"fmt"
	"time"
)

// Regime is the market-wide tradeability state.
type Regime string

const (
	Go      Regime = "GO"
	Caution Regime = "CAUTION"
	NoTrade Regime = "NO_TRADE"
)

// Config holds metric periods, class thresholds and transition deltas.
type Config struct {
	ChopPeriod        int     `toml:"chop_period" json:"chop_period"`
	ChopThreshold     float64 `toml:"chop_threshold" json:"chop_threshold"`
	TrendingChop      float64 `toml:"trending_chop" json:"trending_chop"`
	ConflictWindows   []int   `toml:"conflict_windows" json:"conflict_windows"`
	ConflictThreshold float64 `toml:"conflict_threshold" json:"conflict_threshold"`
	ADXPeriod         int     `toml:"adx_period" json:"adx_period"`
	ADXStrong         float64 `toml:"adx_strong" json:"adx_strong"`
	ADXModerate       float64 `toml:"adx_moderate" json:"adx_moderate"`
	BreadthAverage    int     `toml:"breadth_average" json:"breadth_average"`
	BreadthBullish    float64 `toml:"breadth_bullish" json:"breadth_bullish"`
	BreadthBearish    float64 `toml:"breadth_bearish" json:"breadth_bearish"`
	VolElevated       float64 `toml:"vol_elevated" json:"vol_elevated"`
	VolHigh           float64 `toml:"vol_high" json:"vol_high"`
	TrendFast         int     `toml:"trend_fast" json:"trend_fast"`
	TrendSlow         int     `toml:"trend_slow" json:"trend_slow"`

	// Transition deltas between consecutive snapshots.
	VolChangePct  float64 `toml:"vol_change_pct" json:"vol_change_pct"`
	ChopChange    float64 `toml:"chop_change" json:"chop_change"`
	BreadthChange float64 `toml:"breadth_change" json:"breadth_change"`
	ADXChange     float64 `toml:"adx_change" json:"adx_change"`

	// Distances that count as "near" a threshold when no previous
	// snapshot is available.
	VolProximity     float64 `toml:"vol_proximity" json:"vol_proximity"`
	ChopProximity    float64 `toml:"chop_proximity" json:"chop_proximity"`
	BreadthProximity float64 `toml:"breadth_proximity" json:"breadth_proximity"`
}

// DefaultConfig returns the default regime configuration.
func DefaultConfig() Config {
	return Config{
		ChopPeriod:        14,
		ChopThreshold:     61.8,
		TrendingChop:      38.2,
		ConflictWindows:   []int{5, 10, 20, 50},
		ConflictThreshold: 0.5,
		ADXPeriod:         14,
		ADXStrong:         25,
		ADXModerate:       20,
		BreadthAverage:    50,
		BreadthBullish:    60,
		BreadthBearish:    40,
		VolElevated:       20,
		VolHigh:           30,
		TrendFast:         20,
		TrendSlow:         50,
		VolChangePct:      0.15,
		ChopChange:        5,
		BreadthChange:     10,
		ADXChange:         5,
		VolProximity:      2,
		ChopProximity:     3,
		BreadthProximity:  5,
	}
}

// Validate rejects non-positive periods and inverted class thresholds.
func (c Config) Validate() error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"chop_period", c.ChopPeriod},
		{"adx_period", c.ADXPeriod},
		{"breadth_average", c.BreadthAverage},
		{"trend_fast", c.TrendFast},
		{"trend_slow", c.TrendSlow},
	} {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	for _, w := range c.ConflictWindows {
		if w <= 0 {
			return fmt.Errorf("conflict_windows must be positive, got %d", w)
		}
	}
	switch {
	case c.TrendFast >= c.TrendSlow:
		return fmt.Errorf("trend_fast (%d) must be less than trend_slow (%d)", c.TrendFast, c.TrendSlow)
	case c.VolElevated >= c.VolHigh:
		return fmt.Errorf("vol_elevated (%g) must be less than vol_high (%g)", c.VolElevated, c.VolHigh)
	case c.ADXModerate > c.ADXStrong:
		return fmt.Errorf("adx_moderate (%g) exceeds adx_strong (%g)", c.ADXModerate, c.ADXStrong)
	case c.BreadthBearish >= c.BreadthBullish:
		return fmt.Errorf("breadth_bearish (%g) must be less than breadth_bullish (%g)", c.BreadthBearish, c.BreadthBullish)
	}
	return nil
}

// Guidance is the descriptive entry discipline for a regime. It carries
// no dollar sizing.
type Guidance struct {
	MinProbabilityOfProfit float64 `json:"min_probability_of_profit"`
	MinCushion             float64 `json:"min_cushion"`
	MinReturn              float64 `json:"min_return"`
	SizeMultiplier         float64 `json:"size_multiplier"`
}

// GuidanceFor returns the entry discipline for a regime.
func GuidanceFor(r Regime) Guidance {
	switch r {
	case Go:
		return Guidance{MinProbabilityOfProfit: 0.60, MinCushion: 0.05, MinReturn: 0.15, SizeMultiplier: 1.0}
	case NoTrade:
		return Guidance{MinProbabilityOfProfit: 0.80, MinCushion: 0.12, MinReturn: 0.30, SizeMultiplier: 0.0}
	default:
		return Guidance{MinProbabilityOfProfit: 0.70, MinCushion: 0.08, MinReturn: 0.20, SizeMultiplier: 0.5}
	}
}

// recommendations describe each regime in one line.
var recommendations = map[Regime]string{
	Go:      "Conditions support new entries at normal size",
	Caution: "Be selective: require higher probability and cushion, trade at half size",
	NoTrade: "Stand aside: no new entries until conditions improve",
}

// Analysis is the classifier output.
type Analysis struct {
	Regime         Regime    `json:"regime"`
	Confidence     float64   `json:"confidence"`
	Metrics        Metrics   `json:"metrics"`
	Reasons        []string  `json:"reasons"`
	Recommendation string    `json:"recommendation"`
	Guidance       Guidance  `json:"guidance"`
	MissingMetrics []string  `json:"missing_metrics,omitempty"`
	ClassifiedAt   time.Time `json:"classified_at"`
}

// Classifier applies the regime decision tree.
type Classifier struct {
	config Config
}

// NewClassifier creates a new regime classifier
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.config
}

func (c *Classifier) choppy(m Metrics) bool {
	return m.Choppiness != nil && *m.Choppiness > c.config.ChopThreshold
}

func (c *Classifier) conflicted(m Metrics) bool {
	return m.TrendConflict != nil && *m.TrendConflict >= c.config.ConflictThreshold
}

// Classify runs the decision tree over m. Missing metrics never cause an
// error; with nothing to go on the result is CAUTION.
func (c *Classifier) Classify(m Metrics) Analysis {
	m = Classified(m, c.config)
	result := Analysis{
		Metrics:        m,
		MissingMetrics: m.Missing(),
		ClassifiedAt:   m.AsOf,
	}

	if m.Available() == 0 {
		result.Regime = Caution
		result.Confidence = minConfidence
		result.Reasons = []string{"Insufficient market data"}
		result.Recommendation = recommendations[Caution]
		result.Guidance = GuidanceFor(Caution)
		return result
	}

	choppy, conflicted := c.choppy(m), c.conflicted(m)
	var reasons []string

	switch {
	case m.VolatilityBucket == VolatilityHigh:
		reasons = append(reasons, "High Volatility"+volDetail(m))
		if choppy || m.BreadthSignal == Bearish || m.BenchmarkTrend == Bearish {
			result.Regime = NoTrade
			if choppy {
				reasons = append(reasons, fmt.Sprintf("Choppy market (CI %.1f)", *m.Choppiness))
			}
			if m.BreadthSignal == Bearish {
				reasons = append(reasons, "Bearish breadth"+breadthDetail(m))
			}
			if m.BenchmarkTrend == Bearish {
				reasons = append(reasons, "Benchmark in downtrend")
			}
		} else {
			result.Regime = Caution
		}

	case choppy && conflicted:
		result.Regime = NoTrade
		reasons = append(reasons,
			fmt.Sprintf("Choppy market (CI %.1f)", *m.Choppiness),
			fmt.Sprintf("Conflicting timeframe trends (%.2f)", *m.TrendConflict))

	case choppy || conflicted:
		result.Regime = Caution
		if choppy {
			reasons = append(reasons, fmt.Sprintf("Choppy market (CI %.1f)", *m.Choppiness))
		}
		if conflicted {
			reasons = append(reasons, fmt.Sprintf("Conflicting timeframe trends (%.2f)", *m.TrendConflict))
		}

	case m.VolatilityBucket == VolatilityElevated:
		if m.TrendStrength == TrendStrong && m.BreadthSignal == Bullish {
			result.Regime = Go
			reasons = append(reasons, "Elevated volatility offset by a strong trend and bullish breadth")
		} else {
			result.Regime = Caution
			reasons = append(reasons, "Elevated Volatility"+volDetail(m))
		}

	case m.BenchmarkTrend == Bearish && m.BreadthSignal == Bearish:
		result.Regime = Caution
		reasons = append(reasons, "Benchmark in downtrend with bearish breadth"+breadthDetail(m))

	default:
		result.Regime = Go
		reasons = append(reasons, "No risk conditions triggered")
	}

	result.Reasons = append(reasons, c.modifiers(m, result.Regime)...)
	result.Confidence = c.confidence(m, result.Regime)
	result.Recommendation = recommendations[result.Regime]
	result.Guidance = GuidanceFor(result.Regime)
	return result
}

// modifiers adds secondary context that did not drive the decision.
func (c *Classifier) modifiers(m Metrics, r Regime) []string {
	var out []string
	if r == Go {
		switch m.TrendStrength {
		case TrendStrong:
			out = append(out, "Strong trend"+adxDetail(m))
		case TrendWeak:
			out = append(out, "Weak trend"+adxDetail(m))
		}
		if m.BreadthSignal == Bullish {
			out = append(out, "Bullish breadth"+breadthDetail(m))
		}
		if m.BenchmarkTrend == Bullish {
			out = append(out, "Benchmark in uptrend")
		}
	}
	if r != NoTrade && m.BenchmarkTrend == Bearish && m.BreadthSignal != Bearish {
		out = append(out, "Benchmark below its averages")
	}
	if missing := len(m.Missing()); missing > 0 {
		out = append(out, fmt.Sprintf("%d of %d metrics unavailable", missing, len(AllMetrics)))
	}
	return out
}

func volDetail(m Metrics) string {
	if m.Volatility == nil {
		return ""
	}
	return fmt.Sprintf(" (volatility index %.1f)", *m.Volatility)
}

func adxDetail(m Metrics) string {
	if m.ADX == nil {
		return ""
	}
	return fmt.Sprintf(" (ADX %.1f)", *m.ADX)
}

func breadthDetail(m Metrics) string {
	if m.Breadth == nil {
		return ""
	}
	return fmt.Sprintf(" (%.0f%% above average)", *m.Breadth)
}
