package signals

import "sync"

// Thresholds holds every detector threshold and weight. Values are passed
// by value into detectors; overriding a field on a copy never affects the
// process-wide defaults.
type Thresholds struct {
	RSI          RSIConfig         `toml:"rsi" json:"rsi"`
	GoldenCross  GoldenCrossConfig `toml:"golden_cross" json:"golden_cross"`
	MovingAvg    MovingAvgConfig   `toml:"moving_average" json:"moving_average"`
	MACD         MACDConfig        `toml:"macd" json:"macd"`
	Stochastic   StochasticConfig  `toml:"stochastic" json:"stochastic"`
	Bollinger    BollingerConfig   `toml:"bollinger" json:"bollinger"`
	Range52W     Range52WConfig    `toml:"range_52w" json:"range_52w"`
	Pullback     PullbackConfig    `toml:"pullback" json:"pullback"`
	Recovery     RecoveryConfig    `toml:"recovery" json:"recovery"`
	Volume       VolumeConfig      `toml:"volume" json:"volume"`
	PEG          PEGConfig         `toml:"peg" json:"peg"`
	FCFYield     TierConfig        `toml:"fcf_yield" json:"fcf_yield"`
	EVToEBITDA   TierConfig        `toml:"ev_to_ebitda" json:"ev_to_ebitda"`
	ProfitMargin TierConfig        `toml:"profit_margin" json:"profit_margin"`
	ROE          TierConfig        `toml:"roe" json:"roe"`
	DebtToEquity TierConfig        `toml:"debt_to_equity" json:"debt_to_equity"`
	CurrentRatio TierConfig        `toml:"current_ratio" json:"current_ratio"`
	Revenue      TierConfig        `toml:"revenue_growth" json:"revenue_growth"`
	Upside       TierConfig        `toml:"upside" json:"upside"`
	Consensus    ConsensusConfig   `toml:"consensus" json:"consensus"`
	Upgrades     UpgradesConfig    `toml:"upgrades" json:"upgrades"`
	Revisions    RevisionsConfig   `toml:"eps_revisions" json:"eps_revisions"`
	EPSTrend     EPSTrendConfig    `toml:"eps_trend" json:"eps_trend"`
	Caps         CategoryCaps      `toml:"caps" json:"caps"`
}

// TierConfig is the common shape for ratio detectors with up to three
// graduated tiers. Strong is checked first. For "lower is better" ratios
// the detector compares with < instead of >=; the config is the same.
type TierConfig struct {
	Strong       float64 `toml:"strong" json:"strong"`
	Moderate     float64 `toml:"moderate" json:"moderate"`
	Weak         float64 `toml:"weak" json:"weak"`
	StrongPoints float64 `toml:"strong_points" json:"strong_points"`
	ModPoints    float64 `toml:"moderate_points" json:"moderate_points"`
	WeakPoints   float64 `toml:"weak_points" json:"weak_points"`
}

// RSIConfig configures the RSI oversold detector.
type RSIConfig struct {
	Period              int     `toml:"period" json:"period"`
	Oversold            float64 `toml:"oversold" json:"oversold"`
	Approaching         float64 `toml:"approaching" json:"approaching"`
	NeutralBearish      float64 `toml:"neutral_bearish" json:"neutral_bearish"`
	Weight              float64 `toml:"weight" json:"weight"`
	ApproachingFraction float64 `toml:"approaching_fraction" json:"approaching_fraction"`
	NeutralBonus        float64 `toml:"neutral_bonus" json:"neutral_bonus"`
}

// GoldenCrossConfig configures the SMA crossover detector.
type GoldenCrossConfig struct {
	FastPeriod   int     `toml:"fast_period" json:"fast_period"`
	SlowPeriod   int     `toml:"slow_period" json:"slow_period"`
	RecentBars   int     `toml:"recent_bars" json:"recent_bars"`
	CrossPoints  float64 `toml:"cross_points" json:"cross_points"`
	ActivePoints float64 `toml:"active_points" json:"active_points"`
}

// MovingAvgConfig configures the price-above-average detector.
type MovingAvgConfig struct {
	Above200Points float64 `toml:"above_200_points" json:"above_200_points"`
	Above50Points  float64 `toml:"above_50_points" json:"above_50_points"`
}

// MACDConfig configures the MACD histogram detector.
type MACDConfig struct {
	Fast           int     `toml:"fast" json:"fast"`
	Slow           int     `toml:"slow" json:"slow"`
	Signal         int     `toml:"signal" json:"signal"`
	CrossWithin    int     `toml:"cross_within" json:"cross_within"`
	CrossPoints    float64 `toml:"cross_points" json:"cross_points"`
	MomentumPoints float64 `toml:"momentum_points" json:"momentum_points"`
}

// StochasticConfig configures the stochastic %K detector.
type StochasticConfig struct {
	Period         int     `toml:"period" json:"period"`
	Oversold       float64 `toml:"oversold" json:"oversold"`
	Approaching    float64 `toml:"approaching" json:"approaching"`
	OversoldPoints float64 `toml:"oversold_points" json:"oversold_points"`
	ApproachPoints float64 `toml:"approaching_points" json:"approaching_points"`
}

// BollingerConfig configures the lower-band detector.
type BollingerConfig struct {
	Period      int     `toml:"period" json:"period"`
	StdDev      float64 `toml:"std_dev" json:"std_dev"`
	Touch       float64 `toml:"touch" json:"touch"`
	Near        float64 `toml:"near" json:"near"`
	TouchPoints float64 `toml:"touch_points" json:"touch_points"`
	NearPoints  float64 `toml:"near_points" json:"near_points"`
}

// Range52WConfig configures the 52-week position detector.
type Range52WConfig struct {
	NearLowPct    float64 `toml:"near_low_pct" json:"near_low_pct"`
	LowerRangePct float64 `toml:"lower_range_pct" json:"lower_range_pct"`
	NearLowPoints float64 `toml:"near_low_points" json:"near_low_points"`
	LowerPoints   float64 `toml:"lower_points" json:"lower_points"`
}

// PullbackConfig configures the pullback-in-uptrend detector.
type PullbackConfig struct {
	LookbackBars  int     `toml:"lookback_bars" json:"lookback_bars"`
	DeepMin       float64 `toml:"deep_min" json:"deep_min"`
	DeepMax       float64 `toml:"deep_max" json:"deep_max"`
	ShallowMin    float64 `toml:"shallow_min" json:"shallow_min"`
	DeepPoints    float64 `toml:"deep_points" json:"deep_points"`
	ShallowPoints float64 `toml:"shallow_points" json:"shallow_points"`
}

// RecoveryConfig configures the recovery-from-low detector.
type RecoveryConfig struct {
	LookbackBars    int     `toml:"lookback_bars" json:"lookback_bars"`
	MinBounce       float64 `toml:"min_bounce" json:"min_bounce"`
	BouncePoints    float64 `toml:"bounce_points" json:"bounce_points"`
	HigherLowPoints float64 `toml:"higher_low_points" json:"higher_low_points"`
}

// VolumeConfig configures the relative-volume detector.
type VolumeConfig struct {
	SurgeRatio  float64 `toml:"surge_ratio" json:"surge_ratio"`
	AboveRatio  float64 `toml:"above_ratio" json:"above_ratio"`
	SurgePoints float64 `toml:"surge_points" json:"surge_points"`
	AbovePoints float64 `toml:"above_points" json:"above_points"`
}

// PEGConfig configures the PEG detector. PEG at or below Max earns the
// full Weight, at or below Good earns half.
type PEGConfig struct {
	Max    float64 `toml:"max" json:"max"`
	Good   float64 `toml:"good" json:"good"`
	Weight float64 `toml:"weight" json:"weight"`
}

// ConsensusConfig configures the recommendation consensus detector.
type ConsensusConfig struct {
	MinAnalysts    int     `toml:"min_analysts" json:"min_analysts"`
	Strong         float64 `toml:"strong" json:"strong"`
	Moderate       float64 `toml:"moderate" json:"moderate"`
	StrongPoints   float64 `toml:"strong_points" json:"strong_points"`
	ModeratePoints float64 `toml:"moderate_points" json:"moderate_points"`
}

// UpgradesConfig configures the net-upgrades detector.
type UpgradesConfig struct {
	WindowDays   int     `toml:"window_days" json:"window_days"`
	Many         int     `toml:"many" json:"many"`
	ManyPoints   float64 `toml:"many_points" json:"many_points"`
	SinglePoints float64 `toml:"single_points" json:"single_points"`
}

// RevisionsConfig configures the EPS revisions detector.
type RevisionsConfig struct {
	StrongNet      int     `toml:"strong_net" json:"strong_net"`
	StrongPoints   float64 `toml:"strong_points" json:"strong_points"`
	PositivePoints float64 `toml:"positive_points" json:"positive_points"`
}

// EPSTrendConfig configures the EPS estimate trend detector.
type EPSTrendConfig struct {
	MinChange float64 `toml:"min_change" json:"min_change"`
	Points    float64 `toml:"points" json:"points"`
}

// CategoryCaps bounds each category's contribution to the composite.
type CategoryCaps struct {
	Technical   float64 `toml:"technical" json:"technical"`
	Fundamental float64 `toml:"fundamental" json:"fundamental"`
	Analyst     float64 `toml:"analyst" json:"analyst"`
}

// Cap returns the ceiling for a category.
func (c CategoryCaps) Cap(cat Category) float64 {
	switch cat {
	case CategoryTechnical:
		return c.Technical
	case CategoryFundamental:
		return c.Fundamental
	case CategoryAnalyst:
		return c.Analyst
	}
	return 0
}

// DefaultThresholds returns the documented default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSI: RSIConfig{
			Period:              14,
			Oversold:            30,
			Approaching:         40,
			NeutralBearish:      50,
			Weight:              10,
			ApproachingFraction: 0.6,
			NeutralBonus:        2,
		},
		GoldenCross: GoldenCrossConfig{
			FastPeriod:   50,
			SlowPeriod:   200,
			RecentBars:   10,
			CrossPoints:  10,
			ActivePoints: 6,
		},
		MovingAvg: MovingAvgConfig{
			Above200Points: 5,
			Above50Points:  3,
		},
		MACD: MACDConfig{
			Fast:           12,
			Slow:           26,
			Signal:         9,
			CrossWithin:    3,
			CrossPoints:    8,
			MomentumPoints: 4,
		},
		Stochastic: StochasticConfig{
			Period:         14,
			Oversold:       20,
			Approaching:    30,
			OversoldPoints: 6,
			ApproachPoints: 3,
		},
		Bollinger: BollingerConfig{
			Period:      20,
			StdDev:      2,
			Touch:       0.05,
			Near:        0.20,
			TouchPoints: 6,
			NearPoints:  3,
		},
		Range52W: Range52WConfig{
			NearLowPct:    0.10,
			LowerRangePct: 0.25,
			NearLowPoints: 6,
			LowerPoints:   3,
		},
		Pullback: PullbackConfig{
			LookbackBars:  20,
			DeepMin:       0.05,
			DeepMax:       0.15,
			ShallowMin:    0.03,
			DeepPoints:    8,
			ShallowPoints: 4,
		},
		Recovery: RecoveryConfig{
			LookbackBars:    20,
			MinBounce:       0.10,
			BouncePoints:    6,
			HigherLowPoints: 4,
		},
		Volume: VolumeConfig{
			SurgeRatio:  2.0,
			AboveRatio:  1.5,
			SurgePoints: 5,
			AbovePoints: 2,
		},
		PEG: PEGConfig{Max: 1.5, Good: 2.0, Weight: 10},
		FCFYield: TierConfig{
			Strong: 0.08, Moderate: 0.05, Weak: 0.03,
			StrongPoints: 8, ModPoints: 5, WeakPoints: 2,
		},
		EVToEBITDA: TierConfig{
			Strong: 8, Moderate: 12,
			StrongPoints: 6, ModPoints: 3,
		},
		ProfitMargin: TierConfig{
			Strong: 0.20, Moderate: 0.10,
			StrongPoints: 5, ModPoints: 3,
		},
		ROE: TierConfig{
			Strong: 0.20, Moderate: 0.15,
			StrongPoints: 5, ModPoints: 3,
		},
		DebtToEquity: TierConfig{
			Strong: 0.3, Moderate: 0.6,
			StrongPoints: 4, ModPoints: 2,
		},
		CurrentRatio: TierConfig{
			Strong: 2.0, Moderate: 1.5,
			StrongPoints: 3, ModPoints: 1,
		},
		Revenue: TierConfig{
			Strong: 0.20, Moderate: 0.10,
			StrongPoints: 5, ModPoints: 3,
		},
		Upside: TierConfig{
			Strong: 0.25, Moderate: 0.10,
			StrongPoints: 8, ModPoints: 3,
		},
		Consensus: ConsensusConfig{
			MinAnalysts:    3,
			Strong:         0.70,
			Moderate:       0.50,
			StrongPoints:   6,
			ModeratePoints: 3,
		},
		Upgrades: UpgradesConfig{
			WindowDays:   90,
			Many:         2,
			ManyPoints:   5,
			SinglePoints: 2,
		},
		Revisions: RevisionsConfig{
			StrongNet:      2,
			StrongPoints:   4,
			PositivePoints: 2,
		},
		EPSTrend: EPSTrendConfig{MinChange: 0.05, Points: 3},
		Caps: CategoryCaps{
			Technical:   50,
			Fundamental: 30,
			Analyst:     20,
		},
	}
}

var (
	defaultsOnce sync.Once
	defaults     Thresholds
)

// Defaults returns the process-wide default thresholds. The value is built
// once on first use; callers receive a copy and may change it freely.
func Defaults() Thresholds {
	defaultsOnce.Do(func() {
		defaults = DefaultThresholds()
	})
	return defaults
}
