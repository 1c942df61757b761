// Package momentum classifies whether a symbol's tracked metrics are
// improving, stable or deteriorating against their own prior baselines.
package momentum

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/screener/internal/signals"
)

// Direction is the trend of a single check or of the overall analysis.
type Direction string

const (
	Improving     Direction = "improving"
	Stable        Direction = "stable"
	Deteriorating Direction = "deteriorating"
	Mixed         Direction = "mixed" // overall only
)

// Signal is the result of one momentum check.
type Signal struct {
	Name        string    `json:"name"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	Value       *float64  `json:"value,omitempty"`
}

// Analysis is the rolled-up momentum picture for one symbol.
type Analysis struct {
	Overall       Direction `json:"overall"`
	Signals       []Signal  `json:"signals"`
	Improving     int       `json:"improving"`
	Deteriorating int       `json:"deteriorating"`
	Stable        int       `json:"stable"`
	Overridden    bool      `json:"overridden"`
	Summary       string    `json:"summary"`
}

// Signal returns the named check result.
func (a Analysis) Signal(name string) (Signal, bool) {
	for _, s := range a.Signals {
		if s.Name == name {
			return s, true
		}
	}
	return Signal{}, false
}

// Check names.
const (
	CheckAnalystSentiment   = "Analyst Sentiment"
	CheckRatingChanges      = "Rating Changes"
	CheckPriceMomentum      = "Price Momentum"
	CheckEPSRevisions       = "EPS Revisions"
	CheckEPSTrend           = "EPS Estimate Trend"
	CheckInsiderActivity    = "Insider Activity"
	CheckInstitutional      = "Institutional Ownership"
	CheckProfitabilityTrend = "Profitability Trend"
	CheckRevenueTrend       = "Revenue Trend"
	CheckEarningsTrend      = "Earnings Trend"
	CheckEarningsSurprises  = "Earnings Surprise Streak"
)

// Config holds the bands that separate a move from noise.
type Config struct {
	SentimentBand     float64 `toml:"sentiment_band" json:"sentiment_band"`
	RatingWindowDays  int     `toml:"rating_window_days" json:"rating_window_days"`
	RatingNet         int     `toml:"rating_net" json:"rating_net"`
	ShortBars         int     `toml:"short_bars" json:"short_bars"`
	LongBars          int     `toml:"long_bars" json:"long_bars"`
	PriceBand         float64 `toml:"price_band" json:"price_band"`
	CollapseReturn    float64 `toml:"collapse_return" json:"collapse_return"`
	RevisionNet       int     `toml:"revision_net" json:"revision_net"`
	EPSTrendBand      float64 `toml:"eps_trend_band" json:"eps_trend_band"`
	InsiderMonths     int     `toml:"insider_months" json:"insider_months"`
	OwnershipBand     float64 `toml:"ownership_band" json:"ownership_band"`
	ProfitabilityBand float64 `toml:"profitability_band" json:"profitability_band"`
	RevenueBand       float64 `toml:"revenue_band" json:"revenue_band"`
	EarningsBand      float64 `toml:"earnings_band" json:"earnings_band"`
	SurpriseQuarters  int     `toml:"surprise_quarters" json:"surprise_quarters"`
	SurpriseStreak    int     `toml:"surprise_streak" json:"surprise_streak"`
}

// DefaultConfig returns the default momentum bands.
func DefaultConfig() Config {
	return Config{
		SentimentBand:     0.10,
		RatingWindowDays:  90,
		RatingNet:         2,
		ShortBars:         20,
		LongBars:          50,
		PriceBand:         0.05,
		CollapseReturn:    -0.20,
		RevisionNet:       2,
		EPSTrendBand:      0.05,
		InsiderMonths:     6,
		OwnershipBand:     0.02,
		ProfitabilityBand: 0.10,
		RevenueBand:       0.05,
		EarningsBand:      0.10,
		SurpriseQuarters:  4,
		SurpriseStreak:    3,
	}
}

// Validate rejects lookbacks that cannot select any data.
func (c Config) Validate() error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"rating_window_days", c.RatingWindowDays},
		{"short_bars", c.ShortBars},
		{"long_bars", c.LongBars},
		{"insider_months", c.InsiderMonths},
		{"surprise_quarters", c.SurpriseQuarters},
		{"surprise_streak", c.SurpriseStreak},
	} {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.ShortBars >= c.LongBars {
		return fmt.Errorf("short_bars (%d) must be less than long_bars (%d)", c.ShortBars, c.LongBars)
	}
	if c.SurpriseStreak > c.SurpriseQuarters {
		return fmt.Errorf("surprise_streak (%d) exceeds surprise_quarters (%d)", c.SurpriseStreak, c.SurpriseQuarters)
	}
	for _, b := range []struct {
		name  string
		value float64
	}{
		{"sentiment_band", c.SentimentBand},
		{"price_band", c.PriceBand},
		{"eps_trend_band", c.EPSTrendBand},
		{"ownership_band", c.OwnershipBand},
		{"profitability_band", c.ProfitabilityBand},
		{"revenue_band", c.RevenueBand},
		{"earnings_band", c.EarningsBand},
	} {
		if b.value < 0 {
			return fmt.Errorf("%s must not be negative, got %g", b.name, b.value)
		}
	}
	return nil
}

// Analyzer runs the momentum checks.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates a new momentum analyzer
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config: config}
}

type check func(a *Analyzer, in signals.Inputs) *Signal

// checks lists every check in reporting order.
var checks = []check{
	(*Analyzer).analystSentiment,
	(*Analyzer).ratingChanges,
	(*Analyzer).priceMomentum,
	(*Analyzer).epsRevisions,
	(*Analyzer).epsTrend,
	(*Analyzer).insiderActivity,
	(*Analyzer).institutionalOwnership,
	(*Analyzer).profitabilityTrend,
	(*Analyzer).revenueTrend,
	(*Analyzer).earningsTrend,
	(*Analyzer).earningsSurprises,
}

// Analyze runs every check whose baseline is available and rolls the
// results up into an overall direction.
func (a *Analyzer) Analyze(in signals.Inputs) Analysis {
	var result Analysis
	for _, c := range checks {
		sig := c(a, in)
		if sig == nil {
			continue
		}
		result.Signals = append(result.Signals, *sig)
		switch sig.Direction {
		case Improving:
			result.Improving++
		case Deteriorating:
			result.Deteriorating++
		default:
			result.Stable++
		}
	}

	result.Overall = rollUp(result.Improving, result.Deteriorating)

	// A collapsing price outweighs improving fundamentals.
	if r20, r50, ok := a.returns(in); ok {
		if price, found := result.Signal(CheckPriceMomentum); found && price.Direction == Deteriorating &&
			(r20 <= a.config.CollapseReturn || r50 <= a.config.CollapseReturn) {
			result.Overridden = true
			if result.Overall == Improving {
				result.Overall = Mixed
			} else {
				result.Overall = Deteriorating
			}
		}
	}

	result.Summary = summarize(result)
	return result
}

// rollUp needs a lead of two and at least two agreeing checks.
func rollUp(improving, deteriorating int) Direction {
	switch {
	case improving-deteriorating >= 2 && improving >= 2:
		return Improving
	case deteriorating-improving >= 2 && deteriorating >= 2:
		return Deteriorating
	case improving > 0 && deteriorating > 0:
		return Mixed
	default:
		return Stable
	}
}

func summarize(a Analysis) string {
	if len(a.Signals) == 0 {
		return "No momentum data available"
	}

	var up, down []string
	for _, s := range a.Signals {
		switch s.Direction {
		case Improving:
			up = append(up, s.Name)
		case Deteriorating:
			down = append(down, s.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Momentum %s across %d checks", a.Overall, len(a.Signals))
	if len(up) > 0 {
		fmt.Fprintf(&b, "; improving: %s", strings.Join(up, ", "))
	}
	if len(down) > 0 {
		fmt.Fprintf(&b, "; deteriorating: %s", strings.Join(down, ", "))
	}
	if a.Overridden {
		b.WriteString("; sharp price decline overrides the rest")
	}
	return b.String()
}

// band classifies a change against a symmetric threshold. A change must
// exceed the threshold to count as directional.
func band(change, threshold float64) Direction {
	switch {
	case change > threshold:
		return Improving
	case change < -threshold:
		return Deteriorating
	default:
		return Stable
	}
}

func bandInt(change, threshold int) Direction {
	return band(float64(change), float64(threshold))
}

func newSignal(name string, dir Direction, description string, value float64) *Signal {
	v := math.Round(value*10000) / 10000
	return &Signal{Name: name, Direction: dir, Description: description, Value: &v}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
