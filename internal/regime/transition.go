package regime

import (
	"fmt"
	"math"
)

// TransitionDirection is where conditions are heading.
type TransitionDirection string

const (
	TransitionImproving     TransitionDirection = "IMPROVING"
	TransitionDeteriorating TransitionDirection = "DETERIORATING"
	TransitionStable        TransitionDirection = "STABLE"
)

// Horizon is a rough timing for a regime change.
type Horizon string

const (
	NearTerm   Horizon = "NEAR_TERM"
	LongerTerm Horizon = "LONGER_TERM"
)

// Transition estimates the next regime from the current analysis.
type Transition struct {
	Direction             TransitionDirection `json:"direction"`
	CurrentRegime         Regime              `json:"current_regime"`
	LikelyNextRegime      Regime              `json:"likely_next_regime"`
	TransitionProbability float64             `json:"transition_probability"`
	TimeHorizon           Horizon             `json:"time_horizon"`
	WarningSignals        []string            `json:"warning_signals"`
	ImprovingSignals      []string            `json:"improving_signals"`
	Advice                string              `json:"advice"`
	// ComparedWithPrevious is true when deltas against a previous
	// snapshot were used.
	ComparedWithPrevious bool `json:"compared_with_previous"`
}

// EstimateTransition compares the current metrics with the previous
// snapshot when one is supplied. Without one it reads the spread of the
// current votes and how close readings sit to their thresholds.
func (c *Classifier) EstimateTransition(current Analysis, previous *Metrics) Transition {
	t := Transition{CurrentRegime: current.Regime}

	var warnings, improving []string
	if previous != nil && previous.Available() > 0 {
		prev := Classified(*previous, c.config)
		warnings, improving = c.deltas(current.Metrics, prev)
		t.ComparedWithPrevious = true
	} else {
		warnings, improving = c.dispersion(current)
	}
	t.WarningSignals = warnings
	t.ImprovingSignals = improving

	diff := len(warnings) - len(improving)
	switch {
	case diff > 0:
		t.Direction = TransitionDeteriorating
	case diff < 0:
		t.Direction = TransitionImproving
	default:
		t.Direction = TransitionStable
	}
	t.LikelyNextRegime = next(current.Regime, t.Direction)

	strength := math.Abs(float64(diff))
	switch {
	case t.LikelyNextRegime == current.Regime:
		t.TransitionProbability = 0.10
	default:
		p := 0.20 + 0.15*strength
		if t.ComparedWithPrevious {
			p += 0.05
		}
		t.TransitionProbability = round(clamp(p, 0.20, 0.85), 2)
	}

	t.TimeHorizon = LongerTerm
	if t.LikelyNextRegime != current.Regime && (strength >= 2 || t.TransitionProbability >= 0.5) {
		t.TimeHorizon = NearTerm
	}
	t.Advice = advice(t)
	return t
}

// next steps one regime towards the direction of travel.
func next(r Regime, d TransitionDirection) Regime {
	switch d {
	case TransitionDeteriorating:
		if r == Go {
			return Caution
		}
		return NoTrade
	case TransitionImproving:
		if r == NoTrade {
			return Caution
		}
		return Go
	}
	return r
}

// deltas turns changes between snapshots into warning and improving signals.
func (c *Classifier) deltas(cur, prev Metrics) (warnings, improving []string) {
	cfg := c.config

	if cur.Volatility != nil && prev.Volatility != nil && *prev.Volatility > 0 {
		change := *cur.Volatility / *prev.Volatility - 1
		switch {
		case change >= cfg.VolChangePct:
			warnings = append(warnings, fmt.Sprintf("Volatility index up %.0f%% (%.1f to %.1f)", change*100, *prev.Volatility, *cur.Volatility))
		case change <= -cfg.VolChangePct:
			improving = append(improving, fmt.Sprintf("Volatility index down %.0f%% (%.1f to %.1f)", -change*100, *prev.Volatility, *cur.Volatility))
		}
	}

	if cur.VolatilityBucket != "" && prev.VolatilityBucket != "" {
		switch {
		case cur.VolatilityBucket.rank() > prev.VolatilityBucket.rank():
			warnings = append(warnings, fmt.Sprintf("Volatility moved from %s to %s", prev.VolatilityBucket, cur.VolatilityBucket))
		case cur.VolatilityBucket.rank() < prev.VolatilityBucket.rank():
			improving = append(improving, fmt.Sprintf("Volatility eased from %s to %s", prev.VolatilityBucket, cur.VolatilityBucket))
		}
	}

	if cur.Choppiness != nil && prev.Choppiness != nil {
		change := *cur.Choppiness - *prev.Choppiness
		switch {
		case change >= cfg.ChopChange:
			warnings = append(warnings, fmt.Sprintf("Choppiness rising (%.1f to %.1f)", *prev.Choppiness, *cur.Choppiness))
		case change <= -cfg.ChopChange:
			improving = append(improving, fmt.Sprintf("Choppiness falling (%.1f to %.1f)", *prev.Choppiness, *cur.Choppiness))
		}
	}

	if cur.Breadth != nil && prev.Breadth != nil {
		change := *cur.Breadth - *prev.Breadth
		switch {
		case change <= -cfg.BreadthChange:
			warnings = append(warnings, fmt.Sprintf("Breadth narrowing (%.0f%% to %.0f%%)", *prev.Breadth, *cur.Breadth))
		case change >= cfg.BreadthChange:
			improving = append(improving, fmt.Sprintf("Breadth widening (%.0f%% to %.0f%%)", *prev.Breadth, *cur.Breadth))
		}
	}

	if cur.BenchmarkTrend != "" && prev.BenchmarkTrend != "" && cur.BenchmarkTrend != prev.BenchmarkTrend {
		switch {
		case prev.BenchmarkTrend == Bullish || cur.BenchmarkTrend == Bearish:
			warnings = append(warnings, fmt.Sprintf("Benchmark trend flipped from %s to %s", prev.BenchmarkTrend, cur.BenchmarkTrend))
		default:
			improving = append(improving, fmt.Sprintf("Benchmark trend flipped from %s to %s", prev.BenchmarkTrend, cur.BenchmarkTrend))
		}
	}

	if cur.ADX != nil && prev.ADX != nil {
		change := *cur.ADX - *prev.ADX
		switch {
		case change <= -cfg.ADXChange:
			warnings = append(warnings, fmt.Sprintf("Trend strength fading (ADX %.1f to %.1f)", *prev.ADX, *cur.ADX))
		case change >= cfg.ADXChange && cur.BenchmarkTrend == Bearish:
			warnings = append(warnings, fmt.Sprintf("Downtrend strengthening (ADX %.1f to %.1f)", *prev.ADX, *cur.ADX))
		case change >= cfg.ADXChange:
			improving = append(improving, fmt.Sprintf("Trend strengthening (ADX %.1f to %.1f)", *prev.ADX, *cur.ADX))
		}
	}
	return warnings, improving
}

// dispersion reads dissenting votes and near-threshold readings from a
// single snapshot.
func (c *Classifier) dispersion(current Analysis) (warnings, improving []string) {
	cfg := c.config
	m := current.Metrics

	votes := c.Votes(m)
	for _, name := range AllMetrics {
		v, ok := votes[name]
		if !ok {
			continue
		}
		switch {
		case current.Regime != NoTrade && v == VoteDefensive:
			warnings = append(warnings, fmt.Sprintf("%s is defensive", name))
		case current.Regime != Go && v == VotePermissive:
			improving = append(improving, fmt.Sprintf("%s is permissive", name))
		}
	}

	near := func(value, threshold, distance float64) bool {
		return math.Abs(value-threshold) <= distance
	}

	if m.Volatility != nil {
		for _, th := range []float64{cfg.VolElevated, cfg.VolHigh} {
			if !near(*m.Volatility, th, cfg.VolProximity) {
				continue
			}
			if *m.Volatility < th {
				warnings = append(warnings, fmt.Sprintf("Volatility index %.1f approaching %.0f", *m.Volatility, th))
			} else {
				improving = append(improving, fmt.Sprintf("Volatility index %.1f just above %.0f", *m.Volatility, th))
			}
		}
	}
	if m.Choppiness != nil && near(*m.Choppiness, cfg.ChopThreshold, cfg.ChopProximity) {
		if *m.Choppiness <= cfg.ChopThreshold {
			warnings = append(warnings, fmt.Sprintf("Choppiness %.1f near %.1f", *m.Choppiness, cfg.ChopThreshold))
		} else {
			improving = append(improving, fmt.Sprintf("Choppiness %.1f just above %.1f", *m.Choppiness, cfg.ChopThreshold))
		}
	}
	if m.Breadth != nil {
		if near(*m.Breadth, cfg.BreadthBearish, cfg.BreadthProximity) && *m.Breadth > cfg.BreadthBearish {
			warnings = append(warnings, fmt.Sprintf("Breadth %.0f%% near bearish %.0f%%", *m.Breadth, cfg.BreadthBearish))
		}
		if near(*m.Breadth, cfg.BreadthBullish, cfg.BreadthProximity) && *m.Breadth < cfg.BreadthBullish {
			improving = append(improving, fmt.Sprintf("Breadth %.0f%% near bullish %.0f%%", *m.Breadth, cfg.BreadthBullish))
		}
	}
	return warnings, improving
}

func advice(t Transition) string {
	switch {
	case t.Direction == TransitionDeteriorating && t.LikelyNextRegime != t.CurrentRegime:
		return fmt.Sprintf("Conditions weakening toward %s: tighten entry criteria and reduce new exposure", t.LikelyNextRegime)
	case t.Direction == TransitionDeteriorating:
		return "Conditions remain poor and are still weakening: stay defensive"
	case t.Direction == TransitionImproving && t.LikelyNextRegime != t.CurrentRegime:
		return fmt.Sprintf("Conditions improving toward %s: prepare a watchlist but wait for confirmation", t.LikelyNextRegime)
	case t.Direction == TransitionImproving:
		return "Conditions favourable and still improving"
	default:
		return fmt.Sprintf("No clear change expected; follow %s guidance", t.CurrentRegime)
	}
}
