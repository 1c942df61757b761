package regime

// Vote is one metric's stance on new entries.
type Vote string

const (
	VotePermissive Vote = "permissive"
	VoteNeutral    Vote = "neutral"
	VoteDefensive  Vote = "defensive"
)

const (
	minConfidence = 0.10
	maxConfidence = 0.95
)

// Votes returns each available metric's stance, keyed by metric name.
func (c *Classifier) Votes(m Metrics) map[string]Vote {
	cfg := c.config
	votes := make(map[string]Vote, len(AllMetrics))

	switch m.VolatilityBucket {
	case VolatilityCalm:
		votes[MetricVolatility] = VotePermissive
	case VolatilityElevated:
		votes[MetricVolatility] = VoteNeutral
	case VolatilityHigh:
		votes[MetricVolatility] = VoteDefensive
	}

	if m.Choppiness != nil {
		switch {
		case *m.Choppiness > cfg.ChopThreshold:
			votes[MetricChoppiness] = VoteDefensive
		case *m.Choppiness < cfg.TrendingChop:
			votes[MetricChoppiness] = VotePermissive
		default:
			votes[MetricChoppiness] = VoteNeutral
		}
	}

	if m.TrendConflict != nil {
		switch {
		case *m.TrendConflict >= cfg.ConflictThreshold:
			votes[MetricTrendConflict] = VoteDefensive
		case *m.TrendConflict == 0:
			votes[MetricTrendConflict] = VotePermissive
		default:
			votes[MetricTrendConflict] = VoteNeutral
		}
	}

	switch m.TrendStrength {
	case TrendStrong:
		votes[MetricADX] = VotePermissive
	case TrendModerate:
		votes[MetricADX] = VoteNeutral
	case TrendWeak:
		votes[MetricADX] = VoteDefensive
	}

	if v, ok := biasVote(m.BreadthSignal); ok {
		votes[MetricBreadth] = v
	}
	if v, ok := biasVote(m.BenchmarkTrend); ok {
		votes[MetricBenchmark] = v
	}
	return votes
}

func biasVote(b Bias) (Vote, bool) {
	switch b {
	case Bullish:
		return VotePermissive, true
	case Bearish:
		return VoteDefensive, true
	case Neutral:
		return VoteNeutral, true
	}
	return "", false
}

// agreement scores how well a vote supports the regime: 1 corroborates,
// -1 contradicts, 0 is indifferent.
func agreement(v Vote, r Regime) float64 {
	switch r {
	case Go:
		switch v {
		case VotePermissive:
			return 1
		case VoteDefensive:
			return -1
		}
	case NoTrade:
		switch v {
		case VoteDefensive:
			return 1
		case VotePermissive:
			return -1
		}
	default:
		if v == VoteNeutral {
			return 1
		}
	}
	return 0
}

// confidence blends vote agreement with data completeness and clamps the
// result to [minConfidence, maxConfidence].
func (c *Classifier) confidence(m Metrics, r Regime) float64 {
	votes := c.Votes(m)
	if len(votes) == 0 {
		return minConfidence
	}
	sum := 0.0
	for _, v := range votes {
		sum += agreement(v, r)
	}
	raw := 0.5 + 0.4*sum/float64(len(votes))
	completeness := float64(m.Available()) / float64(len(AllMetrics))
	return round(clamp(raw*(0.6+0.4*completeness), minConfidence, maxConfidence), 2)
}
