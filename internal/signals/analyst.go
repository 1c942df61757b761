package signals

import (
	"fmt"
	"math"

	"github.com/ternarybob/screener/internal/models"
)

// AnalystDetectors returns the analyst detectors in evaluation order.
func AnalystDetectors() []Detector {
	return []Detector{
		{Name: "upside", Category: CategoryAnalyst, Detect: DetectUpside},
		{Name: "consensus", Category: CategoryAnalyst, Detect: DetectConsensus},
		{Name: "upgrades", Category: CategoryAnalyst, Detect: DetectUpgrades},
		{Name: "eps_revisions", Category: CategoryAnalyst, Detect: DetectEPSRevisions},
		{Name: "eps_trend", Category: CategoryAnalyst, Detect: DetectEPSTrend},
	}
}

// DetectUpside grades the distance from price to the mean price target.
func DetectUpside(in Inputs, th Thresholds) *Signal {
	target := in.Analyst.TargetMean
	price := in.Price()
	if target == nil || *target <= 0 {
		return nil
	}
	r, ok := ratio(*target, price)
	if !ok {
		return nil
	}
	upside := r - 1
	describe := func(v float64) string {
		return fmt.Sprintf("Mean target %.2f implies %.1f%% upside", *target, v*100)
	}
	return higherIsBetter(CategoryAnalyst, upside, th.Upside,
		tierNames{"High Upside Potential", "Some Upside", ""}, describe)
}

// DetectConsensus grades the share of buy and strong-buy ratings in the
// current period.
func DetectConsensus(in Inputs, th Thresholds) *Signal {
	cfg := th.Consensus
	period, ok := currentPeriod(in)
	if !ok || period.Total() < cfg.MinAnalysts {
		return nil
	}
	bullish, ok := period.BullishRatio()
	if !ok {
		return nil
	}
	switch {
	case bullish >= cfg.Strong:
		return newSignal(CategoryAnalyst, "Strong Buy Consensus", cfg.StrongPoints,
			fmt.Sprintf("%.0f%% of %d analysts rate buy", bullish*100, period.Total()), bullish)
	case bullish >= cfg.Moderate:
		return newSignal(CategoryAnalyst, "Buy Consensus", cfg.ModeratePoints,
			fmt.Sprintf("%.0f%% of %d analysts rate buy", bullish*100, period.Total()), bullish)
	}
	return nil
}

// currentPeriod returns the "0m" recommendation counts, falling back to
// the first period listed.
func currentPeriod(in Inputs) (models.RecommendationPeriod, bool) {
	if rec, ok := in.Analyst.Period("0m"); ok {
		return rec, true
	}
	if len(in.Analyst.Recommendations) == 0 {
		return models.RecommendationPeriod{}, false
	}
	return in.Analyst.Recommendations[0], true
}

// DetectUpgrades grades net broker upgrades over the trailing window.
func DetectUpgrades(in Inputs, th Thresholds) *Signal {
	cfg := th.Upgrades
	net, counted := in.Analyst.NetRatingChanges(in.EvaluationDate(), cfg.WindowDays)
	if counted == 0 {
		return nil
	}
	switch {
	case net >= cfg.Many:
		return newSignal(CategoryAnalyst, "Recent Upgrades", cfg.ManyPoints,
			fmt.Sprintf("Net %d upgrades in the last %d days", net, cfg.WindowDays), float64(net))
	case net >= 1:
		return newSignal(CategoryAnalyst, "Recent Upgrade", cfg.SinglePoints,
			fmt.Sprintf("Net %d upgrade in the last %d days", net, cfg.WindowDays), float64(net))
	}
	return nil
}

// DetectEPSRevisions grades 30-day EPS estimate revisions.
func DetectEPSRevisions(in Inputs, th Thresholds) *Signal {
	cfg := th.Revisions
	rev := in.Analyst.EPSRevisions
	if !rev.Known() {
		return nil
	}
	net := rev.Up30 - rev.Down30
	switch {
	case net >= cfg.StrongNet:
		return newSignal(CategoryAnalyst, "Upward EPS Revisions", cfg.StrongPoints,
			fmt.Sprintf("%d up vs %d down revisions in 30 days", rev.Up30, rev.Down30), float64(net))
	case rev.Up30 > rev.Down30:
		return newSignal(CategoryAnalyst, "Positive EPS Revisions", cfg.PositivePoints,
			fmt.Sprintf("%d up vs %d down revisions in 30 days", rev.Up30, rev.Down30), float64(net))
	}
	return nil
}

// DetectEPSTrend rewards a rising consensus estimate over 90 days.
func DetectEPSTrend(in Inputs, th Thresholds) *Signal {
	trend := in.Analyst.EPSTrend
	if trend.Current == nil || trend.DaysAgo90 == nil {
		return nil
	}
	change, ok := ratio(*trend.Current-*trend.DaysAgo90, math.Abs(*trend.DaysAgo90))
	if !ok || change < th.EPSTrend.MinChange {
		return nil
	}
	return newSignal(CategoryAnalyst, "Rising EPS Estimates", th.EPSTrend.Points,
		fmt.Sprintf("EPS estimate up %.1f%% over 90 days (%.2f to %.2f)", change*100, *trend.DaysAgo90, *trend.Current), change)
}
