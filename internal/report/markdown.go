// Package report renders screening results as markdown, HTML and PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/screener/internal/evaluation"
	"github.com/ternarybob/screener/internal/regime"
	"github.com/ternarybob/screener/internal/services/screener"
	"github.com/ternarybob/screener/internal/signals"
)

// BatchMarkdown formats a batch as a ranked table followed by the regime
// and per-symbol detail.
func BatchMarkdown(batch *screener.Batch) string {
	var sb strings.Builder
	sb.WriteString("# Screen Results\n\n")
	if batch.Source != "" {
		sb.WriteString(fmt.Sprintf("**Source:** %s\n", batch.Source))
	}
	if !batch.AsOf.IsZero() {
		sb.WriteString(fmt.Sprintf("**As of:** %s\n", batch.AsOf.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("**Benchmark:** %s\n", batch.Benchmark))
	sb.WriteString(fmt.Sprintf("**Batch:** %s\n\n", batch.ID))

	if batch.Regime != nil {
		sb.WriteString(RegimeMarkdown(batch.Regime))
	}

	sb.WriteString(fmt.Sprintf("## Rankings (%d)\n\n", len(batch.Evaluations)))
	if len(batch.Evaluations) == 0 {
		sb.WriteString("No symbols evaluated.\n\n")
	} else {
		sb.WriteString("| # | Symbol | Score | Rating | Technical | Fundamental | Analyst | Momentum | RS |\n")
		sb.WriteString("|---|--------|-------|--------|-----------|-------------|---------|----------|----|\n")
		for i, ev := range batch.Evaluations {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.1f | %s | %.1f | %.1f | %.1f | %s | %s |\n",
				i+1, ev.Symbol, ev.Composite(), ev.Score.Rating,
				ev.Score.Technical.Total, ev.Score.Fundamental.Total, ev.Score.Analyst.Total,
				ev.Momentum.Overall, rsClass(ev)))
		}
		sb.WriteString("\n")
	}

	if len(batch.Failures) > 0 {
		sb.WriteString("## Failures\n\n")
		for _, f := range batch.Failures {
			sb.WriteString(fmt.Sprintf("- **%s:** %s\n", f.Symbol, f.Error))
		}
		sb.WriteString("\n")
	}
	if batch.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("_%d symbols skipped after cancellation._\n\n", batch.Skipped))
	}

	for _, ev := range batch.Evaluations {
		sb.WriteString("---\n\n")
		sb.WriteString(evaluationBody(ev, "###"))
	}
	return sb.String()
}

// EvaluationMarkdown formats one evaluation.
func EvaluationMarkdown(ev evaluation.Evaluation) string {
	return evaluationBody(ev, "#")
}

func evaluationBody(ev evaluation.Evaluation, h string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n\n", h, ev.Symbol))
	sb.WriteString(fmt.Sprintf("**Score:** %.1f (%s)\n", ev.Composite(), ev.Score.Rating))
	if ev.Price > 0 {
		sb.WriteString(fmt.Sprintf("**Price:** %.2f\n", ev.Price))
	}
	if !ev.AsOf.IsZero() {
		sb.WriteString(fmt.Sprintf("**As of:** %s\n", ev.AsOf.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	for _, agg := range []signals.Aggregation{ev.Score.Technical, ev.Score.Fundamental, ev.Score.Analyst} {
		fired := ev.Score.CategorySignals(agg.Category)
		sb.WriteString(fmt.Sprintf("%s# %s %.1f / %.0f\n\n", h, title(string(agg.Category)), agg.Total, agg.Cap))
		if len(fired) == 0 {
			sb.WriteString("No signals.\n\n")
			continue
		}
		for _, s := range fired {
			sb.WriteString(fmt.Sprintf("- **%s** (%+.0f): %s\n", s.Name, s.Points, s.Description))
		}
		if agg.Discarded > 0 {
			sb.WriteString(fmt.Sprintf("- _%.0f points over cap discarded_\n", agg.Discarded))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("%s# Momentum: %s\n\n", h, ev.Momentum.Overall))
	if ev.Momentum.Summary != "" {
		sb.WriteString(ev.Momentum.Summary + "\n\n")
	}
	for _, s := range ev.Momentum.Signals {
		sb.WriteString(fmt.Sprintf("- %s: %s (%s)\n", s.Name, s.Direction, s.Description))
	}
	if len(ev.Momentum.Signals) > 0 {
		sb.WriteString("\n")
	}

	if rs := ev.RelativeStrength; rs != nil {
		sb.WriteString(fmt.Sprintf("%s# Relative Strength vs %s: %s\n\n", h, rs.Benchmark, rs.Classification))
		sb.WriteString("| Window | Stock | Benchmark | Excess |\n")
		sb.WriteString("|--------|-------|-----------|--------|\n")
		for _, w := range rs.Windows {
			if !w.Available {
				sb.WriteString(fmt.Sprintf("| %dd | n/a | n/a | n/a |\n", w.Bars))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %dd | %s | %s | %s |\n", w.Bars, pct(w.StockReturn), pct(w.BenchmarkReturn), pct(w.Excess)))
		}
		sb.WriteString("\n")
	}

	if len(ev.Notes) > 0 {
		sb.WriteString(fmt.Sprintf("%s# Notes\n\n", h))
		for _, n := range ev.Notes {
			sb.WriteString("- " + n + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RegimeMarkdown formats a regime classification and its transition.
func RegimeMarkdown(r *screener.RegimeReport) string {
	a := r.Analysis
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Market Regime: %s (%s)\n\n", a.Regime, r.Market))
	sb.WriteString(fmt.Sprintf("**Confidence:** %.0f%%\n", a.Confidence*100))
	sb.WriteString(fmt.Sprintf("**Recommendation:** %s\n", a.Recommendation))
	sb.WriteString(fmt.Sprintf("**Guidance:** min POP %.0f%%, min cushion %.0f%%, min return %.0f%%, size x%.2f\n\n",
		a.Guidance.MinProbabilityOfProfit*100, a.Guidance.MinCushion*100, a.Guidance.MinReturn*100, a.Guidance.SizeMultiplier))

	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Choppiness | %s |\n", num(a.Metrics.Choppiness)))
	sb.WriteString(fmt.Sprintf("| Trend conflict | %s |\n", num(a.Metrics.TrendConflict)))
	sb.WriteString(fmt.Sprintf("| ADX | %s %s |\n", num(a.Metrics.ADX), a.Metrics.TrendStrength))
	sb.WriteString(fmt.Sprintf("| Breadth | %s %s |\n", num(a.Metrics.Breadth), a.Metrics.BreadthSignal))
	sb.WriteString(fmt.Sprintf("| Volatility | %s %s |\n", num(a.Metrics.Volatility), a.Metrics.VolatilityBucket))
	sb.WriteString(fmt.Sprintf("| Benchmark trend | %s |\n\n", orNA(string(a.Metrics.BenchmarkTrend))))

	if len(a.Reasons) > 0 {
		for _, reason := range a.Reasons {
			sb.WriteString("- " + reason + "\n")
		}
		sb.WriteString("\n")
	}
	if len(a.MissingMetrics) > 0 {
		sb.WriteString(fmt.Sprintf("_Missing metrics: %s_\n\n", strings.Join(a.MissingMetrics, ", ")))
	}

	sb.WriteString(TransitionMarkdown(r.Transition))
	return sb.String()
}

// TransitionMarkdown formats a regime transition estimate.
func TransitionMarkdown(t regime.Transition) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Outlook: %s\n\n", t.Direction))
	sb.WriteString(fmt.Sprintf("**Likely next:** %s (%.0f%%, %s)\n", t.LikelyNextRegime, t.TransitionProbability*100, t.TimeHorizon))
	if t.Advice != "" {
		sb.WriteString(fmt.Sprintf("**Advice:** %s\n", t.Advice))
	}
	sb.WriteString("\n")
	for _, w := range t.WarningSignals {
		sb.WriteString("- warning: " + w + "\n")
	}
	for _, s := range t.ImprovingSignals {
		sb.WriteString("- improving: " + s + "\n")
	}
	if len(t.WarningSignals)+len(t.ImprovingSignals) > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// HistoryMarkdown formats stored evaluations for one symbol.
func HistoryMarkdown(symbol string, evs []evaluation.Evaluation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## History for %s (%d)\n\n", symbol, len(evs)))
	if len(evs) == 0 {
		sb.WriteString("No stored evaluations.\n")
		return sb.String()
	}
	sb.WriteString("| Evaluated | As of | Score | Rating | Momentum |\n")
	sb.WriteString("|-----------|-------|-------|--------|----------|\n")
	for _, ev := range evs {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f | %s | %s |\n",
			ev.EvaluatedAt.Format(time.RFC3339), ev.AsOf.Format("2006-01-02"),
			ev.Composite(), ev.Score.Rating, ev.Momentum.Overall))
	}
	return sb.String()
}

// RegimeHistoryMarkdown formats stored regime records for one market.
func RegimeHistoryMarkdown(market string, recs []evaluation.RegimeRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Regime History for %s (%d)\n\n", market, len(recs)))
	if len(recs) == 0 {
		sb.WriteString("No stored regimes.\n")
		return sb.String()
	}
	sb.WriteString("| Recorded | Regime | Confidence | Outlook |\n")
	sb.WriteString("|----------|--------|------------|---------|\n")
	for _, rec := range recs {
		outlook := "n/a"
		if rec.Transition != nil {
			outlook = string(rec.Transition.Direction)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %.0f%% | %s |\n",
			rec.RecordedAt.Format(time.RFC3339), rec.Analysis.Regime, rec.Analysis.Confidence*100, outlook))
	}
	return sb.String()
}

func rsClass(ev evaluation.Evaluation) string {
	if ev.RelativeStrength == nil {
		return "n/a"
	}
	return string(ev.RelativeStrength.Classification)
}

func pct(v float64) string {
	return fmt.Sprintf("%+.1f%%", v*100)
}

func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
