package momentum

import (
	"fmt"
	"math"

	"github.com/ternarybob/screener/internal/models"
	"github.com/ternarybob/screener/internal/signals"
)

// analystSentiment compares the current bullish share with three months ago.
func (a *Analyzer) analystSentiment(in signals.Inputs) *Signal {
	cur, ok := in.Analyst.Period("0m")
	if !ok {
		return nil
	}
	prior, ok := in.Analyst.Period("-3m")
	if !ok {
		return nil
	}
	curRatio, ok := cur.BullishRatio()
	if !ok {
		return nil
	}
	priorRatio, ok := prior.BullishRatio()
	if !ok {
		return nil
	}
	delta := curRatio - priorRatio
	return newSignal(CheckAnalystSentiment, band(delta, a.config.SentimentBand),
		fmt.Sprintf("Bullish share %.0f%% vs %.0f%% three months ago", curRatio*100, priorRatio*100), delta)
}

func (a *Analyzer) ratingChanges(in signals.Inputs) *Signal {
	net, counted := in.Analyst.NetRatingChanges(in.EvaluationDate(), a.config.RatingWindowDays)
	if counted == 0 {
		return nil
	}
	return newSignal(CheckRatingChanges, bandInt(net, a.config.RatingNet),
		fmt.Sprintf("Net %+d upgrades across %d rating changes in %d days", net, counted, a.config.RatingWindowDays), float64(net))
}

// returns computes the short and long trailing price returns.
func (a *Analyzer) returns(in signals.Inputs) (short, long float64, ok bool) {
	closes := in.History.Closes()
	n := len(closes)
	if a.config.ShortBars <= 0 || a.config.LongBars <= 0 || n < a.config.LongBars+1 || n < a.config.ShortBars+1 {
		return 0, 0, false
	}
	last := closes[n-1]
	shortBase := closes[n-1-a.config.ShortBars]
	longBase := closes[n-1-a.config.LongBars]
	if last <= 0 || shortBase <= 0 || longBase <= 0 {
		return 0, 0, false
	}
	short = last/shortBase - 1
	long = last/longBase - 1
	if !finite(short) || !finite(long) {
		return 0, 0, false
	}
	return short, long, true
}

// priceMomentum needs the short and long return to agree in direction.
func (a *Analyzer) priceMomentum(in signals.Inputs) *Signal {
	short, long, ok := a.returns(in)
	if !ok {
		return nil
	}
	dir := Stable
	switch {
	case short > a.config.PriceBand && long > 0:
		dir = Improving
	case short < -a.config.PriceBand && long < 0:
		dir = Deteriorating
	}
	return newSignal(CheckPriceMomentum, dir,
		fmt.Sprintf("%d-bar return %+.1f%%, %d-bar return %+.1f%%", a.config.ShortBars, short*100, a.config.LongBars, long*100), short)
}

func (a *Analyzer) epsRevisions(in signals.Inputs) *Signal {
	rev := in.Analyst.EPSRevisions
	if !rev.Known() {
		return nil
	}
	net := rev.Up30 - rev.Down30
	return newSignal(CheckEPSRevisions, bandInt(net, a.config.RevisionNet),
		fmt.Sprintf("%d up vs %d down estimate revisions in 30 days", rev.Up30, rev.Down30), float64(net))
}

func (a *Analyzer) epsTrend(in signals.Inputs) *Signal {
	trend := in.Analyst.EPSTrend
	if trend.Current == nil || trend.DaysAgo90 == nil || *trend.DaysAgo90 == 0 {
		return nil
	}
	change := (*trend.Current - *trend.DaysAgo90) / math.Abs(*trend.DaysAgo90)
	if !finite(change) {
		return nil
	}
	return newSignal(CheckEPSTrend, band(change, a.config.EPSTrendBand),
		fmt.Sprintf("Consensus EPS %.2f vs %.2f 90 days ago", *trend.Current, *trend.DaysAgo90), change)
}

// insiderActivity weighs buys against sells over the trailing months.
func (a *Analyzer) insiderActivity(in signals.Inputs) *Signal {
	asOf := in.EvaluationDate()
	cutoff := asOf.AddDate(0, -a.config.InsiderMonths, 0)

	buys, sells := 0, 0
	netShares := 0.0
	for _, tx := range in.Fundamentals.InsiderTransactions {
		if tx.Date.Before(cutoff) || tx.Date.After(asOf) {
			continue
		}
		switch {
		case tx.Shares > 0:
			buys++
		case tx.Shares < 0:
			sells++
		}
		netShares += tx.Shares
	}
	if buys+sells == 0 {
		return nil
	}

	dir := Stable
	switch {
	case buys > sells && netShares > 0:
		dir = Improving
	case sells >= 2*buys:
		dir = Deteriorating
	}
	return newSignal(CheckInsiderActivity, dir,
		fmt.Sprintf("%d insider buys vs %d sells in %d months", buys, sells, a.config.InsiderMonths), netShares)
}

func (a *Analyzer) institutionalOwnership(in signals.Inputs) *Signal {
	f := in.Fundamentals
	if f.InstitutionalOwnership == nil || f.InstitutionalOwnershipPrior == nil {
		return nil
	}
	delta := *f.InstitutionalOwnership - *f.InstitutionalOwnershipPrior
	if !finite(delta) {
		return nil
	}
	return newSignal(CheckInstitutional, band(delta, a.config.OwnershipBand),
		fmt.Sprintf("Institutions hold %.1f%% vs %.1f%% previously", *f.InstitutionalOwnership*100, *f.InstitutionalOwnershipPrior*100), delta)
}

// yearAgo returns the latest quarter and the quarter four periods earlier.
func yearAgo(quarters []models.QuarterResult) (latest, prior models.QuarterResult, ok bool) {
	n := len(quarters)
	if n < 5 {
		return latest, prior, false
	}
	return quarters[n-1], quarters[n-5], true
}

// profitabilityTrend only applies to loss-making companies: a narrowing
// loss is improvement.
func (a *Analyzer) profitabilityTrend(in signals.Inputs) *Signal {
	latest, prior, ok := yearAgo(in.Fundamentals.Quarters)
	if !ok || latest.NetIncome == nil || prior.NetIncome == nil || *latest.NetIncome >= 0 {
		return nil
	}
	loss := -*latest.NetIncome
	if *prior.NetIncome >= 0 {
		return newSignal(CheckProfitabilityTrend, Deteriorating,
			fmt.Sprintf("Swung to a %.0f loss in %s from profit in %s", loss, latest.Period, prior.Period), -1)
	}
	priorLoss := -*prior.NetIncome
	narrowing := (priorLoss - loss) / priorLoss
	return newSignal(CheckProfitabilityTrend, band(narrowing, a.config.ProfitabilityBand),
		fmt.Sprintf("Quarterly loss %.0f vs %.0f a year earlier", loss, priorLoss), narrowing)
}

func (a *Analyzer) revenueTrend(in signals.Inputs) *Signal {
	latest, prior, ok := yearAgo(in.Fundamentals.Quarters)
	if !ok || latest.Revenue == nil || prior.Revenue == nil || *prior.Revenue <= 0 {
		return nil
	}
	growth := *latest.Revenue / *prior.Revenue - 1
	if !finite(growth) {
		return nil
	}
	return newSignal(CheckRevenueTrend, band(growth, a.config.RevenueBand),
		fmt.Sprintf("Revenue %+.1f%% year on year (%s vs %s)", growth*100, latest.Period, prior.Period), growth)
}

func (a *Analyzer) earningsTrend(in signals.Inputs) *Signal {
	latest, prior, ok := yearAgo(in.Fundamentals.Quarters)
	if !ok || latest.Earnings == nil || prior.Earnings == nil || *prior.Earnings == 0 {
		return nil
	}
	change := (*latest.Earnings - *prior.Earnings) / math.Abs(*prior.Earnings)
	if !finite(change) {
		return nil
	}
	return newSignal(CheckEarningsTrend, band(change, a.config.EarningsBand),
		fmt.Sprintf("EPS %.2f vs %.2f a year earlier", *latest.Earnings, *prior.Earnings), change)
}

// earningsSurprises counts beats and misses over the most recent quarters.
func (a *Analyzer) earningsSurprises(in signals.Inputs) *Signal {
	history := in.Analyst.EarningsHistory
	if a.config.SurpriseQuarters <= 0 {
		return nil
	}
	if len(history) > a.config.SurpriseQuarters {
		history = history[len(history)-a.config.SurpriseQuarters:]
	}
	if len(history) < a.config.SurpriseStreak || len(history) == 0 {
		return nil
	}

	beats, misses := 0, 0
	for _, q := range history {
		switch {
		case q.Actual > q.Estimate:
			beats++
		case q.Actual < q.Estimate:
			misses++
		}
	}

	dir := Stable
	switch {
	case beats >= a.config.SurpriseStreak:
		dir = Improving
	case misses >= a.config.SurpriseStreak:
		dir = Deteriorating
	}
	return newSignal(CheckEarningsSurprises, dir,
		fmt.Sprintf("%d beats and %d misses in the last %d quarters", beats, misses, len(history)), float64(beats-misses))
}
