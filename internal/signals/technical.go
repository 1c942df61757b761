package signals

import "fmt"

// TechnicalDetectors returns the technical detectors in evaluation order.
// The order matters to the group-cap aggregator: earlier signals claim a
// group's allowance first.
func TechnicalDetectors() []Detector {
	return []Detector{
		{Name: "golden_cross", Category: CategoryTechnical, Detect: DetectGoldenCross},
		{Name: "moving_average", Category: CategoryTechnical, Detect: DetectMovingAverage},
		{Name: "rsi", Category: CategoryTechnical, Detect: DetectRSI},
		{Name: "macd", Category: CategoryTechnical, Detect: DetectMACD},
		{Name: "stochastic", Category: CategoryTechnical, Detect: DetectStochastic},
		{Name: "bollinger", Category: CategoryTechnical, Detect: DetectBollinger},
		{Name: "range_52w", Category: CategoryTechnical, Detect: Detect52WeekRange},
		{Name: "pullback", Category: CategoryTechnical, Detect: DetectPullback},
		{Name: "recovery", Category: CategoryTechnical, Detect: DetectRecovery},
		{Name: "volume", Category: CategoryTechnical, Detect: DetectVolume},
	}
}

// DetectRSI flags oversold RSI readings.
func DetectRSI(in Inputs, th Thresholds) *Signal {
	rsi, ok := RSI(in.History.Closes(), th.RSI.Period)
	if !ok {
		return nil
	}
	return RSISignal(rsi, th.RSI)
}

// RSISignal grades an RSI reading. The strongest tier is checked first
// and a more oversold reading never earns fewer points.
func RSISignal(rsi float64, cfg RSIConfig) *Signal {
	if !finite(rsi) {
		return nil
	}
	switch {
	case rsi < cfg.Oversold:
		return newSignal(CategoryTechnical, "RSI Oversold", cfg.Weight,
			fmt.Sprintf("RSI %.1f is below %.0f (oversold)", rsi, cfg.Oversold), rsi)
	case rsi < cfg.Approaching:
		return newSignal(CategoryTechnical, "RSI Approaching Oversold", round(cfg.Weight*cfg.ApproachingFraction, 2),
			fmt.Sprintf("RSI %.1f is approaching oversold (<%.0f)", rsi, cfg.Approaching), rsi)
	case rsi < cfg.NeutralBearish:
		return newSignal(CategoryTechnical, "RSI Neutral-Bearish", cfg.NeutralBonus,
			fmt.Sprintf("RSI %.1f is below %.0f", rsi, cfg.NeutralBearish), rsi)
	}
	return nil
}

// DetectGoldenCross looks for the fast SMA crossing above the slow SMA.
func DetectGoldenCross(in Inputs, th Thresholds) *Signal {
	cfg := th.GoldenCross
	closes := in.History.Closes()
	n := len(closes)
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= cfg.FastPeriod || n < cfg.SlowPeriod+1 {
		return nil
	}

	fast := smaAt(closes, cfg.FastPeriod, n-1)
	slow := smaAt(closes, cfg.SlowPeriod, n-1)
	if slow <= 0 || fast <= slow {
		return nil
	}
	spread := fast/slow - 1

	from := n - cfg.RecentBars
	if from < cfg.SlowPeriod {
		from = cfg.SlowPeriod
	}
	for i := n - 1; i >= from; i-- {
		prevFast := smaAt(closes, cfg.FastPeriod, i-1)
		prevSlow := smaAt(closes, cfg.SlowPeriod, i-1)
		curFast := smaAt(closes, cfg.FastPeriod, i)
		curSlow := smaAt(closes, cfg.SlowPeriod, i)
		if prevFast <= prevSlow && curFast > curSlow {
			return newSignal(CategoryTechnical, "Golden Cross", cfg.CrossPoints,
				fmt.Sprintf("SMA%d crossed above SMA%d %d bars ago", cfg.FastPeriod, cfg.SlowPeriod, n-1-i), spread)
		}
	}

	return newSignal(CategoryTechnical, "Golden Cross Active", cfg.ActivePoints,
		fmt.Sprintf("SMA%d is %.1f%% above SMA%d", cfg.FastPeriod, spread*100, cfg.SlowPeriod), spread)
}

// DetectMovingAverage rewards price trading above its long averages.
func DetectMovingAverage(in Inputs, th Thresholds) *Signal {
	closes := in.History.Closes()
	n := len(closes)
	if n < 50 {
		return nil
	}
	last := closes[n-1]

	if n >= 200 {
		ma200 := sma(closes, 200)
		if ma200 > 0 && last > ma200 {
			return newSignal(CategoryTechnical, "Above MA200", th.MovingAvg.Above200Points,
				fmt.Sprintf("Price %.2f is above the 200-day average %.2f", last, ma200), last/ma200-1)
		}
	}

	ma50 := sma(closes, 50)
	if ma50 > 0 && last > ma50 {
		return newSignal(CategoryTechnical, "Above MA50", th.MovingAvg.Above50Points,
			fmt.Sprintf("Price %.2f is above the 50-day average %.2f", last, ma50), last/ma50-1)
	}
	return nil
}

// DetectMACD looks for a fresh bullish histogram cross, falling back to
// positive and rising histogram momentum.
func DetectMACD(in Inputs, th Thresholds) *Signal {
	cfg := th.MACD
	closes := in.History.Closes()
	m, ok := MACD(closes, cfg.Fast, cfg.Slow, cfg.Signal)
	if !ok {
		return nil
	}
	n := len(closes)
	hist := m.Histogram
	if hist[n-1] <= 0 {
		return nil
	}

	for i := n - 1; i > m.Start && i > n-1-cfg.CrossWithin; i-- {
		if hist[i] > 0 && hist[i-1] <= 0 {
			return newSignal(CategoryTechnical, "MACD Bullish Crossover", cfg.CrossPoints,
				fmt.Sprintf("MACD crossed above its signal line %d bars ago", n-1-i), hist[n-1])
		}
	}

	if n-2 >= m.Start && hist[n-1] > hist[n-2] {
		return newSignal(CategoryTechnical, "MACD Bullish Momentum", cfg.MomentumPoints,
			"MACD histogram is positive and rising", hist[n-1])
	}
	return nil
}

// DetectStochastic flags oversold stochastic %K readings.
func DetectStochastic(in Inputs, th Thresholds) *Signal {
	cfg := th.Stochastic
	k, ok := StochasticK(in.History.Highs(), in.History.Lows(), in.History.Closes(), cfg.Period)
	if !ok {
		return nil
	}
	switch {
	case k < cfg.Oversold:
		return newSignal(CategoryTechnical, "Stochastic Oversold", cfg.OversoldPoints,
			fmt.Sprintf("Stochastic %%K %.1f is below %.0f", k, cfg.Oversold), k)
	case k < cfg.Approaching:
		return newSignal(CategoryTechnical, "Stochastic Approaching Oversold", cfg.ApproachPoints,
			fmt.Sprintf("Stochastic %%K %.1f is below %.0f", k, cfg.Approaching), k)
	}
	return nil
}

// DetectBollinger flags closes at or near the lower Bollinger band.
func DetectBollinger(in Inputs, th Thresholds) *Signal {
	cfg := th.Bollinger
	pb, ok := PercentB(in.History.Closes(), cfg.Period, cfg.StdDev)
	if !ok {
		return nil
	}
	switch {
	case pb <= cfg.Touch:
		return newSignal(CategoryTechnical, "Bollinger Lower Band Touch", cfg.TouchPoints,
			fmt.Sprintf("Price is at the lower Bollinger band (%%B %.2f)", pb), pb)
	case pb <= cfg.Near:
		return newSignal(CategoryTechnical, "Near Bollinger Lower Band", cfg.NearPoints,
			fmt.Sprintf("Price is near the lower Bollinger band (%%B %.2f)", pb), pb)
	}
	return nil
}

// Detect52WeekRange rewards prices near the bottom of the 52-week range.
func Detect52WeekRange(in Inputs, th Thresholds) *Signal {
	cfg := th.Range52W
	s := in.Snapshot
	price := in.Price()
	if price <= 0 || s.Low52W <= 0 || s.High52W <= s.Low52W {
		return nil
	}

	distLow, ok := ratio(price-s.Low52W, s.Low52W)
	if !ok {
		return nil
	}
	// The snapshot's low lags a price making a fresh low.
	if distLow < 0 {
		return newSignal(CategoryTechnical, "Near 52-Week Low", cfg.NearLowPoints,
			fmt.Sprintf("Price is %.1f%% below the 52-week low %.2f", -distLow*100, s.Low52W), distLow)
	}
	if distLow <= cfg.NearLowPct {
		return newSignal(CategoryTechnical, "Near 52-Week Low", cfg.NearLowPoints,
			fmt.Sprintf("Price is %.1f%% above the 52-week low %.2f", distLow*100, s.Low52W), distLow)
	}

	position, ok := ratio(price-s.Low52W, s.High52W-s.Low52W)
	if ok && position <= cfg.LowerRangePct {
		return newSignal(CategoryTechnical, "Lower 52-Week Range", cfg.LowerPoints,
			fmt.Sprintf("Price sits in the bottom %.0f%% of its 52-week range", position*100), position)
	}
	return nil
}

// DetectPullback rewards a measured retreat from a recent high while the
// long-term trend is still up.
func DetectPullback(in Inputs, th Thresholds) *Signal {
	cfg := th.Pullback
	closes := in.History.Closes()
	n := len(closes)
	if n < 200 || cfg.LookbackBars <= 0 || n < cfg.LookbackBars {
		return nil
	}
	last := closes[n-1]
	ma200 := sma(closes, 200)
	if ma200 <= 0 || last <= ma200 {
		return nil
	}

	_, high := minMax(highsOrCloses(in), cfg.LookbackBars)
	drawdown, ok := ratio(high-last, high)
	if !ok {
		return nil
	}

	switch {
	case drawdown >= cfg.DeepMin && drawdown <= cfg.DeepMax:
		return newSignal(CategoryTechnical, "Pullback in Uptrend", cfg.DeepPoints,
			fmt.Sprintf("Price is %.1f%% below its %d-bar high while above the 200-day average", drawdown*100, cfg.LookbackBars), drawdown)
	case drawdown >= cfg.ShallowMin && drawdown < cfg.DeepMin:
		return newSignal(CategoryTechnical, "Shallow Pullback", cfg.ShallowPoints,
			fmt.Sprintf("Price is %.1f%% below its %d-bar high", drawdown*100, cfg.LookbackBars), drawdown)
	}
	return nil
}

// DetectRecovery rewards a bounce off a recent low while price is still
// below its 50-day average.
func DetectRecovery(in Inputs, th Thresholds) *Signal {
	cfg := th.Recovery
	closes := in.History.Closes()
	n := len(closes)
	if n < 50 || cfg.LookbackBars < 2 || n < cfg.LookbackBars {
		return nil
	}
	last := closes[n-1]
	ma50 := sma(closes, 50)
	if ma50 <= 0 || last >= ma50 {
		return nil
	}

	lows := lowsOrCloses(in)
	low, _ := minMax(lows, cfg.LookbackBars)
	bounce, ok := ratio(last-low, low)
	if ok && bounce >= cfg.MinBounce {
		return newSignal(CategoryTechnical, "Recovery from Low", cfg.BouncePoints,
			fmt.Sprintf("Price has recovered %.1f%% from its %d-bar low", bounce*100, cfg.LookbackBars), bounce)
	}

	half := cfg.LookbackBars / 2
	recentLow, _ := minMax(lows, half)
	priorLow, _ := minMax(lows[:n-half], half)
	if priorLow > 0 && recentLow > priorLow {
		lift := recentLow/priorLow - 1
		return newSignal(CategoryTechnical, "Higher Low Forming", cfg.HigherLowPoints,
			fmt.Sprintf("Latest %d-bar low is %.1f%% above the prior low", half, lift*100), lift)
	}
	return nil
}

// DetectVolume rewards unusually heavy volume on an up day.
func DetectVolume(in Inputs, th Thresholds) *Signal {
	cfg := th.Volume
	s := in.Snapshot
	rel, ok := ratio(s.Volume, s.AverageVolume)
	if !ok || rel <= 0 {
		return nil
	}

	switch {
	case rel >= cfg.SurgeRatio && upDay(in):
		return newSignal(CategoryTechnical, "Volume Surge", cfg.SurgePoints,
			fmt.Sprintf("Volume is %.1fx average on an up day", rel), rel)
	case rel >= cfg.AboveRatio:
		return newSignal(CategoryTechnical, "Above Average Volume", cfg.AbovePoints,
			fmt.Sprintf("Volume is %.1fx average", rel), rel)
	}
	return nil
}

func upDay(in Inputs) bool {
	if in.Snapshot.PreviousClose > 0 {
		return in.Price() > in.Snapshot.PreviousClose
	}
	closes := in.History.Closes()
	n := len(closes)
	return n >= 2 && closes[n-1] > closes[n-2]
}

// highsOrCloses returns bar highs, substituting closes when the feed only
// carries closing prices.
func highsOrCloses(in Inputs) []float64 {
	out := in.History.Highs()
	for i, b := range in.History {
		if out[i] <= 0 {
			out[i] = b.Close
		}
	}
	return out
}

func lowsOrCloses(in Inputs) []float64 {
	out := in.History.Lows()
	for i, b := range in.History {
		if out[i] <= 0 {
			out[i] = b.Close
		}
	}
	return out
}
