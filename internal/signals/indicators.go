package signals

// Indicator calculations over closing prices, oldest first. Each returns
// ok=false when the series is shorter than the indicator needs.

// RSI computes Wilder's relative strength index over the whole series.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	gain, loss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if change > 0 {
			g = change
		} else {
			l = -change
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACDResult holds the MACD line, signal line and histogram series.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
	// First index at which Histogram is defined.
	Start int
}

// MACD computes the MACD line (fast EMA - slow EMA), its signal EMA and
// histogram.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) < slow+signal {
		return MACDResult{}, false
	}
	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	line := make([]float64, len(closes))
	for i := slow - 1; i < len(closes); i++ {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal EMA is seeded from the first signal-length window of the line.
	sig := make([]float64, len(closes))
	start := slow - 1 + signal - 1
	sum := 0.0
	for i := slow - 1; i <= start; i++ {
		sum += line[i]
	}
	sig[start] = sum / float64(signal)
	k := 2.0 / float64(signal+1)
	for i := start + 1; i < len(closes); i++ {
		sig[i] = line[i]*k + sig[i-1]*(1-k)
	}

	hist := make([]float64, len(closes))
	for i := start; i < len(closes); i++ {
		hist[i] = line[i] - sig[i]
	}
	return MACDResult{Line: line, Signal: sig, Histogram: hist, Start: start}, true
}

// StochasticK computes the fast %K of the last bar.
func StochasticK(highs, lows, closes []float64, period int) (float64, bool) {
	n := len(closes)
	if period <= 0 || n < period || len(highs) != n || len(lows) != n {
		return 0, false
	}
	lo, _ := minMax(lows, period)
	_, hi := minMax(highs, period)
	if hi-lo <= 0 {
		return 50, true
	}
	return (closes[n-1] - lo) / (hi - lo) * 100, true
}

// PercentB returns the position of the last close within the Bollinger
// bands: 0 at the lower band, 1 at the upper band.
func PercentB(closes []float64, period int, k float64) (float64, bool) {
	if period <= 1 || len(closes) < period {
		return 0, false
	}
	mid := sma(closes, period)
	sd := stddev(closes, period)
	width := 2 * k * sd
	if width <= 0 {
		return 0.5, true
	}
	lower := mid - k*sd
	return (closes[len(closes)-1] - lower) / width, true
}
