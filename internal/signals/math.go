package signals

import "math"

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clamp restricts a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// round rounds to specified decimal places
func round(value float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(value*mult) / mult
}

// ratio divides num by den and reports false for non-positive or
// non-finite denominators and non-finite results.
func ratio(num, den float64) (float64, bool) {
	if !finite(num) || !finite(den) || den <= 0 {
		return 0, false
	}
	r := num / den
	if !finite(r) {
		return 0, false
	}
	return r, true
}

// sma calculates the simple moving average of the last n values
func sma(values []float64, n int) float64 {
	if len(values) < n || n <= 0 {
		return 0
	}
	sum := 0.0
	for i := len(values) - n; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(n)
}

// smaAt calculates the n-period SMA ending at index end (inclusive).
func smaAt(values []float64, n, end int) float64 {
	if n <= 0 || end < n-1 || end >= len(values) {
		return 0
	}
	sum := 0.0
	for i := end - n + 1; i <= end; i++ {
		sum += values[i]
	}
	return sum / float64(n)
}

// emaSeries returns the exponential moving average for every index,
// seeded with the SMA of the first n values. Entries before n-1 are zero.
func emaSeries(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	if n <= 0 || len(values) < n {
		return out
	}
	k := 2.0 / float64(n+1)
	out[n-1] = smaAt(values, n, n-1)
	for i := n; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// stddev calculates the population standard deviation of the last n values
func stddev(values []float64, n int) float64 {
	if n <= 1 || len(values) < n {
		return 0
	}
	mean := sma(values, n)
	sum := 0.0
	for i := len(values) - n; i < len(values); i++ {
		d := values[i] - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// minMax returns the lowest and highest value of the last n entries.
func minMax(values []float64, n int) (float64, float64) {
	if n <= 0 || len(values) < n {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := len(values) - n; i < len(values); i++ {
		lo = math.Min(lo, values[i])
		hi = math.Max(hi, values[i])
	}
	return lo, hi
}
