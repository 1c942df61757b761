package signals

import (
	"time"

	"github.com/ternarybob/screener/internal/models"
)

var testStart = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

// history builds daily bars whose OHLC all equal the close.
func history(closes []float64) models.PriceHistory {
	h := make(models.PriceHistory, len(closes))
	for i, c := range closes {
		h[i] = models.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return h
}

// linear returns n evenly spaced values from a to b inclusive.
func linear(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + step*float64(i)
	}
	return out
}

func flat(v float64, n int) []float64 {
	return linear(v, v, n)
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
