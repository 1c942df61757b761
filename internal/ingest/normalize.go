package ingest

import (
	"time"

	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/models"
)

// Normalize canonicalizes symbols and converts percent-scaled fundamentals
// to fractions. Scale is set to decimal afterwards, so a second call
// leaves the bundle unchanged.
func Normalize(b *Bundle) {
	for i := range b.Tickers {
		t := &b.Tickers[i]
		t.Symbol = common.ParseTicker(t.Symbol, b.Exchange).String()
		if t.Snapshot != nil {
			t.Snapshot.Symbol = common.ParseTicker(t.Snapshot.Symbol, b.Exchange).String()
			if t.Snapshot.Symbol == "" {
				t.Snapshot.Symbol = t.Symbol
			}
		}
		if b.Scale == ScalePercent {
			percentToFraction(&t.Fundamentals)
		}
	}

	if b.AsOf.IsZero() {
		b.AsOf = latestBar(b)
	}
	b.Scale = ScaleDecimal
}

func percentToFraction(f *models.FundamentalProfile) {
	for _, p := range []*float64{
		f.ProfitMargin,
		f.OperatingMargin,
		f.ROE,
		f.DebtToEquity,
		f.RevenueGrowth,
		f.InstitutionalOwnership,
		f.InstitutionalOwnershipPrior,
	} {
		if p != nil {
			*p /= 100
		}
	}
}

// latestBar returns the most recent bar date across the bundle.
func latestBar(b *Bundle) (latest time.Time) {
	consider := func(h models.PriceHistory) {
		if last, ok := h.Last(); ok && last.Date.After(latest) {
			latest = last.Date
		}
	}
	if b.Benchmark != nil {
		consider(b.Benchmark.History)
	}
	for _, t := range b.Tickers {
		consider(t.History)
	}
	return latest
}

func ascending(h models.PriceHistory) bool {
	for i := 1; i < len(h); i++ {
		if h[i].Date.IsZero() || h[i-1].Date.IsZero() {
			continue
		}
		if h[i].Date.Before(h[i-1].Date) {
			return false
		}
	}
	return true
}
