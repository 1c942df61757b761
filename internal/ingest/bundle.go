// Package ingest loads market data bundles from JSON or YAML files,
// validates them and converts provider scales into the fractions the
// scoring engine expects. Scale conversion happens here and nowhere else.
package ingest

import (
	"time"

	"github.com/ternarybob/screener/internal/models"
	"github.com/ternarybob/screener/internal/regime"
	"github.com/ternarybob/screener/internal/signals"
)

// Scale declares how percent-like fundamental fields are expressed.
type Scale string

const (
	// ScaleDecimal means 0.15 == 15%. This is what the engine consumes.
	ScaleDecimal Scale = "decimal"
	// ScalePercent means 15 == 15%. Divided by 100 during Normalize.
	ScalePercent Scale = "percent"
)

// Bundle is one input file: a set of tickers plus the market-wide
// readings used for regime classification.
type Bundle struct {
	Scale Scale     `json:"scale,omitempty" yaml:"scale,omitempty" validate:"omitempty,oneof=percent decimal"`
	AsOf  time.Time `json:"as_of,omitempty" yaml:"as_of,omitempty"`
	// Exchange qualifies bare symbols, e.g. "ASX" turns "gnp" into "ASX:GNP".
	Exchange  string      `json:"exchange,omitempty" yaml:"exchange,omitempty"`
	Benchmark *Series     `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Market    *MarketData `json:"market,omitempty" yaml:"market,omitempty"`
	Tickers   []Ticker    `json:"tickers" yaml:"tickers" validate:"dive"`
}

// Series is a named price history.
type Series struct {
	Symbol  string              `json:"symbol" yaml:"symbol" validate:"required"`
	History models.PriceHistory `json:"history" yaml:"history" validate:"dive"`
}

// MarketData holds the whole-market readings for the regime classifier.
type MarketData struct {
	VolatilityIndex *float64 `json:"volatility_index,omitempty" yaml:"volatility_index,omitempty" validate:"omitempty,gte=0"`
	// Breadth is the percent of the universe above its 50-day average.
	// When absent it is derived from Universe.
	Breadth  *float64 `json:"breadth,omitempty" yaml:"breadth,omitempty" validate:"omitempty,gte=0,lte=100"`
	Universe []Series `json:"universe,omitempty" yaml:"universe,omitempty" validate:"dive"`
}

// Ticker is the data for one symbol. Every part except Symbol is optional.
type Ticker struct {
	Symbol       string                    `json:"symbol" yaml:"symbol" validate:"required"`
	Snapshot     *models.MarketSnapshot    `json:"snapshot,omitempty" yaml:"snapshot,omitempty" validate:"omitempty"`
	History      models.PriceHistory       `json:"history,omitempty" yaml:"history,omitempty" validate:"dive"`
	Fundamentals models.FundamentalProfile `json:"fundamentals,omitempty" yaml:"fundamentals,omitempty"`
	Analyst      models.AnalystProfile     `json:"analyst,omitempty" yaml:"analyst,omitempty"`
}

// Inputs converts the ticker into detector inputs anchored at asOf.
func (t Ticker) Inputs(asOf time.Time) signals.Inputs {
	in := signals.Inputs{
		History:      t.History,
		Fundamentals: t.Fundamentals,
		Analyst:      t.Analyst,
		AsOf:         asOf,
	}
	if t.Snapshot != nil {
		in.Snapshot = *t.Snapshot
	}
	if in.Snapshot.Symbol == "" {
		in.Snapshot.Symbol = t.Symbol
	}
	return in
}

// BenchmarkSymbol returns the benchmark symbol, or fallback when the
// bundle carries none.
func (b *Bundle) BenchmarkSymbol(fallback string) string {
	if b.Benchmark != nil && b.Benchmark.Symbol != "" {
		return b.Benchmark.Symbol
	}
	return fallback
}

// BenchmarkHistory returns the benchmark bars, if any.
func (b *Bundle) BenchmarkHistory() models.PriceHistory {
	if b.Benchmark == nil {
		return nil
	}
	return b.Benchmark.History
}

// RegimeInputs gathers the market readings. When no universe is given the
// tickers' own histories stand in for it.
func (b *Bundle) RegimeInputs() regime.Inputs {
	in := regime.Inputs{
		AsOf:      b.AsOf,
		Benchmark: b.BenchmarkHistory(),
	}
	if b.Market != nil {
		in.Volatility = b.Market.VolatilityIndex
		in.Breadth = b.Market.Breadth
		for _, s := range b.Market.Universe {
			in.Universe = append(in.Universe, s.History)
		}
	}
	if len(in.Universe) == 0 {
		for _, t := range b.Tickers {
			if len(t.History) > 0 {
				in.Universe = append(in.Universe, t.History)
			}
		}
	}
	return in
}

// Symbols lists the ticker symbols in bundle order.
func (b *Bundle) Symbols() []string {
	out := make([]string, len(b.Tickers))
	for i, t := range b.Tickers {
		out[i] = t.Symbol
	}
	return out
}
