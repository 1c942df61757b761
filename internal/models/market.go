// Package models defines the plain data types exchanged between the data
// loading layer and the scoring engine. None of these types carry behaviour
// beyond small read-only helpers; they serialize directly to JSON/TOML/YAML.
package models

import "time"

// Bar is a single OHLCV bar.
type Bar struct {
	Date   time.Time `json:"date" yaml:"date"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close" validate:"gte=0"`
	Volume float64   `json:"volume" yaml:"volume" validate:"gte=0"`
}

// PriceHistory is an ordered sequence of bars, oldest first.
type PriceHistory []Bar

// Closes returns the closing prices, oldest first.
func (h PriceHistory) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high prices, oldest first.
func (h PriceHistory) Highs() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices, oldest first.
func (h PriceHistory) Lows() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Low
	}
	return out
}

// Last returns the most recent bar and false when the history is empty.
func (h PriceHistory) Last() (Bar, bool) {
	if len(h) == 0 {
		return Bar{}, false
	}
	return h[len(h)-1], true
}

// MarketSnapshot is the point-in-time quote for one symbol.
type MarketSnapshot struct {
	Symbol        string  `json:"symbol" yaml:"symbol" validate:"required"`
	Price         float64 `json:"price" yaml:"price" validate:"gt=0"`
	PreviousClose float64 `json:"previous_close" yaml:"previous_close" validate:"gte=0"`
	Volume        float64 `json:"volume" yaml:"volume" validate:"gte=0"`
	AverageVolume float64 `json:"average_volume" yaml:"average_volume" validate:"gte=0"`
	Average50     float64 `json:"average_50" yaml:"average_50" validate:"gte=0"`
	Average200    float64 `json:"average_200" yaml:"average_200" validate:"gte=0"`
	High52W       float64 `json:"high_52w" yaml:"high_52w" validate:"gte=0"`
	Low52W        float64 `json:"low_52w" yaml:"low_52w" validate:"gte=0"`
	MarketCap     float64 `json:"market_cap" yaml:"market_cap" validate:"gte=0"`
}

// ChangePct returns the change from the previous close as a fraction.
// Zero when the previous close is unknown.
func (s MarketSnapshot) ChangePct() float64 {
	if s.PreviousClose <= 0 {
		return 0
	}
	return (s.Price - s.PreviousClose) / s.PreviousClose
}
