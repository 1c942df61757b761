// Package signals provides the signal detectors and the group-capped
// aggregator that turn a market snapshot, price history, fundamental and
// analyst profile into a bounded, explainable composite score.
// All detectors are pure functions and perform no I/O.
package signals

import (
	"time"

	"github.com/ternarybob/screener/internal/models"
)

// Category groups detectors. Each category has its own ceiling.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryFundamental Category = "fundamental"
	CategoryAnalyst     Category = "analyst"
)

// Categories lists the categories in scoring order.
var Categories = []Category{CategoryTechnical, CategoryFundamental, CategoryAnalyst}

// Signal is one named, pointed unit of evidence.
type Signal struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Points      float64  `json:"points"`
	Description string   `json:"description"`
	Value       *float64 `json:"value,omitempty"`
}

func newSignal(cat Category, name string, points float64, description string, value float64) *Signal {
	v := round(value, 4)
	return &Signal{
		Name:        name,
		Category:    cat,
		Points:      points,
		Description: description,
		Value:       &v,
	}
}

// Inputs bundles everything a detector may read. Any part may be empty;
// detectors that need a missing part return nil.
type Inputs struct {
	Snapshot     models.MarketSnapshot
	History      models.PriceHistory
	Fundamentals models.FundamentalProfile
	Analyst      models.AnalystProfile
	// AsOf anchors date windows such as "upgrades in the last 90 days".
	// Zero means the date of the last bar, or time.Now when there are none.
	AsOf time.Time
}

// EvaluationDate resolves the date that trailing windows are measured
// back from.
func (in Inputs) EvaluationDate() time.Time {
	if !in.AsOf.IsZero() {
		return in.AsOf
	}
	if last, ok := in.History.Last(); ok && !last.Date.IsZero() {
		return last.Date
	}
	return time.Now()
}

// Price returns the current price, preferring the snapshot.
func (in Inputs) Price() float64 {
	if in.Snapshot.Price > 0 {
		return in.Snapshot.Price
	}
	if last, ok := in.History.Last(); ok {
		return last.Close
	}
	return 0
}

// Detector inspects the inputs and returns at most one signal.
type Detector struct {
	Name     string
	Category Category
	Detect   func(in Inputs, th Thresholds) *Signal
}
