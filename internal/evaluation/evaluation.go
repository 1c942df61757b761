// Package evaluation combines the score card, momentum and relative
// strength of one symbol into a single record, and defines the stored
// regime record. Evaluator is pure; persistence lives in storage.
package evaluation

import (
	"time"

	"github.com/ternarybob/screener/internal/models"
	"github.com/ternarybob/screener/internal/momentum"
	"github.com/ternarybob/screener/internal/regime"
	"github.com/ternarybob/screener/internal/relstrength"
	"github.com/ternarybob/screener/internal/signals"
)

// Evaluation is the complete result for one symbol.
type Evaluation struct {
	ID               string                `json:"id"`
	BatchID          string                `json:"batch_id,omitempty" badgerhold:"index"`
	Symbol           string                `json:"symbol" badgerhold:"index"`
	AsOf             time.Time             `json:"as_of"`
	EvaluatedAt      time.Time             `json:"evaluated_at"`
	Price            float64               `json:"price"`
	Score            signals.ScoreCard     `json:"score"`
	Momentum         momentum.Analysis     `json:"momentum"`
	RelativeStrength *relstrength.Analysis `json:"relative_strength,omitempty"`
	// Notes flag data gaps that limited the evaluation.
	Notes []string `json:"notes,omitempty"`
}

// Composite is shorthand for Score.Composite.
func (e Evaluation) Composite() float64 {
	return e.Score.Composite
}

// RegimeRecord is one stored regime classification.
type RegimeRecord struct {
	ID         string             `json:"id"`
	Market     string             `json:"market" badgerhold:"index"`
	Analysis   regime.Analysis    `json:"analysis"`
	Transition *regime.Transition `json:"transition,omitempty"`
	RecordedAt time.Time          `json:"recorded_at"`
}

// Evaluator runs the per-symbol analyses.
type Evaluator struct {
	scorer   *signals.Scorer
	momentum *momentum.Analyzer
	strength *relstrength.Analyzer
}

// NewEvaluator creates a new evaluator
func NewEvaluator(scorer *signals.Scorer, mom *momentum.Analyzer, rs *relstrength.Analyzer) *Evaluator {
	return &Evaluator{scorer: scorer, momentum: mom, strength: rs}
}

// Benchmark is the reference series for relative strength.
type Benchmark struct {
	Symbol  string
	History models.PriceHistory
}

// Evaluate scores one symbol. Relative strength is skipped when either
// history is empty. The record has no ID; callers assign one when they
// persist it.
func (e *Evaluator) Evaluate(symbol string, in signals.Inputs, bench Benchmark) Evaluation {
	ev := Evaluation{
		Symbol:   symbol,
		AsOf:     in.EvaluationDate(),
		Price:    in.Price(),
		Score:    e.scorer.Score(symbol, in),
		Momentum: e.momentum.Analyze(in),
	}

	switch {
	case len(in.History) == 0:
		ev.Notes = append(ev.Notes, "no price history: technical signals and momentum returns unavailable")
	case len(bench.History) == 0:
		ev.Notes = append(ev.Notes, "no benchmark history: relative strength skipped")
	default:
		rs := e.strength.Analyze(bench.Symbol, in.History, bench.History)
		ev.RelativeStrength = &rs
	}
	if in.Fundamentals.PEG == nil && in.Fundamentals.ROE == nil && in.Fundamentals.ProfitMargin == nil {
		ev.Notes = append(ev.Notes, "no fundamental ratios")
	}
	if len(in.Analyst.Recommendations) == 0 && in.Analyst.TargetMean == nil {
		ev.Notes = append(ev.Notes, "no analyst coverage")
	}
	return ev
}
