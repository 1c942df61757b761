// Package screener runs evaluations over input bundles: one symbol at a
// time or a whole bundle across a bounded worker pool, followed by the
// market regime. Results are persisted when storage is configured.
package screener

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/evaluation"
	"github.com/ternarybob/screener/internal/ingest"
	"github.com/ternarybob/screener/internal/interfaces"
	"github.com/ternarybob/screener/internal/momentum"
	"github.com/ternarybob/screener/internal/regime"
	"github.com/ternarybob/screener/internal/relstrength"
	"github.com/ternarybob/screener/internal/services/workers"
	"github.com/ternarybob/screener/internal/signals"
)

// Failure records a symbol that could not be evaluated.
type Failure struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// RegimeReport is the market classification attached to a batch.
type RegimeReport struct {
	Market     string            `json:"market"`
	Analysis   regime.Analysis   `json:"analysis"`
	Transition regime.Transition `json:"transition"`
}

// Batch is the result of evaluating one bundle.
type Batch struct {
	ID          string                  `json:"id"`
	Source      string                  `json:"source,omitempty"`
	AsOf        time.Time               `json:"as_of"`
	Benchmark   string                  `json:"benchmark"`
	StartedAt   time.Time               `json:"started_at"`
	CompletedAt time.Time               `json:"completed_at"`
	Regime      *RegimeReport           `json:"regime,omitempty"`
	Evaluations []evaluation.Evaluation `json:"evaluations"`
	Failures    []Failure               `json:"failures,omitempty"`
	Skipped     int                     `json:"skipped,omitempty"`
}

// Service evaluates bundles.
type Service struct {
	config     *common.Config
	evaluator  *evaluation.Evaluator
	classifier *regime.Classifier
	loader     ingest.Loader
	storage    interfaces.StorageManager
	logger     arbor.ILogger
}

// NewService creates a screener service. storage may be nil, in which case
// nothing is persisted and transitions are estimated without history.
func NewService(config *common.Config, storage interfaces.StorageManager, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		evaluator: evaluation.NewEvaluator(
			signals.NewScorerWithGroups(config.Scoring, config.TechnicalGroups()),
			momentum.NewAnalyzer(config.Momentum),
			relstrength.NewAnalyzer(config.RelativeStrength),
		),
		classifier: regime.NewClassifier(config.Regime),
		loader:     ingest.Loader{DefaultExchange: config.Screener.DefaultExchange},
		storage:    storage,
		logger:     logger,
	}
}

// Loader returns the bundle loader configured with the default exchange.
func (s *Service) Loader() ingest.Loader {
	return s.loader
}

func (s *Service) persist() bool {
	return s.storage != nil && s.config.Screener.Persist
}

// Evaluate scores a single symbol and stores the result.
func (s *Service) Evaluate(ctx context.Context, symbol string, in signals.Inputs, bench evaluation.Benchmark) (*evaluation.Evaluation, error) {
	return s.evaluate(ctx, "", symbol, in, bench)
}

func (s *Service) evaluate(ctx context.Context, batchID, symbol string, in signals.Inputs, bench evaluation.Benchmark) (*evaluation.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ev := s.evaluator.Evaluate(symbol, in, bench)
	ev.ID = "eval_" + uuid.New().String()
	ev.BatchID = batchID
	ev.EvaluatedAt = time.Now()

	if s.persist() {
		if err := s.storage.EvaluationStorage().SaveEvaluation(ctx, &ev); err != nil {
			return nil, fmt.Errorf("failed to store evaluation for %s: %w", symbol, err)
		}
	}
	return &ev, nil
}

// EvaluateFile loads a bundle file and evaluates it.
func (s *Service) EvaluateFile(ctx context.Context, path string) (*Batch, error) {
	b, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	batch, err := s.EvaluateAll(ctx, b)
	if batch != nil {
		batch.Source = path
	}
	return batch, err
}

// EvaluateAll scores every ticker in the bundle across the worker pool and
// classifies the market regime. A ticker that fails or panics is reported
// in Failures without affecting the others. On cancellation the batch
// holds whatever finished and the context error is returned.
func (s *Service) EvaluateAll(ctx context.Context, b *ingest.Bundle) (*Batch, error) {
	batch := &Batch{
		ID:        "batch_" + uuid.New().String(),
		AsOf:      b.AsOf,
		Benchmark: b.BenchmarkSymbol(s.config.Screener.Benchmark),
		StartedAt: time.Now(),
	}
	bench := evaluation.Benchmark{Symbol: batch.Benchmark, History: b.BenchmarkHistory()}

	s.logger.Info().
		Str("batch_id", batch.ID).
		Int("tickers", len(b.Tickers)).
		Int("workers", s.config.Screener.Concurrency).
		Msg("Starting batch evaluation")

	var mu sync.Mutex
	pool := workers.NewPool(ctx, s.config.Screener.Concurrency, s.logger)
	pool.Start()

	for _, t := range b.Tickers {
		t := t
		err := pool.Submit(workers.Job{Name: t.Symbol, Run: func(ctx context.Context) error {
			ev, err := s.evaluate(ctx, batch.ID, t.Symbol, t.Inputs(b.AsOf), bench)
			if err != nil {
				return err
			}
			mu.Lock()
			batch.Evaluations = append(batch.Evaluations, *ev)
			mu.Unlock()
			return nil
		}})
		if err != nil {
			batch.Skipped++
		}
	}
	pool.Wait()

	for _, jerr := range pool.Errors() {
		batch.Failures = append(batch.Failures, Failure{Symbol: jerr.Name, Error: jerr.Err.Error()})
	}
	batch.Skipped += pool.Skipped()
	Rank(batch.Evaluations)
	sort.Slice(batch.Failures, func(i, j int) bool { return batch.Failures[i].Symbol < batch.Failures[j].Symbol })

	if ctx.Err() == nil {
		report, err := s.ClassifyRegime(ctx, batch.Benchmark, b.RegimeInputs())
		if err != nil {
			s.logger.Warn().Err(err).Msg("Regime classification failed")
		} else {
			batch.Regime = report
		}
	}
	batch.CompletedAt = time.Now()

	s.logger.Info().
		Str("batch_id", batch.ID).
		Int("evaluated", len(batch.Evaluations)).
		Int("failed", len(batch.Failures)).
		Int("skipped", batch.Skipped).
		Msg("Batch evaluation complete")

	return batch, ctx.Err()
}

// ClassifyRegime computes the regime and estimates the transition against
// the last stored snapshot for the market, then stores the new record.
func (s *Service) ClassifyRegime(ctx context.Context, market string, in regime.Inputs) (*RegimeReport, error) {
	metrics := regime.ComputeMetrics(in, s.classifier.Config())
	analysis := s.classifier.Classify(metrics)

	var previous *regime.Metrics
	if s.persist() {
		rec, err := s.storage.RegimeStorage().LatestRegime(ctx, market)
		switch {
		case err == nil:
			previous = &rec.Analysis.Metrics
		case errors.Is(err, interfaces.ErrNotFound):
		default:
			s.logger.Warn().Err(err).Str("market", market).Msg("Failed to load previous regime")
		}
	}

	report := &RegimeReport{
		Market:     market,
		Analysis:   analysis,
		Transition: s.classifier.EstimateTransition(analysis, previous),
	}

	if s.persist() {
		rec := &evaluation.RegimeRecord{
			Market:     market,
			Analysis:   analysis,
			Transition: &report.Transition,
		}
		if err := s.storage.RegimeStorage().SaveRegime(ctx, rec); err != nil {
			return report, fmt.Errorf("failed to store regime: %w", err)
		}
	}

	s.logger.Info().
		Str("market", market).
		Str("regime", string(analysis.Regime)).
		Float64("confidence", analysis.Confidence).
		Str("direction", string(report.Transition.Direction)).
		Msg("Market regime classified")

	return report, nil
}

// Rank orders evaluations by composite score, highest first, with the
// symbol as a stable tie-break.
func Rank(evs []evaluation.Evaluation) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Composite() != evs[j].Composite() {
			return evs[i].Composite() > evs[j].Composite()
		}
		return evs[i].Symbol < evs[j].Symbol
	})
}

// History returns stored evaluations for a symbol, newest first.
func (s *Service) History(ctx context.Context, symbol string, limit int) ([]evaluation.Evaluation, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("history requires storage")
	}
	return s.storage.EvaluationStorage().ListEvaluations(ctx, symbol, limit)
}

// RegimeHistory returns stored regime records for a market, newest first.
func (s *Service) RegimeHistory(ctx context.Context, market string, limit int) ([]evaluation.RegimeRecord, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("history requires storage")
	}
	return s.storage.RegimeStorage().ListRegimes(ctx, market, limit)
}
