package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/screener/internal/evaluation"
	"github.com/ternarybob/screener/internal/interfaces"
)

// EvaluationStorage implements the EvaluationStorage interface for Badger
type EvaluationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEvaluationStorage creates a new EvaluationStorage instance
func NewEvaluationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EvaluationStorage {
	return &EvaluationStorage{
		db:     db,
		logger: logger,
	}
}

// SaveEvaluation upserts an evaluation, assigning an ID and timestamp when missing
func (s *EvaluationStorage) SaveEvaluation(ctx context.Context, ev *evaluation.Evaluation) error {
	if ev.Symbol == "" {
		return fmt.Errorf("evaluation symbol is required")
	}
	if ev.ID == "" {
		ev.ID = "eval_" + uuid.New().String()
	}
	if ev.EvaluatedAt.IsZero() {
		ev.EvaluatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(ev.ID, ev); err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// GetEvaluation retrieves an evaluation by ID
func (s *EvaluationStorage) GetEvaluation(ctx context.Context, id string) (*evaluation.Evaluation, error) {
	var ev evaluation.Evaluation
	if err := s.db.Store().Get(id, &ev); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return &ev, nil
}

// ListEvaluations returns a symbol's evaluations, newest first
func (s *EvaluationStorage) ListEvaluations(ctx context.Context, symbol string, limit int) ([]evaluation.Evaluation, error) {
	query := badgerhold.Where("Symbol").Eq(symbol).Index("Symbol").SortBy("EvaluatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var out []evaluation.Evaluation
	if err := s.db.Store().Find(&out, query); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return out, nil
}

// LatestEvaluation returns the most recent evaluation for a symbol
func (s *EvaluationStorage) LatestEvaluation(ctx context.Context, symbol string) (*evaluation.Evaluation, error) {
	list, err := s.ListEvaluations(ctx, symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("evaluation for %s: %w", symbol, interfaces.ErrNotFound)
	}
	return &list[0], nil
}

// ListBatch returns every evaluation from one batch, highest composite first
func (s *EvaluationStorage) ListBatch(ctx context.Context, batchID string) ([]evaluation.Evaluation, error) {
	var out []evaluation.Evaluation
	if err := s.db.Store().Find(&out, badgerhold.Where("BatchID").Eq(batchID).Index("BatchID")); err != nil {
		return nil, fmt.Errorf("failed to list batch: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Composite() != out[j].Composite() {
			return out[i].Composite() > out[j].Composite()
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out, nil
}

// DeleteBefore removes evaluations made before cutoff
func (s *EvaluationStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("EvaluatedAt").Lt(cutoff)
	count, err := s.db.Store().Count(&evaluation.Evaluation{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count old evaluations: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	if err := s.db.Store().DeleteMatching(&evaluation.Evaluation{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete old evaluations: %w", err)
	}

	s.logger.Debug().Int("count", int(count)).Str("cutoff", cutoff.Format(time.RFC3339)).Msg("Deleted old evaluations")
	return int(count), nil
}
