package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/screener/internal/evaluation"
)

// ErrNotFound is returned when a stored record does not exist
var ErrNotFound = errors.New("not found")

// EvaluationStorage - interface for evaluation persistence
type EvaluationStorage interface {
	SaveEvaluation(ctx context.Context, ev *evaluation.Evaluation) error
	GetEvaluation(ctx context.Context, id string) (*evaluation.Evaluation, error)

	// ListEvaluations returns a symbol's evaluations newest first. limit <= 0 returns all.
	ListEvaluations(ctx context.Context, symbol string, limit int) ([]evaluation.Evaluation, error)
	LatestEvaluation(ctx context.Context, symbol string) (*evaluation.Evaluation, error)
	ListBatch(ctx context.Context, batchID string) ([]evaluation.Evaluation, error)

	// DeleteBefore removes evaluations made before cutoff and returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RegimeStorage - interface for regime history persistence
type RegimeStorage interface {
	SaveRegime(ctx context.Context, rec *evaluation.RegimeRecord) error
	LatestRegime(ctx context.Context, market string) (*evaluation.RegimeRecord, error)

	// ListRegimes returns a market's records newest first. limit <= 0 returns all.
	ListRegimes(ctx context.Context, market string, limit int) ([]evaluation.RegimeRecord, error)
}

// StorageManager - interface for managing all storage backends
type StorageManager interface {
	EvaluationStorage() EvaluationStorage
	RegimeStorage() RegimeStorage

	// Compact reclaims space freed by deletes and returns the number of rewrites.
	Compact() (int, error)
	Close() error
}
