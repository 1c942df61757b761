package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/screener/internal/evaluation"
	"github.com/ternarybob/screener/internal/interfaces"
)

// RegimeStorage implements the RegimeStorage interface for Badger
type RegimeStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRegimeStorage creates a new RegimeStorage instance
func NewRegimeStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RegimeStorage {
	return &RegimeStorage{
		db:     db,
		logger: logger,
	}
}

// SaveRegime stores a regime record, assigning an ID and timestamp when missing
func (s *RegimeStorage) SaveRegime(ctx context.Context, rec *evaluation.RegimeRecord) error {
	if rec.ID == "" {
		rec.ID = "regime_" + uuid.New().String()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}

	if err := s.db.Store().Upsert(rec.ID, rec); err != nil {
		return fmt.Errorf("failed to save regime record: %w", err)
	}

	s.logger.Debug().
		Str("market", rec.Market).
		Str("regime", string(rec.Analysis.Regime)).
		Msg("Regime record saved")
	return nil
}

// LatestRegime returns the most recent record for a market
func (s *RegimeStorage) LatestRegime(ctx context.Context, market string) (*evaluation.RegimeRecord, error) {
	list, err := s.ListRegimes(ctx, market, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("regime for %s: %w", market, interfaces.ErrNotFound)
	}
	return &list[0], nil
}

// ListRegimes returns a market's regime records, newest first
func (s *RegimeStorage) ListRegimes(ctx context.Context, market string, limit int) ([]evaluation.RegimeRecord, error) {
	query := badgerhold.Where("Market").Eq(market).Index("Market").SortBy("RecordedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var out []evaluation.RegimeRecord
	if err := s.db.Store().Find(&out, query); err != nil {
		return nil, fmt.Errorf("failed to list regime records: %w", err)
	}
	return out, nil
}
