package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	evaluation interfaces.EvaluationStorage
	regime     interfaces.RegimeStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		evaluation: NewEvaluationStorage(db, logger),
		regime:     NewRegimeStorage(db, logger),
		logger:     logger,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// EvaluationStorage returns the Evaluation storage interface
func (m *Manager) EvaluationStorage() interfaces.EvaluationStorage {
	return m.evaluation
}

// RegimeStorage returns the Regime storage interface
func (m *Manager) RegimeStorage() interfaces.RegimeStorage {
	return m.regime
}

// Compact reclaims value log space, typically after a prune.
func (m *Manager) Compact() (int, error) {
	rewrites, err := m.db.Compact()
	if err != nil {
		return rewrites, err
	}
	m.logger.Debug().Int("rewrites", rewrites).Msg("Badger value log compacted")
	return rewrites, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	return m.db.Close()
}
