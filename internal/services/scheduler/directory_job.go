package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/ingest"
	"github.com/ternarybob/screener/internal/services/screener"
)

// BatchEvaluator evaluates one bundle file.
type BatchEvaluator interface {
	EvaluateFile(ctx context.Context, path string) (*screener.Batch, error)
}

// BatchSink receives each completed batch, typically to write reports.
type BatchSink func(ctx context.Context, batch *screener.Batch) error

// DirectoryJob re-screens every bundle in a directory. A bundle is only
// evaluated again once its modification time changes.
type DirectoryJob struct {
	dir       string
	evaluator BatchEvaluator
	sink      BatchSink
	logger    arbor.ILogger

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewDirectoryJob creates a job over dir. sink may be nil.
func NewDirectoryJob(dir string, evaluator BatchEvaluator, sink BatchSink, logger arbor.ILogger) *DirectoryJob {
	return &DirectoryJob{
		dir:       dir,
		evaluator: evaluator,
		sink:      sink,
		logger:    logger,
		seen:      make(map[string]time.Time),
	}
}

// Run evaluates new or changed bundles. Failures of individual bundles are
// joined into the returned error; the rest are still processed.
func (j *DirectoryJob) Run(ctx context.Context) error {
	paths, err := ingest.ListBundles(j.dir)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	var errs []error
	processed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if last, ok := j.seen[path]; ok && last.Equal(info.ModTime()) {
			continue
		}

		batch, err := j.evaluator.EvaluateFile(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		j.seen[path] = info.ModTime()
		processed++

		if j.sink != nil {
			if err := j.sink(ctx, batch); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
			}
		}
	}

	j.logger.Info().
		Str("dir", j.dir).
		Int("bundles", len(paths)).
		Int("processed", processed).
		Msg("Directory screen complete")

	return errors.Join(errs...)
}
