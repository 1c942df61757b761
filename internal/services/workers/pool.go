package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
)

// Job represents a work item to be processed
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// JobError records a failed or panicked job
type JobError struct {
	Name string
	Err  error
}

func (e JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e JobError) Unwrap() error {
	return e.Err
}

// Pool manages a bounded set of workers. A panic in one job is recovered
// and recorded as that job's error. Jobs still queued when the context is
// cancelled are not started.
type Pool struct {
	jobs       chan Job
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	errors     []JobError
	errorsMu   sync.Mutex
	skipped    int
	logger     arbor.ILogger
}

// NewPool creates a new worker pool bound to ctx
func NewPool(ctx context.Context, maxWorkers int, logger arbor.ILogger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		jobs:       make(chan Job, maxWorkers*2),
		maxWorkers: maxWorkers,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Start begins the worker pool
func (p *Pool) Start() {
	p.logger.Debug().
		Int("max_workers", p.maxWorkers).
		Msg("Starting worker pool")

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit adds a job to the pool
func (p *Pool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", p.ctx.Err())
	default:
	}

	select {
	case p.jobs <- job:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", p.ctx.Err())
	}
}

// Wait closes the queue and waits for every worker to finish
func (p *Pool) Wait() {
	close(p.jobs)
	p.wg.Wait()
	p.cancel()
}

// Errors returns all collected job errors
func (p *Pool) Errors() []JobError {
	p.errorsMu.Lock()
	defer p.errorsMu.Unlock()
	return append([]JobError(nil), p.errors...)
}

// Skipped returns how many queued jobs were dropped after cancellation
func (p *Pool) Skipped() int {
	p.errorsMu.Lock()
	defer p.errorsMu.Unlock()
	return p.skipped
}

// worker processes jobs from the queue
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		if p.ctx.Err() != nil {
			p.errorsMu.Lock()
			p.skipped++
			p.errorsMu.Unlock()
			continue
		}

		err := common.RunSafely(p.logger, job.Name, func() error {
			return job.Run(p.ctx)
		})
		if err != nil {
			p.errorsMu.Lock()
			p.errors = append(p.errors, JobError{Name: job.Name, Err: err})
			p.errorsMu.Unlock()

			p.logger.Warn().
				Err(err).
				Int("worker_id", id).
				Str("job", job.Name).
				Msg("Job failed")
		}
	}
}
