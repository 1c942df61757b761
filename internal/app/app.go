package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/interfaces"
	"github.com/ternarybob/screener/internal/report"
	"github.com/ternarybob/screener/internal/services/scheduler"
	"github.com/ternarybob/screener/internal/services/screener"
	"github.com/ternarybob/screener/internal/storage"
)

// WatchJobName is the scheduled job that re-screens the input directory.
const WatchJobName = "screen_directory"

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	ScreenerService  *screener.Service
	SchedulerService interfaces.SchedulerService
	ReportWriter     *report.Writer
}

// Options controls which parts of the application are started.
type Options struct {
	// WithoutStorage skips opening the database. Nothing is persisted and
	// history is unavailable.
	WithoutStorage bool
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger, opts Options) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if !opts.WithoutStorage {
		if err := app.initDatabase(); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	app.initServices()

	logger.Debug().
		Bool("storage", app.StorageManager != nil).
		Int("workers", cfg.Screener.Concurrency).
		Str("benchmark", cfg.Screener.Benchmark).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")
	return nil
}

func (a *App) initServices() {
	a.ScreenerService = screener.NewService(a.Config, a.StorageManager, a.Logger)
	a.SchedulerService = scheduler.NewService(a.Logger)
	a.ReportWriter = report.NewWriter(a.Config.Report, a.Logger)
}

// RegisterWatchJob schedules re-screening of dir on the configured cron
// expression. Each new batch is written out as reports.
func (a *App) RegisterWatchJob(dir string) (*scheduler.DirectoryJob, error) {
	if dir == "" {
		dir = a.Config.Scheduler.InputDir
	}
	job := scheduler.NewDirectoryJob(dir, a.ScreenerService, a.ReportWriter.Sink, a.Logger)
	description := fmt.Sprintf("Re-screen bundles in %s", dir)
	if err := a.SchedulerService.RegisterJob(WatchJobName, a.Config.Scheduler.Schedule, description, job.Run); err != nil {
		return nil, err
	}
	return job, nil
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Debug().Msg("Storage closed")
	}
	return nil
}
