package reconciliation

import (
	"context"
	"errors"
	"time"

	"order-sync/core/reconcile"

	"go.uber.org/zap"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("sync run already in progress")

// Runner performs one sync run. *reconcile.Driver implements it.
type Runner interface {
	Run(ctx context.Context) (*reconcile.RunReport, error)
}

// CacheReader exposes the idempotency cache contents. *reconcile.FileCache implements it.
type CacheReader interface {
	Path() string
	Entries() ([]string, error)
}

// Service coordinates sync runs with their history and archive.
type Service struct {
	runner  Runner
	cache   CacheReader
	history History
	journal *Journal
	archive *Archiver
	logger  *zap.Logger

	running chan struct{}
}

// NewService creates a service. journal and archive may be nil; history
// defaults to the journal when it is set.
func NewService(runner Runner, cache CacheReader, history History, journal *Journal, archive *Archiver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if history == nil {
		if journal != nil {
			history = journal
		} else {
			history = NewMemoryHistory(0)
		}
	}
	return &Service{
		runner:  runner,
		cache:   cache,
		history: history,
		journal: journal,
		archive: archive,
		logger:  logger,
		running: make(chan struct{}, 1),
	}
}

// Run performs one sync run and records it. It fails fast with
// ErrRunInProgress if another run is active in this process.
//
// The report is returned even when the run aborted, together with the fatal
// error. Recording failures are logged and do not affect the result.
func (s *Service) Run(ctx context.Context) (*reconcile.RunReport, error) {
	select {
	case s.running <- struct{}{}:
	default:
		return nil, ErrRunInProgress
	}
	defer func() { <-s.running }()

	report, err := s.runner.Run(ctx)
	if report == nil {
		return nil, err
	}

	l := s.logger.With(zap.String("run_id", report.ID))
	if err != nil {
		l.Error("Sync run aborted", zap.Error(err))
	}

	if saveErr := s.history.Save(ctx, report, err); saveErr != nil {
		l.Error("Failed to journal sync run", zap.Error(saveErr))
	}

	if s.archive != nil {
		entries, cacheErr := s.cache.Entries()
		if cacheErr != nil {
			l.Warn("Skipping cache snapshot", zap.Error(cacheErr))
			entries = nil
		}
		if archErr := s.archive.Archive(ctx, report, entries); archErr != nil {
			l.Error("Failed to archive sync run", zap.Error(archErr))
		}
	}

	return report, err
}

// Running reports whether a run is active.
func (s *Service) Running() bool {
	return len(s.running) > 0
}

// RunEvery runs a sync every interval until ctx is done. Runs that overlap a
// manual trigger are skipped.
func (s *Service) RunEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Sync scheduler started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sync scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); errors.Is(err, ErrRunInProgress) {
				s.logger.Debug("Scheduled sync skipped, run in progress")
			}
		}
	}
}

// History returns the run history.
func (s *Service) History() History {
	return s.history
}

// Archive returns the archiver, or nil when archiving is disabled.
func (s *Service) Archive() *Archiver {
	return s.archive
}

// CacheEntries returns the cache path and its current codes.
func (s *Service) CacheEntries() (string, []string, error) {
	entries, err := s.cache.Entries()
	return s.cache.Path(), entries, err
}

// Health checks the cache and, when enabled, the journal schema.
func (s *Service) Health(ctx context.Context) HealthReport {
	report := HealthReport{Status: "ok", Cache: "ok", Journal: "disabled", Running: s.Running()}

	if _, err := s.cache.Entries(); err != nil {
		report.Status = "degraded"
		report.Cache = err.Error()
	}

	if s.journal != nil {
		missing, err := s.journal.Verify(ctx)
		switch {
		case err != nil:
			report.Status = "degraded"
			report.Journal = err.Error()
		case len(missing) > 0:
			report.Status = "degraded"
			report.Journal = "missing columns"
			report.MissingColumns = missing
		default:
			report.Journal = "ok"
		}
	}
	return report
}

// HealthReport is the result of Health.
type HealthReport struct {
	Status         string   `json:"status"`
	Cache          string   `json:"cache"`
	Journal        string   `json:"journal"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Running        bool     `json:"running"`
}
