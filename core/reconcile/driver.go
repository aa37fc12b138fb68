package reconcile

import (
	"context"
	"fmt"
	"time"

	"order-sync/core/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes a Driver.
type Options struct {
	// GroupSize is the number of orders reconciled concurrently.
	// Zero uses DefaultGroupSize.
	GroupSize int

	// WindowDays is how far back the POS listing reaches.
	// Zero means one calendar year.
	WindowDays int
}

// Driver runs one end-to-end sync: login, listing, cache load and batch.
type Driver struct {
	source     Source
	cache      Cache
	batch      *BatchProcessor
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewDriver wires a driver from its collaborators.
func NewDriver(source Source, platform Platform, cache Cache, opts Options, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	worker := NewWorker(platform, cache, logger)
	return &Driver{
		source:     source,
		cache:      cache,
		batch:      NewBatchProcessor(worker, opts.GroupSize, logger),
		windowDays: opts.WindowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// Run performs one sync run.
//
// Authentication, listing and cache load failures abort the run and are
// returned wrapped in ErrAuth, ErrListingFetch and ErrCacheCorruption
// respectively. The partial report is returned alongside the error so that
// failed runs can still be recorded. Per-order failures never abort the run.
func (d *Driver) Run(ctx context.Context) (*RunReport, error) {
	started := d.now()
	report := &RunReport{
		ID:        uuid.NewString(),
		StartedAt: started,
		Window:    d.Window(started),
		Results:   []Result{},
	}
	l := d.logger.With(zap.String("run_id", report.ID))

	finish := func(err error) (*RunReport, error) {
		report.FinishedAt = d.now()
		report.Summary = Summarize(report.Results)
		status := "ok"
		if err != nil {
			status = "failed"
		}
		metrics.Runs.WithLabelValues(status).Inc()
		metrics.RunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
		return report, err
	}

	token, err := d.source.Login(ctx)
	if err != nil {
		return finish(fmt.Errorf("%w: %w", ErrAuth, err))
	}

	orders, err := d.source.ListOrders(ctx, token, report.Window)
	if err != nil {
		return finish(fmt.Errorf("%w: %w", ErrListingFetch, err))
	}
	l.Info("Fetched POS orders",
		zap.Int("count", len(orders)),
		zap.Time("from", report.Window.From),
		zap.Time("to", report.Window.To),
	)

	cached, err := d.cache.Load()
	if err != nil {
		return finish(fmt.Errorf("load cache: %w", err))
	}
	l.Info("Loaded idempotency cache", zap.Int("entries", len(cached)))

	report.Results = d.batch.Run(ctx, orders)

	report, err = finish(nil)
	l.Info("Sync run completed",
		zap.Int("total", report.Summary.Total),
		zap.Int("settled", report.Summary.Settled),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Int("failed", report.Summary.Failed),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, err
}

// Window returns the listing range ending at now.
func (d *Driver) Window(now time.Time) Window {
	from := now.AddDate(-1, 0, 0)
	if d.windowDays > 0 {
		from = now.AddDate(0, 0, -d.windowDays)
	}
	return Window{From: from, To: now}
}
