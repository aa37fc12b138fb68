package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"order-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncGroupSize  int
	syncWindowDays int
)

// syncCmd performs one reconciliation run.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one POS to Tiendanube reconciliation pass",
	Long: `Logs into the POS, lists orders for the window, and advances each matching
Tiendanube order (pack, fulfill, record payment). Settled orders are recorded in
the idempotency cache and skipped on later runs.

Exits with status 1 when authentication, listing or the cache fail. Per-order
failures are reported and retried on the next run.

Examples:
  # Default window (one year) and group size (5)
  order-sync sync

  # Last 30 days, 10 orders at a time
  order-sync sync --window-days 30 --group-size 10`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncGroupSize, "group-size", 0, "Orders processed concurrently (overrides SYNC_GROUP_SIZE)")
	syncCmd.Flags().IntVar(&syncWindowDays, "window-days", 0, "Listing window in days (overrides SYNC_WINDOW_DAYS)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	if syncGroupSize > 0 {
		cfg.Sync.GroupSize = syncGroupSize
	}
	if syncWindowDays > 0 {
		cfg.Sync.WindowDays = syncWindowDays
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer app.close()

	l.Info("Starting sync run", zap.String("cache", cfg.Sync.CachePath))
	report, err := app.service.Run(ctx)
	if report != nil {
		printRunReport(l, report)
	}
	return err
}

// printRunReport logs the run summary and a sample of failed orders.
func printRunReport(l *zap.Logger, report *reconcile.RunReport) {
	s := report.Summary
	l.Info("Sync report",
		zap.String("run_id", report.ID),
		zap.Int("total", s.Total),
		zap.Int("settled", s.Settled),
		zap.Int("skipped", s.Skipped),
		zap.Int("failed", s.Failed),
	)

	if s.Failed == 0 {
		return
	}

	const maxShow = 5
	shown := 0
	for _, r := range report.Results {
		if r.State != reconcile.StateFailed {
			continue
		}
		if shown == maxShow {
			l.Info("Additional failures not shown", zap.Int("count", s.Failed-maxShow))
			return
		}
		l.Warn("Failed order",
			zap.String("external_code", r.ExternalCode),
			zap.String("reason", r.Reason),
		)
		shown++
	}
}
