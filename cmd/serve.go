package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"order-sync/core/loader"
	"order-sync/core/logger"
	"order-sync/core/metrics"
	"order-sync/core/middleware/auth"
	"order-sync/core/middleware/rayid"
	"order-sync/feature/reconciliation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "order-sync/docs/swagger"
)

// @title Order Sync API
// @version 1.0
// @description API for running and inspecting POS to Tiendanube order sync.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the order-sync server",
	Long: `Starts the HTTP server, exposes sync runs, cache and metrics, and runs a sync
every SERVER_SYNC_INTERVAL_MINUTES when the interval is set.`,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logg, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	svcApp, err := newApplication(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer svcApp.close()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We will log our own startup message
	})

	mgr := loader.NewManager()
	mgr.Register(reconciliation.NewFeature(svcApp.service, logg))

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public endpoints
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	if interval := cfg.Server.SyncInterval(); interval > 0 {
		go svcApp.service.RunEvery(ctx, interval)
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.Shutdown()
}
