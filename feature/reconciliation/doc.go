// Package reconciliation exposes POS to commerce-platform order sync runs over HTTP.
//
// It wraps the core/reconcile engine with the pieces a long-running service needs:
//  1. Run coordination: one run at a time per process, triggered manually or on a schedule.
//  2. History: every run, including aborted ones, is journaled with its per-order outcomes.
//  3. Archive: run reports and cache snapshots are uploaded to S3/MinIO when enabled.
//
// # History Backends
//
// Journal stores runs in SQL through gorm (sqlite for single-host deployments, MySQL
// otherwise). When the database is disabled, MemoryHistory keeps the most recent runs.
//
// # Components
//
//   - Service: Runs the driver and records the outcome.
//   - Handler: Exposes HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET  /sync/runs             : Recent runs, newest first.
//   - POST /sync/runs             : Run a sync now (409 while one is active).
//   - GET  /sync/runs/:id         : One run with per-order outcomes.
//   - GET  /sync/runs/:id/report  : Archived full report.
//   - GET  /sync/cache            : Idempotency cache contents.
//   - GET  /sync/health           : Cache and journal schema health.
package reconciliation
