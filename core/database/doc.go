// Package database handles database connections and schema inspection for the run journal.
//
// It provides a wrapper around GORM to configure either a MySQL connection or a local
// SQLite file, depending on the configured driver.
//
// # Connect
//
// Connect establishes the connection and verifies it with a ping bounded by the configured
// timeout. The journal is optional: callers log a warning and carry on without it when the
// connection fails.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the journal health check, verifying that the
// migrated tables carry the columns the journal writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Journal disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "sync_runs", []string{"id", "started_at"})
package database
