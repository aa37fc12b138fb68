// Package config provides configuration management for order-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each partial
// configuration, so every key is known to Viper and can be overridden from the
// environment (POS_EMAIL, COMMERCE_TOKEN, SYNC_CACHE_PATH, ...).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, sync interval)
//   - Log: Logging level and format
//   - Database: Run journal connection (sqlite or MySQL)
//   - Storage: S3/MinIO archive settings
//   - POS: Point-of-sale login and listing endpoints
//   - Commerce: Commerce platform store, token and payment settings
//   - Sync: Cache path, group size and listing window
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.CachePath)
package config
