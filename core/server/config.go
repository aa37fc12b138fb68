package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// SyncIntervalMinutes schedules periodic sync runs while serving. Zero disables the scheduler.
	SyncIntervalMinutes int `mapstructure:"sync_interval_minutes" default:"0"`
}

// SyncInterval returns the scheduler period, or zero when scheduling is disabled.
func (c Config) SyncInterval() time.Duration {
	if c.SyncIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SyncIntervalMinutes) * time.Minute
}
