package reconcile

// Config holds configuration for sync runs.
type Config struct {
	// CachePath is the idempotency cache file. The backup lives next to it.
	CachePath string `mapstructure:"cache_path" default:"data/shipped-orders.json"`
	// GroupSize is the number of orders processed concurrently.
	GroupSize int `mapstructure:"group_size" default:"5"`
	// WindowDays overrides the one-year listing window when positive.
	WindowDays int `mapstructure:"window_days" default:"0"`
}

// Options returns the driver options described by the configuration.
func (c Config) Options() Options {
	return Options{GroupSize: c.GroupSize, WindowDays: c.WindowDays}
}
