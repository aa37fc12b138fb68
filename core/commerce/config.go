package commerce

// Config holds configuration for the commerce platform API.
type Config struct {
	// BaseURL is the API root, without the store segment.
	BaseURL string `mapstructure:"base_url" default:"https://api.tiendanube.com/v1"`
	// StoreID is the platform store identifier.
	StoreID string `mapstructure:"store_id" default:""`
	// Token is sent verbatim in the Authentication header (e.g. "bearer abc").
	Token string `mapstructure:"token" default:""`
	// UserAgent identifies the app, as required by the platform.
	UserAgent string `mapstructure:"user_agent" default:"order-sync"`
	// Currency is the currency of recorded payments.
	Currency string `mapstructure:"currency" default:"ARS"`
	// PaymentProviderID is the provider recorded on cash settlements.
	PaymentProviderID string `mapstructure:"payment_provider_id" default:""`
	// TrackingNumber is the placeholder sent when fulfilling.
	TrackingNumber string `mapstructure:"tracking_number" default:"NO_TRACK_NUMBER"`
	// TrackingURL is sent along with the placeholder tracking number.
	TrackingURL string `mapstructure:"tracking_url" default:""`
	// RequestsPerSecond limits outbound requests. Zero disables the limiter.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"0"`
	// Burst is the limiter bucket size.
	Burst int `mapstructure:"burst" default:"1"`
	// TimeoutSeconds is the HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
