package pos

// Config holds configuration for the POS API.
type Config struct {
	// LoginURL is the endpoint that exchanges credentials for a token.
	LoginURL string `mapstructure:"login_url" default:"https://api.copagopos.com/login"`
	// ListingURL is the external order listing endpoint.
	ListingURL string `mapstructure:"listing_url" default:"https://api.copagopos.com/externalOrder/2000/0"`
	// Email is the POS account email.
	Email string `mapstructure:"email" default:""`
	// Password is the POS account password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
