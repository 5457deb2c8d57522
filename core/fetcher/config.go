package fetcher

// Config holds configuration for outbound feed requests.
type Config struct {
	// MaxConcurrent is the number of requests allowed in flight at once.
	MaxConcurrent int `mapstructure:"max_concurrent" default:"20"`
	// TimeoutSeconds bounds a single request. Zero disables the timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"card-mirror/1.0"`
}
