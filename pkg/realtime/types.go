package realtime

import (
	"net/http"
	"net/url"
	"time"
)

// Config carries the immutable connection settings for a Client.
type Config struct {
	// URL is the realtime websocket endpoint.
	URL string

	// Headers are merged into every connection attempt beneath the
	// generated User-Agent.
	Headers http.Header

	// Params are appended to the endpoint URL as query parameters.
	Params url.Values

	// MaxRetries bounds consecutive failed connection attempts: 0 disables
	// retries, a negative value retries until the client is closed.
	MaxRetries int

	// InitialRetryDelay seeds the exponential backoff. Defaults to 1s.
	InitialRetryDelay time.Duration

	// MaxRetryDelay caps the backoff. Defaults to 30s.
	MaxRetryDelay time.Duration

	// RetryJitter is the jitter fraction in [0, 1). Zero disables jitter;
	// values outside the range fall back to 0.1.
	RetryJitter float64

	// OnReconnect, when set, is invoked once after a connection is
	// re-established following at least one failed attempt.
	OnReconnect func(attempts int)
}

func normalizeConfig(cfg Config) Config {
	if cfg.InitialRetryDelay <= 0 {
		cfg.InitialRetryDelay = time.Second
	}
	if cfg.MaxRetryDelay <= 0 {
		cfg.MaxRetryDelay = 30 * time.Second
	}
	if cfg.RetryJitter < 0 || cfg.RetryJitter >= 1 {
		cfg.RetryJitter = 0.1
	}
	return cfg
}
