package daemon

import (
	"log/slog"
	"net/http"

	"github.com/teslashibe/reachy-blocks/internal/httpc"
)

// DefaultBaseURL is the daemon's REST root on the robot itself.
const DefaultBaseURL = "http://localhost:8000/api"

// Config holds client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the REST root, e.g. "http://192.168.68.80:8000/api".
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the configuration for a daemon on localhost.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		HTTPClient: httpc.Client,
		Logger:     slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
