// Package httpc provides the shared HTTP client used to reach the robot daemon.
package httpc

import (
	"net"
	"net/http"
	"time"
)

// Transport tuning. There is no overall request timeout; callers bound
// requests with their context.
const (
	DefaultConnectTimeout  = 10 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client is the process-wide daemon HTTP client.
var Client = New()

// New creates an HTTP client with tuned dialing and connection reuse.
func New() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DefaultConnectTimeout,
				KeepAlive: DefaultKeepAlive,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       DefaultIdleConnTimeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
