// Package httpserver builds the process-wide HTTP server. Gate scanners
// retry aggressively on slow responses, so timeouts are tight: a hung
// request should fail fast and let the device fall back to its offline
// policy rather than queue behind a stalled connection.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts tuned for gate traffic.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
