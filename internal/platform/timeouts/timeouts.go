// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// PricingRequest caps one call from the checkout to the pricing api.
const PricingRequest = 10 * time.Second

// SessionSweep is how often idle checkout sessions are evicted.
const SessionSweep = time.Minute
