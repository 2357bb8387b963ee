package httputil

import (
	"net/http"
	"time"
)

// feedTimeout bounds one fetch against the NOAA endpoints. An NDBC
// realtime2 file runs tens of kilobytes and a CO-OPS 8-day prediction
// pull a few hundred; anything slower than 20s is an outage, not a
// slow response.
const feedTimeout = 20 * time.Second

// NewClient returns the HTTP client the NDBC and CO-OPS feed clients
// share.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: feedTimeout,
	}
}
