package fetcher

import (
	"time"

	"resty.dev/v3"
)

// NewHTTPClient creates an HTTP client shared by the upstream fetchers.
// There is deliberately no retry configuration: a failed upstream call fails
// the whole aggregation immediately.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout)
}
