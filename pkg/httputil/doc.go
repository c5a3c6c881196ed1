// Package httputil provides HTTP plumbing for loading remote datasets.
//
// # Overview
//
// This package provides the transport layer used when a dataset reference
// is a URL rather than a local file:
//
//   - [Fetch]: context-aware GET returning the raw response body
//   - [Retry]: automatic retry with exponential backoff
//
// # Fetching
//
// [Fetch] performs a single GET request and classifies failures so callers
// know whether retrying is worthwhile: connection errors and 5xx responses
// come back wrapped in [RetryableError], a 404 maps to [ErrNotFound], and
// any other non-200 status is reported via [ErrNetwork] without marking
// the attempt retryable.
//
// Usage:
//
//	client := httputil.NewHTTPClient()
//	var data []byte
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    var ferr error
//	    data, ferr = httputil.Fetch(ctx, client, url)
//	    return ferr
//	})
//
// # Retry
//
// [Retry] executes an operation up to a fixed number of attempts. Only
// errors wrapped with [RetryableError] trigger another attempt; permanent
// failures (a 404, a malformed URL) surface immediately. The delay doubles
// after each failed attempt.
//
// # Configuration
//
// [RetryWithBackoff] fixes the policy at three attempts starting from a
// one second delay; [NewHTTPClient] requests time out after 30 seconds.
// Callers needing different numbers use [Retry] directly.
package httputil
