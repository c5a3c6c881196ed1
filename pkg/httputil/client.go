package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const fetchTimeout = 30 * time.Second

// maxBodySize bounds how much of a response body Fetch will read.
// Datasets are hand-authored catalogs, not bulk data; 32 MiB is generous.
const maxBodySize = 32 << 20

var (
	// ErrNotFound reports that the URL resolved but nothing lives there.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork covers transport failures and non-200 responses.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient returns the http.Client used for dataset requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// Fetch performs an HTTP GET and returns the raw response body.
// Connection errors and 5xx responses are wrapped with [RetryableError]
// so callers can run the whole fetch through [Retry]; a 404 maps to
// [ErrNotFound] and other non-200 statuses fail without retrying.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/x-yaml, text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return nil, transient(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := statusErr(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transient(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return body, nil
}

// transient tags err as worth retrying.
func transient(err error) error { return &RetryableError{Err: err} }

// statusErr classifies a response status. Server-side failures are
// transient; client-side statuses are permanent.
func statusErr(code int) error {
	if code == http.StatusOK {
		return nil
	}
	if code == http.StatusNotFound {
		return ErrNotFound
	}

	err := fmt.Errorf("%w: status %d", ErrNetwork, code)
	if code >= http.StatusInternalServerError {
		return transient(err)
	}
	return err
}
