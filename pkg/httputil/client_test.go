package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveStatus(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReturnsBody(t *testing.T) {
	srv := serveStatus(t, http.StatusOK, `{"version":1}`)

	data, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if got := string(data); got != `{"version":1}` {
		t.Errorf("Fetch() = %q, want %q", got, `{"version":1}`)
	}
}

func TestFetchStatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		sentinel  error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"bad gateway", http.StatusBadGateway, ErrNetwork, true},
		{"unavailable", http.StatusServiceUnavailable, ErrNetwork, true},
		{"bad request", http.StatusBadRequest, ErrNetwork, false},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveStatus(t, tt.status, "")

			_, err := Fetch(context.Background(), srv.Client(), srv.URL)
			if err == nil {
				t.Fatalf("Fetch() succeeded for status %d", tt.status)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.sentinel)
			}
			if got := errors.As(err, new(*RetryableError)); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := Fetch(context.Background(), NewHTTPClient(), url)
	if err == nil {
		t.Fatal("Fetch() succeeded against a closed server")
	}
	if !errors.As(err, new(*RetryableError)) {
		t.Errorf("connection error should be retryable, got %T", err)
	}
}

func TestNewHTTPClientTimeout(t *testing.T) {
	if c := NewHTTPClient(); c.Timeout != fetchTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, fetchTimeout)
	}
}
