package publicip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectFrom_IPv4 verifies a plain IPv4 answer is accepted.
func TestDetectFrom_IPv4(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("203.0.113.7\n"))
	}))
	defer server.Close()

	addr, err := detectFrom(context.Background(), []string{server.URL})
	require.NoError(t, err)
	require.Equal(t, "203.0.113.7", addr)
}

// TestDetectFrom_IPv6 verifies a v6 answer is accepted unbracketed.
func TestDetectFrom_IPv6(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("2001:db8::1"))
	}))
	defer server.Close()

	addr, err := detectFrom(context.Background(), []string{server.URL})
	require.NoError(t, err)
	require.Equal(t, "2001:db8::1", addr)
}

// TestDetectFrom_Fallback verifies later endpoints are tried after a failure.
func TestDetectFrom_Fallback(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream sad", http.StatusBadGateway)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("198.51.100.20"))
	}))
	defer working.Close()

	addr, err := detectFrom(context.Background(), []string{broken.URL, working.URL})
	require.NoError(t, err)
	require.Equal(t, "198.51.100.20", addr)
}

// TestDetectFrom_Malformed verifies non-address answers are rejected.
func TestDetectFrom_Malformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>blocked</html>"))
	}))
	defer server.Close()

	_, err := detectFrom(context.Background(), []string{server.URL})
	require.ErrorIs(t, err, ErrNotDetected)
}

// TestDetectFrom_AllDown verifies total failure maps to the sentinel.
func TestDetectFrom_AllDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := detectFrom(context.Background(), []string{server.URL, server.URL})
	require.ErrorIs(t, err, ErrNotDetected)
}
