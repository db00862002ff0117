package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/pressroom"
	pshttp "github.com/fwojciec/pressroom/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends user agent from context", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.UserAgent())
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher()
		ctx := pressroom.WithUserAgent(context.Background(), "custom-agent/2.0")

		_, err := fetcher.Fetch(ctx, server.URL)
		require.NoError(t, err)
		assert.Equal(t, "custom-agent/2.0", gotUA.Load())
	})

	t.Run("sends default user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.UserAgent())
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, pressroom.DefaultUserAgent, gotUA.Load())
	})

	t.Run("returns ETIMEOUT when the request times out", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := pshttp.NewFetcher(pshttp.WithTimeout(10*time.Millisecond), pshttp.WithRetryDelays())
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, pressroom.ETIMEOUT, pressroom.ErrorCode(err))
	})

	t.Run("returns ECANCELED when context is canceled", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
		assert.Equal(t, pressroom.ECANCELED, pressroom.ErrorCode(err))
	})

	t.Run("returns ENETWORK for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := pshttp.NewFetcher(pshttp.WithTimeout(2*time.Second), pshttp.WithRetryDelays())
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		require.Error(t, err)
		assert.Contains(t, []string{pressroom.ENETWORK, pressroom.ETIMEOUT}, pressroom.ErrorCode(err))
	})

	t.Run("returns ENETWORK for non-2xx status without retrying", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher(pshttp.WithRetryDelays(time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, pressroom.ENETWORK, pressroom.ErrorCode(err))
		assert.Contains(t, pressroom.ErrorMessage(err), "HTTP 404 Not Found")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher(pshttp.WithRetryDelays(time.Millisecond, time.Millisecond))

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("returns last error when retries are exhausted", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher(pshttp.WithRetryDelays(time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, pressroom.ENETWORK, pressroom.ErrorCode(err))
		assert.Contains(t, pressroom.ErrorMessage(err), "429")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("rejects non-HTML content", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, pressroom.ENETWORK, pressroom.ErrorCode(err))
		assert.Contains(t, pressroom.ErrorMessage(err), "application/pdf")
	})

	t.Run("limits body size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>0123456789</body></html>"))
		}))
		defer server.Close()

		fetcher := pshttp.NewFetcher(pshttp.WithMaxBodySize(6))

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html>", html)
	})
}

// Compile-time verification that Fetcher implements pressroom.Fetcher
var _ pressroom.Fetcher = (*pshttp.Fetcher)(nil)
