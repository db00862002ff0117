// Package http provides an HTTP-based implementation of pressroom.Fetcher
// for fetching article pages that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/pressroom"
)

// DefaultFetchTimeout is the default timeout for a single HTTP request.
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxBodySize is the largest response body read, in bytes.
const DefaultMaxBodySize = 5 << 20

// Ensure Fetcher implements pressroom.Fetcher at compile time.
var _ pressroom.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Server errors and rate limiting responses are retried with backoff;
// client errors are not.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	retryDelays []time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a single HTTP request.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithRetryDelays sets the backoff delays between attempts. The number of
// delays is the number of retries. Pass no delays to disable retries.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. The request carries
// the user agent stored in ctx, or pressroom.DefaultUserAgent.
//
// Returns ENETWORK for transport failures, non-2xx responses and non-HTML
// content, ETIMEOUT when the request runs out of time and ECANCELED when
// ctx is canceled.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return withRetry(ctx, f.retryDelays, func(ctx context.Context) (string, bool, error) {
		return f.fetchOnce(ctx, url)
	})
}

// fetchOnce performs a single request. The bool result reports whether the
// failure is worth retrying.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, pressroom.Errorf(pressroom.EINVALID, "invalid request URL %s: %v", url, err)
	}

	ua := pressroom.UserAgentFromContext(ctx)
	if ua == "" {
		ua = pressroom.DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		err = pressroom.ClassifyError(err, "fetch %s", url)
		return "", pressroom.Retryable(pressroom.ErrorCode(err)), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retry, pressroom.Errorf(pressroom.ENETWORK, "HTTP %d %s for %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && mediaType != "text/html" && mediaType != "application/xhtml+xml" {
			return "", false, pressroom.Errorf(pressroom.ENETWORK, "unsupported content type %q for %s", mediaType, url)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		err = pressroom.ClassifyError(err, "read %s", url)
		return "", pressroom.Retryable(pressroom.ErrorCode(err)), err
	}

	return string(body), false, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
