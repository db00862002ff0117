package extract

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/pressroom"
	"golang.org/x/time/rate"
)

var _ pressroom.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-host politeness using token buckets. Hosts are
// compared case-insensitively with any "www." prefix removed, so
// "www.example.com" and "example.com" share a bucket.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second to each host, with the given burst (minimum 1).
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns ECANCELED or ETIMEOUT if ctx ends before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	key := strings.TrimPrefix(strings.ToLower(host), "www.")

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return pressroom.ClassifyError(ctx.Err(), "rate limit wait for %s", host)
		}
		// The wait would outlast the deadline; rate reports this before
		// the context itself expires.
		return pressroom.Errorf(pressroom.ETIMEOUT, "rate limit wait for %s timed out", host)
	}
	return nil
}
