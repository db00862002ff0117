package mock

import (
	"context"

	"github.com/fwojciec/pressroom"
)

var _ pressroom.Reviewer = (*Reviewer)(nil)

// Reviewer is a mock implementation of pressroom.Reviewer.
type Reviewer struct {
	ReviewFn func(ctx context.Context, in pressroom.ReviewInput) *pressroom.ReviewResult
}

func (r *Reviewer) Review(ctx context.Context, in pressroom.ReviewInput) *pressroom.ReviewResult {
	return r.ReviewFn(ctx, in)
}

var _ pressroom.Rewriter = (*Rewriter)(nil)

// Rewriter is a mock implementation of pressroom.Rewriter.
type Rewriter struct {
	RewriteFn func(ctx context.Context, req pressroom.RewriteRequest) (string, error)
}

func (r *Rewriter) Rewrite(ctx context.Context, req pressroom.RewriteRequest) (string, error) {
	return r.RewriteFn(ctx, req)
}

var _ pressroom.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of pressroom.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(text string, opts pressroom.SanitizeOptions) string
}

func (s *Sanitizer) Sanitize(text string, opts pressroom.SanitizeOptions) string {
	return s.SanitizeFn(text, opts)
}
