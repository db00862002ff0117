package mock

import (
	"context"

	"github.com/fwojciec/pressroom"
)

var _ pressroom.HTMLExtractor = (*HTMLExtractor)(nil)

// HTMLExtractor is a mock implementation of pressroom.HTMLExtractor.
type HTMLExtractor struct {
	NameFn    func() string
	ExtractFn func(html, sourceURL string) (*pressroom.ExtractedContent, error)
}

func (e *HTMLExtractor) Name() string {
	return e.NameFn()
}

func (e *HTMLExtractor) Extract(html, sourceURL string) (*pressroom.ExtractedContent, error) {
	return e.ExtractFn(html, sourceURL)
}

var _ pressroom.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of pressroom.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, url string, opts pressroom.ParsingOptions) (*pressroom.ExtractedContent, error)
}

func (e *ContentExtractor) Extract(ctx context.Context, url string, opts pressroom.ParsingOptions) (*pressroom.ExtractedContent, error) {
	return e.ExtractFn(ctx, url, opts)
}

var _ pressroom.Reader = (*Reader)(nil)

// Reader is a mock implementation of pressroom.Reader.
type Reader struct {
	ReadFn func(ctx context.Context, url string) (*pressroom.ExtractedContent, error)
}

func (r *Reader) Read(ctx context.Context, url string) (*pressroom.ExtractedContent, error) {
	return r.ReadFn(ctx, url)
}
