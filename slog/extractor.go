package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pressroom"
)

// Ensure LoggingExtractor implements pressroom.ContentExtractor.
var _ pressroom.ContentExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ContentExtractor and logs the start and outcome
// of every extraction.
type LoggingExtractor struct {
	next   pressroom.ContentExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pressroom.ContentExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the URL and delegates to the wrapped extractor. Failures are
// logged at warn level with their error code.
func (e *LoggingExtractor) Extract(ctx context.Context, url string, opts pressroom.ParsingOptions) (content *pressroom.ExtractedContent, err error) {
	e.logger.Debug("extract start", "url", url, "reader_fallback", opts.AllowReaderFallback)
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Warn("extract failure",
				"url", url,
				"code", pressroom.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.Info("extract success",
			"url", url,
			"title", content.Title,
			"strategy", content.Strategy,
			"chars", len([]rune(content.Content)),
			"language", content.Language,
			"source", content.Source,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(ctx, url, opts)
}

// Ensure LoggingReader implements pressroom.Reader.
var _ pressroom.Reader = (*LoggingReader)(nil)

// LoggingReader wraps a Reader with logging.
type LoggingReader struct {
	next   pressroom.Reader
	logger *slog.Logger
}

// NewLoggingReader creates a new LoggingReader.
func NewLoggingReader(next pressroom.Reader, logger *slog.Logger) *LoggingReader {
	return &LoggingReader{next: next, logger: logger}
}

// Read delegates to the wrapped reader and logs the operation.
func (r *LoggingReader) Read(ctx context.Context, url string) (content *pressroom.ExtractedContent, err error) {
	defer func(begin time.Time) {
		chars := 0
		if content != nil {
			chars = len([]rune(content.Content))
		}
		r.logger.Info("reader fallback",
			"url", url,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Read(ctx, url)
}
