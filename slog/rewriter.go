package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pressroom"
)

// Ensure LoggingRewriter implements pressroom.Rewriter.
var _ pressroom.Rewriter = (*LoggingRewriter)(nil)

// LoggingRewriter wraps a Rewriter with logging.
type LoggingRewriter struct {
	next   pressroom.Rewriter
	logger *slog.Logger
}

// NewLoggingRewriter creates a new LoggingRewriter.
func NewLoggingRewriter(next pressroom.Rewriter, logger *slog.Logger) *LoggingRewriter {
	return &LoggingRewriter{next: next, logger: logger}
}

// Rewrite delegates to the wrapped rewriter and logs request and response
// sizes.
func (r *LoggingRewriter) Rewrite(ctx context.Context, req pressroom.RewriteRequest) (out string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("rewrite",
			"language", req.Language,
			"in_chars", len([]rune(req.Content)),
			"out_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Rewrite(ctx, req)
}

// Ensure LoggingTranslator implements pressroom.Translator.
var _ pressroom.Translator = (*LoggingTranslator)(nil)

// LoggingTranslator wraps a Translator with logging.
type LoggingTranslator struct {
	next   pressroom.Translator
	logger *slog.Logger
}

// NewLoggingTranslator creates a new LoggingTranslator.
func NewLoggingTranslator(next pressroom.Translator, logger *slog.Logger) *LoggingTranslator {
	return &LoggingTranslator{next: next, logger: logger}
}

// Translate delegates to the wrapped translator.
func (t *LoggingTranslator) Translate(ctx context.Context, text, targetLanguage string) (out string, err error) {
	defer func(begin time.Time) {
		t.logger.Info("translate",
			"target", targetLanguage,
			"chars", len([]rune(text)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Translate(ctx, text, targetLanguage)
}

// Ensure LoggingArticleWriter implements pressroom.ArticleWriter.
var _ pressroom.ArticleWriter = (*LoggingArticleWriter)(nil)

// LoggingArticleWriter wraps an ArticleWriter with logging.
type LoggingArticleWriter struct {
	next   pressroom.ArticleWriter
	logger *slog.Logger
}

// NewLoggingArticleWriter creates a new LoggingArticleWriter.
func NewLoggingArticleWriter(next pressroom.ArticleWriter, logger *slog.Logger) *LoggingArticleWriter {
	return &LoggingArticleWriter{next: next, logger: logger}
}

// CreateArticle delegates to the wrapped writer.
func (w *LoggingArticleWriter) CreateArticle(ctx context.Context, a *pressroom.Article) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("article handoff",
			"id", a.ID,
			"job", a.JobID,
			"variants", len(a.Variants),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.CreateArticle(ctx, a)
}
