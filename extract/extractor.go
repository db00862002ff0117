// Package extract turns article URLs into validated extracted content. It
// runs the static strategies first and falls back to a remote reader when
// they fail or return too little text.
package extract

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/pressroom"
)

var _ pressroom.ContentExtractor = (*Extractor)(nil)

// Extractor orchestrates static extraction and the reader fallback.
type Extractor struct {
	// Fetcher retrieves page HTML for the static strategies.
	Fetcher pressroom.Fetcher

	// Strategies are tried in order on the fetched HTML.
	Strategies []pressroom.HTMLExtractor

	// Reader is the optional remote fallback.
	Reader pressroom.Reader

	// Limiter, if set, is waited on before each fetch.
	Limiter pressroom.DomainLimiter
}

// NewExtractor creates an Extractor. reader may be nil to disable the
// fallback.
func NewExtractor(fetcher pressroom.Fetcher, reader pressroom.Reader, strategies ...pressroom.HTMLExtractor) *Extractor {
	return &Extractor{
		Fetcher:    fetcher,
		Strategies: strategies,
		Reader:     reader,
	}
}

// Extract fetches and parses rawURL.
//
// The static path runs under opts.Timeout. If it fails, or its best result
// is shorter than pressroom.MinStaticContentLength, the reader is tried when
// opts.AllowReaderFallback is set. Results that pass the length floor but
// fail validation (short title, error page) are returned as EINVALID and
// never retried through the reader.
func (e *Extractor) Extract(ctx context.Context, rawURL string, opts pressroom.ParsingOptions) (*pressroom.ExtractedContent, error) {
	u, err := parseArticleURL(rawURL)
	if err != nil {
		return nil, err
	}
	opts = withDefaults(opts)
	ctx = pressroom.WithUserAgent(ctx, opts.UserAgent)

	content, staticErr := e.extractStatic(ctx, u, opts)
	if staticErr == nil {
		e.finalize(content, u, opts)
		if err := content.Validate(pressroom.MinStaticContentLength); err != nil {
			return nil, err
		}
		return content, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, pressroom.ClassifyError(err, "extraction of %s", rawURL)
	}
	if !opts.AllowReaderFallback || e.Reader == nil {
		return nil, pressroom.Errorf(pressroom.ErrorCode(staticErr), "extraction failed for %s: %s", rawURL, pressroom.ErrorMessage(staticErr))
	}

	content, readerErr := e.Reader.Read(ctx, u.String())
	if readerErr != nil {
		return nil, aggregate(ctx, rawURL, staticErr, pressroom.ClassifyError(readerErr, "reader"))
	}
	e.finalize(content, u, opts)
	if err := content.Validate(pressroom.MinContentLength); err != nil {
		return nil, err
	}
	return content, nil
}

// extractStatic fetches the page and runs the strategies. A result below
// the static floor is reported as an EINVALID error so that the caller
// falls back to the reader.
func (e *Extractor) extractStatic(ctx context.Context, u *url.URL, opts pressroom.ParsingOptions) (*pressroom.ExtractedContent, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, pressroom.ClassifyError(err, "rate limit wait")
		}
	}

	html, err := e.Fetcher.Fetch(ctx, u.String())
	if err != nil {
		return nil, pressroom.ClassifyError(err, "fetch")
	}

	var best *pressroom.ExtractedContent
	var lastErr error
	for _, s := range e.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, pressroom.ClassifyError(err, "static extraction")
		}
		result, err := s.Extract(html, u.String())
		if err != nil {
			lastErr = err
			continue
		}
		if runeLen(result.Content) >= pressroom.MinStaticContentLength {
			return result, nil
		}
		if best == nil || runeLen(result.Content) > runeLen(best.Content) {
			best = result
		}
	}

	switch {
	case best != nil:
		return nil, pressroom.Errorf(pressroom.EINVALID, "static content too short: %d characters, need %d",
			runeLen(best.Content), pressroom.MinStaticContentLength)
	case lastErr != nil:
		return nil, pressroom.Errorf(pressroom.EINVALID, "static extraction failed: %s", pressroom.ErrorMessage(lastErr))
	default:
		return nil, pressroom.Errorf(pressroom.EINVALID, "no static extraction strategies configured")
	}
}

// finalize fills fields derived from the URL and applies the output limits
// in opts.
func (e *Extractor) finalize(c *pressroom.ExtractedContent, u *url.URL, opts pressroom.ParsingOptions) {
	c.Title = strings.TrimSpace(c.Title)
	c.Content = truncateContent(strings.TrimSpace(c.Content), opts.MaxContentLength)
	if c.Source == "" {
		c.Source = u.Hostname()
	}
	if !c.Category.Valid() {
		c.Category = pressroom.InferCategory(u.String())
	}
	if c.Language == "" {
		c.Language = pressroom.DetectLanguage(c.Title + "\n" + c.Content)
	}
	if !opts.IncludeImages {
		c.Image = ""
	}
	if strings.TrimSpace(c.Excerpt) == "" {
		c.Excerpt = firstParagraph(c.Content)
	}
	c.Excerpt = pressroom.TruncateExcerpt(c.Excerpt)
}

// aggregate combines the static and reader failures. The result carries the
// static failure's code unless the caller canceled.
func aggregate(ctx context.Context, rawURL string, staticErr, readerErr error) error {
	code := pressroom.ErrorCode(staticErr)
	if ctx.Err() != nil || pressroom.ErrorCode(readerErr) == pressroom.ECANCELED {
		code = pressroom.ECANCELED
	}
	return pressroom.Errorf(code, "extraction failed for %s: static: %s; reader: %s",
		rawURL, pressroom.ErrorMessage(staticErr), pressroom.ErrorMessage(readerErr))
}

// parseArticleURL accepts absolute http and https URLs with a host.
func parseArticleURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "unsupported URL scheme %q: only http and https are allowed", u.Scheme)
	}
	if u.Host == "" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "URL %q has no host", rawURL)
	}
	return u, nil
}

func withDefaults(opts pressroom.ParsingOptions) pressroom.ParsingOptions {
	def := pressroom.DefaultParsingOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxContentLength <= 0 {
		opts.MaxContentLength = def.MaxContentLength
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	return opts
}

// truncateContent cuts s to at most limit characters, preferring the last
// paragraph boundary before the limit.
func truncateContent(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	cut := string([]rune(s)[:limit])
	if i := strings.LastIndex(cut, "\n\n"); i > 0 {
		return strings.TrimSpace(cut[:i])
	}
	return strings.TrimSpace(cut)
}

func firstParagraph(content string) string {
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" && !strings.HasPrefix(p, "#") {
			return p
		}
	}
	return ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
