package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/pressroom"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pressroom.HTMLExtractor at compile time.
var _ pressroom.HTMLExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
// The article HTML is converted to markdown with Converter.
type Extractor struct {
	converter pressroom.Converter
}

// NewExtractor creates a new Extractor.
func NewExtractor(converter pressroom.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Name returns the extractor's identifier.
func (e *Extractor) Name() string {
	return "readability"
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string, sourceURL string) (*pressroom.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "empty HTML input")
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "invalid source URL: %v", err)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "readability: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "no article content found")
	}

	content, err := e.converter.Convert(article.Content)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)

	return &pressroom.ExtractedContent{
		Title:    strings.TrimSpace(article.Title),
		Content:  content,
		Excerpt:  pressroom.TruncateExcerpt(article.Excerpt),
		Author:   strings.TrimSpace(article.Byline),
		Image:    article.Image,
		Category: pressroom.InferCategory(sourceURL),
		Language: pressroom.DetectLanguage(article.Title + "\n" + article.TextContent),
		Source:   u.Hostname(),
		SiteName: strings.TrimSpace(article.SiteName),
		Strategy: e.Name(),
	}, nil
}
