package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/pressroom"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pressroom.HTMLExtractor at compile time.
var _ pressroom.HTMLExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main article from HTML.
// The content node is converted to markdown with Converter.
type Extractor struct {
	converter pressroom.Converter
}

// NewExtractor creates a new Extractor.
func NewExtractor(converter pressroom.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Name returns the extractor's identifier.
func (e *Extractor) Name() string {
	return "trafilatura"
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

	opts := trafilatura.Options{
		EnableFallback: true,
		OriginalURL:    u,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "no article content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}
	content, err := e.converter.Convert(contentHTML)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)

	meta := result.Metadata
	language := pressroom.NormalizeLanguage(meta.Language)
	if language == "" {
		language = pressroom.DetectLanguage(meta.Title + "\n" + content)
	}

	var published string
	if !meta.Date.IsZero() {
		published = meta.Date.UTC().Format(time.RFC3339)
	}

	return &pressroom.ExtractedContent{
		Title:       strings.TrimSpace(meta.Title),
		Content:     content,
		Excerpt:     pressroom.TruncateExcerpt(meta.Description),
		Author:      strings.TrimSpace(meta.Author),
		PublishedAt: published,
		Image:       meta.Image,
		Category:    pressroom.InferCategory(sourceURL),
		Language:    language,
		Source:      u.Hostname(),
		SiteName:    strings.TrimSpace(meta.Sitename),
		Strategy:    e.Name(),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
