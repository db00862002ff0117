// Package goquery implements the static article extractor on top of
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/sanitize"
)

var _ pressroom.HTMLExtractor = (*Extractor)(nil)

// noiseSelectors are removed from the document before any text is read so
// that widgets cannot be mistaken for article content.
var noiseSelectors = []string{
	"script", "style", "noscript", "template", "svg",
	"nav", "footer", "aside", "form", "button",
	"iframe", "embed", "object", "video", "audio",
	"[role='navigation']", "[role='complementary']", "[role='banner'] nav",
	"[aria-hidden='true']",
	".ad", ".ads", ".advertisement", "[class*='advert']", "[id*='advert']",
	"[class^='ad-']", "[id^='ad-']", "[class*='sponsor']",
	"[class*='share']", "[class*='social']",
	"[class*='comment']", "[id*='comment']", "#disqus_thread",
	"[class*='cookie']", "[id*='cookie']", "[class*='consent']",
	"[class*='newsletter']", "[class*='subscribe']", "[class*='paywall']",
	"[class*='related']", "[class*='recommend']", "[class*='read-more']",
	"[class*='popular']", "[class*='trending']", "[class*='promo']",
	"[class*='breadcrumb']", "[class*='tags']",
}

// protectedNodes are never removed by noise selectors, even when a broad
// class match hits them.
var protectedNodes = map[string]bool{
	"html": true, "head": true, "body": true, "main": true, "article": true,
}

// genericContainers are content strategies that also mark comment threads
// and card lists, so only the node itself is protected, not its ancestors.
var genericContainers = map[string]bool{
	"article": true, "[role='main']": true, "main": true, "article section": true,
}

// contentStrategies lists article body containers in rank order.
var contentStrategies = []string{
	"[itemprop='articleBody']",
	"[data-testid='article-body']",
	".article-body", ".article__body", ".article-content", ".article__content",
	".entry-content", ".post-content", ".post-body", ".c-entry-content",
	".story-body", ".story-content", ".content-body", ".news-text",
	"[class*='ArticleBody']", "[class*='article-body']",
	"article",
	"[role='main']",
	"main",
}

// blockSelector matches the nodes a candidate's text is assembled from.
const blockSelector = "h2, h3, h4, p, li, blockquote"

// fallbackParagraphLength is the shortest paragraph kept by the fallback
// that concatenates all paragraphs in the document.
const fallbackParagraphLength = 60

// Extractor extracts articles from HTML using ranked CSS selector cascades.
type Extractor struct {
	// MinContentLength is the length a candidate must reach before the
	// paragraph fallback is skipped.
	MinContentLength int
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{MinContentLength: pressroom.MinStaticContentLength}
}

// Name returns the extractor's identifier.
func (e *Extractor) Name() string {
	return "goquery"
}

// Extract parses html and returns the article. Metadata that cannot be found
// is left empty. Returns EINVALID if the HTML cannot be parsed or contains no
// text at all.
func (e *Extractor) Extract(html string, sourceURL string) (*pressroom.ExtractedContent, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "invalid source URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "failed to parse HTML: %v", err)
	}

	platform := detectPlatform(doc)
	removeNoise(doc)

	paragraphs := e.extractBody(doc, platform)
	if len(paragraphs) == 0 {
		return nil, pressroom.Errorf(pressroom.EINVALID, "no article content found")
	}
	content := strings.Join(paragraphs, "\n\n")

	title := extractTitle(doc, base)
	excerpt := extractDescription(doc)
	if excerpt == "" {
		excerpt = firstBodyParagraph(paragraphs)
	}

	return &pressroom.ExtractedContent{
		Title:       title,
		Content:     content,
		Excerpt:     pressroom.TruncateExcerpt(excerpt),
		Author:      extractAuthor(doc),
		PublishedAt: extractPublished(doc),
		Image:       extractImage(doc, base),
		Category:    pressroom.InferCategory(sourceURL),
		Language:    extractLanguage(doc, title+"\n"+content),
		Source:      base.Hostname(),
		SiteName:    extractSiteName(doc),
		Strategy:    e.Name(),
	}, nil
}

// Body containers are checked by selector, so a class such as
// "article-body has-share-bar" survives the substring noise matches.
var containerSelector, wrapperSelector = containerSelectors()

func containerSelectors() (container, wrapper string) {
	all := append([]string(nil), contentStrategies...)
	for _, sels := range platformContent {
		all = append(all, sels...)
	}
	var specific []string
	for _, sel := range all {
		if !genericContainers[sel] {
			specific = append(specific, sel)
		}
	}
	return strings.Join(all, ", "), strings.Join(specific, ", ")
}

func removeNoise(doc *goquery.Document) {
	for _, sel := range noiseSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if isProtected(s) {
				return
			}
			s.Remove()
		})
	}
}

// isProtected reports whether s is a document root, an article body
// container or a wrapper around a specific body container.
func isProtected(s *goquery.Selection) bool {
	if protectedNodes[goquery.NodeName(s)] {
		return true
	}
	return s.Is(containerSelector) || s.Find(wrapperSelector).Length() > 0
}

// extractBody returns the paragraphs of the best scoring content candidate.
// A platform specific container that reaches MinContentLength wins
// outright. When no candidate reaches MinContentLength, all sufficiently
// long paragraphs in the document are used instead.
func (e *Extractor) extractBody(doc *goquery.Document, platform Platform) []string {
	if best := bestCandidate(doc, platformContent[platform]); textLength(best) >= e.MinContentLength {
		return best
	}

	best := bestCandidate(doc, contentStrategies)
	if textLength(best) >= e.MinContentLength {
		return best
	}
	if fallback := collectLongParagraphs(doc); textLength(fallback) > textLength(best) {
		return fallback
	}
	return best
}

func bestCandidate(doc *goquery.Document, strategies []string) []string {
	var best []string
	bestScore := 0
	for _, sel := range strategies {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			paragraphs := collectBlocks(s)
			if len(paragraphs) == 0 {
				return
			}
			// Ties keep the higher ranked strategy.
			if score := sanitize.ScoreCandidate(paragraphs); best == nil || score > bestScore {
				best, bestScore = paragraphs, score
			}
		})
	}
	return best
}

// collectBlocks assembles a candidate from the heading, paragraph, list and
// quote nodes under container. Nodes nested in another collected block are
// skipped so that text is not repeated.
func collectBlocks(container *goquery.Selection) []string {
	var paragraphs []string
	container.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("p, li, blockquote").Length() > 0 {
			return
		}
		text := collapseSpace(s.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h2", "h3", "h4":
			text = "## " + text
		}
		paragraphs = append(paragraphs, text)
	})
	return paragraphs
}

func collectLongParagraphs(doc *goquery.Document) []string {
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if utf8.RuneCountInString(text) > fallbackParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

func firstBodyParagraph(paragraphs []string) string {
	for _, p := range paragraphs {
		if !sanitize.IsHeading(p) {
			return p
		}
	}
	return ""
}

func textLength(paragraphs []string) int {
	n := 0
	for _, p := range paragraphs {
		n += utf8.RuneCountInString(p)
	}
	return n
}
