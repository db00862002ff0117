package pressroom

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Extraction quality floors.
const (
	// MinTitleLength is the shortest acceptable extracted title, in characters.
	MinTitleLength = 10

	// MinContentLength is the shortest acceptable extracted body, in characters.
	MinContentLength = 100

	// MinStaticContentLength is the stricter floor applied to the static path.
	MinStaticContentLength = 200

	// MaxExcerptLength is the longest excerpt carried on extracted content.
	MaxExcerptLength = 300
)

// Category is the editorial bucket an article is filed under.
type Category string

// Category constants.
const (
	CategoryAI    Category = "ai"
	CategoryApple Category = "apple"
	CategoryGames Category = "games"
	CategoryTech  Category = "tech"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAI, CategoryApple, CategoryGames, CategoryTech:
		return true
	}
	return false
}

// ExtractedContent is the normalized result of extracting an article from a
// web page or a remote reader.
type ExtractedContent struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Author      string   `json:"author,omitempty"`
	PublishedAt string   `json:"publishedAt,omitempty"`
	Image       string   `json:"image,omitempty"`
	Category    Category `json:"category"`
	Language    string   `json:"language"`
	Source      string   `json:"source"`
	SiteName    string   `json:"siteName,omitempty"`

	// Strategy names the extractor that produced the content.
	Strategy string `json:"strategy,omitempty"`
}

// errorPagePhrases identify error pages served with a successful status
// code wherever they appear in a title, as whole words.
var errorPagePhrases = []string{
	"page not found",
	"404 not found",
	"error 404",
	"403 forbidden",
	"access denied",
	"error 500",
	"internal server error",
	"service unavailable",
	"just a moment",
	"attention required",
	"страница не найдена",
	"nie znaleziono strony",
}

// errorPageTitles identify error pages only when they make up a whole title
// or a whole segment between site separators, since they also occur in
// ordinary headlines ("Forbidden City reopens").
var errorPageTitles = map[string]bool{
	"404":            true,
	"403":            true,
	"500":            true,
	"error":          true,
	"not found":      true,
	"forbidden":      true,
	"nie znaleziono": true,
}

var (
	errorPagePhraseRe  = wordPattern(errorPagePhrases)
	titleSeparatorRe   = regexp.MustCompile(`\s+[|\-–—·:]\s+|\s*[|–—·]\s*`)
	titlePunctuationRe = regexp.MustCompile(`^[\s\p{P}\p{S}]+|[\s\p{P}\p{S}]+$`)
)

// wordPattern compiles a case-insensitive alternation of phrases that must
// be bounded by non-alphanumerics. \b is ASCII only, so the boundaries are
// explicit.
func wordPattern(phrases []string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)([^\p{L}\p{N}]|$)`)
}

// IsErrorPageTitle reports whether title looks like an error page title.
func IsErrorPageTitle(title string) bool {
	if errorPagePhraseRe.MatchString(title) {
		return true
	}
	for _, segment := range titleSeparatorRe.Split(title, -1) {
		segment = titlePunctuationRe.ReplaceAllString(strings.ToLower(segment), "")
		if errorPageTitles[strings.Join(strings.Fields(segment), " ")] {
			return true
		}
	}
	return false
}

// Validate returns an EINVALID error if the content does not meet the
// minimum quality bar. minContent is the content length floor in characters.
func (c *ExtractedContent) Validate(minContent int) error {
	title := strings.TrimSpace(c.Title)
	if IsErrorPageTitle(title) {
		return Errorf(EINVALID, "error page detected: %q", title)
	}
	if utf8.RuneCountInString(title) < MinTitleLength {
		return Errorf(EINVALID, "title too short: %q", title)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(c.Content)); n < minContent {
		return Errorf(EINVALID, "content too short: %d characters, need %d", n, minContent)
	}
	return nil
}

// ParsingOptions configures a single extraction attempt.
type ParsingOptions struct {
	Timeout             time.Duration
	MaxContentLength    int
	IncludeImages       bool
	UserAgent           string
	AllowReaderFallback bool
}

// DefaultUserAgent identifies the pipeline to origin servers.
const DefaultUserAgent = "Mozilla/5.0 (compatible; pressroom/1.0; +https://github.com/fwojciec/pressroom)"

// DefaultParsingOptions returns the options used when the caller sets none.
func DefaultParsingOptions() ParsingOptions {
	return ParsingOptions{
		Timeout:             20 * time.Second,
		MaxContentLength:    60000,
		IncludeImages:       true,
		UserAgent:           DefaultUserAgent,
		AllowReaderFallback: true,
	}
}

// HTMLExtractor extracts an article from raw HTML.
type HTMLExtractor interface {
	// Name identifies the extraction strategy.
	Name() string

	// Extract parses html fetched from sourceURL and returns the article.
	// Missing metadata is left empty rather than reported as an error.
	Extract(html string, sourceURL string) (*ExtractedContent, error)
}

// ContentExtractor turns a URL into validated extracted content.
type ContentExtractor interface {
	// Extract fetches and parses url. Returns EINVALID for malformed URLs
	// and content that fails validation, ETIMEOUT when the attempt runs out
	// of time, and ENETWORK when every strategy failed to fetch.
	Extract(ctx context.Context, url string, opts ParsingOptions) (*ExtractedContent, error)
}

// Reader retrieves readable text for a URL from a remote readability
// service. It is the fallback for pages the static extractors cannot handle.
type Reader interface {
	Read(ctx context.Context, url string) (*ExtractedContent, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

type userAgentKey struct{}

// WithUserAgent returns a copy of ctx carrying the request identity string
// used by fetchers.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// UserAgentFromContext returns the request identity string stored in ctx.
func UserAgentFromContext(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

// TruncateExcerpt shortens s to at most MaxExcerptLength characters,
// cutting at a word boundary and appending an ellipsis.
func TruncateExcerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= MaxExcerptLength {
		return s
	}
	cut := string(runes[:MaxExcerptLength-1])
	if i := strings.LastIndex(cut, " "); i > MaxExcerptLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-") + "…"
}
