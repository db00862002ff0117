// Package jina implements pressroom.Reader against a Jina-style reader
// service that returns readable markdown for an arbitrary URL.
package jina

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/pressroom"
)

// DefaultBaseURL is the public reader endpoint.
const DefaultBaseURL = "https://r.jina.ai"

// DefaultTimeout bounds a single reader request. It is independent of the
// static extraction timeout.
const DefaultTimeout = 25 * time.Second

// maxResponseSize is the largest reader response read, in bytes.
const maxResponseSize = 8 << 20

// maxTitleLineLength is the longest line accepted as a fallback title.
const maxTitleLineLength = 150

// Ensure Reader implements pressroom.Reader at compile time.
var _ pressroom.Reader = (*Reader)(nil)

var (
	frontMatterRe = regexp.MustCompile(`(?s)\A\s*---\n.*?\n---\s*\n`)
	headerLineRe  = regexp.MustCompile(`^(Title|URL Source|Published Time|Markdown Content|Description|Warning):\s*(.*)$`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
	h1Re          = regexp.MustCompile(`(?m)^#\s+(.+)$`)

	// targetStatusRe matches the upstream status the reader reports when
	// the target page itself failed, e.g.
	// "Target URL returned error 404: Not Found".
	targetStatusRe = regexp.MustCompile(`(?i)returned error (\d{3})`)
)

// Reader retrieves readable text for URLs from a remote reader service.
type Reader struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	client *http.Client
}

// NewReader creates a new Reader using DefaultBaseURL and DefaultTimeout.
func NewReader(apiKey string) *Reader {
	return &Reader{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
		client:  &http.Client{},
	}
}

// document is the reader's article payload.
type document struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	Author        string `json:"author"`
	PublishedTime string `json:"publishedTime"`
	Warning       string `json:"warning"`
}

// header holds the fields of the reader's plain-text header block.
type header struct {
	title   string
	warning string
}

// response accepts both {"data": {...}} envelopes and flat documents.
type response struct {
	Data *document `json:"data"`
	document
}

// Read fetches rawURL through the reader service and normalizes the result.
// Returns EINVALID when the readable content is too short, ENETWORK for
// transport failures, non-2xx responses and targets the reader reports as
// failing with a 4xx or 5xx status, and ETIMEOUT when the request exceeds
// Timeout.
func (r *Reader) Read(ctx context.Context, rawURL string) (*pressroom.ExtractedContent, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "invalid URL %q", rawURL)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	body, err := r.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc := parseResponse(body)
	content, hdr := normalizeContent(doc.Content)

	warning := doc.Warning
	if warning == "" {
		warning = hdr.warning
	}
	if status := targetStatus(warning); status >= 400 {
		return nil, pressroom.Errorf(pressroom.ENETWORK, "HTTP %d for %s (reported by reader)", status, rawURL)
	}

	if n := utf8.RuneCountInString(content); n < pressroom.MinContentLength {
		return nil, pressroom.Errorf(pressroom.EINVALID, "reader content too short for %s: %d characters", rawURL, n)
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = hdr.title
	}
	if title == "" {
		title = fallbackTitle(content)
	}

	excerpt := doc.Description
	if excerpt == "" {
		excerpt = firstParagraph(content)
	}

	return &pressroom.ExtractedContent{
		Title:       title,
		Content:     content,
		Excerpt:     pressroom.TruncateExcerpt(excerpt),
		Author:      strings.TrimSpace(doc.Author),
		PublishedAt: parsePublished(doc.PublishedTime),
		Image:       strings.TrimSpace(doc.Image),
		Category:    pressroom.InferCategory(rawURL),
		Language:    pressroom.DetectLanguage(title + "\n" + content),
		Source:      u.Hostname(),
		Strategy:    "reader",
	}, nil
}

func (r *Reader) do(ctx context.Context, rawURL string) ([]byte, error) {
	endpoint := strings.TrimRight(r.BaseURL, "/") + "/" + rawURL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pressroom.Errorf(pressroom.EINVALID, "invalid reader request for %s: %v", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}
	if ua := pressroom.UserAgentFromContext(ctx); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	client := r.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, pressroom.ClassifyError(err, "reader request for %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pressroom.Errorf(pressroom.ENETWORK, "reader returned HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, pressroom.ClassifyError(err, "reader response for %s", rawURL)
	}
	return body, nil
}

// parseResponse decodes a reader payload. Bodies that are not JSON are
// treated as plain markdown content.
func parseResponse(body []byte) document {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return document{Content: string(body)}
	}
	if resp.Data != nil {
		return *resp.Data
	}
	return resp.document
}

// normalizeContent strips front matter and reader header lines, rewrites
// setext headings, collapses runs of blank lines and returns the cleaned
// text along with the header fields.
func normalizeContent(raw string) (content string, h header) {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = frontMatterRe.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		m := headerLineRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		switch {
		case m[1] == "Title" && h.title == "":
			h.title = strings.TrimSpace(m[2])
		case m[1] == "Warning" && h.warning == "":
			h.warning = strings.TrimSpace(m[2])
		}
	}
	s = strings.Join(lines[i:], "\n")

	s = pressroom.ATXHeadings(s)
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s), h
}

// targetStatus returns the upstream HTTP status named in a reader warning,
// or 0 when there is none.
func targetStatus(warning string) int {
	m := targetStatusRe.FindStringSubmatch(warning)
	if m == nil {
		return 0
	}
	status, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return status
}

// fallbackTitle returns the first markdown H1, or else the first short
// non-empty line.
func fallbackTitle(content string) string {
	if m := h1Re.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && utf8.RuneCountInString(line) <= maxTitleLineLength {
			return line
		}
	}
	return ""
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

func parsePublished(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
