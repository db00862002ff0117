// Package sanitize removes parser noise from extracted article text and
// scores text for leftover artifacts.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pressroom"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Sanitizer implements pressroom.Sanitizer at compile time.
var _ pressroom.Sanitizer = (*Sanitizer)(nil)

// Config tunes paragraph filtering.
type Config struct {
	// MinWords is the fewest words a body paragraph may have.
	MinWords int

	// MaxDigitRatio is the highest digit share a body paragraph may have.
	MaxDigitRatio float64

	// MaxTickerHits is the most live-ticker phrases a body paragraph may
	// contain.
	MaxTickerHits int

	// MinParagraphsBeforeStop is how many paragraphs must already be kept
	// before a sidebar or ticker signature truncates the document.
	MinParagraphsBeforeStop int

	// DedupeKeyLength is the number of runes of normalized text that make
	// up a paragraph's dedupe key.
	DedupeKeyLength int

	// MaxHeadingWords is the most words a reconstructed heading may have.
	MaxHeadingWords int

	// MaxHeadingLength is the longest reconstructed heading, in runes.
	MaxHeadingLength int
}

// DefaultConfig returns the default filtering thresholds.
func DefaultConfig() Config {
	return Config{
		MinWords:                6,
		MaxDigitRatio:           0.35,
		MaxTickerHits:           1,
		MinParagraphsBeforeStop: 4,
		DedupeKeyLength:         160,
		MaxHeadingWords:         12,
		MaxHeadingLength:        90,
	}
}

// maxStripPasses bounds the fixed-point loops in preprocess and stripNoise.
const maxStripPasses = 5

// maxLeadRecommendationWords is the longest paragraph dropped for opening
// with a recommendation phrase.
const maxLeadRecommendationWords = 25

// Sanitizer cleans article text paragraph by paragraph.
// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	config Config
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with DefaultConfig.
func NewSanitizer() *Sanitizer {
	return NewSanitizerWithConfig(DefaultConfig())
}

// NewSanitizerWithConfig creates a Sanitizer with the given thresholds.
func NewSanitizerWithConfig(cfg Config) *Sanitizer {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	return &Sanitizer{
		config: cfg,
		policy: policy,
	}
}

// Sanitize removes boilerplate from text and returns the surviving
// paragraphs joined by blank lines. A leading metadata marker is preserved
// verbatim unless opts.DropMarker is set. In aggressive mode repeated
// paragraphs are dropped.
func (s *Sanitizer) Sanitize(text string, opts pressroom.SanitizeOptions) string {
	marker, body := extractMarker(normalizeNewlines(text))
	body = s.preprocess(body)

	raw := SplitParagraphs(body)
	kept := make([]string, 0, len(raw))
	seen := make(map[uint64]bool)

	for i, p := range raw {
		// Timestamp runs are detected before stripping removes leading clocks.
		if !IsHeading(p) && isTimestampRun(p) {
			continue
		}

		p = stripNoise(p)
		if p == "" {
			continue
		}

		if isRecommendation(p) {
			continue
		}
		if hardStopRe.MatchString(headingText(p)) {
			if len(kept) >= s.config.MinParagraphsBeforeStop {
				break
			}
			continue
		}

		heading := IsHeading(p)
		if heading {
			p = normalizeHeading(p)
		} else if i < len(raw)-1 && s.looksLikeHeading(p) {
			p = "## " + p
			heading = true
		}

		if !heading && s.reject(p) {
			continue
		}

		if opts.Aggressive {
			if key := s.dedupeKey(p); key != "" {
				h := xxhash.Sum64String(key)
				if seen[h] {
					continue
				}
				seen[h] = true
			}
		}
		kept = append(kept, p)
	}

	if !hasBody(kept) {
		return ""
	}

	out := strings.Join(kept, "\n\n")
	if marker != "" && !opts.DropMarker {
		out = marker + "\n\n" + out
	}
	return out
}

// preprocess strips markup that extractors and authors leave behind and
// rewrites setext headings as ATX headings. Each pass decodes one layer of
// entities, so it runs until the text stops changing.
func (s *Sanitizer) preprocess(text string) string {
	for range maxStripPasses {
		prev := text
		text = s.policy.Sanitize(text)
		text = html.UnescapeString(text)
		text = mdImageRe.ReplaceAllString(text, "")
		text = mdLinkRe.ReplaceAllString(text, "$1")
		if text == prev {
			break
		}
	}
	return pressroom.ATXHeadings(text)
}

// reject reports whether a body paragraph fails the quality filters.
func (s *Sanitizer) reject(p string) bool {
	if len(strings.Fields(p)) < s.config.MinWords {
		return true
	}
	if DigitRatio(p) > s.config.MaxDigitRatio {
		return true
	}
	if countMatches(tickerRe, p) > s.config.MaxTickerHits {
		return true
	}
	return false
}

// looksLikeHeading reports whether a body paragraph is a subheading that
// lost its markup: a short line without terminal punctuation.
func (s *Sanitizer) looksLikeHeading(p string) bool {
	if listItemRe.MatchString(p) {
		return false
	}
	words := len(strings.Fields(p))
	if words < 2 || words > s.config.MaxHeadingWords {
		return false
	}
	if len([]rune(p)) > s.config.MaxHeadingLength {
		return false
	}
	last, _ := lastRune(p)
	if strings.ContainsRune(".!?:;,…\"'»”)", last) {
		return false
	}
	first, _ := firstRune(p)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		return false
	}
	return DigitRatio(p) <= s.config.MaxDigitRatio
}

// dedupeKey returns the normalized comparison key for a paragraph:
// lowercased, punctuation stripped, whitespace collapsed and truncated.
func (s *Sanitizer) dedupeKey(p string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(p) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	key := strings.Join(strings.Fields(sb.String()), " ")
	if runes := []rune(key); len(runes) > s.config.DedupeKeyLength {
		key = string(runes[:s.config.DedupeKeyLength])
	}
	return key
}

// extractMarker splits a leading metadata marker from text.
func extractMarker(text string) (marker, rest string) {
	loc := markerRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text
	}
	return text[loc[2]:loc[3]], text[loc[1]:]
}

// stripNoise removes inline noise tokens and collapses whitespace. It runs
// to a fixed point so that a second pass never changes its output.
func stripNoise(p string) string {
	p = collapseSpace(p)
	for range maxStripPasses {
		prev := p
		p = adLabelRe.ReplaceAllString(p, "${1}${2}")
		p = urlRe.ReplaceAllString(p, "")
		p = stampRe.ReplaceAllString(p, "")
		if !IsHeading(p) {
			p = leadingClockRe.ReplaceAllString(p, "")
		}
		p = emptyBracketsRe.ReplaceAllString(p, "")
		p = collapseSpace(p)
		p = strings.TrimLeft(p, "–—|•·:, ")
		if p == prev {
			break
		}
	}
	if headingText(p) == "" {
		return ""
	}
	return p
}

// isRecommendation reports whether p is a recommendation widget.
func isRecommendation(p string) bool {
	text := headingText(p)
	return recommendationLeadRe.MatchString(text) &&
		len(strings.Fields(text)) <= maxLeadRecommendationWords
}

// normalizeHeading rewrites a heading with a single space after its marker.
func normalizeHeading(p string) string {
	m := headingRe.FindStringSubmatch(p)
	if m == nil {
		return p
	}
	return m[1] + " " + strings.TrimSpace(m[2])
}

// headingText returns p without a heading marker.
func headingText(p string) string {
	if m := headingRe.FindStringSubmatch(p); m != nil {
		return strings.TrimSpace(m[2])
	}
	if strings.Trim(p, "# ") == "" {
		return ""
	}
	return p
}

// hasBody reports whether paragraphs contain anything besides headings.
func hasBody(paragraphs []string) bool {
	for _, p := range paragraphs {
		if !IsHeading(p) {
			return true
		}
	}
	return false
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func lastRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0, false
	}
	return runes[len(runes)-1], true
}
