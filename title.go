package pressroom

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Title policy defaults.
const (
	DefaultTitleMinLength = 55
	DefaultTitleMaxLength = 95
	DefaultTitleFallback  = "Untitled Article"
)

// truncationFloor is the fraction of MaxLength before which a word boundary
// is not used for truncation.
const truncationFloor = 0.65

var (
	titleLinkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	titleMarkupRe = regexp.MustCompile("[*_`~]+")
	titleHeadRe   = regexp.MustCompile(`^\s*(#{1,6}\s*|>\s*|[-+]\s+)`)
	titleLabelRe  = regexp.MustCompile(`(?i)^(title|headline|заголовок|tytuł)\s*:\s*`)
	titleCloseRe  = regexp.MustCompile(`\s+#+$`)
)

// TitlePolicy enforces length and format rules on article titles.
// The zero value is not useful; use DefaultTitlePolicy.
type TitlePolicy struct {
	MinLength int
	MaxLength int
	Fallback  string
}

// DefaultTitlePolicy returns the policy applied to published titles.
func DefaultTitlePolicy() TitlePolicy {
	return TitlePolicy{
		MinLength: DefaultTitleMinLength,
		MaxLength: DefaultTitleMaxLength,
		Fallback:  DefaultTitleFallback,
	}
}

// Normalize cleans raw and enforces the length policy. It always returns a
// non-empty title no longer than MaxLength. Issues are advisory.
func (p TitlePolicy) Normalize(raw string) (string, []string) {
	maxLen := p.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultTitleMaxLength
	}

	var issues []string
	title := cleanTitle(raw)
	if title == "" {
		title = p.fallback()
		issues = append(issues, "title missing, fallback used")
	}

	if runeLen(title) > maxLen {
		title = truncateTitle(title, maxLen)
		if title == "" {
			title = truncateTitle(p.fallback(), maxLen)
		}
		issues = append(issues, fmt.Sprintf("title exceeded %d characters and was truncated", maxLen))
	}

	if n := runeLen(title); p.MinLength > 0 && n < p.MinLength {
		issues = append(issues, fmt.Sprintf("title shorter than %d characters (%d)", p.MinLength, n))
	}
	return title, issues
}

func (p TitlePolicy) fallback() string {
	if f := cleanTitle(p.Fallback); f != "" {
		return f
	}
	return DefaultTitleFallback
}

// cleanTitle strips markdown artifacts and collapses whitespace.
func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = titleHeadRe.ReplaceAllString(s, "")
	s = titleLinkRe.ReplaceAllString(s, "$1")
	s = titleMarkupRe.ReplaceAllString(s, "")
	s = titleLabelRe.ReplaceAllString(s, "")
	s = titleCloseRe.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, "#> ")
	s = strings.Trim(s, `"' `)
	return strings.Join(strings.Fields(s), " ")
}

// truncateTitle cuts s to maxLen runes, preferring the last word boundary
// at or beyond truncationFloor of maxLen.
func truncateTitle(s string, maxLen int) string {
	runes := []rune(s)
	cut := runes[:maxLen]

	boundary := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if unicode.IsSpace(cut[i]) {
			boundary = i
			break
		}
	}
	// A space just past the cut means the cut already ends on a word.
	if maxLen < len(runes) && unicode.IsSpace(runes[maxLen]) {
		boundary = maxLen
	}
	if boundary >= int(float64(maxLen)*truncationFloor) {
		cut = cut[:boundary]
	}

	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.Is(unicode.Pd, r)
	})
}

func runeLen(s string) int {
	return len([]rune(s))
}
