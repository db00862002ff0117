package sanitize

import (
	"regexp"
	"strings"
)

// phrasePattern compiles a case-insensitive alternation of phrases bounded
// by non-letters. Go's \b only understands ASCII word characters, which
// breaks on Cyrillic and Polish text, so the boundaries are explicit
// capture groups that replacements must put back.
func phrasePattern(phrases ...string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)([^\p{L}\p{N}]|$)`)
}

var (
	// markerRe matches a structured metadata marker at the top of a document,
	// e.g. "<!-- monetization: affiliate -->".
	markerRe = regexp.MustCompile(`(?s)^\s*(<!--\s*[\w.-]+\s*:.*?-->)`)

	// adLabelRe matches inline ad and sponsor labels.
	adLabelRe = phrasePattern(
		"advertisement", "sponsored content", "sponsored post", "sponsored article",
		"paid partnership", "partner content", "promoted content", "ad feature",
		"на правах рекламы", "реклама", "спонсорский материал",
		"materiał sponsorowany", "artykuł sponsorowany", "reklama",
	)

	// recommendationRe matches cross-reference and "read more" widget text.
	recommendationRe = phrasePattern(
		"read also", "read more", "read next", "also read", "see also", "related articles",
		"related stories", "recommended for you", "you may also like", "you might also like",
		"more from", "share this article", "share on facebook", "share on twitter",
		"follow us on", "subscribe to our newsletter", "sign up for our newsletter",
		"читайте также", "читайте еще", "смотрите также", "подписывайтесь на",
		"czytaj też", "czytaj także", "czytaj również", "zobacz też", "zobacz także",
	)

	// recommendationLeadRe matches recommendation phrases opening a paragraph,
	// which drops the whole paragraph.
	recommendationLeadRe = regexp.MustCompile(`(?i)^[\s\p{P}\p{S}]*(read (also|more|next)|also read|see also|related( articles| stories)?|recommended( for you)?|you (may|might) also like|more from|share (this|on)|follow us|subscribe to|sign up for|читайте (также|еще|ещё)|смотрите также|подписывайтесь|czytaj (też|także|również)|zobacz (też|także|również))`)

	// tickerRe matches live-update ticker vocabulary.
	tickerRe = phrasePattern(
		"live updates", "live blog", "updated", "last update", "breaking", "just now",
		"minutes ago", "hours ago", "min ago",
		"обновлено", "обновление", "минут назад", "часов назад", "только что", "срочно",
		"aktualizacja", "zaktualizowano", "minut temu", "godzin temu", "na żywo",
	)

	// tagCloudRe matches tag and topic list labels.
	tagCloudRe = regexp.MustCompile(`(?i)(^|[^\p{L}])(tags|tag|topics|теги|метки|тэги|tagi)\s*:`)

	// hashtagRunRe matches three or more consecutive hashtags.
	hashtagRunRe = regexp.MustCompile(`(#[\p{L}\p{N}_]+[\s,]*){3,}`)

	// hardStopRe matches paragraphs that begin a sidebar, ticker or tag cloud.
	// Everything after such a paragraph is discarded.
	hardStopRe = regexp.MustCompile(`(?i)^[\s\p{P}\p{S}]*((tags|tag|topics|теги|метки|тэги|tagi)\s*:|(most (popular|read|viewed)|popular (now|posts|articles|stories)|trending( now)?|latest (news|stories|headlines)|live updates|top stories|comments|самое (читаемое|популярное)|последние новости|новости по теме|комментарии|najpopularniejsze|najczęściej czytane|najnowsze|komentarze)[\s\p{P}\p{S}]*$)`)

	// urlRe matches raw URLs.
	urlRe = regexp.MustCompile(`(?i)(https?://|www\.)[^\s)\]]+`)

	// clockRe matches a clock time such as 14:35 or 9:05.
	clockRe = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)

	// stampRe matches bare date-time stamps.
	stampRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:?\d{2})?|\d{1,2}[./-]\d{1,2}[./-]\d{2,4},?\s*\d{1,2}:\d{2}(:\d{2})?)`)

	// leadingClockRe matches a clock time opening a paragraph, as left by
	// live tickers and feed widgets ("14:35 — ...").
	leadingClockRe = regexp.MustCompile(`^\d{1,2}:\d{2}(\s*(am|pm|AM|PM))?\s*[-–—|•·:]?\s*`)

	// mdImageRe matches markdown image references.
	mdImageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

	// mdLinkRe matches markdown links.
	mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)

	// emptyBracketsRe matches bracket pairs emptied by noise removal.
	emptyBracketsRe = regexp.MustCompile(`\(\s*\)|\[\s*\]`)

	// headingRe matches a markdown heading line.
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(\S.*)$`)

	// listItemRe matches a markdown list item marker.
	listItemRe = regexp.MustCompile(`^([-*+•]|\d+[.)])\s+`)
)

// countMatches returns the number of non-overlapping matches of re in s.
func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}
