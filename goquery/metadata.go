package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/fwojciec/pressroom"
)

// metaSelector reads a value from the first element matching selector.
// An empty attr reads the element's text.
type metaSelector struct {
	selector string
	attr     string
}

var titleStrategies = []metaSelector{
	{"h1[itemprop='headline']", ""},
	{"h1.entry-title", ""},
	{"h1.article-title", ""},
	{"h1.post-title", ""},
	{"article h1", ""},
	{"meta[property='og:title']", "content"},
	{"meta[name='twitter:title']", "content"},
	{"h1", ""},
}

var imageStrategies = []metaSelector{
	{"meta[property='og:image']", "content"},
	{"meta[property='og:image:url']", "content"},
	{"meta[name='twitter:image']", "content"},
	{"meta[name='twitter:image:src']", "content"},
	{"link[rel='image_src']", "href"},
	{"article img", "src"},
	{"article img", "data-src"},
}

var authorStrategies = []metaSelector{
	{"meta[name='author']", "content"},
	{"meta[property='article:author']", "content"},
	{"[itemprop='author'] [itemprop='name']", ""},
	{"[itemprop='author']", ""},
	{"a[rel='author']", ""},
	{".byline .author", ""},
	{".author-name", ""},
	{".byline", ""},
}

var publishedStrategies = []metaSelector{
	{"meta[property='article:published_time']", "content"},
	{"meta[itemprop='datePublished']", "content"},
	{"meta[name='pubdate']", "content"},
	{"meta[name='publish-date']", "content"},
	{"meta[name='date']", "content"},
	{"time[itemprop='datePublished']", "datetime"},
	{"article time[datetime]", "datetime"},
	{"time[datetime]", "datetime"},
}

var siteNameStrategies = []metaSelector{
	{"meta[property='og:site_name']", "content"},
	{"meta[name='application-name']", "content"},
	{"meta[name='apple-mobile-web-app-title']", "content"},
}

var descriptionStrategies = []metaSelector{
	{"meta[name='description']", "content"},
	{"meta[property='og:description']", "content"},
	{"meta[name='twitter:description']", "content"},
}

var (
	bylinePrefixRe = regexp.MustCompile(`(?i)^(by|written by|autor|автор)[:\s]+`)
	slugIDRe       = regexp.MustCompile(`[-_]?\d{5,}$`)
)

// titleSeparators split a page title from a trailing site name.
var titleSeparators = []string{" | ", " - ", " — ", " – ", " :: ", " · "}

const maxAuthorLength = 100

// firstValue returns the first non-empty value produced by the strategies.
// accept may rewrite or reject (by returning "") a candidate value.
func firstValue(doc *goquery.Document, strategies []metaSelector, accept func(string) string) string {
	for _, st := range strategies {
		var found string
		doc.Find(st.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			var v string
			if st.attr == "" {
				v = s.Text()
			} else {
				v, _ = s.Attr(st.attr)
			}
			v = collapseSpace(v)
			if accept != nil && v != "" {
				v = accept(v)
			}
			found = v
			return v == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func extractTitle(doc *goquery.Document, sourceURL *url.URL) string {
	if t := firstValue(doc, titleStrategies, nil); t != "" {
		return t
	}
	if t := stripSiteSuffix(collapseSpace(doc.Find("title").First().Text())); t != "" {
		return t
	}
	return titleFromSlug(sourceURL)
}

// stripSiteSuffix removes a trailing " | Site Name" style suffix, keeping
// the head only when it is long enough to stand alone as a title.
func stripSiteSuffix(title string) string {
	for _, sep := range titleSeparators {
		i := strings.LastIndex(title, sep)
		if i <= 0 {
			continue
		}
		if head := strings.TrimSpace(title[:i]); utf8.RuneCountInString(head) >= pressroom.MinTitleLength {
			return head
		}
		break
	}
	return title
}

// titleFromSlug derives a readable title from the last meaningful path
// segment of u, e.g. "/2024/05/new-chip-announced.html" becomes
// "New chip announced".
func titleFromSlug(u *url.URL) string {
	if u == nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSuffix(segments[i], path.Ext(segments[i]))
		seg = slugIDRe.ReplaceAllString(seg, "")
		words := strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' || r == '+' })
		if len(words) < 2 {
			continue
		}
		title := strings.Join(words, " ")
		r, size := utf8.DecodeRuneInString(title)
		return string(unicode.ToUpper(r)) + title[size:]
	}
	return ""
}

func extractImage(doc *goquery.Document, base *url.URL) string {
	return firstValue(doc, imageStrategies, func(v string) string {
		if strings.HasPrefix(v, "data:") {
			return ""
		}
		return resolveURL(base, v)
	})
}

func extractAuthor(doc *goquery.Document) string {
	return firstValue(doc, authorStrategies, func(v string) string {
		// article:author frequently holds a profile URL rather than a name.
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return ""
		}
		v = strings.TrimSpace(bylinePrefixRe.ReplaceAllString(v, ""))
		if utf8.RuneCountInString(v) > maxAuthorLength {
			return ""
		}
		return v
	})
}

// extractPublished returns the publication time in RFC 3339, or empty if no
// strategy yields a parseable date.
func extractPublished(doc *goquery.Document) string {
	return firstValue(doc, publishedStrategies, func(v string) string {
		t, err := dateparse.ParseIn(v, time.UTC)
		if err != nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	})
}

func extractSiteName(doc *goquery.Document) string {
	return firstValue(doc, siteNameStrategies, nil)
}

func extractDescription(doc *goquery.Document) string {
	return firstValue(doc, descriptionStrategies, nil)
}

// extractLanguage prefers the declared document language, then the Open
// Graph locale, then a character-frequency guess over text.
func extractLanguage(doc *goquery.Document, text string) string {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		if code := pressroom.NormalizeLanguage(lang); code != "" {
			return code
		}
	}
	if locale, ok := doc.Find("meta[property='og:locale']").First().Attr("content"); ok {
		if code := pressroom.NormalizeLanguage(locale); code != "" {
			return code
		}
	}
	return pressroom.DetectLanguage(text)
}

// resolveURL resolves a possibly relative reference against base.
// Returns empty string if the reference cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	if base == nil {
		if !u.IsAbs() {
			return ""
		}
		return u.String()
	}
	return base.ResolveReference(u).String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
