package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform identifies the publishing system that rendered a page.
type Platform string

// Platform constants.
const (
	PlatformUnknown   Platform = ""
	PlatformWordPress Platform = "wordpress"
	PlatformGhost     Platform = "ghost"
	PlatformMedium    Platform = "medium"
	PlatformSubstack  Platform = "substack"
	PlatformDrupal    Platform = "drupal"
	PlatformBlogger   Platform = "blogger"
)

// platformContent lists body containers specific to each platform. They are
// tried before the generic content strategies.
var platformContent = map[Platform][]string{
	PlatformWordPress: {".entry-content", ".wp-block-post-content", ".post-content"},
	PlatformGhost:     {".gh-content", ".post-full-content", ".post-content"},
	PlatformMedium:    {"article section", "article"},
	PlatformSubstack:  {".available-content .body", ".body.markup"},
	PlatformDrupal:    {".field--name-body", ".node__content"},
	PlatformBlogger:   {".post-body", ".post-body-container"},
}

// DetectPlatform analyzes HTML and returns the publishing platform.
// Returns PlatformUnknown if the platform cannot be determined.
func DetectPlatform(html string) Platform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PlatformUnknown
	}
	return detectPlatform(doc)
}

func detectPlatform(doc *goquery.Document) Platform {
	// Meta generator tags are the most reliable signal when present.
	if platform := detectFromMetaGenerator(doc); platform != PlatformUnknown {
		return platform
	}

	switch {
	case hasSelector(doc, "link[href*='/wp-content/']") ||
		hasSelector(doc, "script[src*='/wp-includes/']") ||
		hasSelector(doc, "link[rel='https://api.w.org/']"):
		return PlatformWordPress
	case hasSelector(doc, ".gh-content") ||
		hasSelector(doc, "script[src*='/ghost/']"):
		return PlatformGhost
	case hasSelector(doc, "meta[property='al:android:package'][content='com.medium.reader']"):
		return PlatformMedium
	case hasSelector(doc, "link[href*='substackcdn.com']") ||
		hasSelector(doc, "script[src*='substackcdn.com']"):
		return PlatformSubstack
	case hasSelector(doc, "[data-drupal-selector]") ||
		hasSelector(doc, "script[data-drupal-selector]"):
		return PlatformDrupal
	}
	return PlatformUnknown
}

func detectFromMetaGenerator(doc *goquery.Document) Platform {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	if generator == "" {
		return PlatformUnknown
	}

	switch {
	case strings.Contains(generator, "wordpress"):
		return PlatformWordPress
	case strings.Contains(generator, "ghost"):
		return PlatformGhost
	case strings.Contains(generator, "substack"):
		return PlatformSubstack
	case strings.Contains(generator, "drupal"):
		return PlatformDrupal
	case strings.Contains(generator, "blogger"):
		return PlatformBlogger
	}
	return PlatformUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
