package pressroom

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	headingRe    = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	underlineRe  = regexp.MustCompile(`^\s*(=+|-{2,})\s*$`)
	listMarkerRe = regexp.MustCompile(`^\s*([-*+•]|\d+[.)])\s+`)
)

// Section is a heading in a cleaned article body.
type Section struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ExtractSections returns the markdown headings (H1-H6) of body in order.
func ExtractSections(body string) []Section {
	matches := headingRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for _, m := range matches {
		title := strings.TrimSpace(m[2])
		sections = append(sections, Section{
			Level: len(m[1]),
			Title: title,
			Slug:  Slugify(title),
		})
	}
	return sections
}

// Slugify creates a URL and filename safe slug from a title.
// Letters are lowercased, runs of spaces and hyphens collapse to a single
// hyphen, everything else is dropped.
func Slugify(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// ATXHeadings rewrites setext headings, a line of text underlined with "="
// or "-", as "#" and "##" headings. An underline with no text line directly
// above it is a thematic break and stays as it is.
func ATXHeadings(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if i+1 < len(lines) && isSetextText(line) {
			if m := underlineRe.FindStringSubmatch(lines[i+1]); m != nil {
				marker := "##"
				if m[1][0] == '=' {
					marker = "#"
				}
				out = append(out, marker+" "+strings.TrimSpace(line))
				i++
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isSetextText(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" &&
		!headingRe.MatchString(line) &&
		!listMarkerRe.MatchString(line) &&
		!underlineRe.MatchString(line)
}
