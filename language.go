package pressroom

import (
	"strings"
	"unicode"
)

// Language detection thresholds.
const (
	cyrillicShare    = 0.3
	ukrainianLetters = 3
	polishDiacritics = 5
	polishShare      = 0.01
	defaultLanguage  = "en"
)

// DetectLanguage guesses the ISO 639-1 language of text from character
// frequencies. Cyrillic-dominant text is Russian (or Ukrainian when
// Ukrainian-only letters appear), text with enough Polish diacritics is
// Polish, and everything else defaults to English.
func DetectLanguage(text string) string {
	var letters, cyrillic, ukrainian, polish int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillic++
		}
		switch unicode.ToLower(r) {
		case 'і', 'ї', 'є', 'ґ':
			ukrainian++
		case 'ą', 'ć', 'ę', 'ł', 'ń', 'ś', 'ź', 'ż':
			polish++
		}
	}
	if letters == 0 {
		return defaultLanguage
	}

	if float64(cyrillic)/float64(letters) > cyrillicShare {
		if ukrainian >= ukrainianLetters {
			return "uk"
		}
		return "ru"
	}
	if polish >= polishDiacritics && float64(polish)/float64(letters) > polishShare {
		return "pl"
	}
	return defaultLanguage
}

// NormalizeLanguage reduces a language tag such as "en-US" or "pl_PL" to
// its lowercase ISO 639-1 primary subtag. Returns empty for malformed tags.
func NormalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	if len(tag) != 2 {
		return ""
	}
	for _, r := range tag {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return tag
}
