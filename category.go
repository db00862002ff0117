package pressroom

import (
	"net/url"
	"strings"
	"unicode"
)

// categoryKeywords maps URL tokens to categories. Buckets are checked in
// order; the first bucket with a matching token wins.
var categoryKeywords = []struct {
	category Category
	tokens   []string
}{
	{CategoryAI, []string{"ai", "artificial-intelligence", "openai", "chatgpt", "gpt", "llm", "machine-learning", "neural", "gemini", "anthropic", "deepmind"}},
	{CategoryApple, []string{"apple", "iphone", "ipad", "ios", "macos", "mac", "macbook", "watchos", "airpods", "android", "smartphone", "mobile", "samsung", "pixel"}},
	{CategoryGames, []string{"game", "games", "gaming", "playstation", "ps5", "xbox", "nintendo", "steam", "esports"}},
}

// InferCategory files a URL under a category by keyword matching on its
// host and path. Defaults to CategoryTech.
func InferCategory(rawURL string) Category {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CategoryTech
	}

	haystack := strings.ToLower(u.Host + "/" + u.Path)
	words := strings.FieldsFunc(haystack, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}

	for _, bucket := range categoryKeywords {
		for _, token := range bucket.tokens {
			if strings.Contains(token, "-") {
				if strings.Contains(haystack, token) {
					return bucket.category
				}
				continue
			}
			if set[token] {
				return bucket.category
			}
		}
	}
	return CategoryTech
}
