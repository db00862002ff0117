package readability_test

import (
	"testing"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/htmltomarkdown"
	"github.com/fwojciec/pressroom/mock"
	"github.com/fwojciec/pressroom/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements pressroom.HTMLExtractor at compile time.
var _ pressroom.HTMLExtractor = (*readability.Extractor)(nil)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Regulators approve new battery standard</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>Regulators approve new battery standard</h1>
<p>Regulators approved a new battery safety standard on Thursday that will apply to all laptops sold from next year onwards.</p>
<p>Manufacturers will need to certify every cell design with an independent lab before it can ship in consumer devices.</p>
<p>Industry groups welcomed the decision, saying a single standard would simplify testing across different markets.</p>
</article>
<footer><p>Footer Content Here</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and content", func(t *testing.T) {
		t.Parallel()

		ext := readability.NewExtractor(htmltomarkdown.NewConverter())
		result, err := ext.Extract(articleHTML, "https://news.example.com/2024/battery-standard")

		require.NoError(t, err)
		assert.Equal(t, "Regulators approve new battery standard", result.Title)
		assert.Contains(t, result.Content, "independent lab")
		assert.NotContains(t, result.Content, "Home Nav Link")
		assert.NotContains(t, result.Content, "Footer Content Here")
		assert.Equal(t, "readability", result.Strategy)
		assert.Equal(t, "news.example.com", result.Source)
		assert.Equal(t, pressroom.CategoryTech, result.Category)
		assert.Equal(t, "en", result.Language)
	})

	t.Run("passes article HTML through the converter", func(t *testing.T) {
		t.Parallel()

		var gotHTML string
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				gotHTML = html
				return "  converted  ", nil
			},
		}

		ext := readability.NewExtractor(conv)
		result, err := ext.Extract(articleHTML, "https://news.example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "converted", result.Content)
		assert.Contains(t, gotHTML, "single standard")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		ext := readability.NewExtractor(htmltomarkdown.NewConverter())
		_, err := ext.Extract("", "https://example.com/a")

		require.Error(t, err)
		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
	})

	t.Run("rejects invalid source URL", func(t *testing.T) {
		t.Parallel()

		ext := readability.NewExtractor(htmltomarkdown.NewConverter())
		_, err := ext.Extract(articleHTML, "://bad")

		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
	})
}
