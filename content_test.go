package pressroom_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/pressroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractedContent_Validate(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Body text with enough words. ", 10)

	t.Run("accepts content above the floors", func(t *testing.T) {
		t.Parallel()

		c := &pressroom.ExtractedContent{Title: "A reasonable headline", Content: body}
		require.NoError(t, c.Validate(pressroom.MinContentLength))
	})

	t.Run("rejects error page titles", func(t *testing.T) {
		t.Parallel()

		c := &pressroom.ExtractedContent{Title: "404 Not Found", Content: body}
		err := c.Validate(pressroom.MinContentLength)
		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
		assert.Contains(t, pressroom.ErrorMessage(err), "error page")
	})

	t.Run("rejects short titles", func(t *testing.T) {
		t.Parallel()

		c := &pressroom.ExtractedContent{Title: "Short", Content: body}
		err := c.Validate(pressroom.MinContentLength)
		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
		assert.Contains(t, pressroom.ErrorMessage(err), "title too short")
	})

	t.Run("applies the caller's content floor", func(t *testing.T) {
		t.Parallel()

		c := &pressroom.ExtractedContent{Title: "A reasonable headline", Content: strings.Repeat("x", 150)}
		require.NoError(t, c.Validate(pressroom.MinContentLength))

		err := c.Validate(pressroom.MinStaticContentLength)
		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
		assert.Contains(t, pressroom.ErrorMessage(err), "content too short")
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		c := &pressroom.ExtractedContent{Title: "Заголовок статьи", Content: strings.Repeat("ж", 99)}
		err := c.Validate(pressroom.MinContentLength)
		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
	})
}

func TestIsErrorPageTitle(t *testing.T) {
	t.Parallel()

	t.Run("detects error page titles", func(t *testing.T) {
		t.Parallel()

		for _, title := range []string{
			"Page Not Found | Example",
			"Just a moment...",
			"Access Denied",
			"404 Not Found",
			"404 | Example News",
			"Forbidden",
			"403 Forbidden - nginx",
			"Not Found",
			"Страница не найдена",
		} {
			assert.True(t, pressroom.IsErrorPageTitle(title), title)
		}
	})

	t.Run("keeps headlines that mention error words", func(t *testing.T) {
		t.Parallel()

		for _, title := range []string{
			"Apple unveils new MacBook Pro",
			"Forbidden City reopens to visitors after renovation",
			"Missing hiker not found after a three day search",
			"Route 404 bus service returns to the city centre",
			"Peugeot 4040 concept car revealed in Paris",
		} {
			assert.False(t, pressroom.IsErrorPageTitle(title), title)
		}
	})
}

func TestTruncateExcerpt(t *testing.T) {
	t.Parallel()

	t.Run("keeps short text", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "A short excerpt.", pressroom.TruncateExcerpt("  A short\n excerpt. "))
	})

	t.Run("cuts long text at a word boundary", func(t *testing.T) {
		t.Parallel()

		got := pressroom.TruncateExcerpt(strings.Repeat("word ", 100))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), pressroom.MaxExcerptLength)
		assert.True(t, strings.HasSuffix(got, "word…"), got)
	})
}

func TestUserAgentContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, pressroom.UserAgentFromContext(ctx))

	ctx = pressroom.WithUserAgent(ctx, "agent/1.0")
	assert.Equal(t, "agent/1.0", pressroom.UserAgentFromContext(ctx))
}

func TestDefaultParsingOptions(t *testing.T) {
	t.Parallel()

	opts := pressroom.DefaultParsingOptions()
	assert.Equal(t, pressroom.DefaultUserAgent, opts.UserAgent)
	assert.Equal(t, 60000, opts.MaxContentLength)
	assert.True(t, opts.AllowReaderFallback)
	assert.Positive(t, opts.Timeout)
}
