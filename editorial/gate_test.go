package editorial_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/editorial"
	"github.com/fwojciec/pressroom/mock"
	"github.com/fwojciec/pressroom/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longTitle = "Chipmaker unveils a faster processor for thin and light laptops"

// passthrough returns the body unchanged so that scores can be computed by
// hand.
func passthrough() *mock.Sanitizer {
	return &mock.Sanitizer{
		SanitizeFn: func(text string, _ pressroom.SanitizeOptions) string {
			return strings.TrimSpace(text)
		},
	}
}

// cleanBody returns n paragraphs of 99 characters each.
func cleanBody(n int) string {
	p := strings.TrimSpace(strings.Repeat("word ", 20))
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = p
	}
	return strings.Join(paragraphs, "\n\n")
}

// noisyBody returns a body with enough ad labels to trigger the rewrite.
func noisyBody() string {
	return cleanBody(3) + "\n\nAdvertisement\n\nAdvertisement"
}

func modelResponse(t *testing.T, fields map[string]any) string {
	t.Helper()
	b, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(b)
}

func failingRewriter(t *testing.T) *mock.Rewriter {
	return &mock.Rewriter{
		RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
			t.Error("rewriter must not be called")
			return "", nil
		},
	}
}

func TestGate_Review(t *testing.T) {
	t.Parallel()

	t.Run("scores clean text heuristically without calling the model", func(t *testing.T) {
		t.Parallel()

		g := editorial.NewGate(passthrough(), failingRewriter(t))
		got := g.Review(context.Background(), pressroom.ReviewInput{
			Title:   longTitle,
			Content: cleanBody(5),
		})

		require.NotNil(t, got)
		assert.False(t, got.UsedAI)
		// 62 base + 15 structure + 503/250 length.
		assert.Equal(t, 79, got.QualityScore)
		assert.Equal(t, longTitle, got.Title)
		assert.Equal(t, cleanBody(5), got.Content)
		assert.Empty(t, got.Issues)
	})

	t.Run("skips the model when no rewriter is configured", func(t *testing.T) {
		t.Parallel()

		g := editorial.NewGate(passthrough(), nil)
		got := g.Review(context.Background(), pressroom.ReviewInput{
			Title:   longTitle,
			Content: noisyBody(),
		})

		assert.False(t, got.UsedAI)
		// 62 + 15 + 1 length - 6*3 artifacts.
		assert.Equal(t, 60, got.QualityScore)
	})

	t.Run("derives excerpt from the first body paragraph", func(t *testing.T) {
		t.Parallel()

		g := editorial.NewGate(passthrough(), nil)
		got := g.Review(context.Background(), pressroom.ReviewInput{
			Title:   longTitle,
			Content: "## Overview\n\nThe first real paragraph of the story.\n\nThe second paragraph.",
		})

		assert.Equal(t, "The first real paragraph of the story.", got.Excerpt)
	})

	t.Run("keeps the submitted excerpt", func(t *testing.T) {
		t.Parallel()

		g := editorial.NewGate(passthrough(), nil)
		got := g.Review(context.Background(), pressroom.ReviewInput{
			Title:   longTitle,
			Content: cleanBody(2),
			Excerpt: "  A   short   summary.  ",
		})

		assert.Equal(t, "A short summary.", got.Excerpt)
	})

	t.Run("returns zero score for an empty body", func(t *testing.T) {
		t.Parallel()

		g := editorial.NewGate(passthrough(), failingRewriter(t))
		got := g.Review(context.Background(), pressroom.ReviewInput{Content: "   "})

		assert.Equal(t, 0, got.QualityScore)
		assert.Equal(t, pressroom.DefaultTitleFallback, got.Title)
		assert.Empty(t, got.Content)
		assert.Contains(t, got.Issues, "article body is empty after cleanup")
	})

	t.Run("uses the model result when the text is noisy", func(t *testing.T) {
		t.Parallel()

		var req pressroom.RewriteRequest
		rw := &mock.Rewriter{
			RewriteFn: func(_ context.Context, r pressroom.RewriteRequest) (string, error) {
				req = r
				return modelResponse(t, map[string]any{
					"title":        longTitle + " next year",
					"content":      "The rewritten first paragraph.\n\nThe rewritten second paragraph.",
					"excerpt":      "A rewritten summary.",
					"qualityScore": 88,
					"issues":       []string{"removed ad labels"},
				}), nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{
			Title:    longTitle,
			Content:  noisyBody(),
			Excerpt:  "Original summary.",
			Language: "en",
		})

		assert.True(t, got.UsedAI)
		assert.Equal(t, longTitle+" next year", got.Title)
		assert.Equal(t, "The rewritten first paragraph.\n\nThe rewritten second paragraph.", got.Content)
		assert.Equal(t, "A rewritten summary.", got.Excerpt)
		assert.Equal(t, 88, got.QualityScore)
		assert.Equal(t, []string{"removed ad labels"}, got.Issues)

		assert.Equal(t, longTitle, req.Title)
		assert.Equal(t, "Original summary.", req.Excerpt)
		assert.Equal(t, "en", req.Language)
		assert.Equal(t, noisyBody(), req.Content)
	})

	t.Run("calls the model for long bodies without artifacts", func(t *testing.T) {
		t.Parallel()

		var called bool
		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				called = true
				return modelResponse(t, map[string]any{"title": longTitle, "content": "Shorter body.", "qualityScore": 70}), nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		g.Config.CleanLengthThreshold = 100
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: cleanBody(2)})

		assert.True(t, called)
		assert.True(t, got.UsedAI)
		assert.Equal(t, "Shorter body.", got.Content)
	})

	t.Run("truncates content sent to the model", func(t *testing.T) {
		t.Parallel()

		var sent string
		rw := &mock.Rewriter{
			RewriteFn: func(_ context.Context, r pressroom.RewriteRequest) (string, error) {
				sent = r.Content
				return "", errors.New("unavailable")
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		g.Config.MaxAIContentLength = 50
		g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.True(t, strings.HasSuffix(sent, "\n\n[truncated]"))
		assert.LessOrEqual(t, utf8.RuneCountInString(strings.TrimSuffix(sent, "\n\n[truncated]")), 50)
	})

	t.Run("extracts JSON embedded in prose", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return "Here is the edited article:\n```json\n" + modelResponse(t, map[string]any{
					"title":        longTitle,
					"content":      "Edited body paragraph.",
					"qualityScore": "91",
				}) + "\n```", nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.True(t, got.UsedAI)
		assert.Equal(t, "Edited body paragraph.", got.Content)
		assert.Equal(t, 91, got.QualityScore)
		assert.Equal(t, "Edited body paragraph.", got.Excerpt)
	})

	t.Run("uses the heuristic score when the model omits one", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return modelResponse(t, map[string]any{"title": longTitle, "content": "Edited body paragraph."}), nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.True(t, got.UsedAI)
		assert.Equal(t, 60, got.QualityScore)
	})

	t.Run("falls back when the model returns garbage", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return "I cannot help with that.", nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.False(t, got.UsedAI)
		assert.Equal(t, noisyBody(), got.Content)
		assert.Equal(t, 60, got.QualityScore)
		assert.Equal(t, []string{"AI review failed: model returned no usable content"}, got.Issues)
	})

	t.Run("falls back when the model call fails", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return "", pressroom.Errorf(pressroom.ENETWORK, "model endpoint unreachable")
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.False(t, got.UsedAI)
		assert.Equal(t, noisyBody(), got.Content)
		assert.Equal(t, []string{"AI review failed: model endpoint unreachable"}, got.Issues)
	})

	t.Run("reports a timed out model call", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(ctx context.Context, _ pressroom.RewriteRequest) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		g.Config.AITimeout = 10 * time.Millisecond
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.False(t, got.UsedAI)
		require.Len(t, got.Issues, 1)
		assert.Contains(t, got.Issues[0], "timed out")
	})

	t.Run("penalizes title policy violations in the model result", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return modelResponse(t, map[string]any{
					"title":        "Short title",
					"content":      "Edited body paragraph.",
					"qualityScore": 90,
				}), nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.Equal(t, "Short title", got.Title)
		assert.Equal(t, 82, got.QualityScore)
		require.Len(t, got.Issues, 1)
		assert.Contains(t, got.Issues[0], "title shorter than 55")
	})

	t.Run("keeps scores and titles within bounds", func(t *testing.T) {
		t.Parallel()

		for _, reported := range []any{250, -40, "not a number", nil} {
			rw := &mock.Rewriter{
				RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
					return modelResponse(t, map[string]any{
						"title":        strings.Repeat("very long headline ", 20),
						"content":      "Edited body paragraph.",
						"qualityScore": reported,
					}), nil
				},
			}

			g := editorial.NewGate(passthrough(), rw)
			got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

			assert.GreaterOrEqual(t, got.QualityScore, 0)
			assert.LessOrEqual(t, got.QualityScore, 100)
			assert.NotEmpty(t, got.Title)
			assert.LessOrEqual(t, utf8.RuneCountInString(got.Title), pressroom.DefaultTitleMaxLength)
		}
	})

	t.Run("clamps out of range model scores before rounding", func(t *testing.T) {
		t.Parallel()

		for reported, want := range map[float64]int{1e300: 100, -1e300: 0, 100.4: 100} {
			rw := &mock.Rewriter{
				RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
					return modelResponse(t, map[string]any{
						"title":        longTitle,
						"content":      "Edited body paragraph.",
						"qualityScore": reported,
					}), nil
				},
			}

			g := editorial.NewGate(passthrough(), rw)
			got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

			require.True(t, got.UsedAI)
			assert.Equal(t, want, got.QualityScore, "reported %v", reported)
		}
	})

	t.Run("clamps the heuristic score", func(t *testing.T) {
		t.Parallel()

		low := editorial.NewGate(passthrough(), nil)
		low.Config.BaseScore = 0
		got := low.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})
		assert.Equal(t, 10, got.QualityScore)

		high := editorial.NewGate(passthrough(), nil)
		high.Config.BaseScore = 100
		got = high.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: cleanBody(5)})
		assert.Equal(t, 98, got.QualityScore)
	})

	t.Run("deduplicates and caps issues", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return modelResponse(t, map[string]any{
					"title":   longTitle,
					"content": "Edited body paragraph.",
					"issues": []string{
						"Removed ads", "removed ads", "one", "two", "three",
						"four", "five", "six", "seven", "eight", "nine",
					},
				}), nil
			},
		}

		g := editorial.NewGate(passthrough(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{Title: longTitle, Content: noisyBody()})

		assert.Len(t, got.Issues, 8)
		assert.Equal(t, "Removed ads", got.Issues[0])
		assert.Equal(t, "one", got.Issues[1])
	})

	t.Run("re-cleans model output with the sanitizer", func(t *testing.T) {
		t.Parallel()

		rw := &mock.Rewriter{
			RewriteFn: func(context.Context, pressroom.RewriteRequest) (string, error) {
				return modelResponse(t, map[string]any{
					"title": "## " + longTitle,
					"content": "The company announced its newest processor on Tuesday for thin laptops.\n\n" +
						"Read more: the ten best laptops of the year so far\n\n" +
						"Engineers redesigned the memory controller and moved to a smaller process.",
					"qualityScore": 85,
				}), nil
			},
		}

		g := editorial.NewGate(sanitize.NewSanitizer(), rw)
		got := g.Review(context.Background(), pressroom.ReviewInput{
			Title: longTitle,
			Content: "The company announced its newest processor on Tuesday for thin laptops.\n\n" +
				"Advertisement\n\nSponsored content from our partners appears here today.\n\n" +
				"Engineers redesigned the memory controller and moved to a smaller process.",
		})

		require.True(t, got.UsedAI)
		assert.Equal(t, longTitle, got.Title)
		assert.NotContains(t, got.Content, "Read more")
		assert.Contains(t, got.Content, "Engineers redesigned")
	})
}
