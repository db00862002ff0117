package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArticle(title string) *pressroom.Article {
	return &pressroom.Article{
		JobID:        "job-1",
		SourceURL:    "https://example.com/news/chip",
		Title:        title,
		Content:      "The company announced its newest processor.\n\nEngineers redesigned the memory controller.",
		Excerpt:      "The company announced its newest processor.",
		Category:     pressroom.CategoryTech,
		ContentStyle: pressroom.StyleNews,
		Language:     "en",
		Image:        "https://example.com/chip.jpg",
		Author:       "Jane Doe",
		PublishedAt:  "2024-05-14T07:30:00Z",
		QualityScore: 81,
		Issues:       []string{"title shorter than 55 characters (36)"},
		UsedAI:       true,
		Variants: map[string]pressroom.ArticleVariant{
			"en": {Title: title, Content: "The company announced its newest processor."},
			"pl": {Title: "Producent chipów prezentuje procesor", Content: "Firma ogłosiła nowy procesor."},
		},
	}
}

func TestArticleService_CreateArticle(t *testing.T) {
	t.Parallel()

	t.Run("creates article with generated ID, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		a := newArticle("Chipmaker unveils a faster processor")
		require.NoError(t, svc.CreateArticle(context.Background(), a))

		assert.NotEmpty(t, a.ID, "ID should be generated")
		assert.Len(t, a.ContentHash, 16)
		assert.False(t, a.CreatedAt.IsZero(), "CreatedAt should be set")
	})

	t.Run("keeps an assigned ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		a := newArticle("Chipmaker unveils a faster processor")
		a.ID = "article-1"
		require.NoError(t, svc.CreateArticle(context.Background(), a))

		got, err := svc.FindArticleByID(context.Background(), "article-1")
		require.NoError(t, err)
		assert.Equal(t, "article-1", got.ID)
	})

	t.Run("returns error for invalid article", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		err := svc.CreateArticle(context.Background(), &pressroom.Article{Title: "No body"})
		require.Error(t, err)
		assert.Equal(t, pressroom.EINVALID, pressroom.ErrorCode(err))
	})

	t.Run("identical content yields identical hashes", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		a := newArticle("First")
		b := newArticle("Second")
		require.NoError(t, svc.CreateArticle(context.Background(), a))
		require.NoError(t, svc.CreateArticle(context.Background(), b))

		assert.Equal(t, a.ContentHash, b.ContentHash)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestArticleService_FindArticleByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := newArticle("Chipmaker unveils a faster processor")
		require.NoError(t, svc.CreateArticle(ctx, a))

		got, err := svc.FindArticleByID(ctx, a.ID)
		require.NoError(t, err)

		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, a.JobID, got.JobID)
		assert.Equal(t, a.SourceURL, got.SourceURL)
		assert.Equal(t, a.Title, got.Title)
		assert.Equal(t, a.Content, got.Content)
		assert.Equal(t, a.Excerpt, got.Excerpt)
		assert.Equal(t, a.Category, got.Category)
		assert.Equal(t, a.ContentStyle, got.ContentStyle)
		assert.Equal(t, a.Language, got.Language)
		assert.Equal(t, a.Image, got.Image)
		assert.Equal(t, a.Author, got.Author)
		assert.Equal(t, a.PublishedAt, got.PublishedAt)
		assert.Equal(t, a.QualityScore, got.QualityScore)
		assert.Equal(t, a.Issues, got.Issues)
		assert.True(t, got.UsedAI)
		assert.Equal(t, a.Variants, got.Variants)
		assert.Equal(t, a.ContentHash, got.ContentHash)
		assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("returns ENOTFOUND for missing article", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		_, err := svc.FindArticleByID(context.Background(), "missing")
		assert.Equal(t, pressroom.ENOTFOUND, pressroom.ErrorCode(err))
	})

	t.Run("stores articles without issues or variants", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := &pressroom.Article{Title: "Bare", Content: "Body."}
		require.NoError(t, svc.CreateArticle(ctx, a))

		got, err := svc.FindArticleByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Issues)
		assert.Empty(t, got.Variants)
		assert.False(t, got.UsedAI)
	})
}

func TestArticleService_FindArticles(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.ArticleService) []*pressroom.Article {
		t.Helper()
		base := time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)
		var out []*pressroom.Article
		for i, cat := range []pressroom.Category{pressroom.CategoryTech, pressroom.CategoryGames, pressroom.CategoryTech} {
			a := newArticle(fmt.Sprintf("Article %d", i))
			a.JobID = fmt.Sprintf("job-%d", i)
			a.Category = cat
			a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if i == 2 {
				a.Language = "pl"
			}
			require.NoError(t, svc.CreateArticle(context.Background(), a))
			out = append(out, a)
		}
		return out
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		seeded := seed(t, svc)

		got, err := svc.FindArticles(context.Background(), pressroom.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, seeded[2].ID, got[0].ID)
		assert.Equal(t, seeded[0].ID, got[2].ID)
	})

	t.Run("filters by job, category and language", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		seeded := seed(t, svc)
		ctx := context.Background()

		jobID := "job-1"
		got, err := svc.FindArticles(ctx, pressroom.ArticleFilter{JobID: &jobID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, seeded[1].ID, got[0].ID)

		tech := pressroom.CategoryTech
		got, err = svc.FindArticles(ctx, pressroom.ArticleFilter{Category: &tech})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		lang := "pl"
		got, err = svc.FindArticles(ctx, pressroom.ArticleFilter{Category: &tech, Language: &lang})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, seeded[2].ID, got[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		seeded := seed(t, svc)
		ctx := context.Background()

		got, err := svc.FindArticles(ctx, pressroom.ArticleFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, seeded[1].ID, got[0].ID)

		got, err = svc.FindArticles(ctx, pressroom.ArticleFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, seeded[0].ID, got[0].ID)
	})
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing article", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		a := newArticle("Chipmaker unveils a faster processor")
		require.NoError(t, svc.CreateArticle(ctx, a))

		require.NoError(t, svc.DeleteArticle(ctx, a.ID))

		_, err := svc.FindArticleByID(ctx, a.ID)
		assert.Equal(t, pressroom.ENOTFOUND, pressroom.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for missing article", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		err := svc.DeleteArticle(context.Background(), "missing")
		assert.Equal(t, pressroom.ENOTFOUND, pressroom.ErrorCode(err))
	})
}
