package mock

import (
	"context"

	"github.com/fwojciec/pressroom"
)

var _ pressroom.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of pressroom.ArticleWriter.
type ArticleWriter struct {
	CreateArticleFn func(ctx context.Context, article *pressroom.Article) error
}

func (w *ArticleWriter) CreateArticle(ctx context.Context, article *pressroom.Article) error {
	return w.CreateArticleFn(ctx, article)
}

var _ pressroom.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of pressroom.ArticleService.
type ArticleService struct {
	CreateArticleFn   func(ctx context.Context, article *pressroom.Article) error
	FindArticleByIDFn func(ctx context.Context, id string) (*pressroom.Article, error)
	FindArticlesFn    func(ctx context.Context, filter pressroom.ArticleFilter) ([]*pressroom.Article, error)
	DeleteArticleFn   func(ctx context.Context, id string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *pressroom.Article) error {
	return s.CreateArticleFn(ctx, article)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*pressroom.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter pressroom.ArticleFilter) ([]*pressroom.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}

var _ pressroom.Translator = (*Translator)(nil)

// Translator is a mock implementation of pressroom.Translator.
type Translator struct {
	TranslateFn func(ctx context.Context, text string, targetLanguage string) (string, error)
}

func (t *Translator) Translate(ctx context.Context, text string, targetLanguage string) (string, error) {
	return t.TranslateFn(ctx, text, targetLanguage)
}

var _ pressroom.ImageFinder = (*ImageFinder)(nil)

// ImageFinder is a mock implementation of pressroom.ImageFinder.
type ImageFinder struct {
	FindImageFn func(ctx context.Context, q pressroom.ImageQuery) (string, error)
}

func (f *ImageFinder) FindImage(ctx context.Context, q pressroom.ImageQuery) (string, error) {
	return f.FindImageFn(ctx, q)
}
