package pressroom

import (
	"context"
	"maps"
	"time"
)

// ArticleVariant is an article's title, body and excerpt in one language.
type ArticleVariant struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

// Article is the finished artifact of a ready job. It is the only value
// handed to downstream translation, image and publishing collaborators.
type Article struct {
	ID           string                    `json:"id"`
	JobID        string                    `json:"jobId"`
	SourceURL    string                    `json:"sourceUrl"`
	Title        string                    `json:"title"`
	Content      string                    `json:"content"`
	Excerpt      string                    `json:"excerpt"`
	Category     Category                  `json:"category"`
	ContentStyle ContentStyle              `json:"contentStyle"`
	Language     string                    `json:"language"`
	Image        string                    `json:"image,omitempty"`
	Author       string                    `json:"author,omitempty"`
	PublishedAt  string                    `json:"publishedAt,omitempty"`
	QualityScore int                       `json:"qualityScore"`
	Issues       []string                  `json:"issues,omitempty"`
	UsedAI       bool                      `json:"usedAI"`
	Variants     map[string]ArticleVariant `json:"variants"`
	ContentHash  string                    `json:"contentHash,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() *Article {
	other := *a
	other.Issues = append([]string(nil), a.Issues...)
	other.Variants = maps.Clone(a.Variants)
	return &other
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.Content == "" {
		return Errorf(EINVALID, "article content required")
	}
	return nil
}

// ArticleWriter receives finished articles. It is the handoff boundary to
// external persistence.
type ArticleWriter interface {
	CreateArticle(ctx context.Context, article *Article) error
}

// ArticleService represents a service for managing stored articles.
type ArticleService interface {
	// CreateArticle stores a new article, assigning ID, hash and timestamp.
	CreateArticle(ctx context.Context, article *Article) error

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticles retrieves articles matching the filter, newest first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// DeleteArticle permanently removes an article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	JobID    *string   `json:"jobId"`
	Category *Category `json:"category"`
	Language *string   `json:"language"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Translator translates text into a target language. It is a black-box
// collaborator invoked once a job's article is ready for localization.
type Translator interface {
	Translate(ctx context.Context, text string, targetLanguage string) (string, error)
}

// ImageQuery is the article summary passed to image sourcing.
type ImageQuery struct {
	Title    string
	Category Category
	Excerpt  string
}

// ImageFinder sources a lead image for an article and returns its URL.
type ImageFinder interface {
	FindImage(ctx context.Context, q ImageQuery) (string, error)
}
