package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/pressroom"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pressroom.ArticleService = (*ArticleService)(nil)

// timeFormat is RFC 3339 with fixed-width nanoseconds so that stored
// timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const articleColumns = `id, job_id, source_url, title, content, excerpt, category, content_style,
	language, image, author, published_at, quality_score, issues, used_ai, variants,
	content_hash, created_at`

// ArticleService implements pressroom.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// CreateArticle stores a new article. An empty ID is generated; the content
// hash and creation time are always set.
func (s *ArticleService) CreateArticle(ctx context.Context, a *pressroom.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.ContentHash = hashContent(a.Content)

	issues := a.Issues
	if issues == nil {
		issues = []string{}
	}
	issuesJSON, err := marshalColumn(issues, "issues")
	if err != nil {
		return err
	}
	variants := a.Variants
	if variants == nil {
		variants = map[string]pressroom.ArticleVariant{}
	}
	variantsJSON, err := marshalColumn(variants, "variants")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.JobID, a.SourceURL, a.Title, a.Content, a.Excerpt, string(a.Category), string(a.ContentStyle),
		a.Language, a.Image, a.Author, a.PublishedAt, a.QualityScore, issuesJSON, a.UsedAI, variantsJSON,
		a.ContentHash, a.CreatedAt.Format(timeFormat))

	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*pressroom.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pressroom.Errorf(pressroom.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter pressroom.ArticleFilter) ([]*pressroom.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + articleColumns + ` FROM articles WHERE 1=1`)

	if filter.JobID != nil {
		query.WriteString(" AND job_id = ?")
		args = append(args, *filter.JobID)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Language != nil {
		query.WriteString(" AND language = ?")
		args = append(args, *filter.Language)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*pressroom.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pressroom.Errorf(pressroom.ENOTFOUND, "article not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*pressroom.Article, error) {
	var a pressroom.Article
	var category, style, issues, variants, createdAt string

	if err := row.Scan(&a.ID, &a.JobID, &a.SourceURL, &a.Title, &a.Content, &a.Excerpt, &category, &style,
		&a.Language, &a.Image, &a.Author, &a.PublishedAt, &a.QualityScore, &issues, &a.UsedAI, &variants,
		&a.ContentHash, &createdAt); err != nil {
		return nil, err
	}

	a.Category = pressroom.Category(category)
	a.ContentStyle = pressroom.ContentStyle(style)
	if err := unmarshalColumn(issues, &a.Issues, "issues"); err != nil {
		return nil, err
	}
	if len(a.Issues) == 0 {
		a.Issues = nil
	}
	if err := unmarshalColumn(variants, &a.Variants, "variants"); err != nil {
		return nil, err
	}

	var err error
	a.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &a, nil
}
