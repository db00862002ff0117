// Package fs writes finished articles as markdown files with YAML front
// matter, one file per language.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/pressroom"
	"gopkg.in/yaml.v3"
)

// maxSlugLength caps the file name derived from a title.
const maxSlugLength = 80

// frontMatter is the YAML header of an article file.
type frontMatter struct {
	Title        string   `yaml:"title"`
	Excerpt      string   `yaml:"excerpt,omitempty"`
	Source       string   `yaml:"source,omitempty"`
	Author       string   `yaml:"author,omitempty"`
	Published    string   `yaml:"published,omitempty"`
	Image        string   `yaml:"image,omitempty"`
	Category     string   `yaml:"category,omitempty"`
	Style        string   `yaml:"style,omitempty"`
	Language     string   `yaml:"language"`
	Translation  bool     `yaml:"translation,omitempty"`
	QualityScore int      `yaml:"quality"`
	UsedAI       bool     `yaml:"ai"`
	Sections     []string `yaml:"sections,omitempty"`
	Created      string   `yaml:"created,omitempty"`
}

// Slug returns the file name stem for an article: the slugified source
// language title, falling back to the article ID.
func Slug(a *pressroom.Article) string {
	slug := pressroom.Slugify(a.Title)
	if runes := []rune(slug); len(runes) > maxSlugLength {
		slug = strings.TrimRight(string(runes[:maxSlugLength]), "-")
	}
	if slug == "" {
		slug = pressroom.Slugify(a.ID)
	}
	if slug == "" {
		slug = "article"
	}
	return slug
}

// ArticlePath returns the relative file path of an article in lang.
// The source language is written to <slug>.md, translations to
// <slug>.<lang>.md.
func ArticlePath(a *pressroom.Article, lang string) string {
	if lang == "" || lang == a.Language {
		return Slug(a) + ".md"
	}
	return Slug(a) + "." + lang + ".md"
}

// FormatArticle formats one language variant of an article with YAML front
// matter.
func FormatArticle(a *pressroom.Article, lang string, v pressroom.ArticleVariant) (string, error) {
	fm := frontMatter{
		Title:        v.Title,
		Excerpt:      v.Excerpt,
		Source:       a.SourceURL,
		Author:       a.Author,
		Published:    a.PublishedAt,
		Image:        a.Image,
		Category:     string(a.Category),
		Style:        string(a.ContentStyle),
		Language:     lang,
		Translation:  lang != a.Language,
		QualityScore: a.QualityScore,
		UsedAI:       a.UsedAI,
	}
	for _, s := range pressroom.ExtractSections(v.Content) {
		fm.Sections = append(fm.Sections, s.Title)
	}
	if !a.CreatedAt.IsZero() {
		fm.Created = a.CreatedAt.UTC().Format("2006-01-02")
	}

	header, err := yaml.Marshal(&fm)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(v.Content)
	b.WriteString("\n")
	return b.String(), nil
}

// Ensure Writer implements pressroom.ArticleWriter at compile time.
var _ pressroom.ArticleWriter = (*Writer)(nil)

// Writer writes articles as markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateArticle writes every language variant of the article to disk.
// Files are written to a temporary name and renamed into place so that
// readers never see a partial file.
func (w *Writer) CreateArticle(ctx context.Context, a *pressroom.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	variants := a.Variants
	if _, ok := variants[a.Language]; !ok {
		variants = map[string]pressroom.ArticleVariant{
			a.Language: {Title: a.Title, Content: a.Content, Excerpt: a.Excerpt},
		}
		for lang, v := range a.Variants {
			variants[lang] = v
		}
	}

	langs := make([]string, 0, len(variants))
	for lang := range variants {
		langs = append(langs, lang)
	}
	slices.Sort(langs)

	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := FormatArticle(a, lang, variants[lang])
		if err != nil {
			return err
		}
		if err := writeFileAtomic(filepath.Join(w.baseDir, ArticlePath(a, lang)), content); err != nil {
			return err
		}
	}
	return nil
}

func writeFileAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
