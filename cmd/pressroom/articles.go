package main

import (
	"fmt"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/fs"
	"github.com/mattn/go-runewidth"
)

// titleWidth is the terminal column budget for titles in listings.
const titleWidth = 72

// Run executes the articles command.
func (c *ArticlesCmd) Run(deps *Dependencies) error {
	filter := pressroom.ArticleFilter{Offset: c.Offset, Limit: c.Limit}
	if c.Category != "" {
		category := pressroom.Category(c.Category)
		filter.Category = &category
	}
	if c.Lang != "" {
		filter.Language = &c.Lang
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'pressroom ingest' to add one.")
		return nil
	}

	for _, a := range articles {
		title := runewidth.Truncate(a.Title, titleWidth, "...")
		fmt.Fprintf(deps.Stdout, "%s  %s  %-5s %3d  %s\n", a.ID, a.Language, a.Category, a.QualityScore, title)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	a, err := deps.Articles.FindArticleByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	lang := a.Language
	if c.Lang != "" {
		lang = c.Lang
	}
	v, ok := a.Variants[lang]
	if !ok && lang == a.Language {
		v, ok = pressroom.ArticleVariant{Title: a.Title, Content: a.Content, Excerpt: a.Excerpt}, true
	}
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: article %s has no %q variant\n", a.ID, lang)
		return pressroom.Errorf(pressroom.ENOTFOUND, "article %s has no %q variant", a.ID, lang)
	}

	out, err := fs.FormatArticle(a, lang, v)
	if err != nil {
		return err
	}
	fmt.Fprint(deps.Stdout, out)
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return pressroom.Errorf(pressroom.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %s\n", c.ID)
	return nil
}
