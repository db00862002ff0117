package main

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/fwojciec/pressroom"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	opts := pressroom.DefaultParsingOptions()
	opts.Timeout = c.Timeout
	opts.AllowReaderFallback = !c.NoReader
	opts.IncludeImages = !c.NoImages

	content, err := deps.Extractor.Extract(deps.Ctx, c.URL, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(content)
	}

	fmt.Fprintf(deps.Stdout, "Title:     %s\n", content.Title)
	fmt.Fprintf(deps.Stdout, "Source:    %s (%s)\n", content.Source, content.Strategy)
	fmt.Fprintf(deps.Stdout, "Language:  %s\n", content.Language)
	fmt.Fprintf(deps.Stdout, "Category:  %s\n", content.Category)
	if content.Author != "" {
		fmt.Fprintf(deps.Stdout, "Author:    %s\n", content.Author)
	}
	if content.PublishedAt != "" {
		fmt.Fprintf(deps.Stdout, "Published: %s\n", content.PublishedAt)
	}
	if content.Image != "" {
		fmt.Fprintf(deps.Stdout, "Image:     %s\n", content.Image)
	}
	fmt.Fprintf(deps.Stdout, "Length:    %d characters\n\n", utf8.RuneCountInString(content.Content))
	fmt.Fprintln(deps.Stdout, content.Content)
	return nil
}
