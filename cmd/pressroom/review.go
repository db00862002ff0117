package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/pressroom"
)

// Run executes the review command.
func (c *ReviewCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	lang := pressroom.NormalizeLanguage(c.Language)
	if lang == "" {
		lang = pressroom.DetectLanguage(c.Title + "\n" + string(data))
	}

	result := deps.Reviewer.Review(deps.Ctx, pressroom.ReviewInput{
		Title:    c.Title,
		Content:  string(data),
		Language: lang,
	})

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
