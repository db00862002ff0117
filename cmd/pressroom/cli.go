package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pressroom"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Articles   pressroom.ArticleService
	Extractor  pressroom.ContentExtractor
	Sanitizer  pressroom.Sanitizer
	Reviewer   pressroom.Reviewer
	Translator pressroom.Translator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool    `short:"v" help:"Log pipeline activity to stderr"`
	Model     string  `env:"PRESSROOM_MODEL" default:"gemini-2.5-flash" help:"Gemini model used for rewrites and translations"`
	ReaderURL string  `env:"PRESSROOM_READER_URL" help:"Base URL of the remote reader service"`
	ReaderKey string  `env:"PRESSROOM_READER_KEY" help:"API key for the remote reader service"`
	RateLimit float64 `default:"1" help:"Requests per second allowed to each host"`

	Extract  ExtractCmd  `cmd:"" help:"Extract an article from a URL without storing it"`
	Ingest   IngestCmd   `cmd:"" help:"Run a URL or text through the pipeline and store the article"`
	Review   ReviewCmd   `cmd:"" help:"Run the editorial quality gate on a text file"`
	Articles ArticlesCmd `cmd:"" help:"List stored articles"`
	Show     ShowCmd     `cmd:"" help:"Show a stored article"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a stored article"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL      string        `arg:"" help:"Article URL"`
	Timeout  time.Duration `default:"20s" help:"Timeout for the static extraction attempt"`
	NoReader bool          `help:"Do not fall back to the remote reader"`
	NoImages bool          `help:"Drop the lead image"`
	JSON     bool          `help:"Print the result as JSON"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL        string        `arg:"" optional:"" help:"Article URL"`
	File       string        `short:"f" help:"Read article text from a file instead of a URL"`
	Title      string        `short:"t" help:"Title for a text submission"`
	Category   string        `short:"c" help:"Override the inferred category (ai, apple, games, tech)"`
	Style      string        `enum:"news,review,explainer,opinion" default:"news" help:"Editorial style tag"`
	Lang       []string      `short:"l" name:"lang" help:"Translate into this language (repeatable)"`
	SourceURLs []string      `name:"source-url" help:"Source URL credited by a text submission (repeatable)"`
	Out        string        `short:"o" help:"Also write markdown files to this directory"`
	Timeout    time.Duration `default:"180s" help:"Timeout for the whole job"`
	NoReader   bool          `help:"Do not fall back to the remote reader"`
}

// ReviewCmd is the "review" subcommand.
type ReviewCmd struct {
	File     string `arg:"" help:"Text or markdown file to review"`
	Title    string `short:"t" help:"Article title"`
	Language string `help:"Language code; detected from the text when empty"`
}

// ArticlesCmd is the "articles" subcommand.
type ArticlesCmd struct {
	Category string `help:"Only articles in this category"`
	Lang     string `help:"Only articles in this language"`
	Limit    int    `default:"20" help:"Maximum number of articles"`
	Offset   int    `help:"Number of articles to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Article ID"`
	Lang string `help:"Show this language variant"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Article ID"`
	Force bool   `help:"Confirm deletion"`
}
