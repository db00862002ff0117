package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/editorial"
	"github.com/fwojciec/pressroom/extract"
	"github.com/fwojciec/pressroom/gemini"
	"github.com/fwojciec/pressroom/goquery"
	"github.com/fwojciec/pressroom/htmltomarkdown"
	pshttp "github.com/fwojciec/pressroom/http"
	"github.com/fwojciec/pressroom/jina"
	"github.com/fwojciec/pressroom/readability"
	"github.com/fwojciec/pressroom/sanitize"
	psslog "github.com/fwojciec/pressroom/slog"
	"github.com/fwojciec/pressroom/sqlite"
	"github.com/fwojciec/pressroom/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Gemini API key. An empty key disables AI rewrites and translation.
	GeminiAPIKey string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService pressroom.ArticleService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:       defaultDBPath(),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Job goroutines log to stderr while commands print to it.
	stderr = &syncWriter{w: stderr}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pressroom"),
		kong.Description("Extract, clean and review news articles"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pressroom --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	switch cmd {
	case "ingest", "articles", "show", "delete":
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PRESSROOM_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.ArticleService = sqlite.NewArticleService(m.DB)
		deps.Articles = m.ArticleService
	}

	if cmd == "extract" || cmd == "ingest" {
		fetcher := pshttp.NewFetcher()
		defer fetcher.Close()
		deps.Extractor = newExtractor(cli, fetcher, deps.Logger)
	}

	if cmd == "review" || cmd == "ingest" {
		deps.Sanitizer = sanitize.NewSanitizer()

		var rewriter pressroom.Rewriter
		if m.GeminiAPIKey != "" {
			client, err := gemini.NewClient(ctx, m.GeminiAPIKey)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			rewriter = psslog.NewLoggingRewriter(gemini.NewRewriter(client, cli.Model), deps.Logger)
			deps.Translator = psslog.NewLoggingTranslator(gemini.NewTranslator(client, cli.Model), deps.Logger)
		}

		gate := editorial.NewGate(deps.Sanitizer, rewriter)
		gate.Logger = deps.Logger
		deps.Reviewer = gate
	}

	return kongCtx.Run(deps)
}

// newExtractor wires the static strategies, in preference order, and the
// remote reader fallback.
func newExtractor(cli *CLI, fetcher pressroom.Fetcher, logger *slog.Logger) pressroom.ContentExtractor {
	reader := jina.NewReader(cli.ReaderKey)
	if cli.ReaderURL != "" {
		reader.BaseURL = cli.ReaderURL
	}

	converter := htmltomarkdown.NewConverter()
	e := extract.NewExtractor(
		psslog.NewLoggingFetcher(fetcher, logger),
		psslog.NewLoggingReader(reader, logger),
		goquery.NewExtractor(),
		trafilatura.NewExtractor(converter),
		readability.NewExtractor(converter),
	)
	e.Limiter = extract.NewDomainLimiter(cli.RateLimit, 2)
	return psslog.NewLoggingExtractor(e, logger)
}

// newLogger logs warnings to stderr, and everything down to debug level
// when verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("PRESSROOM_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pressroom.db"
	}
	dir := filepath.Join(home, ".pressroom")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pressroom.db")
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
