package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/fs"
	"github.com/fwojciec/pressroom/pipeline"
	psslog "github.com/fwojciec/pressroom/slog"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	sub := pressroom.Submission{
		URL:          c.URL,
		Title:        c.Title,
		Category:     pressroom.Category(c.Category),
		ContentStyle: pressroom.ContentStyle(c.Style),
		SourceURLs:   c.SourceURLs,
	}
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		sub.Content = string(data)
		sub.SourceText = sub.Content
	}
	if err := sub.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	if len(c.Lang) > 0 && deps.Translator == nil {
		fmt.Fprintln(deps.Stderr, "warning: GEMINI_API_KEY not set, skipping translation")
	}

	writers := multiWriter{deps.Articles}
	if c.Out != "" {
		writers = append(writers, fs.NewWriter(c.Out))
	}

	config := pipeline.DefaultConfig()
	config.JobTimeout = c.Timeout
	config.TargetLanguages = c.Lang
	config.ParsingOptions.AllowReaderFallback = !c.NoReader

	orch := pipeline.NewOrchestrator(pipeline.Services{
		Extractor:  deps.Extractor,
		Sanitizer:  deps.Sanitizer,
		Reviewer:   deps.Reviewer,
		Translator: deps.Translator,
		Writer:     psslog.NewLoggingArticleWriter(writers, deps.Logger),
		Logger:     deps.Logger,
	}, config)
	defer orch.Close()

	events, unsubscribe := orch.Subscribe(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printEvents(deps, events)
	}()

	id, err := orch.Submit(sub)
	if err != nil {
		unsubscribe()
		wg.Wait()
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	job, err := orch.Wait(deps.Ctx, id)
	unsubscribe()
	wg.Wait()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pressroom.ErrorMessage(err))
		return err
	}

	if job.Status != pressroom.JobReady {
		fmt.Fprintf(deps.Stderr, "error: %s\n", job.Error)
		return pressroom.Errorf(job.ErrorCode, "job %s failed: %s", id, job.Error)
	}

	a := job.Article
	fmt.Fprintf(deps.Stdout, "Stored article %s\n", a.ID)
	fmt.Fprintf(deps.Stdout, "Title:    %s\n", a.Title)
	fmt.Fprintf(deps.Stdout, "Language: %s\n", a.Language)
	fmt.Fprintf(deps.Stdout, "Quality:  %d%s\n", a.QualityScore, aiMarker(a.UsedAI))
	for _, issue := range a.Issues {
		fmt.Fprintf(deps.Stdout, "  - %s\n", issue)
	}
	return nil
}

// printEvents prints a line for each status change until events is closed.
func printEvents(deps *Dependencies, events <-chan pressroom.JobEvent) {
	var last pressroom.JobStatus
	for ev := range events {
		if ev.Type != pressroom.JobUpdated || ev.Job.Status == last {
			continue
		}
		last = ev.Job.Status
		fmt.Fprintf(deps.Stderr, "[%3d%%] %s\n", ev.Job.Progress, ev.Job.Status)
	}
}

func aiMarker(usedAI bool) string {
	if usedAI {
		return " (AI reviewed)"
	}
	return ""
}

// multiWriter hands an article to every writer in order, stopping at the
// first failure.
type multiWriter []pressroom.ArticleWriter

func (w multiWriter) CreateArticle(ctx context.Context, a *pressroom.Article) error {
	for _, next := range w {
		if err := next.CreateArticle(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
