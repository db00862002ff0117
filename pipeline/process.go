package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/pressroom"
	"github.com/google/uuid"
)

// draft is the article assembled while a job moves through its stages.
type draft struct {
	title       string
	content     string
	excerpt     string
	language    string
	category    pressroom.Category
	image       string
	author      string
	publishedAt string
	issues      []string
	variants    map[string]pressroom.ArticleVariant

	qualityScore int
	usedAI       bool
}

// run drives one job to a terminal state.
func (o *Orchestrator) run(ctx context.Context, job *pressroom.Job, sub pressroom.Submission) {
	defer o.wg.Done()
	defer o.release(job.ID)

	if o.sem != nil {
		if err := o.sem.Acquire(ctx, 1); err != nil {
			o.fail(ctx, job.ID, err)
			return
		}
		defer o.sem.Release(1)
	}

	ctx, cancel := context.WithTimeoutCause(ctx, o.config.JobTimeout, errJobTimeout)
	defer cancel()

	begin := time.Now()
	article, err := o.process(ctx, job, sub)
	if err != nil {
		o.fail(ctx, job.ID, err)
		return
	}
	if o.update(job.ID, func(j *pressroom.Job) {
		j.Status = pressroom.JobReady
		j.Progress = progressReady
		j.EndTime = time.Now()
		j.Article = article
	}) {
		o.logger.Info("job ready", "job", job.ID, "title", article.Title, "score", article.QualityScore, "ai", article.UsedAI, "duration", time.Since(begin))
	}
}

// process runs the stages in order. Each stage completes before the next
// starts.
func (o *Orchestrator) process(ctx context.Context, job *pressroom.Job, sub pressroom.Submission) (*pressroom.Article, error) {
	o.advance(job.ID, pressroom.JobParsing, progressParsing)

	var d *draft
	var err error
	if job.IsText() {
		d, err = o.parseText(sub)
	} else {
		d, err = o.parseURL(ctx, job)
	}
	if err != nil {
		return nil, err
	}
	if job.Category.Valid() {
		d.category = job.Category
	}
	o.setProgress(job.ID, progressExtracted)

	o.advance(job.ID, pressroom.JobAIProcessing, progressReviewing)
	if err := o.review(ctx, d); err != nil {
		return nil, err
	}
	o.setProgress(job.ID, progressReviewed)

	o.advance(job.ID, pressroom.JobTranslating, progressTranslating)
	if err := o.translate(ctx, job.ID, d); err != nil {
		return nil, err
	}

	o.advance(job.ID, pressroom.JobImages, progressImages)
	if err := o.findImage(ctx, d); err != nil {
		return nil, err
	}

	article := o.assemble(job, d)
	if o.services.Writer != nil {
		if err := o.services.Writer.CreateArticle(ctx, article); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			o.logger.Warn("article handoff failed", "job", job.ID, "error", err)
			article.Issues = append(article.Issues, "article handoff failed: "+pressroom.ErrorMessage(err))
		}
	}
	return article, ctx.Err()
}

func (o *Orchestrator) parseURL(ctx context.Context, job *pressroom.Job) (*draft, error) {
	if o.services.Extractor == nil {
		return nil, pressroom.Errorf(pressroom.EINTERNAL, "no extractor configured")
	}
	content, err := o.services.Extractor.Extract(ctx, job.URL, o.config.ParsingOptions)
	if err != nil {
		return nil, err
	}
	return &draft{
		title:       content.Title,
		content:     content.Content,
		excerpt:     content.Excerpt,
		language:    content.Language,
		category:    content.Category,
		image:       content.Image,
		author:      content.Author,
		publishedAt: content.PublishedAt,
	}, nil
}

// parseText cleans a raw text submission. Text has no fetch stage, so it
// goes straight to the sanitizer.
func (o *Orchestrator) parseText(sub pressroom.Submission) (*draft, error) {
	if o.services.Sanitizer == nil {
		return nil, pressroom.Errorf(pressroom.EINTERNAL, "no sanitizer configured")
	}
	language := pressroom.DetectLanguage(sub.Title + "\n" + sub.Content)
	content := o.services.Sanitizer.Sanitize(sub.Content, pressroom.SanitizeOptions{Language: language})
	if content == "" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "submitted content has no usable text")
	}
	return &draft{
		title:    sub.Title,
		content:  content,
		language: language,
		category: pressroom.CategoryTech,
	}, nil
}

// review passes the draft through the editorial gate. The gate absorbs its
// own failures, so only cancellation and an empty result stop the job.
func (o *Orchestrator) review(ctx context.Context, d *draft) error {
	if o.services.Reviewer == nil {
		return pressroom.Errorf(pressroom.EINTERNAL, "no reviewer configured")
	}
	result := o.services.Reviewer.Review(ctx, pressroom.ReviewInput{
		Title:    d.title,
		Content:  d.content,
		Excerpt:  d.excerpt,
		Language: d.language,
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	if result == nil || strings.TrimSpace(result.Content) == "" {
		return pressroom.Errorf(pressroom.EINVALID, "article body is empty after cleanup")
	}
	d.title = result.Title
	d.content = result.Content
	d.excerpt = result.Excerpt
	d.qualityScore = result.QualityScore
	d.issues = append(d.issues, result.Issues...)
	d.usedAI = result.UsedAI
	d.variants = map[string]pressroom.ArticleVariant{
		d.language: {Title: d.title, Content: d.content, Excerpt: d.excerpt},
	}
	return nil
}

// translate adds a variant for every target language other than the
// article's own. A failed translation is recorded as an issue and skipped.
func (o *Orchestrator) translate(ctx context.Context, id string, d *draft) error {
	targets := o.targetLanguages(d.language)
	if o.services.Translator == nil || len(targets) == 0 {
		return nil
	}
	for i, lang := range targets {
		variant, err := o.translateVariant(ctx, d, lang)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.logger.Warn("translation failed", "job", id, "language", lang, "error", err)
			d.issues = append(d.issues, fmt.Sprintf("translation to %s failed: %s", lang, pressroom.ErrorMessage(err)))
		} else {
			d.variants[lang] = variant
		}
		o.setProgress(id, progressTranslating+(i+1)*(progressTranslated-progressTranslating)/len(targets))
	}
	return nil
}

func (o *Orchestrator) translateVariant(ctx context.Context, d *draft, lang string) (pressroom.ArticleVariant, error) {
	var v pressroom.ArticleVariant
	var err error
	if v.Title, err = o.services.Translator.Translate(ctx, d.title, lang); err != nil {
		return v, err
	}
	if v.Content, err = o.services.Translator.Translate(ctx, d.content, lang); err != nil {
		return v, err
	}
	if v.Excerpt, err = o.services.Translator.Translate(ctx, d.excerpt, lang); err != nil {
		return v, err
	}
	return v, nil
}

func (o *Orchestrator) targetLanguages(source string) []string {
	seen := map[string]bool{source: true}
	var out []string
	for _, tag := range o.config.TargetLanguages {
		lang := pressroom.NormalizeLanguage(tag)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out
}

// findImage asks the image collaborator for a lead image. The extracted
// image is kept when none is configured or the lookup fails.
func (o *Orchestrator) findImage(ctx context.Context, d *draft) error {
	if o.services.Images == nil {
		return nil
	}
	image, err := o.services.Images.FindImage(ctx, pressroom.ImageQuery{
		Title:    d.title,
		Category: d.category,
		Excerpt:  d.excerpt,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.issues = append(d.issues, "image lookup failed: "+pressroom.ErrorMessage(err))
		return nil
	}
	if image != "" {
		d.image = image
	}
	return nil
}

func (o *Orchestrator) assemble(job *pressroom.Job, d *draft) *pressroom.Article {
	sourceURL := job.URL
	if job.IsText() {
		// The text pseudo-URL identifies the job, not an origin.
		sourceURL = ""
		if len(job.SourceURLs) > 0 && !strings.HasPrefix(job.SourceURLs[0], pressroom.TextURLScheme) {
			sourceURL = job.SourceURLs[0]
		}
	}
	return &pressroom.Article{
		ID:           uuid.NewString(),
		JobID:        job.ID,
		SourceURL:    sourceURL,
		Title:        d.title,
		Content:      d.content,
		Excerpt:      d.excerpt,
		Category:     d.category,
		ContentStyle: job.ContentStyle,
		Language:     d.language,
		Image:        d.image,
		Author:       d.author,
		PublishedAt:  d.publishedAt,
		QualityScore: d.qualityScore,
		Issues:       d.issues,
		UsedAI:       d.usedAI,
		Variants:     d.variants,
		CreatedAt:    time.Now().UTC(),
	}
}

// fail records err on the job. When the job's context has ended, the
// cancellation cause replaces err so that timeouts and user aborts are
// reported as such rather than as whatever the interrupted stage returned.
func (o *Orchestrator) fail(ctx context.Context, id string, err error) {
	switch context.Cause(ctx) {
	case errJobTimeout:
		err = pressroom.Errorf(pressroom.ETIMEOUT, "job exceeded %s", o.config.JobTimeout)
	case errJobCanceled, errJobRemoved:
		err = pressroom.Errorf(pressroom.ECANCELED, "job canceled by user")
	case errShutdown:
		err = pressroom.Errorf(pressroom.ECANCELED, "job aborted by shutdown")
	default:
		err = pressroom.ClassifyError(err, "job")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	cur, ok := o.jobs[id]
	if !ok || cur.Status.Terminal() {
		return
	}
	o.storeFailure(cur, err)
	o.logger.Warn("job failed", "job", id, "code", pressroom.ErrorCode(err), "error", pressroom.ErrorMessage(err))
}

// release drops the job's cancel function once its goroutine exits.
func (o *Orchestrator) release(id string) {
	o.mu.Lock()
	cancel := o.cancels[id]
	delete(o.cancels, id)
	o.mu.Unlock()
	if cancel != nil {
		cancel(nil)
	}
}
