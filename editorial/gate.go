// Package editorial implements the quality gate that decides whether an
// article needs an AI rewrite and scores the result.
package editorial

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/pressroom"
	"github.com/fwojciec/pressroom/sanitize"
)

var _ pressroom.Reviewer = (*Gate)(nil)

const (
	emptyBodyIssue   = "article body is empty after cleanup"
	aiFailurePrefix  = "AI review failed: "
	truncationMarker = "\n\n[truncated]"
)

// Gate reviews cleaned articles. It always produces a result: the
// deterministic path runs first and the AI rewrite, when triggered, only
// replaces that result if it succeeds.
type Gate struct {
	// Rewriter is the language model client. Nil disables the AI path,
	// as when no API credential is configured.
	Rewriter pressroom.Rewriter

	// Sanitizer cleans both the submitted body and the model's output.
	Sanitizer pressroom.Sanitizer

	Policy pressroom.TitlePolicy
	Config Config
	Logger *slog.Logger
}

// NewGate creates a Gate with the default title policy and calibration.
// rewriter may be nil.
func NewGate(sanitizer pressroom.Sanitizer, rewriter pressroom.Rewriter) *Gate {
	return &Gate{
		Rewriter:  rewriter,
		Sanitizer: sanitizer,
		Policy:    pressroom.DefaultTitlePolicy(),
		Config:    DefaultConfig(),
		Logger:    slog.New(slog.DiscardHandler),
	}
}

// Review normalizes the title, cleans the body and scores the article,
// invoking the rewriter when the text is noisy or long.
func (g *Gate) Review(ctx context.Context, in pressroom.ReviewInput) *pressroom.ReviewResult {
	title, titleIssues := g.Policy.Normalize(in.Title)

	opts := pressroom.SanitizeOptions{Language: in.Language, Aggressive: true}
	cleaned := g.Sanitizer.Sanitize(in.Content, opts)
	if cleaned == "" {
		return &pressroom.ReviewResult{
			Title:  title,
			Issues: g.capIssues(append(titleIssues, emptyBodyIssue)),
		}
	}

	rawScore := sanitize.Score(in.Content)
	cleanScore := sanitize.Score(cleaned)

	result := &pressroom.ReviewResult{
		Title:        title,
		Content:      cleaned,
		Excerpt:      deriveExcerpt(in.Excerpt, cleaned),
		QualityScore: g.heuristicScore(cleaned, cleanScore),
		Issues:       g.capIssues(titleIssues),
	}

	if !g.needsRewrite(in.Content, cleaned, rawScore, cleanScore) {
		return result
	}

	ai, err := g.rewrite(ctx, in, title, cleaned, result.QualityScore)
	if err != nil {
		g.logger().Warn("AI review failed, using deterministic result",
			"title", title,
			"code", pressroom.ErrorCode(err),
			"error", pressroom.ErrorMessage(err),
		)
		result.Issues = g.capIssues(append(result.Issues, aiFailurePrefix+pressroom.ErrorMessage(err)))
		return result
	}
	return ai
}

// needsRewrite applies the AI trigger: a configured rewriter and either
// noticeable artifacts or a long body.
func (g *Gate) needsRewrite(raw, cleaned string, rawScore, cleanScore int) bool {
	if g.Rewriter == nil {
		return false
	}
	c := g.Config
	return rawScore >= c.ArtifactThreshold ||
		cleanScore >= c.ArtifactThreshold ||
		utf8.RuneCountInString(raw) > c.RawLengthThreshold ||
		utf8.RuneCountInString(cleaned) > c.CleanLengthThreshold
}

// rewrite runs the AI path. The model's output is re-normalized through the
// same title policy and sanitizer as the deterministic path. Errors carry
// the EAIREVIEW code.
func (g *Gate) rewrite(ctx context.Context, in pressroom.ReviewInput, title, cleaned string, heuristic int) (*pressroom.ReviewResult, error) {
	if g.Config.AITimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Config.AITimeout)
		defer cancel()
	}

	raw, err := g.Rewriter.Rewrite(ctx, pressroom.RewriteRequest{
		Title:    title,
		Excerpt:  in.Excerpt,
		Content:  capContent(cleaned, g.Config.MaxAIContentLength),
		Language: in.Language,
	})
	if err != nil {
		err = pressroom.ClassifyError(err, "rewrite")
		return nil, pressroom.Errorf(pressroom.EAIREVIEW, "%s", pressroom.ErrorMessage(err))
	}

	resp := parseResponse(raw)
	content := g.Sanitizer.Sanitize(resp.Content, pressroom.SanitizeOptions{Language: in.Language, Aggressive: true})
	if content == "" {
		return nil, pressroom.Errorf(pressroom.EAIREVIEW, "model returned no usable content")
	}

	aiTitle := resp.Title
	if strings.TrimSpace(aiTitle) == "" {
		aiTitle = title
	}
	aiTitle, titleIssues := g.Policy.Normalize(aiTitle)

	score, ok := resp.score()
	if !ok {
		score = heuristic
	}
	score = clamp(score, 0, 100)
	score -= min(g.Config.TitleIssuePenalty*len(titleIssues), g.Config.MaxTitlePenalty)

	issues := append(titleIssues, resp.Issues...)
	return &pressroom.ReviewResult{
		Title:        aiTitle,
		Content:      content,
		Excerpt:      deriveExcerpt(resp.Excerpt, content),
		QualityScore: clamp(score, 0, 100),
		Issues:       g.capIssues(issues),
		UsedAI:       true,
	}, nil
}

// heuristicScore rates a cleaned body by structure and length, penalized by
// its remaining artifact score.
func (g *Gate) heuristicScore(cleaned string, artifactScore int) int {
	c := g.Config
	paragraphs := sanitize.SplitParagraphs(cleaned)
	score := c.BaseScore
	score += min(len(paragraphs)*c.StructurePerPara, c.MaxStructureBonus)
	if c.LengthUnit > 0 {
		score += min(utf8.RuneCountInString(cleaned)/c.LengthUnit, c.MaxLengthBonus)
	}
	score -= min(artifactScore*c.ArtifactPenalty, c.MaxArtifactPenalty)
	return clamp(score, c.MinScore, c.MaxScore)
}

// capIssues removes blank and case-insensitive duplicate issues and keeps
// at most Config.MaxIssues.
func (g *Gate) capIssues(issues []string) []string {
	seen := make(map[string]bool, len(issues))
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		issue = strings.TrimSpace(issue)
		key := strings.ToLower(issue)
		if issue == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
		if g.Config.MaxIssues > 0 && len(out) == g.Config.MaxIssues {
			break
		}
	}
	return out
}

func (g *Gate) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}

// capContent truncates s to limit characters and appends a visible marker.
func capContent(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit])) + truncationMarker
}

// deriveExcerpt returns the cleaned excerpt, or the first body paragraph
// when it is blank.
func deriveExcerpt(excerpt, content string) string {
	excerpt = strings.Join(strings.Fields(excerpt), " ")
	if excerpt == "" {
		for _, p := range sanitize.SplitParagraphs(content) {
			if !sanitize.IsHeading(p) && !strings.HasPrefix(p, "<!--") {
				excerpt = strings.Join(strings.Fields(p), " ")
				break
			}
		}
	}
	return pressroom.TruncateExcerpt(excerpt)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
