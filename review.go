package pressroom

import "context"

// ReviewInput is a cleaned document submitted to the editorial quality gate.
type ReviewInput struct {
	Title    string
	Content  string
	Excerpt  string
	Language string
}

// ReviewResult is the normalized output of an editorial review.
type ReviewResult struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Excerpt      string   `json:"excerpt"`
	QualityScore int      `json:"qualityScore"`
	Issues       []string `json:"issues"`
	UsedAI       bool     `json:"usedAI"`
}

// Reviewer decides whether a document needs rewriting and returns a
// normalized result. Implementations never fail: internal errors degrade to
// a deterministic result with an issue describing what went wrong.
type Reviewer interface {
	Review(ctx context.Context, in ReviewInput) *ReviewResult
}

// RewriteRequest is the payload sent to a language model for an editorial
// rewrite. Content is already length-capped by the caller.
type RewriteRequest struct {
	Title    string
	Excerpt  string
	Content  string
	Language string
}

// Rewriter sends a rewrite request to a language model and returns the raw
// model output, which is expected (but not guaranteed) to be a JSON object
// with title, content, excerpt, qualityScore and issues fields.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) (string, error)
}

// SanitizeOptions configures a sanitizer pass.
type SanitizeOptions struct {
	// Language is the ISO 639-1 code of the text.
	Language string

	// Aggressive enables paragraph deduplication.
	Aggressive bool

	// DropMarker discards the leading metadata marker instead of
	// preserving it.
	DropMarker bool
}

// Sanitizer removes parser noise from extracted or submitted text.
// Sanitize never fails; it returns an empty string only when nothing
// meaningful remains.
type Sanitizer interface {
	Sanitize(text string, opts SanitizeOptions) string
}
