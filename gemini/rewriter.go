package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/pressroom"
	"google.golang.org/genai"
)

var _ pressroom.Rewriter = (*Rewriter)(nil)

const rewriteInstruction = `You are a news desk editor cleaning up articles extracted from web pages.
Rules:
- Keep the article in its original language. Never translate.
- Remove boilerplate: ads, navigation, recommendation widgets, share prompts, timestamps and tag lists.
- Do not invent facts, quotes or numbers. Only reorganize and tighten what is in the source.
- Keep paragraphs separated by blank lines and subheadings as "## " lines.
- The title must be a single line between 55 and 95 characters.
- The excerpt must be one or two sentences, at most 300 characters.
- qualityScore is an integer from 0 to 100 rating the publishability of your result.
- issues lists short notes about problems you found in the source.
Respond with a single JSON object and nothing else:
{"title": string, "content": string, "excerpt": string, "qualityScore": number, "issues": [string]}`

// Rewriter implements pressroom.Rewriter using Google Gemini.
type Rewriter struct {
	client *genai.Client

	// Model is the Gemini model name.
	Model string
}

// NewRewriter creates a new Rewriter.
func NewRewriter(client *genai.Client, model string) *Rewriter {
	if model == "" {
		model = DefaultModel
	}
	return &Rewriter{client: client, Model: model}
}

// Rewrite asks the model for an edited version of the article and returns
// its raw response.
func (r *Rewriter) Rewrite(ctx context.Context, req pressroom.RewriteRequest) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", pressroom.Errorf(pressroom.EINVALID, "rewrite content required")
	}
	return generate(ctx, r.client, r.Model, BuildRewritePrompt(req), BuildRewriteConfig())
}

// BuildRewriteConfig returns the GenerateContentConfig for rewrite calls.
func BuildRewriteConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: rewriteInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildRewritePrompt builds the user prompt containing the article.
func BuildRewritePrompt(req pressroom.RewriteRequest) string {
	var sb strings.Builder
	sb.WriteString("<article>\n")
	if req.Language != "" {
		fmt.Fprintf(&sb, "<language>%s</language>\n", req.Language)
	}
	fmt.Fprintf(&sb, "<title>%s</title>\n", req.Title)
	if req.Excerpt != "" {
		fmt.Fprintf(&sb, "<excerpt>%s</excerpt>\n", req.Excerpt)
	}
	fmt.Fprintf(&sb, "<content>\n%s\n</content>\n", req.Content)
	sb.WriteString("</article>\n\n")
	sb.WriteString("Return the edited article as JSON.")
	return sb.String()
}
