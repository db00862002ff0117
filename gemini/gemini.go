// Package gemini implements the editorial rewriter and the translator on
// top of Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/pressroom"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, pressroom.Errorf(pressroom.EINVALID, "Gemini API key required")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// generate sends a single user prompt and returns the model's text.
func generate(ctx context.Context, client *genai.Client, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if client == nil {
		return "", pressroom.Errorf(pressroom.EINVALID, "Gemini client not configured")
	}
	if model == "" {
		model = DefaultModel
	}

	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", pressroom.ClassifyError(err, "Gemini request")
	}
	if result == nil {
		return "", pressroom.Errorf(pressroom.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}
