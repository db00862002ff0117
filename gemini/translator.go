package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/pressroom"
	"google.golang.org/genai"
)

var _ pressroom.Translator = (*Translator)(nil)

// languageNames maps supported ISO 639-1 codes to the names used in prompts.
var languageNames = map[string]string{
	"en": "English",
	"ru": "Russian",
	"pl": "Polish",
	"uk": "Ukrainian",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
}

// Translator implements pressroom.Translator using Google Gemini.
type Translator struct {
	client *genai.Client
	Model  string
}

// NewTranslator creates a new Translator.
func NewTranslator(client *genai.Client, model string) *Translator {
	if model == "" {
		model = DefaultModel
	}
	return &Translator{client: client, Model: model}
}

// Translate returns text translated into targetLanguage. Markdown structure
// is preserved. Empty text is returned unchanged without a model call.
func (t *Translator) Translate(ctx context.Context, text string, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	code := pressroom.NormalizeLanguage(targetLanguage)
	name, ok := languageNames[code]
	if !ok {
		return "", pressroom.Errorf(pressroom.EINVALID, "unsupported target language %q", targetLanguage)
	}

	out, err := generate(ctx, t.client, t.Model, text, BuildTranslateConfig(name))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", pressroom.Errorf(pressroom.EINTERNAL, "empty translation into %s", name)
	}
	return out, nil
}

// BuildTranslateConfig returns the GenerateContentConfig for translating
// into the named language.
func BuildTranslateConfig(language string) *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("Translate the user's text into %s. Preserve markdown headings, paragraph breaks and proper names. Do not add commentary. Respond with the translation only.", language),
			}},
		},
		Temperature: &temp,
	}
}
