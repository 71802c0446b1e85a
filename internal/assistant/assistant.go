// Package assistant writes figure descriptions with Gemini.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/wikistars5/wikistars5/internal/config"
	"github.com/wikistars5/wikistars5/internal/scraper"
)

var ErrEmptyResponse = errors.New("assistant returned no text")

const (
	maxSourceRunes  = 4000
	maxOutputTokens = 400
)

const systemPrompt = `You write short, neutral encyclopedia-style descriptions of public figures for a rating site.
Write two to four sentences in English. Use only the facts provided. Do not give opinions, do not use superlatives, do not mention the source.
Return plain text without markdown.`

// generateFunc sends a prompt and returns the model's text.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Writer produces descriptions. A Writer without an API key is disabled and
// returns the scraped description unchanged.
type Writer struct {
	model    string
	generate generateFunc
	logger   zerolog.Logger
}

// New creates a Writer. An empty API key yields a disabled Writer.
func New(ctx context.Context, cfg config.AssistantConfig, logger zerolog.Logger) (*Writer, error) {
	w := &Writer{
		model:  cfg.Model,
		logger: logger.With().Str("component", "assistant").Logger(),
	}
	if cfg.APIKey == "" {
		return w, nil
	}
	if w.model == "" {
		w.model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	w.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, w.model, genai.Text(prompt), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.3),
			MaxOutputTokens:   maxOutputTokens,
		})
		if err != nil {
			return "", fmt.Errorf("GenAI generate failed: %w", err)
		}
		return resp.Text(), nil
	}
	return w, nil
}

// Enabled reports whether descriptions are generated.
func (w *Writer) Enabled() bool {
	return w != nil && w.generate != nil
}

// Describe returns a generated description for the draft. When disabled, it
// returns the draft's own description.
func (w *Writer) Describe(ctx context.Context, draft *scraper.Draft) (string, error) {
	if !w.Enabled() {
		return draft.Figure.Description, nil
	}

	text, err := w.generate(ctx, BuildPrompt(draft))
	if err != nil {
		return draft.Figure.Description, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return draft.Figure.Description, ErrEmptyResponse
	}

	w.logger.Debug().Str("name", draft.Figure.Name).Str("model", w.model).Int("chars", len(text)).Msg("Generated description")
	return text, nil
}

// BuildPrompt lists the draft's facts for the model.
func BuildPrompt(draft *scraper.Draft) string {
	f := draft.Figure
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", f.Name)
	for _, kv := range [][2]string{
		{"Occupation", f.Occupation},
		{"Nationality", f.Nationality},
		{"Birth date", f.BirthDate},
		{"Birthplace", draft.Facts["birthPlace"]},
		{"Known as", draft.Facts["shortDescription"]},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	if src := truncateRunes(strings.TrimSpace(f.Description), maxSourceRunes); src != "" {
		fmt.Fprintf(&b, "\nSource text:\n%s\n", src)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
