package suggest

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/domain/apperr"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator sends prompts to Gemini through its OpenAI-compatible chat endpoint
// and asks for a JSON object response. Each Generate is a single HTTP request.
type LLMGenerator struct {
	model llms.Model
}

// NewLLMGenerator creates a generator from the AI configuration.
// Without an API key every Generate fails with an upstream error.
// Timeouts come from the caller's context.
func NewLLMGenerator(cfg config.AIConfig, httpClient *http.Client) (*LLMGenerator, error) {
	if cfg.APIKey == "" {
		return &LLMGenerator{}, nil
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient),
		openai.WithResponseFormat(openai.ResponseFormatJSON),
	)
	if err != nil {
		return nil, err
	}
	return &LLMGenerator{model: model}, nil
}

// Generate returns the text of the first choice.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.model == nil {
		return "", apperr.Upstream("generation API key not configured")
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return "", apperr.Upstream("generation request failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.Upstream("generation API returned an empty response")
	}
	return text, nil
}
