package advisor

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/DrSkyle/hdfslash/pkg/config"
)

// ErrEmptyResponse means the model returned no candidates.
var ErrEmptyResponse = errors.New("advisor: empty model response")

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

// NewGeminiClient builds the Gemini generator from cfg. The API key falls
// through to the GEMINI_API_KEY environment variable when unset.
func NewGeminiClient(ctx context.Context, cfg config.AdvisorConfig) (*GeminiClient, error) {
	if cfg.Provider != "gemini" {
		return nil, fmt.Errorf("advisor: unsupported provider %q", cfg.Provider)
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: init gemini client: %w", err)
	}
	return &GeminiClient{
		cli:         cli,
		model:       cfg.Model,
		maxTokens:   int32(cfg.MaxTokens),
		temperature: float32(cfg.Temperature),
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// GenerateJSON sends the prompt and requests application/json back.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			MaxOutputTokens:  g.maxTokens,
			Temperature:      genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
