// Package llm wraps the hosted text-generation model behind a small interface.
package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Generator produces free-form text for a prompt. Implementations must treat
// the prompt as opaque and surface any transport, auth or quota failure as a
// single error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds Gemini client settings. The API key is validated at
// construction so a missing credential surfaces once, at startup.
type Config struct {
	APIKey        string
	Model         string
	FallbackModel string
}

// GeminiClient calls the Gemini API, falling back to a secondary model once
// when the primary fails.
type GeminiClient struct {
	model         string
	fallbackModel string
	stats         *Stats
	call          func(ctx context.Context, model, prompt string) (string, error)
}

// NewGeminiClient creates a Gemini-backed Generator.
func NewGeminiClient(ctx context.Context, cfg Config, stats *Stats) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{
		model:         cfg.Model,
		fallbackModel: cfg.FallbackModel,
		stats:         stats,
		call: func(ctx context.Context, model, prompt string) (string, error) {
			return generateContent(ctx, client, model, prompt)
		},
	}, nil
}

// Generate sends the prompt to the primary model, then the fallback model
// once. Only the first success or the final failure reaches the caller.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.generateWith(ctx, c.model, prompt)
	if err != nil && c.fallbackModel != "" && c.fallbackModel != c.model {
		text, err = c.generateWith(ctx, c.fallbackModel, prompt)
	}
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return text, nil
}

// generateWith runs one model attempt. Latency is recorded per attempt and
// only on success, so the stats window reflects model response times rather
// than failure round trips.
func (c *GeminiClient) generateWith(ctx context.Context, model, prompt string) (string, error) {
	start := time.Now()
	text, err := c.call(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	if c.stats != nil {
		c.stats.Record(time.Since(start).Milliseconds())
	}
	return text, nil
}

func generateContent(ctx context.Context, client *genai.Client, model, prompt string) (string, error) {
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model %s: empty response", model)
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result += part.Text
		}
	}
	if result == "" {
		return "", fmt.Errorf("model %s: no text in response", model)
	}
	return result, nil
}

// Model returns the primary model name.
func (c *GeminiClient) Model() string { return c.model }
