// Package gemini implements the AI client port on the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// BackoffConfig tunes the retry schedule around transient API failures.
type BackoffConfig struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// Client talks to the Gemini generative API. One instance is built at
// startup and shared; the underlying client is safe for concurrent use.
type Client struct {
	client  *genai.Client
	model   string
	backoff BackoffConfig
	counter *tokencount.Counter
}

// New builds a Gemini-backed client. The API key must be non-empty; callers
// decide beforehand whether to fall back to a stub.
func New(ctx context.Context, apiKey, model string, bo BackoffConfig) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("op=gemini.New: %w: GEMINI_API_KEY is empty", domain.ErrConfiguration)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("op=gemini.New: %w", err)
	}
	return &Client{
		client:  gc,
		model:   model,
		backoff: bo,
		counter: tokencount.NewCounter(),
	}, nil
}

// Generate sends one prompt and returns the raw model text. Transient
// failures are retried with exponential backoff until MaxElapsedTime; the
// final error wraps ErrUpstreamGeneration so callers can degrade.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	tr := otel.Tracer("adapter.ai.gemini")
	ctx, span := tr.Start(ctx, "gemini.generate")
	span.SetAttributes(attribute.String("ai.model", c.model))
	defer span.End()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoff.InitialInterval
	bo.MaxInterval = c.backoff.MaxInterval
	bo.MaxElapsedTime = c.backoff.MaxElapsedTime
	if c.backoff.Multiplier > 0 {
		bo.Multiplier = c.backoff.Multiplier
	}

	start := time.Now()
	var text string
	err := backoff.Retry(func() error {
		out, callErr := c.generateOnce(ctx, prompt)
		if callErr != nil {
			return callErr
		}
		text = out
		return nil
	}, backoff.WithContext(bo, ctx))
	observability.ObserveAIRequest("generate", time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("op=gemini.Generate: %w: %v", domain.ErrUpstreamGeneration, err)
	}

	usage := c.counter.CalculateUsage(prompt, text, c.model)
	slog.Debug("gemini generation complete",
		slog.String("model", c.model),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)))
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("nil response")
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}
