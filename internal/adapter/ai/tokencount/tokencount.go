// Package tokencount provides token counting for LLM API calls.
//
// It uses tiktoken-go to estimate prompt and completion sizes. Gemini does
// not publish a tiktoken vocabulary, so counts are approximations good
// enough for logging and metrics, not for billing.
package tokencount

import (
	"sync"

	"log/slog"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Usage represents token counts for one model call.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

// Counter provides thread-safe token counting.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{}
}

// encoding lazily loads the cl100k_base vocabulary, the closest widely
// available approximation for current chat models.
func (c *Counter) encoding() *tiktoken.Tiktoken {
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Warn("token encoding unavailable, falling back to length estimate",
				slog.Any("error", err))
			return
		}
		c.enc = enc
	})
	return c.enc
}

// CountTokens counts the tokens in text, estimating ~4 chars per token when
// the encoding cannot be loaded.
func (c *Counter) CountTokens(text string) int {
	if enc := c.encoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return len(text) / 4
}

// CalculateUsage computes usage for a prompt/completion pair.
func (c *Counter) CalculateUsage(prompt, completion, model string) Usage {
	p := c.CountTokens(prompt)
	out := c.CountTokens(completion)
	return Usage{
		PromptTokens:     p,
		CompletionTokens: out,
		TotalTokens:      p + out,
		Model:            model,
	}
}
