package ai

import (
	"fmt"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// Unconfigured is the AI client wired when no provider credentials are set
// and the stub was not opted into. Every call fails with a configuration
// error so generation endpoints answer 500 with an actionable message
// instead of silently degrading.
type Unconfigured struct{}

// NewUnconfigured constructs the failing placeholder client.
func NewUnconfigured() *Unconfigured { return &Unconfigured{} }

// Generate always fails; the wrapped sentinel maps to the CONFIGURATION
// error envelope.
func (*Unconfigured) Generate(_ domain.Context, _ string) (string, error) {
	return "", fmt.Errorf("op=ai.Generate: %w: GEMINI_API_KEY is not set; set it or run with AI_PROVIDER=stub", domain.ErrConfiguration)
}
