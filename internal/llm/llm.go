// Package llm adapts the language-model providers to one completion interface.
package llm

import (
	"context"

	"github.com/sells-group/leadscout/internal/model"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Request is a single-turn completion request.
type Request struct {
	// Stage labels the call in cost logs.
	Stage       string
	System      string
	Prompt      string
	Temperature *float64
	MaxTokens   int
	// JSON asks the provider for a JSON object when it supports a response format.
	JSON bool
}

// Response is the text a provider returned.
type Response struct {
	Text  string
	Model string
	Usage model.TokenUsage
}

// Completer runs single-turn completions against one provider and model.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Provider() string
	Model() string
}

// Temp returns a pointer to t for Request.Temperature.
func Temp(t float64) *float64 { return &t }
