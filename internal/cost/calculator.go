// Package cost estimates language-model spend from token usage.
package cost

import (
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model ids to their pricing.
type Rates map[string]ModelRate

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// rate looks a model up exactly, then by the longest known prefix so dated
// snapshots ("gpt-5-mini-2025-08-07") price like their base model.
func (c *Calculator) rate(modelID string) (ModelRate, bool) {
	if r, ok := c.rates[modelID]; ok {
		return r, true
	}
	best := ""
	for id := range c.rates {
		if strings.HasPrefix(modelID, id) && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return ModelRate{}, false
	}
	return c.rates[best], true
}

// Known reports whether modelID has a price.
func (c *Calculator) Known(modelID string) bool {
	_, ok := c.rate(modelID)
	return ok
}

// Tokens computes the cost of one call. Unknown models cost 0.
func (c *Calculator) Tokens(modelID string, input, output int) float64 {
	r, ok := c.rate(modelID)
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*r.Input + (float64(output)/1e6)*r.Output
}

// Usage computes the cost of u for modelID.
func (c *Calculator) Usage(modelID string, u model.TokenUsage) float64 {
	return c.Tokens(modelID, u.InputTokens, u.OutputTokens)
}

// DefaultRates returns the default pricing rates for the models the
// pipeline is configured with out of the box and their usual alternates.
func DefaultRates() Rates {
	return Rates{
		// Anthropic
		"claude-haiku-4-5-20251001":  {Input: 1.00, Output: 5.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
		// OpenAI
		"gpt-5":      {Input: 1.25, Output: 10.00},
		"gpt-5-mini": {Input: 0.25, Output: 2.00},
		// Groq
		"llama-3.3-70b-versatile": {Input: 0.59, Output: 0.79},
		"openai/gpt-oss-120b":     {Input: 0.15, Output: 0.75},
		// Gemini
		"gemini-2.5-flash": {Input: 0.30, Output: 2.50},
		"gemini-2.5-pro":   {Input: 1.25, Output: 10.00},
	}
}
