package llm

import (
	"context"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/openai"
)

// OpenAICompleter adapts the OpenAI Responses API.
type OpenAICompleter struct {
	client openai.Client
	model  string
	effort string
}

// NewOpenAI creates a Completer for the given model. An empty effort leaves
// reasoning at the provider default.
func NewOpenAI(client openai.Client, modelName, effort string) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: modelName, effort: effort}
}

// Provider implements Completer.
func (c *OpenAICompleter) Provider() string { return ProviderOpenAI }

// Model implements Completer.
func (c *OpenAICompleter) Model() string { return c.model }

// Complete implements Completer. Temperature is ignored; reasoning models reject it.
func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	rr := openai.ResponseRequest{
		Model:        c.model,
		Instructions: req.System,
		Input:        req.Prompt,
	}
	if c.effort != "" {
		rr.Reasoning = &openai.Reasoning{Effort: c.effort}
	}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		rr.MaxOutputTokens = &n
	}

	resp, err := c.client.CreateResponse(ctx, rr)
	if err != nil {
		return nil, model.NewUpstreamError(ProviderOpenAI, err)
	}
	return &Response{
		Text:  resp.OutputText(),
		Model: c.model,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}
