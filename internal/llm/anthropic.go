package llm

import (
	"context"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/anthropic"
)

const defaultAnthropicMaxTokens = 2048

// AnthropicCompleter adapts the Anthropic Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates a Completer for the given Claude model.
func NewAnthropic(client anthropic.Client, modelName string) *AnthropicCompleter {
	return &AnthropicCompleter{client: client, model: modelName}
}

// Provider implements Completer.
func (c *AnthropicCompleter) Provider() string { return ProviderAnthropic }

// Model implements Completer.
func (c *AnthropicCompleter) Model() string { return c.model }

// Complete implements Completer. The system prompt carries the fixed
// evaluator instructions and is marked cacheable.
func (c *AnthropicCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	mr := anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
	if req.System != "" {
		mr.System = []anthropic.SystemBlock{{Text: req.System, CacheControl: &anthropic.CacheControl{}}}
	}

	resp, err := c.client.CreateMessage(ctx, mr)
	if err != nil {
		return nil, model.NewUpstreamError(ProviderAnthropic, err)
	}

	return &Response{
		Text:  resp.Text(),
		Model: c.model,
		Usage: model.TokenUsage{
			InputTokens:  int(resp.Usage.Prompt()),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}
