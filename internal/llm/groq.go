package llm

import (
	"context"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/groq"
)

// GroqCompleter adapts Groq chat completions.
type GroqCompleter struct {
	client groq.Client
	model  string
}

// NewGroq creates a Completer for the given Groq-hosted model.
func NewGroq(client groq.Client, modelName string) *GroqCompleter {
	return &GroqCompleter{client: client, model: modelName}
}

// Provider implements Completer.
func (c *GroqCompleter) Provider() string { return ProviderGroq }

// Model implements Completer.
func (c *GroqCompleter) Model() string { return c.model }

// Complete implements Completer.
func (c *GroqCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	msgs := make([]groq.Message, 0, 2)
	if req.System != "" {
		msgs = append(msgs, groq.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, groq.Message{Role: "user", Content: req.Prompt})

	cr := groq.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		cr.MaxTokens = &n
	}
	if req.JSON {
		cr.ResponseFormat = &groq.ResponseFormat{Type: "json_object"}
	}

	resp, err := c.client.ChatCompletion(ctx, cr)
	if err != nil {
		return nil, model.NewUpstreamError(ProviderGroq, err)
	}
	return &Response{
		Text:  resp.Text(),
		Model: c.model,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
