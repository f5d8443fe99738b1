package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter adapts the Gemini API through google.golang.org/genai.
type GeminiCompleter struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini client for the Gemini API backend. baseURL is
// optional and only used for proxies and tests.
func NewGemini(ctx context.Context, apiKey, modelName, baseURL string) (*GeminiCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, eris.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(baseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(baseURL)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &GeminiCompleter{models: client.Models, model: modelName}, nil
}

// Provider implements Completer.
func (c *GeminiCompleter) Provider() string { return ProviderGemini }

// Model implements Completer.
func (c *GeminiCompleter) Model() string { return c.model }

// Complete implements Completer.
func (c *GeminiCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, model.NewUpstreamError(ProviderGemini, classifyGeminiErr(err))
	}

	out := &Response{Text: resp.Text(), Model: c.model}
	if resp.UsageMetadata != nil {
		out.Usage = model.TokenUsage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// classifyGeminiErr marks rate limits and server errors as transient.
func classifyGeminiErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == 429 || apiErr.Code/100 == 5) {
		return resilience.NewTransientError(err, apiErr.Code)
	}
	return err
}
